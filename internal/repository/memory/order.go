package memory

import (
	"context"
	"time"

	"github.com/onjuly19th/trading-hub-sub001/internal/repository"
	"github.com/onjuly19th/trading-hub-sub001/models"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type OrderRepository struct {
	store *Store
}

func NewOrderRepository(store *Store) repository.OrderRepo {
	return &OrderRepository{store: store}
}

func (r *OrderRepository) GetByID(_ context.Context, id string) (*models.Order, error) {
	r.store.ordersMu.RLock()
	defer r.store.ordersMu.RUnlock()

	o, ok := r.store.orders[id]
	if !ok {
		return nil, errors.Wrap(models.ErrOrderNotFound, id)
	}

	return o.Clone(), nil
}

func (r *OrderRepository) GetByUserID(_ context.Context, userID string) ([]models.Order, error) {
	r.store.ordersMu.RLock()
	defer r.store.ordersMu.RUnlock()

	var out []models.Order
	for _, o := range r.store.orders {
		if o.UserID == userID {
			out = append(out, *o.Clone())
		}
	}
	sortOrders(out)

	return out, nil
}

func (r *OrderRepository) FindTriggerable(_ context.Context, symbol string, price decimal.Decimal) ([]models.Order, error) {
	r.store.ordersMu.RLock()
	defer r.store.ordersMu.RUnlock()

	var out []models.Order
	for _, o := range r.store.pending[symbol] {
		if o.Triggers(price) {
			out = append(out, *o.Clone())
		}
	}
	sortOrders(out)

	return out, nil
}

func (r *OrderRepository) GetLastWithInterval(_ context.Context, sTime, eTime time.Time) ([]models.Order, error) {
	r.store.ordersMu.RLock()
	defer r.store.ordersMu.RUnlock()

	var out []models.Order
	for _, o := range r.store.orders {
		if o.CreatedAt.After(sTime) && o.CreatedAt.Before(eTime) {
			out = append(out, *o.Clone())
		}
	}
	sortOrders(out)

	return out, nil
}
