package memory

import (
	"context"
	"time"

	"github.com/onjuly19th/trading-hub-sub001/internal/repository"
	"github.com/onjuly19th/trading-hub-sub001/models"

	"github.com/pkg/errors"
)

type PriceRepository struct {
	store *Store
}

func NewPriceRepository(store *Store) repository.PriceRepo {
	return &PriceRepository{store: store}
}

// Store keeps the latest price per symbol.
func (r *PriceRepository) Store(_ context.Context, m *models.Price) error {
	r.store.pricesMu.Lock()
	defer r.store.pricesMu.Unlock()

	r.store.priceSeq++

	p := *m
	p.ID = r.store.priceSeq
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	r.store.prices[p.Symbol] = p

	return nil
}

func (r *PriceRepository) GetLast(_ context.Context, symbol string) (*models.Price, error) {
	r.store.pricesMu.RLock()
	defer r.store.pricesMu.RUnlock()

	p, ok := r.store.prices[symbol]
	if !ok {
		return nil, errors.Wrap(models.ErrPriceNotFound, symbol)
	}

	return &p, nil
}
