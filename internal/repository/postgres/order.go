package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/onjuly19th/trading-hub-sub001/internal/repository"
	"github.com/onjuly19th/trading-hub-sub001/models"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type OrderRepository struct {
	conn *sqlx.DB
}

func NewOrderRepository(conn *sqlx.DB) repository.OrderRepo {
	return &OrderRepository{
		conn: conn,
	}
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order

	if err := r.conn.QueryRowxContext(ctx, "SELECT * FROM orders WHERE id = $1 LIMIT 1", id).StructScan(&order); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrap(models.ErrOrderNotFound, id)
		}
		return nil, errors.Wrap(err, "select order")
	}

	return &order, nil
}

func (r *OrderRepository) GetByUserID(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order

	if err := r.conn.SelectContext(ctx, &orders, "SELECT * FROM orders WHERE user_id = $1 ORDER BY created_at, id;", userID); err != nil {
		return nil, errors.Wrap(err, "select user orders")
	}

	return orders, nil
}

func (r *OrderRepository) FindTriggerable(ctx context.Context, symbol string, price decimal.Decimal) ([]models.Order, error) {
	var orders []models.Order

	if err := r.conn.SelectContext(ctx, &orders, `SELECT * FROM orders
		WHERE symbol = $1 AND status = $2 AND type = $3
		  AND ((side = $4 AND price >= $6) OR (side = $5 AND price <= $6))
		ORDER BY created_at, id;`,
		symbol,
		models.StatusPending,
		models.TypeLimit,
		models.SideBuy,
		models.SideSell,
		price,
	); err != nil {
		return nil, errors.Wrap(err, "select triggerable orders")
	}

	return orders, nil
}

func (r *OrderRepository) GetLastWithInterval(ctx context.Context, sTime, eTime time.Time) ([]models.Order, error) {
	var orders []models.Order

	if err := r.conn.SelectContext(ctx, &orders, "SELECT * FROM orders WHERE created_at > $1 AND created_at < $2 ORDER BY created_at, id;", sTime.UTC(), eTime.UTC()); err != nil {
		return nil, errors.Wrap(err, "select orders by interval")
	}

	return orders, nil
}
