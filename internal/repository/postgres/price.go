package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/onjuly19th/trading-hub-sub001/internal/repository"
	"github.com/onjuly19th/trading-hub-sub001/models"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

type PriceRepository struct {
	conn *sqlx.DB
}

func NewPriceRepository(conn *sqlx.DB) repository.PriceRepo {
	return &PriceRepository{
		conn: conn,
	}
}

const upsertPrice = `INSERT INTO prices (symbol, price, created_at)
VALUES (:symbol, :price, :created_at)
ON CONFLICT (symbol) DO UPDATE SET price = EXCLUDED.price, created_at = EXCLUDED.created_at`

// Store keeps the latest price per symbol.
func (r *PriceRepository) Store(ctx context.Context, m *models.Price) error {
	p := *m
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	if _, err := r.conn.NamedExecContext(ctx, upsertPrice, &p); err != nil {
		return errors.Wrap(err, "upsert price")
	}

	return nil
}

func (r *PriceRepository) GetLast(ctx context.Context, symbol string) (*models.Price, error) {
	var price models.Price

	if err := r.conn.QueryRowxContext(ctx, "SELECT * FROM prices WHERE symbol = $1", symbol).StructScan(&price); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrap(models.ErrPriceNotFound, symbol)
		}
		return nil, errors.Wrap(err, "select last price")
	}

	return &price, nil
}
