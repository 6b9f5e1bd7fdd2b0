package postgres

import (
	"context"
	"database/sql"

	"github.com/onjuly19th/trading-hub-sub001/internal/repository"
	"github.com/onjuly19th/trading-hub-sub001/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

const uniqueViolation = "23505"

type PortfolioRepository struct {
	conn *sqlx.DB
}

func NewPortfolioRepository(conn *sqlx.DB) repository.PortfolioRepo {
	return &PortfolioRepository{
		conn: conn,
	}
}

func (r *PortfolioRepository) Create(ctx context.Context, p *models.Portfolio) error {
	tx, err := r.conn.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.NamedExecContext(ctx, "INSERT INTO portfolios (user_id,balance,reserved_balance,updated_at) VALUES (:user_id,:balance,:reserved_balance,:updated_at)", p); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return errors.Wrap(models.ErrPortfolioExists, p.UserID)
		}
		return errors.Wrap(err, "insert portfolio")
	}

	if err := saveAssets(ctx, tx, p); err != nil {
		return err
	}

	return errors.Wrap(tx.Commit(), "commit")
}

func (r *PortfolioRepository) GetByUserID(ctx context.Context, userID string) (*models.Portfolio, error) {
	return loadPortfolio(ctx, r.conn, userID, false)
}

// loadPortfolio reads the portfolio row and its assets. forUpdate locks the
// row until the surrounding transaction ends.
func loadPortfolio(ctx context.Context, q sqlx.QueryerContext, userID string, forUpdate bool) (*models.Portfolio, error) {
	query := "SELECT * FROM portfolios WHERE user_id = $1"
	if forUpdate {
		query += " FOR UPDATE"
	}

	var p models.Portfolio
	if err := q.QueryRowxContext(ctx, query, userID).StructScan(&p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrap(models.ErrPortfolioNotFound, userID)
		}
		return nil, errors.Wrap(err, "select portfolio")
	}

	var assets []models.PortfolioAsset
	if err := sqlx.SelectContext(ctx, q, &assets, "SELECT * FROM portfolio_assets WHERE user_id = $1 AND amount > 0 ORDER BY symbol", userID); err != nil {
		return nil, errors.Wrap(err, "select portfolio assets")
	}

	p.Assets = make(map[string]*models.PortfolioAsset, len(assets))
	for i := range assets {
		p.Assets[assets[i].Symbol] = &assets[i]
	}

	return &p, nil
}

// saveAssets makes the asset rows mirror p.Assets; holdings that reached zero
// are removed.
func saveAssets(ctx context.Context, tx *sqlx.Tx, p *models.Portfolio) error {
	symbols := make([]string, 0, len(p.Assets))
	for sym, a := range p.Assets {
		if a.Amount.IsPositive() {
			symbols = append(symbols, sym)
		}
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM portfolio_assets WHERE user_id = $1 AND NOT (symbol = ANY($2));", p.UserID, pq.Array(symbols)); err != nil {
		return errors.Wrap(err, "delete portfolio assets")
	}

	for _, sym := range symbols {
		a := p.Assets[sym]
		if _, err := tx.ExecContext(ctx, `INSERT INTO portfolio_assets (user_id,symbol,amount,average_price) VALUES ($1,$2,$3,$4)
			ON CONFLICT (user_id, symbol) DO UPDATE SET amount = EXCLUDED.amount, average_price = EXCLUDED.average_price;`,
			p.UserID, sym, a.Amount, a.AveragePrice); err != nil {
			return errors.Wrap(err, "upsert portfolio asset")
		}
	}

	return nil
}
