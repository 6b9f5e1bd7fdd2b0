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

type TxManager struct {
	conn *sqlx.DB
}

func NewTxManager(conn *sqlx.DB) repository.TxManager {
	return &TxManager{
		conn: conn,
	}
}

// WithinUserTx runs fn in one database transaction that holds the row lock
// of the user's portfolio. Any error from fn rolls everything back.
func (m *TxManager) WithinUserTx(ctx context.Context, userID string, fn func(tx repository.Tx) error) error {
	sqlTx, err := m.conn.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	committed := false
	defer func() {
		if !committed {
			_ = sqlTx.Rollback()
		}
	}()

	var locked string
	if err := sqlTx.QueryRowxContext(ctx, "SELECT user_id FROM portfolios WHERE user_id = $1 FOR UPDATE", userID).Scan(&locked); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return errors.Wrap(err, "lock portfolio")
	}

	if err := fn(&tx{tx: sqlTx, userID: userID}); err != nil {
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return errors.Wrap(err, "commit")
	}
	committed = true

	return nil
}

type tx struct {
	tx     *sqlx.Tx
	userID string

	portfolio *models.Portfolio
}

func (t *tx) Portfolio(ctx context.Context) (*models.Portfolio, error) {
	if t.portfolio != nil {
		return t.portfolio, nil
	}

	p, err := loadPortfolio(ctx, t.tx, t.userID, true)
	if err != nil {
		return nil, err
	}
	t.portfolio = p

	return p, nil
}

func (t *tx) SavePortfolio(ctx context.Context, p *models.Portfolio) error {
	if p.UserID != t.userID {
		return errors.Errorf("portfolio %s saved in unit of %s", p.UserID, t.userID)
	}

	if _, err := t.tx.ExecContext(ctx, "UPDATE portfolios SET balance = $1, reserved_balance = $2, updated_at = $3 WHERE user_id = $4;",
		p.Balance, p.ReservedBalance, time.Now().UTC(), p.UserID); err != nil {
		return errors.Wrap(err, "update portfolio")
	}

	if err := saveAssets(ctx, t.tx, p); err != nil {
		return err
	}
	t.portfolio = p

	return nil
}

func (t *tx) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order

	if err := t.tx.QueryRowxContext(ctx, "SELECT * FROM orders WHERE id = $1 AND user_id = $2 FOR UPDATE", id, t.userID).StructScan(&order); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrap(models.ErrOrderNotFound, id)
		}
		return nil, errors.Wrap(err, "select order")
	}

	return &order, nil
}

func (t *tx) InsertOrder(ctx context.Context, o *models.Order) error {
	if o.UserID != t.userID {
		return errors.Errorf("order of %s inserted in unit of %s", o.UserID, t.userID)
	}

	if _, err := t.tx.NamedExecContext(ctx, `INSERT INTO orders (id,user_id,symbol,side,type,price,amount,status,filled_price,filled_at,created_at)
		VALUES (:id,:user_id,:symbol,:side,:type,:price,:amount,:status,:filled_price,:filled_at,:created_at)`, o); err != nil {
		return errors.Wrap(err, "insert order")
	}

	return nil
}

// TransitionOrder is a compare-and-set on status = PENDING.
func (t *tx) TransitionOrder(ctx context.Context, id string, to models.OrderStatus, fillPrice decimal.NullDecimal, at time.Time) error {
	var filledAt *time.Time
	if to == models.StatusFilled {
		filledAt = &at
	}

	res, err := t.tx.ExecContext(ctx, "UPDATE orders SET status = $1, filled_price = $2, filled_at = $3 WHERE id = $4 AND user_id = $5 AND status = $6;",
		to, fillPrice, filledAt, id, t.userID, models.StatusPending)
	if err != nil {
		return errors.Wrap(err, "update order status")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "rows affected")
	}
	if n == 1 {
		return nil
	}

	var status models.OrderStatus
	if err := t.tx.QueryRowxContext(ctx, "SELECT status FROM orders WHERE id = $1 AND user_id = $2", id, t.userID).Scan(&status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return errors.Wrap(models.ErrOrderNotFound, id)
		}
		return errors.Wrap(err, "select order status")
	}

	switch status {
	case models.StatusFilled:
		return errors.Wrap(models.ErrOrderAlreadyFilled, id)
	case models.StatusCancelled:
		return errors.Wrap(models.ErrOrderAlreadyCancelled, id)
	}

	return errors.Errorf("order %s: unexpected status %s", id, status)
}
