package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/onjuly19th/trading-hub-sub001/internal/repository"
	"github.com/onjuly19th/trading-hub-sub001/internal/repository/postgres"
	"github.com/onjuly19th/trading-hub-sub001/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/lib/pq"
)

type PGTest struct {
	conn *sqlx.DB

	orders     repository.OrderRepo
	portfolios repository.PortfolioRepo
	prices     repository.PriceRepo
	tx         repository.TxManager
}

func initPGTest(t *testing.T) *PGTest {
	dsn := os.Getenv("PG_TEST_DSN")
	if dsn == "" {
		t.Skip("PG_TEST_DSN is not set")
	}

	db, err := sqlx.Connect("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, postgres.Migrate(context.Background(), db))

	return &PGTest{
		conn:       db,
		orders:     postgres.NewOrderRepository(db),
		portfolios: postgres.NewPortfolioRepository(db),
		prices:     postgres.NewPriceRepository(db),
		tx:         postgres.NewTxManager(db),
	}
}

func (c *PGTest) newUser(t *testing.T, balance int64) string {
	userID := uuid.NewString()
	require.NoError(t, c.portfolios.Create(context.Background(), models.NewPortfolio(userID, decimal.NewFromInt(balance))))
	return userID
}

func Test_PortfolioStore(t *testing.T) {
	c := initPGTest(t)
	ctx := context.Background()
	userID := c.newUser(t, 1000)

	err := c.portfolios.Create(ctx, models.NewPortfolio(userID, decimal.Zero))
	assert.True(t, errors.Is(err, models.ErrPortfolioExists))

	_, err = c.portfolios.GetByUserID(ctx, uuid.NewString())
	assert.True(t, errors.Is(err, models.ErrPortfolioNotFound))

	require.NoError(t, c.tx.WithinUserTx(ctx, userID, func(tx repository.Tx) error {
		p, err := tx.Portfolio(ctx)
		if err != nil {
			return err
		}
		if err := p.ApplyFill("BTCUSDT", models.SideBuy, decimal.RequireFromString("0.5"), decimal.NewFromInt(1000)); err != nil {
			return err
		}
		return tx.SavePortfolio(ctx, p)
	}))

	p, err := c.portfolios.GetByUserID(ctx, userID)
	require.NoError(t, err)
	assert.True(t, p.Balance.Equal(decimal.NewFromInt(500)), p.Balance.String())

	a, ok := p.Asset("BTCUSDT")
	require.True(t, ok)
	assert.True(t, a.AveragePrice.Equal(decimal.NewFromInt(1000)))

	require.NoError(t, c.tx.WithinUserTx(ctx, userID, func(tx repository.Tx) error {
		p, err := tx.Portfolio(ctx)
		if err != nil {
			return err
		}
		if err := p.ApplyFill("BTCUSDT", models.SideSell, decimal.RequireFromString("0.5"), decimal.NewFromInt(1200)); err != nil {
			return err
		}
		return tx.SavePortfolio(ctx, p)
	}))

	p, err = c.portfolios.GetByUserID(ctx, userID)
	require.NoError(t, err)
	assert.True(t, p.Balance.Equal(decimal.NewFromInt(1100)), p.Balance.String())
	assert.Empty(t, p.Assets)
}

func Test_OrderStore(t *testing.T) {
	c := initPGTest(t)
	ctx := context.Background()
	userID := c.newUser(t, 1000)
	symbol := "PG" + uuid.NewString()[:8]

	order := &models.Order{
		ID:        uuid.NewString(),
		UserID:    userID,
		Symbol:    symbol,
		Side:      models.SideBuy,
		Type:      models.TypeLimit,
		Price:     decimal.NewFromInt(100),
		Amount:    decimal.NewFromInt(2),
		Status:    models.StatusPending,
		CreatedAt: time.Now().UTC(),
	}

	t.Run("rollback", func(t *testing.T) {
		err := c.tx.WithinUserTx(ctx, userID, func(tx repository.Tx) error {
			if err := tx.InsertOrder(ctx, order); err != nil {
				return err
			}
			return errors.New("boom")
		})
		assert.Error(t, err)

		_, err = c.orders.GetByID(ctx, order.ID)
		assert.True(t, errors.Is(err, models.ErrOrderNotFound))
	})

	t.Run("insert", func(t *testing.T) {
		require.NoError(t, c.tx.WithinUserTx(ctx, userID, func(tx repository.Tx) error {
			return tx.InsertOrder(ctx, order)
		}))

		orders, err := c.orders.FindTriggerable(ctx, symbol, decimal.NewFromInt(99))
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, order.ID, orders[0].ID)
		assert.True(t, orders[0].Price.Equal(decimal.NewFromInt(100)))

		orders, err = c.orders.FindTriggerable(ctx, symbol, decimal.NewFromInt(101))
		require.NoError(t, err)
		assert.Empty(t, orders)
	})

	t.Run("transition", func(t *testing.T) {
		fill := decimal.NullDecimal{Decimal: decimal.NewFromInt(99), Valid: true}
		require.NoError(t, c.tx.WithinUserTx(ctx, userID, func(tx repository.Tx) error {
			return tx.TransitionOrder(ctx, order.ID, models.StatusFilled, fill, time.Now().UTC())
		}))

		err := c.tx.WithinUserTx(ctx, userID, func(tx repository.Tx) error {
			return tx.TransitionOrder(ctx, order.ID, models.StatusCancelled, decimal.NullDecimal{}, time.Now().UTC())
		})
		assert.True(t, errors.Is(err, models.ErrOrderAlreadyFilled))

		o, err := c.orders.GetByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusFilled, o.Status)
		assert.True(t, o.FilledPrice.Decimal.Equal(decimal.NewFromInt(99)))
	})

	t.Run("GetByUserID", func(t *testing.T) {
		orders, err := c.orders.GetByUserID(ctx, userID)
		require.NoError(t, err)
		assert.Len(t, orders, 1)
	})
}

func Test_PriceStore(t *testing.T) {
	c := initPGTest(t)
	ctx := context.Background()
	symbol := "PG" + uuid.NewString()[:8]

	_, err := c.prices.GetLast(ctx, symbol)
	assert.True(t, errors.Is(err, models.ErrPriceNotFound))

	require.NoError(t, c.prices.Store(ctx, &models.Price{Symbol: symbol, Price: decimal.NewFromInt(1), CreatedAt: time.Now().Add(-time.Second)}))
	require.NoError(t, c.prices.Store(ctx, &models.Price{Symbol: symbol, Price: decimal.NewFromInt(2), CreatedAt: time.Now()}))

	require.NoError(t, c.prices.Store(ctx, &models.Price{Symbol: symbol, Price: decimal.NewFromInt(3)}))

	p, err := c.prices.GetLast(ctx, symbol)
	require.NoError(t, err)
	assert.True(t, p.Price.Equal(decimal.NewFromInt(3)))
	assert.False(t, p.CreatedAt.IsZero())

	var rows int
	require.NoError(t, c.conn.GetContext(ctx, &rows, "SELECT count(*) FROM prices WHERE symbol = $1", symbol))
	assert.Equal(t, 1, rows)
}
