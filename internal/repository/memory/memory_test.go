package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/onjuly19th/trading-hub-sub001/internal/repository"
	"github.com/onjuly19th/trading-hub-sub001/internal/repository/memory"
	"github.com/onjuly19th/trading-hub-sub001/models"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memTest struct {
	orders     repository.OrderRepo
	portfolios repository.PortfolioRepo
	prices     repository.PriceRepo
	tx         repository.TxManager
}

func initMemTest(t *testing.T) *memTest {
	store := memory.NewStore()
	m := &memTest{
		orders:     memory.NewOrderRepository(store),
		portfolios: memory.NewPortfolioRepository(store),
		prices:     memory.NewPriceRepository(store),
		tx:         memory.NewTxManager(store),
	}

	require.NoError(t, m.portfolios.Create(context.Background(), models.NewPortfolio("u1", decimal.NewFromInt(1000))))

	return m
}

func newOrder(id string, price int64, createdAt time.Time) *models.Order {
	return &models.Order{
		ID:        id,
		UserID:    "u1",
		Symbol:    "BTCUSDT",
		Side:      models.SideBuy,
		Type:      models.TypeLimit,
		Price:     decimal.NewFromInt(price),
		Amount:    decimal.NewFromInt(1),
		Status:    models.StatusPending,
		CreatedAt: createdAt,
	}
}

func (m *memTest) insert(t *testing.T, orders ...*models.Order) {
	require.NoError(t, m.tx.WithinUserTx(context.Background(), "u1", func(tx repository.Tx) error {
		for _, o := range orders {
			if err := tx.InsertOrder(context.Background(), o); err != nil {
				return err
			}
		}
		return nil
	}))
}

func TestPortfolioRepository(t *testing.T) {
	m := initMemTest(t)
	ctx := context.Background()

	err := m.portfolios.Create(ctx, models.NewPortfolio("u1", decimal.NewFromInt(1)))
	assert.True(t, errors.Is(err, models.ErrPortfolioExists))

	_, err = m.portfolios.GetByUserID(ctx, "nobody")
	assert.True(t, errors.Is(err, models.ErrPortfolioNotFound))

	p, err := m.portfolios.GetByUserID(ctx, "u1")
	require.NoError(t, err)
	p.Balance = decimal.Zero

	again, err := m.portfolios.GetByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, again.Balance.Equal(decimal.NewFromInt(1000)))
}

func TestTxManager_Rollback(t *testing.T) {
	m := initMemTest(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := m.tx.WithinUserTx(ctx, "u1", func(tx repository.Tx) error {
		p, err := tx.Portfolio(ctx)
		if err != nil {
			return err
		}
		if err := p.Reserve(decimal.NewFromInt(500)); err != nil {
			return err
		}
		if err := tx.SavePortfolio(ctx, p); err != nil {
			return err
		}
		if err := tx.InsertOrder(ctx, newOrder("o1", 500, time.Now())); err != nil {
			return err
		}
		return boom
	})
	assert.Equal(t, boom, err)

	p, err := m.portfolios.GetByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, p.ReservedBalance.IsZero())

	_, err = m.orders.GetByID(ctx, "o1")
	assert.True(t, errors.Is(err, models.ErrOrderNotFound))
}

func TestTxManager_TransitionOrder(t *testing.T) {
	m := initMemTest(t)
	ctx := context.Background()
	m.insert(t, newOrder("o1", 100, time.Now()))

	fill := decimal.NullDecimal{Decimal: decimal.NewFromInt(99), Valid: true}
	require.NoError(t, m.tx.WithinUserTx(ctx, "u1", func(tx repository.Tx) error {
		return tx.TransitionOrder(ctx, "o1", models.StatusFilled, fill, time.Now())
	}))

	o, err := m.orders.GetByID(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusFilled, o.Status)
	assert.True(t, o.FilledPrice.Decimal.Equal(decimal.NewFromInt(99)))
	assert.NotNil(t, o.FilledAt)

	t.Run("terminal states are final", func(t *testing.T) {
		err := m.tx.WithinUserTx(ctx, "u1", func(tx repository.Tx) error {
			return tx.TransitionOrder(ctx, "o1", models.StatusCancelled, decimal.NullDecimal{}, time.Now())
		})
		assert.True(t, errors.Is(err, models.ErrOrderAlreadyFilled))
	})

	t.Run("no longer triggerable", func(t *testing.T) {
		orders, err := m.orders.FindTriggerable(ctx, "BTCUSDT", decimal.NewFromInt(1))
		require.NoError(t, err)
		assert.Empty(t, orders)
	})

	t.Run("other users cannot see the order", func(t *testing.T) {
		require.NoError(t, m.portfolios.Create(ctx, models.NewPortfolio("u2", decimal.Zero)))

		err := m.tx.WithinUserTx(ctx, "u2", func(tx repository.Tx) error {
			_, err := tx.GetOrder(ctx, "o1")
			return err
		})
		assert.True(t, errors.Is(err, models.ErrOrderNotFound))
	})
}

func TestOrderRepository_FindTriggerable(t *testing.T) {
	m := initMemTest(t)
	ctx := context.Background()
	now := time.Now()

	m.insert(t,
		newOrder("c", 105, now.Add(2*time.Second)),
		newOrder("b", 100, now.Add(time.Second)),
		newOrder("a", 103, now.Add(time.Second)),
		newOrder("d", 101, now),
	)

	orders, err := m.orders.FindTriggerable(ctx, "BTCUSDT", decimal.NewFromInt(102))
	require.NoError(t, err)

	var ids []string
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	assert.Equal(t, []string{"a", "c"}, ids)

	orders, err = m.orders.FindTriggerable(ctx, "ETHUSDT", decimal.NewFromInt(1))
	require.NoError(t, err)
	assert.Empty(t, orders)

	all, err := m.orders.GetByUserID(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "d", all[0].ID)

	recent, err := m.orders.GetLastWithInterval(ctx, now.Add(-time.Minute), now.Add(1500*time.Millisecond))
	require.NoError(t, err)
	assert.Len(t, recent, 3)
}

func TestPriceRepository(t *testing.T) {
	m := initMemTest(t)
	ctx := context.Background()

	_, err := m.prices.GetLast(ctx, "BTCUSDT")
	assert.True(t, errors.Is(err, models.ErrPriceNotFound))

	require.NoError(t, m.prices.Store(ctx, &models.Price{Symbol: "BTCUSDT", Price: decimal.NewFromInt(1)}))
	require.NoError(t, m.prices.Store(ctx, &models.Price{Symbol: "BTCUSDT", Price: decimal.NewFromInt(2)}))

	p, err := m.prices.GetLast(ctx, "BTCUSDT")
	require.NoError(t, err)
	assert.True(t, p.Price.Equal(decimal.NewFromInt(2)))
	assert.Equal(t, 2, p.ID)
	assert.False(t, p.CreatedAt.IsZero())
}
