package usecasees

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/onjuly19th/trading-hub-sub001/internal/repository"
	"github.com/onjuly19th/trading-hub-sub001/internal/repository/memory"
	"github.com/onjuly19th/trading-hub-sub001/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decimalOf(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d(s), Valid: true}
}

type recordedNotification struct {
	kind     models.EventKind
	symbol   string
	order    *models.Order
	snapshot models.PortfolioSnapshot
}

type recordingNotifier struct {
	mu  sync.Mutex
	out []recordedNotification
}

func (n *recordingNotifier) add(r recordedNotification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.out = append(n.out, r)
}

func (n *recordingNotifier) NotifyNewOrder(order *models.Order) {
	n.add(recordedNotification{kind: models.EventNewOrder, symbol: order.Symbol, order: order.Clone()})
}

func (n *recordingNotifier) NotifyOrderUpdate(order *models.Order) {
	n.add(recordedNotification{kind: models.EventOrderUpdate, symbol: order.Symbol, order: order.Clone()})
}

func (n *recordingNotifier) NotifyPortfolioUpdate(symbol string, snapshot models.PortfolioSnapshot) {
	n.add(recordedNotification{kind: models.EventPortfolioUpdate, symbol: symbol, snapshot: snapshot})
}

func (n *recordingNotifier) count(kind models.EventKind) int {
	n.mu.Lock()
	defer n.mu.Unlock()

	c := 0
	for _, r := range n.out {
		if r.kind == kind {
			c++
		}
	}
	return c
}

type recordingEvents struct {
	mu     sync.Mutex
	events []models.OrderExecutedEvent
}

func (e *recordingEvents) PublishOrderExecuted(ev models.OrderExecutedEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, ev)
}

func (e *recordingEvents) orderIDs() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]string, 0, len(e.events))
	for _, ev := range e.events {
		out = append(out, ev.OrderID)
	}
	return out
}

type engineTest struct {
	orderRepo     repository.OrderRepo
	portfolioRepo repository.PortfolioRepo
	priceRepo     repository.PriceRepo
	txManager     repository.TxManager

	notifier *recordingNotifier
	events   *recordingEvents
	metrics  *Metrics

	orders     *orderUseCase
	portfolios *portfolioUseCase

	logger *logrus.Logger
}

func newEngineTest(initialBalance string) *engineTest {
	store := memory.NewStore()

	e := &engineTest{
		orderRepo:     memory.NewOrderRepository(store),
		portfolioRepo: memory.NewPortfolioRepository(store),
		priceRepo:     memory.NewPriceRepository(store),
		txManager:     memory.NewTxManager(store),
		notifier:      &recordingNotifier{},
		events:        &recordingEvents{},
		metrics:       NewMetrics(prometheus.NewRegistry()),
	}

	e.logger = logrus.New()
	e.logger.SetLevel(logrus.DebugLevel)

	validator := NewPortfolioValidator()

	e.orders = NewOrderUseCase(
		e.txManager,
		e.orderRepo,
		e.priceRepo,
		validator,
		e.notifier,
		e.events,
		e.metrics,
		e.logger,
	)
	e.portfolios = NewPortfolioUseCase(
		e.txManager,
		e.portfolioRepo,
		validator,
		e.notifier,
		d(initialBalance),
		e.logger,
	)

	e.orders.now = newClock()

	return e
}

// newClock ticks a millisecond per call so creation order is deterministic.
func newClock() func() time.Time {
	var (
		mu sync.Mutex
		t  = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	)

	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()

		t = t.Add(time.Millisecond)
		return t
	}
}

func (e *engineTest) portfolio(t *testing.T, userID string) *models.PortfolioSnapshot {
	p, err := e.portfolios.GetPortfolio(context.Background(), userID)
	require.NoError(t, err)
	return p
}

func (e *engineTest) place(t *testing.T, userID string, side models.OrderSide, amount, price string) *models.Order {
	o, err := e.orders.PlaceOrder(context.Background(), PlaceOrder{
		UserID: userID,
		Symbol: "BTCUSDT",
		Type:   models.TypeLimit,
		Side:   side,
		Price:  d(price),
		Amount: d(amount),
	})
	require.NoError(t, err)
	return o
}

func (e *engineTest) status(t *testing.T, id string) models.OrderStatus {
	o, err := e.orderRepo.GetByID(context.Background(), id)
	require.NoError(t, err)
	return o.Status
}

func assetOf(s *models.PortfolioSnapshot, symbol string) (models.PortfolioAsset, bool) {
	for _, a := range s.Assets {
		if a.Symbol == symbol {
			return a, true
		}
	}
	return models.PortfolioAsset{}, false
}
