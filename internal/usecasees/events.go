package usecasees

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/onjuly19th/trading-hub-sub001/internal/controllers"
	"github.com/onjuly19th/trading-hub-sub001/internal/repository/mongo"
	"github.com/onjuly19th/trading-hub-sub001/internal/usecasees/structs"
	"github.com/onjuly19th/trading-hub-sub001/models"

	"github.com/sirupsen/logrus"
)

type OrderExecutedHandler func(ctx context.Context, e models.OrderExecutedEvent) error

type TaskQueue interface {
	Submit(name string, run func(ctx context.Context)) bool
}

type subscriber struct {
	name    string
	handler OrderExecutedHandler
}

// eventPublisher hands "order executed" events to subscribers through the
// notification queue, one task per subscriber.
type eventPublisher struct {
	queue TaskQueue

	mu          sync.RWMutex
	subscribers []subscriber

	metrics *Metrics
	logger  *logrus.Logger
}

func NewEventPublisher(queue TaskQueue, metrics *Metrics, logger *logrus.Logger) *eventPublisher {
	return &eventPublisher{
		queue:   queue,
		metrics: metrics,
		logger:  logger,
	}
}

func (p *eventPublisher) Subscribe(name string, handler OrderExecutedHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.subscribers = append(p.subscribers, subscriber{name: name, handler: handler})
}

func (p *eventPublisher) PublishOrderExecuted(e models.OrderExecutedEvent) {
	p.mu.RLock()
	subs := make([]subscriber, len(p.subscribers))
	copy(subs, p.subscribers)
	p.mu.RUnlock()

	for _, s := range subs {
		s := s
		p.queue.Submit(fmt.Sprintf("%s/%s", models.EventOrderExecuted, s.name), func(ctx context.Context) {
			if err := s.handler(ctx, e); err != nil {
				p.metrics.Inc(structs.MetricNotificationFailed)
				p.logger.
					WithField("method", "eventPublisher.PublishOrderExecuted").
					WithField("subscriber", s.name).
					WithField("order_id", e.OrderID).
					WithError(err).
					Warn("event handler failed")
			}
		})
	}
}

// JournalHandler records executions in the execution journal.
func JournalHandler(repo mongo.ExecutionRepo) OrderExecutedHandler {
	return func(ctx context.Context, e models.OrderExecutedEvent) error {
		return repo.Store(ctx, e)
	}
}

// TgmHandler writes a short execution report to the telegram chat.
func TgmHandler(tgm controllers.TgmCtrl) OrderExecutedHandler {
	return func(_ context.Context, e models.OrderExecutedEvent) error {
		return tgm.Send(fmt.Sprintf("[ Order Executed ]\n"+
			"user:\t%s\n"+
			"order:\t%s\n"+
			"symbol:\t%s\n"+
			"side:\t%s\n"+
			"amount:\t%s\n"+
			"price:\t%s\n"+
			"time:\t%s\n",
			e.UserID,
			e.OrderID,
			e.Symbol,
			e.Side,
			e.Amount,
			e.FillPrice,
			e.Timestamp.Format(time.RFC822),
		))
	}
}
