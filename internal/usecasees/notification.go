package usecasees

import (
	"context"
	"sync"
	"time"

	"github.com/onjuly19th/trading-hub-sub001/internal/usecasees/structs"
	"github.com/onjuly19th/trading-hub-sub001/models"

	"github.com/sirupsen/logrus"
)

//go:generate mockery --case=snake --name=NotificationSink

// NotificationSink delivers a notification over one transport.
type NotificationSink interface {
	Name() string
	Publish(ctx context.Context, n models.Notification) error
}

type NotificationConfig struct {
	// QueueSize bounds the pending tasks; a task submitted to a full queue is
	// dropped and logged.
	QueueSize int
	// Workers is the number of goroutines draining the queue.
	Workers int
	// SendTimeout bounds a single task.
	SendTimeout time.Duration
}

type task struct {
	name string
	run  func(ctx context.Context)
}

// notificationUseCase is the fan-out worker pool. Every notification and
// domain event leaves the commit path through its queue.
type notificationUseCase struct {
	sinks []NotificationSink

	queue   chan task
	workers int
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup

	metrics *Metrics
	logger  *logrus.Logger
}

func NewNotificationUseCase(
	cfg NotificationConfig,
	sinks []NotificationSink,
	metrics *Metrics,
	logger *logrus.Logger,
) *notificationUseCase {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 5 * time.Second
	}

	return &notificationUseCase{
		sinks:   sinks,
		queue:   make(chan task, cfg.QueueSize),
		workers: cfg.Workers,
		timeout: cfg.SendTimeout,
		metrics: metrics,
		logger:  logger,
	}
}

func (u *notificationUseCase) Start() {
	for i := 0; i < u.workers; i++ {
		u.wg.Add(1)
		go u.work()
	}
}

// Stop rejects new tasks and waits until the queued ones are done.
func (u *notificationUseCase) Stop() {
	u.mu.Lock()
	if !u.closed {
		u.closed = true
		close(u.queue)
	}
	u.mu.Unlock()

	u.wg.Wait()
}

func (u *notificationUseCase) work() {
	defer u.wg.Done()

	for t := range u.queue {
		u.run(t)
	}
}

func (u *notificationUseCase) run(t task) {
	ctx, cancel := context.WithTimeout(context.Background(), u.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			u.metrics.Inc(structs.MetricNotificationFailed)
			u.logger.
				WithField("method", "notificationUseCase.run").
				WithField("task", t.name).
				Errorf("panic: %v", r)
		}
	}()

	t.run(ctx)
}

// Submit enqueues without blocking. It reports false when the task was
// dropped.
func (u *notificationUseCase) Submit(name string, run func(ctx context.Context)) bool {
	u.mu.RLock()
	defer u.mu.RUnlock()

	if u.closed {
		u.drop(name, "queue closed")
		return false
	}

	select {
	case u.queue <- task{name: name, run: run}:
		return true
	default:
		u.drop(name, "queue full")
		return false
	}
}

func (u *notificationUseCase) drop(name, reason string) {
	u.metrics.Inc(structs.MetricNotificationDropped)
	u.logger.
		WithField("method", "notificationUseCase.Submit").
		WithField("task", name).
		Warn(reason)
}

func (u *notificationUseCase) NotifyNewOrder(order *models.Order) {
	u.broadcast(models.NewNotification(order.Symbol, models.EventNewOrder, order.UserID, order.Clone()))
}

func (u *notificationUseCase) NotifyOrderUpdate(order *models.Order) {
	u.broadcast(models.NewNotification(order.Symbol, models.EventOrderUpdate, order.UserID, order.Clone()))
}

func (u *notificationUseCase) NotifyPortfolioUpdate(symbol string, snapshot models.PortfolioSnapshot) {
	u.broadcast(models.NewNotification(symbol, models.EventPortfolioUpdate, snapshot.UserID, snapshot))
}

func (u *notificationUseCase) broadcast(n models.Notification) {
	if len(u.sinks) == 0 {
		return
	}

	u.Submit(n.Channel, func(ctx context.Context) {
		for _, sink := range u.sinks {
			if err := sink.Publish(ctx, n); err != nil {
				u.metrics.Inc(structs.MetricNotificationFailed)
				u.logger.
					WithField("method", "notificationUseCase.broadcast").
					WithField("sink", sink.Name()).
					WithField("channel", n.Channel).
					WithError(err).
					Warn("notification dropped")
				continue
			}
			u.metrics.Inc(structs.MetricNotificationSent)
		}
	})
}
