package usecasees

import (
	"context"
	"time"

	"github.com/onjuly19th/trading-hub-sub001/internal/repository"
	"github.com/onjuly19th/trading-hub-sub001/internal/usecasees/structs"
	"github.com/onjuly19th/trading-hub-sub001/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var errNotPending = errors.New("order is not pending")

type EventPublisher interface {
	PublishOrderExecuted(e models.OrderExecutedEvent)
}

type PlaceOrder struct {
	UserID string
	Symbol string
	Type   models.OrderType
	Side   models.OrderSide
	Price  decimal.Decimal
	Amount decimal.Decimal
}

type orderUseCase struct {
	txManager repository.TxManager
	orderRepo repository.OrderRepo
	priceRepo repository.PriceRepo
	validator *PortfolioValidator

	notifier Notifier
	events   EventPublisher

	now func() time.Time

	metrics *Metrics
	logger  *logrus.Logger
}

func NewOrderUseCase(
	txManager repository.TxManager,
	orderRepo repository.OrderRepo,
	priceRepo repository.PriceRepo,
	validator *PortfolioValidator,
	notifier Notifier,
	events EventPublisher,
	metrics *Metrics,
	logger *logrus.Logger,
) *orderUseCase {
	return &orderUseCase{
		txManager: txManager,
		orderRepo: orderRepo,
		priceRepo: priceRepo,
		validator: validator,
		notifier:  notifier,
		events:    events,
		now:       func() time.Time { return time.Now().UTC() },
		metrics:   metrics,
		logger:    logger,
	}
}

// PlaceOrder validates and stores a new order. A BUY LIMIT reserves its
// notional; a MARKET order is filled at once against the last known price.
// Validation failures are returned with nothing changed.
func (u *orderUseCase) PlaceOrder(ctx context.Context, cmd PlaceOrder) (*models.Order, error) {
	order := &models.Order{
		ID:        uuid.NewString(),
		UserID:    cmd.UserID,
		Symbol:    normalizeSymbol(cmd.Symbol),
		Side:      cmd.Side,
		Type:      cmd.Type,
		Price:     cmd.Price,
		Amount:    cmd.Amount,
		Status:    models.StatusPending,
		CreatedAt: u.now(),
	}

	if err := order.Validate(); err != nil {
		u.reject(order, err)
		return nil, err
	}

	var (
		snapshot *models.PortfolioSnapshot
		err      error
	)
	switch order.Type {
	case models.TypeLimit:
		snapshot, err = u.placeLimit(ctx, order)
	case models.TypeMarket:
		snapshot, err = u.placeMarket(ctx, order)
	}
	if err != nil {
		u.reject(order, err)
		return nil, err
	}

	u.metrics.Inc(structs.MetricOrderPlaced)
	u.logger.
		WithField("method", "PlaceOrder").
		WithField("order_id", order.ID).
		WithField("user_id", order.UserID).
		Infof("%s %s %s %s @ %s", order.Type, order.Side, order.Amount, order.Symbol, order.Price)

	u.notifier.NotifyNewOrder(order)
	if snapshot != nil {
		u.notifier.NotifyPortfolioUpdate(order.Symbol, *snapshot)
	}
	if order.Status == models.StatusFilled {
		u.metrics.Inc(structs.MetricOrderFilled)
		u.executed(order)
	}

	return order, nil
}

// placeLimit returns the portfolio snapshot when the ledger changed.
func (u *orderUseCase) placeLimit(ctx context.Context, order *models.Order) (*models.PortfolioSnapshot, error) {
	var snapshot *models.PortfolioSnapshot

	if err := u.txManager.WithinUserTx(ctx, order.UserID, func(tx repository.Tx) error {
		p, err := tx.Portfolio(ctx)
		if err != nil {
			return err
		}

		switch order.Side {
		case models.SideBuy:
			if err := u.validator.ValidateBuy(p, order.Notional()); err != nil {
				return err
			}
			if err := p.Reserve(order.Notional()); err != nil {
				return err
			}
			if err := tx.SavePortfolio(ctx, p); err != nil {
				return err
			}
			s := p.Snapshot()
			snapshot = &s
		case models.SideSell:
			if err := u.validator.ValidateSell(p, order.Symbol, order.Amount); err != nil {
				return err
			}
		}

		return tx.InsertOrder(ctx, order)
	}); err != nil {
		return nil, err
	}

	return snapshot, nil
}

func (u *orderUseCase) placeMarket(ctx context.Context, order *models.Order) (*models.PortfolioSnapshot, error) {
	last, err := u.priceRepo.GetLast(ctx, order.Symbol)
	if err != nil {
		if errors.Is(err, models.ErrPriceNotFound) {
			return nil, errors.Wrapf(models.ErrInvalidOrder, "no market price for %s", order.Symbol)
		}
		return nil, err
	}
	order.Price = last.Price

	var snapshot models.PortfolioSnapshot

	if err := u.txManager.WithinUserTx(ctx, order.UserID, func(tx repository.Tx) error {
		p, err := tx.Portfolio(ctx)
		if err != nil {
			return err
		}
		if err := u.settle(p, order, last.Price); err != nil {
			return err
		}
		if err := tx.SavePortfolio(ctx, p); err != nil {
			return err
		}

		u.markFilled(order, last.Price)
		snapshot = p.Snapshot()
		return tx.InsertOrder(ctx, order)
	}); err != nil {
		return nil, err
	}

	return &snapshot, nil
}

func (u *orderUseCase) reject(order *models.Order, err error) {
	u.metrics.Inc(structs.MetricOrderRejected)
	u.logger.
		WithField("method", "PlaceOrder").
		WithField("user_id", order.UserID).
		WithField("symbol", order.Symbol).
		WithError(err).
		Info("order rejected")
}

// CancelOrder moves a PENDING order of userID to CANCELLED and releases its
// reservation. Losing the race against a fill yields ErrOrderAlreadyFilled.
func (u *orderUseCase) CancelOrder(ctx context.Context, userID, orderID string) (*models.Order, error) {
	var (
		order    *models.Order
		snapshot *models.PortfolioSnapshot
	)

	if err := u.txManager.WithinUserTx(ctx, userID, func(tx repository.Tx) error {
		o, err := tx.GetOrder(ctx, orderID)
		if err != nil {
			return err
		}

		if o.Side == models.SideBuy && o.Type == models.TypeLimit && o.IsPending() {
			p, err := tx.Portfolio(ctx)
			if err != nil {
				return err
			}
			p.Release(o.Notional())
			if err := tx.SavePortfolio(ctx, p); err != nil {
				return err
			}
			s := p.Snapshot()
			snapshot = &s
		}

		if err := tx.TransitionOrder(ctx, o.ID, models.StatusCancelled, decimal.NullDecimal{}, u.now()); err != nil {
			return err
		}

		o.Status = models.StatusCancelled
		order = o
		return nil
	}); err != nil {
		u.logger.
			WithField("method", "CancelOrder").
			WithField("order_id", orderID).
			WithError(err).
			Info("cancel rejected")
		return nil, err
	}

	u.metrics.Inc(structs.MetricOrderCancelled)
	u.notifier.NotifyOrderUpdate(order)
	if snapshot != nil {
		u.notifier.NotifyPortfolioUpdate(order.Symbol, *snapshot)
	}

	return order, nil
}

func (u *orderUseCase) GetOrders(ctx context.Context, userID string) ([]models.Order, error) {
	return u.orderRepo.GetByUserID(ctx, userID)
}

func (u *orderUseCase) GetOrder(ctx context.Context, userID, orderID string) (*models.Order, error) {
	o, err := u.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, errors.Wrap(models.ErrOrderNotFound, orderID)
	}

	return o, nil
}

// CheckAndExecuteOrders fills every order a tick of symbol at price
// triggers, oldest first. Each order is its own unit of work: an order that
// fails validation stays PENDING and the pass moves on. Only a failure to
// load the candidates is returned.
func (u *orderUseCase) CheckAndExecuteOrders(ctx context.Context, symbol string, price decimal.Decimal) error {
	orders, err := u.orderRepo.FindTriggerable(ctx, symbol, price)
	if err != nil {
		return errors.Wrapf(err, "find triggerable %s", symbol)
	}

	for i := range orders {
		u.executeOrder(ctx, &orders[i], price)
	}

	return nil
}

func (u *orderUseCase) executeOrder(ctx context.Context, candidate *models.Order, price decimal.Decimal) {
	var (
		order    *models.Order
		snapshot models.PortfolioSnapshot
	)

	err := u.txManager.WithinUserTx(ctx, candidate.UserID, func(tx repository.Tx) error {
		o, err := tx.GetOrder(ctx, candidate.ID)
		if err != nil {
			return err
		}
		if !o.IsPending() {
			return errNotPending
		}

		p, err := tx.Portfolio(ctx)
		if err != nil {
			return err
		}
		if err := u.settle(p, o, price); err != nil {
			return err
		}
		if err := tx.SavePortfolio(ctx, p); err != nil {
			return err
		}

		u.markFilled(o, price)
		if err := tx.TransitionOrder(ctx, o.ID, models.StatusFilled, o.FilledPrice, *o.FilledAt); err != nil {
			return err
		}

		order = o
		snapshot = p.Snapshot()
		return nil
	})

	log := u.logger.
		WithField("method", "CheckAndExecuteOrders").
		WithField("order_id", candidate.ID).
		WithField("symbol", candidate.Symbol)

	switch {
	case err == nil:
		u.metrics.Inc(structs.MetricOrderFilled)
		log.Infof("%s %s filled @ %s", order.Side, order.Amount, price)

		u.notifier.NotifyOrderUpdate(order)
		u.notifier.NotifyPortfolioUpdate(order.Symbol, snapshot)
		u.executed(order)

	case errors.Is(err, errNotPending) || models.IsConflict(err):
		u.metrics.Inc(structs.MetricOrderConflict)
		log.WithError(err).Debug("order skipped")

	case models.IsValidation(err):
		u.metrics.Inc(structs.MetricOrderDeferred)
		log.WithError(err).Info("order deferred")

	default:
		u.metrics.Inc(structs.MetricExecutionFailed)
		log.WithError(err).Error("order execution failed")
	}
}

// settle books a fill of order at price on p. A BUY LIMIT first gives back
// the cash it reserved at placement.
func (u *orderUseCase) settle(p *models.Portfolio, order *models.Order, price decimal.Decimal) error {
	if order.Side == models.SideBuy && order.Type == models.TypeLimit {
		p.Release(order.Notional())
	}

	return applyPortfolioUpdate(u.validator, p, PortfolioUpdate{
		Symbol: order.Symbol,
		Amount: order.Amount,
		Price:  price,
		Side:   order.Side,
	})
}

func (u *orderUseCase) markFilled(order *models.Order, price decimal.Decimal) {
	at := u.now()
	order.Status = models.StatusFilled
	order.FilledPrice = decimal.NullDecimal{Decimal: price, Valid: true}
	order.FilledAt = &at
}

func (u *orderUseCase) executed(order *models.Order) {
	u.events.PublishOrderExecuted(models.NewOrderExecutedEvent(order))
}
