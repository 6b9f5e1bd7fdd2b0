package usecasees

import (
	"context"
	"strings"

	"github.com/onjuly19th/trading-hub-sub001/internal/repository"
	"github.com/onjuly19th/trading-hub-sub001/models"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// PortfolioUpdate is one movement on a user's ledger: amount of symbol bought
// or sold at price. Order execution and direct portfolio updates both go
// through applyPortfolioUpdate.
type PortfolioUpdate struct {
	Symbol string
	Amount decimal.Decimal
	Price  decimal.Decimal
	Side   models.OrderSide
}

func (c PortfolioUpdate) Notional() decimal.Decimal {
	return c.Amount.Mul(c.Price)
}

// applyPortfolioUpdate validates and applies c on p. p is left untouched on
// error.
func applyPortfolioUpdate(v *PortfolioValidator, p *models.Portfolio, c PortfolioUpdate) error {
	switch c.Side {
	case models.SideBuy:
		if err := v.ValidateBuy(p, c.Notional()); err != nil {
			return err
		}
	case models.SideSell:
		if err := v.ValidateSell(p, c.Symbol, c.Amount); err != nil {
			return err
		}
	default:
		return errors.Wrapf(models.ErrInvalidOrder, "unknown side %q", c.Side)
	}

	return p.ApplyFill(c.Symbol, c.Side, c.Amount, c.Price)
}

type Notifier interface {
	NotifyNewOrder(order *models.Order)
	NotifyOrderUpdate(order *models.Order)
	NotifyPortfolioUpdate(symbol string, snapshot models.PortfolioSnapshot)
}

type portfolioUseCase struct {
	txManager     repository.TxManager
	portfolioRepo repository.PortfolioRepo
	validator     *PortfolioValidator
	notifier      Notifier

	initialBalance decimal.Decimal

	logger *logrus.Logger
}

func NewPortfolioUseCase(
	txManager repository.TxManager,
	portfolioRepo repository.PortfolioRepo,
	validator *PortfolioValidator,
	notifier Notifier,
	initialBalance decimal.Decimal,
	logger *logrus.Logger,
) *portfolioUseCase {
	return &portfolioUseCase{
		txManager:      txManager,
		portfolioRepo:  portfolioRepo,
		validator:      validator,
		notifier:       notifier,
		initialBalance: initialBalance,
		logger:         logger,
	}
}

func (u *portfolioUseCase) CreatePortfolio(ctx context.Context, userID string) (*models.PortfolioSnapshot, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, errors.Wrap(models.ErrInvalidOrder, "user id is required")
	}

	p := models.NewPortfolio(userID, u.initialBalance)
	if err := u.portfolioRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	u.logger.
		WithField("method", "CreatePortfolio").
		WithField("user_id", userID).
		Infof("portfolio created with balance %s", u.initialBalance)

	snapshot := p.Snapshot()
	return &snapshot, nil
}

func (u *portfolioUseCase) GetPortfolio(ctx context.Context, userID string) (*models.PortfolioSnapshot, error) {
	p, err := u.portfolioRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	snapshot := p.Snapshot()
	return &snapshot, nil
}

func (u *portfolioUseCase) Deposit(ctx context.Context, userID string, amount decimal.Decimal) (*models.PortfolioSnapshot, error) {
	var snapshot models.PortfolioSnapshot

	if err := u.txManager.WithinUserTx(ctx, userID, func(tx repository.Tx) error {
		p, err := tx.Portfolio(ctx)
		if err != nil {
			return err
		}
		if err := p.Deposit(amount); err != nil {
			return err
		}
		if err := tx.SavePortfolio(ctx, p); err != nil {
			return err
		}

		snapshot = p.Snapshot()
		return nil
	}); err != nil {
		return nil, err
	}

	return &snapshot, nil
}

// UpdatePortfolio applies c to the user's ledger as one unit of work.
func (u *portfolioUseCase) UpdatePortfolio(ctx context.Context, userID string, c PortfolioUpdate) (*models.PortfolioSnapshot, error) {
	c.Symbol = normalizeSymbol(c.Symbol)
	if c.Symbol == "" {
		return nil, errors.Wrap(models.ErrInvalidOrder, "symbol is required")
	}

	var snapshot models.PortfolioSnapshot

	if err := u.txManager.WithinUserTx(ctx, userID, func(tx repository.Tx) error {
		p, err := tx.Portfolio(ctx)
		if err != nil {
			return err
		}
		if err := applyPortfolioUpdate(u.validator, p, c); err != nil {
			return err
		}
		if err := tx.SavePortfolio(ctx, p); err != nil {
			return err
		}

		snapshot = p.Snapshot()
		return nil
	}); err != nil {
		u.logger.
			WithField("method", "UpdatePortfolio").
			WithField("user_id", userID).
			WithError(err).
			Info("portfolio update rejected")
		return nil, err
	}

	u.notifier.NotifyPortfolioUpdate(c.Symbol, snapshot)

	return &snapshot, nil
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
