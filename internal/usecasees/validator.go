package usecasees

import (
	"github.com/onjuly19th/trading-hub-sub001/models"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// PortfolioValidator checks a proposed movement against a portfolio without
// touching it. Callers run it inside the unit of work that applies the
// movement.
type PortfolioValidator struct{}

func NewPortfolioValidator() *PortfolioValidator {
	return &PortfolioValidator{}
}

func (v *PortfolioValidator) ValidateBuy(p *models.Portfolio, notional decimal.Decimal) error {
	if notional.GreaterThan(p.AvailableBalance()) {
		return errors.Wrapf(models.ErrInsufficientBalance, "need %s, available %s", notional, p.AvailableBalance())
	}

	return nil
}

func (v *PortfolioValidator) ValidateSell(p *models.Portfolio, symbol string, amount decimal.Decimal) error {
	asset, ok := p.Asset(symbol)
	if !ok {
		return errors.Wrap(models.ErrAssetNotFound, symbol)
	}
	if amount.GreaterThan(asset.Amount) {
		return errors.Wrapf(models.ErrInsufficientAsset, "%s: need %s, held %s", symbol, amount, asset.Amount)
	}

	return nil
}
