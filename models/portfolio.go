package models

import (
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Portfolio is the cash leg of a user's ledger together with its holdings.
//
// Balance is the total cash, ReservedBalance the part of it committed to open
// BUY limit orders. Available = Balance - ReservedBalance and never drops
// below zero after a committed operation.
type Portfolio struct {
	UserID          string                     `db:"user_id"`
	Balance         decimal.Decimal            `db:"balance"`
	ReservedBalance decimal.Decimal            `db:"reserved_balance"`
	UpdatedAt       time.Time                  `db:"updated_at"`
	Assets          map[string]*PortfolioAsset `db:"-"`
}

type PortfolioAsset struct {
	UserID       string          `db:"user_id" json:"-"`
	Symbol       string          `db:"symbol" json:"symbol"`
	Amount       decimal.Decimal `db:"amount" json:"amount"`
	AveragePrice decimal.Decimal `db:"average_price" json:"averagePrice"`
}

func NewPortfolio(userID string, balance decimal.Decimal) *Portfolio {
	return &Portfolio{
		UserID:          userID,
		Balance:         balance,
		ReservedBalance: decimal.Zero,
		UpdatedAt:       time.Now().UTC(),
		Assets:          map[string]*PortfolioAsset{},
	}
}

func (p *Portfolio) AvailableBalance() decimal.Decimal {
	return p.Balance.Sub(p.ReservedBalance)
}

func (p *Portfolio) Asset(symbol string) (*PortfolioAsset, bool) {
	a, ok := p.Assets[symbol]
	if !ok || !a.Amount.IsPositive() {
		return nil, false
	}
	return a, true
}

// Reserve earmarks notional of the available balance for an open BUY order.
func (p *Portfolio) Reserve(notional decimal.Decimal) error {
	if notional.IsNegative() {
		return errors.Wrap(ErrInvalidOrder, "negative reservation")
	}
	if notional.GreaterThan(p.AvailableBalance()) {
		return errors.Wrapf(ErrInsufficientBalance, "need %s, available %s", notional, p.AvailableBalance())
	}

	p.ReservedBalance = p.ReservedBalance.Add(notional)
	return nil
}

// Release returns reserved cash to the available balance. The reservation
// never goes below zero.
func (p *Portfolio) Release(notional decimal.Decimal) {
	p.ReservedBalance = p.ReservedBalance.Sub(notional)
	if p.ReservedBalance.IsNegative() {
		p.ReservedBalance = decimal.Zero
	}
}

func (p *Portfolio) Deposit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return errors.Wrap(ErrInvalidOrder, "deposit must be positive")
	}

	p.Balance = p.Balance.Add(amount)
	return nil
}

// ApplyFill moves value between cash and the symbol holding.
//
// BUY debits amount*price and recomputes the average entry price as a
// weighted average of the holding and the fill. SELL credits amount*price and
// leaves the average price alone; the holding is dropped once it reaches
// zero. Every check runs before the first write, so a failed call leaves p
// untouched.
func (p *Portfolio) ApplyFill(symbol string, side OrderSide, amount, price decimal.Decimal) error {
	if !amount.IsPositive() || !price.IsPositive() {
		return errors.Wrapf(ErrInvalidOrder, "fill %s @ %s", amount, price)
	}
	if p.Assets == nil {
		p.Assets = map[string]*PortfolioAsset{}
	}

	notional := amount.Mul(price)

	switch side {
	case SideBuy:
		if notional.GreaterThan(p.AvailableBalance()) {
			return errors.Wrapf(ErrInsufficientBalance, "need %s, available %s", notional, p.AvailableBalance())
		}

		asset, ok := p.Assets[symbol]
		if !ok {
			asset = &PortfolioAsset{
				UserID:       p.UserID,
				Symbol:       symbol,
				Amount:       decimal.Zero,
				AveragePrice: decimal.Zero,
			}
		}

		newAmount := asset.Amount.Add(amount)
		asset.AveragePrice = asset.Amount.Mul(asset.AveragePrice).Add(notional).Div(newAmount)
		asset.Amount = newAmount

		p.Balance = p.Balance.Sub(notional)
		p.Assets[symbol] = asset

	case SideSell:
		asset, ok := p.Asset(symbol)
		if !ok {
			return errors.Wrap(ErrAssetNotFound, symbol)
		}
		if amount.GreaterThan(asset.Amount) {
			return errors.Wrapf(ErrInsufficientAsset, "%s: need %s, held %s", symbol, amount, asset.Amount)
		}

		asset.Amount = asset.Amount.Sub(amount)
		if asset.Amount.IsZero() {
			delete(p.Assets, symbol)
		}

		p.Balance = p.Balance.Add(notional)

	default:
		return errors.Wrapf(ErrInvalidOrder, "unknown side %q", side)
	}

	p.UpdatedAt = time.Now().UTC()

	return nil
}

// Clone returns a deep copy; stores hand clones to a unit of work and swap
// them in only on commit.
func (p *Portfolio) Clone() *Portfolio {
	c := *p
	c.Assets = make(map[string]*PortfolioAsset, len(p.Assets))
	for sym, a := range p.Assets {
		cp := *a
		c.Assets[sym] = &cp
	}
	return &c
}

// PortfolioSnapshot is the read-only view handed to API clients and sinks.
type PortfolioSnapshot struct {
	UserID           string           `json:"userId"`
	Balance          decimal.Decimal  `json:"balance"`
	ReservedBalance  decimal.Decimal  `json:"reservedBalance"`
	AvailableBalance decimal.Decimal  `json:"availableBalance"`
	Assets           []PortfolioAsset `json:"assets"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

func (p *Portfolio) Snapshot() PortfolioSnapshot {
	out := PortfolioSnapshot{
		UserID:           p.UserID,
		Balance:          p.Balance,
		ReservedBalance:  p.ReservedBalance,
		AvailableBalance: p.AvailableBalance(),
		Assets:           make([]PortfolioAsset, 0, len(p.Assets)),
		UpdatedAt:        p.UpdatedAt,
	}
	for _, a := range p.Assets {
		out.Assets = append(out.Assets, *a)
	}
	sort.Slice(out.Assets, func(i, j int) bool {
		return out.Assets[i].Symbol < out.Assets[j].Symbol
	})

	return out
}
