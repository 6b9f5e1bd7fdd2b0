package models

import (
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type OrderSide string

const (
	SideBuy  OrderSide = "BUY"
	SideSell OrderSide = "SELL"
)

type OrderType string

const (
	TypeLimit  OrderType = "LIMIT"
	TypeMarket OrderType = "MARKET"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusFilled    OrderStatus = "FILLED"
	StatusCancelled OrderStatus = "CANCELLED"
)

type Order struct {
	ID          string              `db:"id" json:"id"`
	UserID      string              `db:"user_id" json:"userId"`
	Symbol      string              `db:"symbol" json:"symbol"`
	Side        OrderSide           `db:"side" json:"side"`
	Type        OrderType           `db:"type" json:"type"`
	Price       decimal.Decimal     `db:"price" json:"price"`
	Amount      decimal.Decimal     `db:"amount" json:"amount"`
	Status      OrderStatus         `db:"status" json:"status"`
	FilledPrice decimal.NullDecimal `db:"filled_price" json:"filledPrice"`
	FilledAt    *time.Time          `db:"filled_at" json:"filledAt,omitempty"`
	CreatedAt   time.Time           `db:"created_at" json:"createdAt"`
}

// Notional is the cash committed by the order at its limit price.
func (o *Order) Notional() decimal.Decimal {
	return o.Amount.Mul(o.Price)
}

func (o *Order) IsPending() bool {
	return o.Status == StatusPending
}

// Triggers reports whether a tick at price makes a pending limit order eligible.
func (o *Order) Triggers(price decimal.Decimal) bool {
	if o.Type != TypeLimit || o.Status != StatusPending {
		return false
	}

	switch o.Side {
	case SideBuy:
		return price.LessThanOrEqual(o.Price)
	case SideSell:
		return price.GreaterThanOrEqual(o.Price)
	}

	return false
}

// Validate checks the immutable part of a new order.
func (o *Order) Validate() error {
	if o.UserID == "" {
		return errors.Wrap(ErrInvalidOrder, "user id is required")
	}
	if o.Symbol == "" {
		return errors.Wrap(ErrInvalidOrder, "symbol is required")
	}
	if o.Side != SideBuy && o.Side != SideSell {
		return errors.Wrapf(ErrInvalidOrder, "unknown side %q", o.Side)
	}
	if !o.Amount.IsPositive() {
		return errors.Wrap(ErrInvalidOrder, "amount must be positive")
	}

	switch o.Type {
	case TypeLimit:
		if !o.Price.IsPositive() {
			return errors.Wrap(ErrInvalidOrder, "limit price must be positive")
		}
	case TypeMarket:
	default:
		return errors.Wrapf(ErrInvalidOrder, "unknown type %q", o.Type)
	}

	return nil
}

// Clone returns a copy that shares no pointers with o.
func (o *Order) Clone() *Order {
	c := *o
	if o.FilledAt != nil {
		t := *o.FilledAt
		c.FilledAt = &t
	}
	return &c
}
