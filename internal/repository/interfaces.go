// Package repository declares the storage contracts of the engine. The memory
// and postgres sub-packages implement them.
package repository

import (
	"context"
	"time"

	"github.com/onjuly19th/trading-hub-sub001/models"

	"github.com/shopspring/decimal"
)

//go:generate mockery --case=snake --name=OrderRepo
//go:generate mockery --case=snake --name=PortfolioRepo
//go:generate mockery --case=snake --name=PriceRepo
//go:generate mockery --case=snake --name=TxManager

type OrderRepo interface {
	GetByID(ctx context.Context, id string) (*models.Order, error)
	GetByUserID(ctx context.Context, userID string) ([]models.Order, error)
	// FindTriggerable returns PENDING LIMIT orders of symbol that a tick at
	// price triggers, oldest first with ties broken by id.
	FindTriggerable(ctx context.Context, symbol string, price decimal.Decimal) ([]models.Order, error)
	GetLastWithInterval(ctx context.Context, sTime, eTime time.Time) ([]models.Order, error)
}

type PortfolioRepo interface {
	Create(ctx context.Context, p *models.Portfolio) error
	GetByUserID(ctx context.Context, userID string) (*models.Portfolio, error)
}

type PriceRepo interface {
	Store(ctx context.Context, m *models.Price) error
	GetLast(ctx context.Context, symbol string) (*models.Price, error)
}

// TxManager opens units of work. Units for the same user are serialized; a
// unit either commits every change made through its Tx or none of them.
type TxManager interface {
	WithinUserTx(ctx context.Context, userID string, fn func(tx Tx) error) error
}

// Tx is the handle a unit of work mutates the ledger and order state through.
type Tx interface {
	// Portfolio returns the locked user's portfolio. Changes made to it are
	// persisted on commit only.
	Portfolio(ctx context.Context) (*models.Portfolio, error)
	SavePortfolio(ctx context.Context, p *models.Portfolio) error
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	InsertOrder(ctx context.Context, o *models.Order) error
	// TransitionOrder moves a PENDING order to a terminal status. It fails
	// with ErrOrderAlreadyFilled or ErrOrderAlreadyCancelled when the order
	// left PENDING before.
	TransitionOrder(ctx context.Context, id string, to models.OrderStatus, fillPrice decimal.NullDecimal, at time.Time) error
}
