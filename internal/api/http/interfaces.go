package http

import (
	"context"

	"github.com/onjuly19th/trading-hub-sub001/internal/usecasees"
	"github.com/onjuly19th/trading-hub-sub001/models"

	"github.com/shopspring/decimal"
)

//go:generate mockery --case=snake --name=OrderUseCase
//go:generate mockery --case=snake --name=PortfolioUseCase
//go:generate mockery --case=snake --name=ExecutionUseCase
//go:generate mockery --case=snake --name=TickSubmitter

type OrderUseCase interface {
	PlaceOrder(ctx context.Context, cmd usecasees.PlaceOrder) (*models.Order, error)
	CancelOrder(ctx context.Context, userID, orderID string) (*models.Order, error)
	GetOrders(ctx context.Context, userID string) ([]models.Order, error)
	GetOrder(ctx context.Context, userID, orderID string) (*models.Order, error)
}

type PortfolioUseCase interface {
	CreatePortfolio(ctx context.Context, userID string) (*models.PortfolioSnapshot, error)
	GetPortfolio(ctx context.Context, userID string) (*models.PortfolioSnapshot, error)
	Deposit(ctx context.Context, userID string, amount decimal.Decimal) (*models.PortfolioSnapshot, error)
	UpdatePortfolio(ctx context.Context, userID string, c usecasees.PortfolioUpdate) (*models.PortfolioSnapshot, error)
}

type ExecutionUseCase interface {
	GetExecutions(ctx context.Context, userID string, limit int64) ([]models.OrderExecutedEvent, error)
}

type TickSubmitter interface {
	Submit(symbol, rawPrice string) bool
}
