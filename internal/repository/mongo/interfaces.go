package mongo

import (
	"context"
	"time"

	"github.com/onjuly19th/trading-hub-sub001/models"
)

//go:generate mockery --case=snake --name=ExecutionRepo

type ExecutionRepo interface {
	Store(ctx context.Context, e models.OrderExecutedEvent) error
	GetByUserID(ctx context.Context, userID string, limit int64) ([]models.OrderExecutedEvent, error)
	GetByInterval(ctx context.Context, sTime, eTime time.Time) ([]models.OrderExecutedEvent, error)
}
