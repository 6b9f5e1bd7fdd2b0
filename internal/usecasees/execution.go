package usecasees

import (
	"context"
	"sort"
	"time"

	"github.com/onjuly19th/trading-hub-sub001/internal/repository/mongo"
	"github.com/onjuly19th/trading-hub-sub001/models"

	"github.com/shopspring/decimal"
)

const (
	defaultExecutionsLimit = 50
	maxExecutionsLimit     = 500
)

type ExecutionStat struct {
	Symbol     string
	Buys       int
	Sells      int
	BuyVolume  decimal.Decimal
	SellVolume decimal.Decimal
}

// executionUseCase reads the execution journal. Without a journal every call
// fails with models.ErrJournalDisabled.
type executionUseCase struct {
	executionRepo mongo.ExecutionRepo
}

func NewExecutionUseCase(executionRepo mongo.ExecutionRepo) *executionUseCase {
	return &executionUseCase{executionRepo: executionRepo}
}

// GetExecutions returns the latest executions of userID, newest first.
func (u *executionUseCase) GetExecutions(ctx context.Context, userID string, limit int64) ([]models.OrderExecutedEvent, error) {
	if u.executionRepo == nil {
		return nil, models.ErrJournalDisabled
	}

	switch {
	case limit <= 0:
		limit = defaultExecutionsLimit
	case limit > maxExecutionsLimit:
		limit = maxExecutionsLimit
	}

	return u.executionRepo.GetByUserID(ctx, userID, limit)
}

// ExecutionStats sums the executions journaled in the 24 hours up to eTime
// per symbol; volumes are notional in quote currency.
func (u *executionUseCase) ExecutionStats(ctx context.Context, eTime time.Time) ([]ExecutionStat, error) {
	if u.executionRepo == nil {
		return nil, models.ErrJournalDisabled
	}

	executions, err := u.executionRepo.GetByInterval(ctx, eTime.Add(-24*time.Hour), eTime)
	if err != nil {
		return nil, err
	}

	bySymbol := map[string]*ExecutionStat{}
	for _, e := range executions {
		stat, ok := bySymbol[e.Symbol]
		if !ok {
			stat = &ExecutionStat{Symbol: e.Symbol}
			bySymbol[e.Symbol] = stat
		}

		notional := e.Amount.Mul(e.FillPrice)
		switch e.Side {
		case models.SideBuy:
			stat.Buys++
			stat.BuyVolume = stat.BuyVolume.Add(notional)
		case models.SideSell:
			stat.Sells++
			stat.SellVolume = stat.SellVolume.Add(notional)
		}
	}

	out := make([]ExecutionStat, 0, len(bySymbol))
	for _, stat := range bySymbol {
		out = append(out, *stat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })

	return out, nil
}
