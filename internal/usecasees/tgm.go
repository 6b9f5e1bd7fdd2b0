package usecasees

import (
	"context"
	"fmt"
	"runtime/debug"
	"sort"
	"time"

	"github.com/onjuly19th/trading-hub-sub001/internal/controllers"
	"github.com/onjuly19th/trading-hub-sub001/internal/repository"
	"github.com/onjuly19th/trading-hub-sub001/models"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type ExecutionStatter interface {
	ExecutionStats(ctx context.Context, eTime time.Time) ([]ExecutionStat, error)
}

type tgmUseCase struct {
	orderRepo     repository.OrderRepo
	executions    ExecutionStatter
	tgmController controllers.TgmCtrl
	loc           *time.Location
	logger        *logrus.Logger
}

func NewTgmUseCase(
	orderRepo repository.OrderRepo,
	executions ExecutionStatter,
	tgmController controllers.TgmCtrl,
	loc *time.Location,
	logger *logrus.Logger,
) *tgmUseCase {
	if loc == nil {
		loc = time.UTC
	}

	return &tgmUseCase{
		orderRepo:     orderRepo,
		executions:    executions,
		tgmController: tgmController,
		loc:           loc,
		logger:        logger,
	}
}

// CommandProcessor answers /ping and /stat in the configured chat until the
// updates channel closes.
func (u *tgmUseCase) CommandProcessor(ctx context.Context) {
	for update := range u.tgmController.GetUpdates() {
		if update.Message == nil || !u.tgmController.CheckChatID(update.Message.Chat.ID) {
			continue
		}

		switch update.Message.Command() {
		case "ping":
			u.pingProc()
		case "stat":
			u.OrderStatProc(ctx)
		}
	}
}

type OrderStat struct {
	Symbol    string
	Total     int
	Filled    int
	Cancelled int
	Pending   int
}

// OrderStats counts the orders created in the last 24 hours per symbol.
func (u *tgmUseCase) OrderStats(ctx context.Context, eTime time.Time) ([]OrderStat, error) {
	sTime := eTime.Add(-24 * time.Hour)

	orders, err := u.orderRepo.GetLastWithInterval(ctx, sTime, eTime)
	if err != nil {
		return nil, err
	}

	bySymbol := map[string]*OrderStat{}
	for _, order := range orders {
		stat, ok := bySymbol[order.Symbol]
		if !ok {
			stat = &OrderStat{Symbol: order.Symbol}
			bySymbol[order.Symbol] = stat
		}

		stat.Total++
		switch order.Status {
		case models.StatusFilled:
			stat.Filled++
		case models.StatusCancelled:
			stat.Cancelled++
		case models.StatusPending:
			stat.Pending++
		}
	}

	out := make([]OrderStat, 0, len(bySymbol))
	for _, stat := range bySymbol {
		out = append(out, *stat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })

	return out, nil
}

// OrderStatProc reports the order stats of the last 24 hours, followed by
// the journaled executions when the journal is enabled.
func (u *tgmUseCase) OrderStatProc(ctx context.Context) {
	now := time.Now()

	stats, err := u.OrderStats(ctx, now)
	if err != nil {
		u.logger.
			WithError(err).
			Error(string(debug.Stack()))
		return
	}
	msg := FormatOrderStats(stats)

	if u.executions != nil {
		executions, err := u.executions.ExecutionStats(ctx, now)
		switch {
		case err == nil:
			msg += "\n" + FormatExecutionStats(executions)
		case !errors.Is(err, models.ErrJournalDisabled):
			u.logger.
				WithField("method", "OrderStatProc").
				WithError(err).
				Warn("execution stats unavailable")
		}
	}

	if err := u.tgmController.Send(msg); err != nil {
		u.logger.
			WithError(err).
			Error(string(debug.Stack()))
	}
}

func FormatOrderStats(stats []OrderStat) string {
	msg := "[ Orders Stat ]\n"

	if len(stats) == 0 {
		return msg + "no orders"
	}

	for _, stat := range stats {
		msg += fmt.Sprintf(
			"Symbol:\t%s\n"+
				"Total:\t%d\n"+
				"Filled:\t%d\n"+
				"Cancelled:\t%d\n"+
				"Pending:\t%d\n"+
				"Filled/Cancelled:\t%.0f/%.0f\n",
			stat.Symbol,
			stat.Total,
			stat.Filled,
			stat.Cancelled,
			stat.Pending,
			float64(stat.Filled)/float64(stat.Total)*100,
			float64(stat.Cancelled)/float64(stat.Total)*100,
		)
	}

	return msg
}

func FormatExecutionStats(stats []ExecutionStat) string {
	msg := "[ Executions Stat ]\n"

	if len(stats) == 0 {
		return msg + "no executions"
	}

	for _, stat := range stats {
		msg += fmt.Sprintf(
			"Symbol:\t%s\n"+
				"Buys:\t%d (%s)\n"+
				"Sells:\t%d (%s)\n",
			stat.Symbol,
			stat.Buys,
			stat.BuyVolume.StringFixed(2),
			stat.Sells,
			stat.SellVolume.StringFixed(2),
		)
	}

	return msg
}

func (u *tgmUseCase) pingProc() {
	if err := u.tgmController.Send(
		fmt.Sprintf(
			"PONG [ %s ]",
			time.Now().In(u.loc).Format(time.RFC822),
		)); err != nil {
		u.logger.WithField("method", "pingProc").Debug(err)
	}
}
