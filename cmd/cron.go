package main

import (
	"context"

	"github.com/robfig/cron/v3"
)

type statReporter interface {
	OrderStatProc(ctx context.Context)
}

// initCron schedules the order stat report on STAT_CRON.
func (a *App) initCron(ctx context.Context, reporter statReporter) error {
	a.Cron = cron.New(cron.WithLocation(a.Config.Location))

	if a.Config.StatCron == "" || reporter == nil {
		return nil
	}

	if _, err := a.Cron.AddFunc(a.Config.StatCron, func() {
		reporter.OrderStatProc(ctx)
	}); err != nil {
		return err
	}

	return nil
}
