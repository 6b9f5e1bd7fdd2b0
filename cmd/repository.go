package main

import (
	"context"

	"github.com/onjuly19th/trading-hub-sub001/internal/repository"
	"github.com/onjuly19th/trading-hub-sub001/internal/repository/memory"
	"github.com/onjuly19th/trading-hub-sub001/internal/repository/postgres"
)

type repositories struct {
	orders     repository.OrderRepo
	portfolios repository.PortfolioRepo
	prices     repository.PriceRepo
	tx         repository.TxManager
}

func (a *App) initRepositories(ctx context.Context) (*repositories, error) {
	if a.Config.Storage == StoragePostgres {
		if err := a.initDB(ctx, a.Config.DB); err != nil {
			return nil, err
		}

		return &repositories{
			orders:     postgres.NewOrderRepository(a.DB),
			portfolios: postgres.NewPortfolioRepository(a.DB),
			prices:     postgres.NewPriceRepository(a.DB),
			tx:         postgres.NewTxManager(a.DB),
		}, nil
	}

	store := memory.NewStore()

	return &repositories{
		orders:     memory.NewOrderRepository(store),
		portfolios: memory.NewPortfolioRepository(store),
		prices:     memory.NewPriceRepository(store),
		tx:         memory.NewTxManager(store),
	}, nil
}
