package main

import (
	"context"

	"github.com/onjuly19th/trading-hub-sub001/internal/repository/postgres"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func (a *App) initDB(ctx context.Context, dbConfig *DB) error {
	db, err := sqlx.ConnectContext(ctx, "postgres", dbConfig.DSN())
	if err != nil {
		return err
	}
	a.DB = db

	if dbConfig.AutoMigrate {
		if err := postgres.Migrate(ctx, db); err != nil {
			return err
		}
		a.Logger.WithField("method", "initDB").Info("schema migrated")
	}

	return nil
}
