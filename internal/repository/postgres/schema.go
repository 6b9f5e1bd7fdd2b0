package postgres

import (
	"context"
	_ "embed"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

//go:embed schema.sql
var Schema string

// Migrate applies the idempotent schema.
func Migrate(ctx context.Context, conn *sqlx.DB) error {
	if _, err := conn.ExecContext(ctx, Schema); err != nil {
		return errors.Wrap(err, "apply schema")
	}

	return nil
}
