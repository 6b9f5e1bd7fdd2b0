package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Price struct {
	ID        int             `db:"id"`
	Symbol    string          `db:"symbol"`
	Price     decimal.Decimal `db:"price"`
	CreatedAt time.Time       `db:"created_at"`
}
