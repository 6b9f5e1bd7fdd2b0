package models_test

import (
	"testing"

	"github.com/onjuly19th/trading-hub-sub001/models"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestTicker(t *testing.T) {
	for symbol, want := range map[string]string{
		"BTCUSDT":  "btc",
		"ethbusd":  "eth",
		"ETH/BUSD": "eth",
		"SOL-USD":  "sol",
		"BTCRUB":   "btc",
		"BTC":      "btc",
		"USDT":     "usdt",
	} {
		assert.Equal(t, want, models.Ticker(symbol), symbol)
	}
}

func TestChannel(t *testing.T) {
	assert.Equal(t, "btc/order-update", models.Channel("BTCUSDT", models.EventOrderUpdate))
	assert.Equal(t, "eth/portfolio-update", models.NewNotification("ETH", models.EventPortfolioUpdate, "u1", nil).Channel)
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, models.CodeInsufficientBalance, models.ErrorCode(errors.Wrap(models.ErrInsufficientBalance, "ctx")))
	assert.Equal(t, models.CodeOrderAlreadyFilled, models.ErrorCode(models.ErrOrderAlreadyFilled))
	assert.Equal(t, models.CodeInternal, models.ErrorCode(errors.New("boom")))

	assert.True(t, models.IsValidation(errors.Wrap(models.ErrAssetNotFound, "BTC")))
	assert.False(t, models.IsValidation(models.ErrOrderNotFound))
	assert.True(t, models.IsConflict(errors.Wrap(models.ErrOrderAlreadyCancelled, "o1")))
}
