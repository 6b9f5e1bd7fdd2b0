package models_test

import (
	"testing"
	"time"

	"github.com/onjuly19th/trading-hub-sub001/models"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func limitOrder(side models.OrderSide, price string) *models.Order {
	return &models.Order{
		ID:     "o1",
		UserID: "u1",
		Symbol: "BTCUSDT",
		Side:   side,
		Type:   models.TypeLimit,
		Price:  d(price),
		Amount: d("1"),
		Status: models.StatusPending,
	}
}

func TestOrder_Triggers(t *testing.T) {
	buy := limitOrder(models.SideBuy, "100")
	assert.True(t, buy.Triggers(d("100")))
	assert.True(t, buy.Triggers(d("99.99")))
	assert.False(t, buy.Triggers(d("100.01")))

	sell := limitOrder(models.SideSell, "100")
	assert.True(t, sell.Triggers(d("100")))
	assert.True(t, sell.Triggers(d("101")))
	assert.False(t, sell.Triggers(d("99")))

	filled := limitOrder(models.SideBuy, "100")
	filled.Status = models.StatusFilled
	assert.False(t, filled.Triggers(d("50")))

	market := limitOrder(models.SideBuy, "100")
	market.Type = models.TypeMarket
	assert.False(t, market.Triggers(d("50")))
}

func TestOrder_Validate(t *testing.T) {
	cases := map[string]func(o *models.Order){
		"no user":         func(o *models.Order) { o.UserID = "" },
		"no symbol":       func(o *models.Order) { o.Symbol = "" },
		"bad side":        func(o *models.Order) { o.Side = "HOLD" },
		"zero amount":     func(o *models.Order) { o.Amount = d("0") },
		"negative amount": func(o *models.Order) { o.Amount = d("-1") },
		"zero limit":      func(o *models.Order) { o.Price = d("0") },
		"bad type":        func(o *models.Order) { o.Type = "STOP" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			o := limitOrder(models.SideBuy, "100")
			mutate(o)
			assert.True(t, errors.Is(o.Validate(), models.ErrInvalidOrder))
		})
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, limitOrder(models.SideSell, "1").Validate())

		market := limitOrder(models.SideBuy, "0")
		market.Type = models.TypeMarket
		assert.NoError(t, market.Validate())
	})
}

func TestOrder_Clone(t *testing.T) {
	at := time.Now()
	o := limitOrder(models.SideBuy, "100")
	o.FilledAt = &at

	c := o.Clone()
	*c.FilledAt = at.Add(time.Hour)

	assert.Equal(t, at, *o.FilledAt)
	assert.True(t, o.Notional().Equal(d("100")))
}
