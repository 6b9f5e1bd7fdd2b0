package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type EventKind string

const (
	EventNewOrder        EventKind = "new-order"
	EventOrderUpdate     EventKind = "order-update"
	EventPortfolioUpdate EventKind = "portfolio-update"
	EventOrderExecuted   EventKind = "order-executed"
)

// QuoteAssets are stripped from the end of a symbol to get its ticker.
var QuoteAssets = []string{"USDT", "BUSD", "USDC", "TUSD", "USD", "RUB", "EUR"}

// Ticker returns the lowercased base asset of a symbol:
// "BTCUSDT" -> "btc", "ETH/BUSD" -> "eth".
func Ticker(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))

	if i := strings.IndexAny(s, "/-_"); i > 0 {
		return strings.ToLower(s[:i])
	}

	for _, quote := range QuoteAssets {
		if len(s) > len(quote) && strings.HasSuffix(s, quote) {
			return strings.ToLower(strings.TrimSuffix(s, quote))
		}
	}

	return strings.ToLower(s)
}

// Channel builds the notification channel "<ticker>/<event-kind>".
func Channel(symbol string, kind EventKind) string {
	return fmt.Sprintf("%s/%s", Ticker(symbol), kind)
}

type OrderExecutedEvent struct {
	OrderID   string          `json:"orderId"`
	UserID    string          `json:"userId"`
	Symbol    string          `json:"symbol"`
	Side      OrderSide       `json:"side"`
	Amount    decimal.Decimal `json:"amount"`
	FillPrice decimal.Decimal `json:"fillPrice"`
	Timestamp time.Time       `json:"timestamp"`
}

func NewOrderExecutedEvent(o *Order) OrderExecutedEvent {
	ts := time.Now().UTC()
	if o.FilledAt != nil {
		ts = *o.FilledAt
	}

	return OrderExecutedEvent{
		OrderID:   o.ID,
		UserID:    o.UserID,
		Symbol:    o.Symbol,
		Side:      o.Side,
		Amount:    o.Amount,
		FillPrice: o.FilledPrice.Decimal,
		Timestamp: ts,
	}
}

type Notification struct {
	Channel   string      `json:"channel"`
	Kind      EventKind   `json:"kind"`
	UserID    string      `json:"userId"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

func NewNotification(symbol string, kind EventKind, userID string, payload interface{}) Notification {
	return Notification{
		Channel:   Channel(symbol, kind),
		Kind:      kind,
		UserID:    userID,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}
