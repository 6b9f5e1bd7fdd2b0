package structs

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Execution struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty"`
	OrderID   string               `bson:"order_id"`
	UserID    string               `bson:"user_id"`
	Symbol    string               `bson:"symbol"`
	Side      string               `bson:"side"`
	Amount    primitive.Decimal128 `bson:"amount"`
	FillPrice primitive.Decimal128 `bson:"fill_price"`
	Timestamp time.Time            `bson:"timestamp"`
}
