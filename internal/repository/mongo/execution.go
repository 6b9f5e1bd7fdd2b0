package mongo

import (
	"context"
	"time"

	"github.com/onjuly19th/trading-hub-sub001/internal/repository/mongo/structs"
	"github.com/onjuly19th/trading-hub-sub001/models"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ExecutionRepository struct {
	conn       *mongo.Client
	collection *mongo.Collection
}

func NewExecutionRepository(conn *mongo.Client, dbName string) *ExecutionRepository {
	collection := conn.Database(dbName).Collection("executions")

	return &ExecutionRepository{conn: conn, collection: collection}
}

// EnsureIndexes makes order_id unique so a redelivered event is stored once.
func (r *ExecutionRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "order_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}},
		},
	})

	return errors.Wrap(err, "create execution indexes")
}

func (r *ExecutionRepository) Store(ctx context.Context, e models.OrderExecutedEvent) error {
	doc, err := toDocument(e)
	if err != nil {
		return err
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return errors.Wrap(err, "insert execution")
	}

	return nil
}

func (r *ExecutionRepository) GetByUserID(ctx context.Context, userID string, limit int64) ([]models.OrderExecutedEvent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	return r.find(ctx, bson.D{{Key: "user_id", Value: userID}}, opts)
}

func (r *ExecutionRepository) GetByInterval(ctx context.Context, sTime, eTime time.Time) ([]models.OrderExecutedEvent, error) {
	filter := bson.D{{Key: "timestamp", Value: bson.D{
		{Key: "$gt", Value: sTime.UTC()},
		{Key: "$lt", Value: eTime.UTC()},
	}}}

	return r.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}}))
}

func (r *ExecutionRepository) find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]models.OrderExecutedEvent, error) {
	cur, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Wrap(err, "find executions")
	}
	defer func() {
		_ = cur.Close(ctx)
	}()

	var docs []structs.Execution
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decode executions")
	}

	out := make([]models.OrderExecutedEvent, 0, len(docs))
	for _, d := range docs {
		e, err := fromDocument(d)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}

	return out, nil
}

func toDocument(e models.OrderExecutedEvent) (*structs.Execution, error) {
	amount, err := primitive.ParseDecimal128(e.Amount.String())
	if err != nil {
		return nil, errors.Wrap(err, "amount")
	}

	price, err := primitive.ParseDecimal128(e.FillPrice.String())
	if err != nil {
		return nil, errors.Wrap(err, "fill price")
	}

	return &structs.Execution{
		OrderID:   e.OrderID,
		UserID:    e.UserID,
		Symbol:    e.Symbol,
		Side:      string(e.Side),
		Amount:    amount,
		FillPrice: price,
		Timestamp: e.Timestamp.UTC(),
	}, nil
}

func fromDocument(d structs.Execution) (models.OrderExecutedEvent, error) {
	amount, err := decimal.NewFromString(d.Amount.String())
	if err != nil {
		return models.OrderExecutedEvent{}, errors.Wrap(err, "amount")
	}

	price, err := decimal.NewFromString(d.FillPrice.String())
	if err != nil {
		return models.OrderExecutedEvent{}, errors.Wrap(err, "fill price")
	}

	return models.OrderExecutedEvent{
		OrderID:   d.OrderID,
		UserID:    d.UserID,
		Symbol:    d.Symbol,
		Side:      models.OrderSide(d.Side),
		Amount:    amount,
		FillPrice: price,
		Timestamp: d.Timestamp,
	}, nil
}
