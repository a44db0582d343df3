package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/saitejagovikar/my-website-sub000/internal/domain"
)

type mongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) Repository {
	return &mongoRepository{collection: db.Collection("orders")}
}

func (m *mongoRepository) Create(ctx context.Context, ord *domain.Order) error {
	ord.ID = primitive.NewObjectID()
	ord.OrderNumber = newOrderNumber()
	now := time.Now()
	if ord.CreatedAt.IsZero() {
		ord.CreatedAt = now
	}
	ord.UpdatedAt = now

	if _, err := m.collection.InsertOne(ctx, ord); err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

func (m *mongoRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	return m.findOne(ctx, bson.M{"_id": oid})
}

func (m *mongoRepository) GetByTransactionID(ctx context.Context, transactionID string) (*domain.Order, error) {
	return m.findOne(ctx, bson.M{"payment.transaction_id": transactionID})
}

func (m *mongoRepository) findOne(ctx context.Context, filter bson.M) (*domain.Order, error) {
	var ord domain.Order
	err := m.collection.FindOne(ctx, filter).Decode(&ord)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &ord, nil
}

func (m *mongoRepository) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return m.list(ctx, bson.M{"user_id": userID})
}

func (m *mongoRepository) ListAll(ctx context.Context) ([]domain.Order, error) {
	return m.list(ctx, bson.M{})
}

func (m *mongoRepository) list(ctx context.Context, filter bson.M) ([]domain.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := m.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer cur.Close(ctx)

	var orders []domain.Order
	if err := cur.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, nil
}

func (m *mongoRepository) CompletePayment(ctx context.Context, id, paymentID string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrOrderNotFound
	}

	// Matching on a pending payment status makes the write idempotent: a
	// second attempt with the same proof matches nothing and falls through to
	// the already-completed check below.
	filter := bson.M{"_id": oid, "payment_status": domain.PaymentStatusPending}
	update := bson.M{"$set": bson.M{
		"payment_status":     domain.PaymentStatusCompleted,
		"status":             domain.OrderStatusConfirmed,
		"payment.payment_id": paymentID,
		"updated_at":         time.Now(),
	}}
	res, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to complete payment: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	ord, err := m.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if ord.PaymentStatus == domain.PaymentStatusCompleted {
		return nil
	}
	return ErrPaymentFinal
}

func (m *mongoRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, trackingNumber string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrOrderNotFound
	}

	set := bson.M{"status": status, "updated_at": time.Now()}
	if trackingNumber != "" {
		set["tracking_number"] = trackingNumber
	}
	res, err := m.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (m *mongoRepository) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{ByStatus: make(map[string]int64)}

	total, err := m.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	stats.TotalOrders = total

	revenuePipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"payment_status": domain.PaymentStatusCompleted}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "revenue": bson.M{"$sum": "$pricing.total"}}}},
	}
	cur, err := m.collection.Aggregate(ctx, revenuePipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate revenue: %w", err)
	}
	var revenue []struct {
		Revenue float64 `bson:"revenue"`
	}
	if err := cur.All(ctx, &revenue); err != nil {
		return nil, fmt.Errorf("failed to decode revenue: %w", err)
	}
	if len(revenue) > 0 {
		stats.Revenue = revenue[0].Revenue
	}

	statusPipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	}
	cur, err = m.collection.Aggregate(ctx, statusPipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate statuses: %w", err)
	}
	var byStatus []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cur.All(ctx, &byStatus); err != nil {
		return nil, fmt.Errorf("failed to decode status counts: %w", err)
	}
	for _, s := range byStatus {
		stats.ByStatus[s.Status] = s.Count
	}
	return stats, nil
}

func (m *mongoRepository) CreateIndexes(ctx context.Context) error {
	_, err := m.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "payment.transaction_id", Value: 1}}, Options: options.Index().SetSparse(true)},
		{Keys: bson.D{{Key: "order_number", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	return err
}

// newOrderNumber builds the human-readable order number, e.g.
// ORD-20260831-7F3A2C.
func newOrderNumber() string {
	id := strings.ToUpper(uuid.NewString())
	return fmt.Sprintf("ORD-%s-%s", time.Now().Format("20060102"), id[:6])
}
