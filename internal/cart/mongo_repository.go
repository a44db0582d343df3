package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/saitejagovikar/my-website-sub000/internal/domain"
)

type mongoMirrorRepository struct {
	collection *mongo.Collection
}

func NewMongoMirrorRepository(db *mongo.Database) MirrorRepository {
	return &mongoMirrorRepository{collection: db.Collection("carts")}
}

func (m *mongoMirrorRepository) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	var cart domain.Cart

	filter := bson.M{"owner_id": userID}
	err := m.collection.FindOne(ctx, filter).Decode(&cart)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get mirrored cart: %w", err)
	}

	return &cart, nil
}

// Replace overwrites the whole mirrored cart. The mirror endpoint has
// replace-all semantics, so partial patches are never applied here.
func (m *mongoMirrorRepository) Replace(ctx context.Context, userID string, cart *domain.Cart) error {
	now := time.Now()
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = now
	}
	cart.OwnerID = userID
	cart.UpdatedAt = now

	filter := bson.M{"owner_id": userID}
	update := bson.M{"$set": cart}
	opts := options.Update().SetUpsert(true)

	if _, err := m.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to replace mirrored cart: %w", err)
	}
	return nil
}

func (m *mongoMirrorRepository) Delete(ctx context.Context, userID string) error {
	if _, err := m.collection.DeleteOne(ctx, bson.M{"owner_id": userID}); err != nil {
		return fmt.Errorf("failed to delete mirrored cart: %w", err)
	}
	return nil
}

func (m *mongoMirrorRepository) CreateIndexes(ctx context.Context) error {
	_, err := m.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "owner_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
