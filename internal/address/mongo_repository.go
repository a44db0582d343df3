package address

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/saitejagovikar/my-website-sub000/internal/domain"
)

type mongoAddressRepository struct {
	collection *mongo.Collection
}

func NewMongoAddressRepository(db *mongo.Database) AddressRepository {
	return &mongoAddressRepository{collection: db.Collection("addresses")}
}

func (m *mongoAddressRepository) List(ctx context.Context, userID string) ([]domain.ShippingAddress, error) {
	// default first, then most recent
	opts := options.Find().SetSort(bson.D{{Key: "is_default", Value: -1}, {Key: "created_at", Value: -1}})
	cur, err := m.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	defer cur.Close(ctx)

	var addrs []domain.ShippingAddress
	if err := cur.All(ctx, &addrs); err != nil {
		return nil, fmt.Errorf("failed to decode addresses: %w", err)
	}
	return addrs, nil
}

func (m *mongoAddressRepository) Get(ctx context.Context, userID, id string) (*domain.ShippingAddress, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrAddressNotFound
	}

	var addr domain.ShippingAddress
	err = m.collection.FindOne(ctx, bson.M{"_id": oid, "user_id": userID}).Decode(&addr)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrAddressNotFound
		}
		return nil, fmt.Errorf("failed to get address: %w", err)
	}
	return &addr, nil
}

func (m *mongoAddressRepository) Create(ctx context.Context, addr *domain.ShippingAddress) error {
	addr.ID = primitive.NewObjectID()
	addr.CreatedAt = time.Now()
	if _, err := m.collection.InsertOne(ctx, addr); err != nil {
		return fmt.Errorf("failed to insert address: %w", err)
	}
	return nil
}

func (m *mongoAddressRepository) Update(ctx context.Context, addr *domain.ShippingAddress) error {
	filter := bson.M{"_id": addr.ID, "user_id": addr.UserID}
	res, err := m.collection.ReplaceOne(ctx, filter, addr)
	if err != nil {
		return fmt.Errorf("failed to update address: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrAddressNotFound
	}
	return nil
}

func (m *mongoAddressRepository) Delete(ctx context.Context, userID, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrAddressNotFound
	}
	res, err := m.collection.DeleteOne(ctx, bson.M{"_id": oid, "user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete address: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrAddressNotFound
	}
	return nil
}

func (m *mongoAddressRepository) ClearDefault(ctx context.Context, userID string) error {
	_, err := m.collection.UpdateMany(ctx,
		bson.M{"user_id": userID, "is_default": true},
		bson.M{"$set": bson.M{"is_default": false}},
	)
	if err != nil {
		return fmt.Errorf("failed to clear default address: %w", err)
	}
	return nil
}

func (m *mongoAddressRepository) CreateIndexes(ctx context.Context) error {
	_, err := m.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "is_default", Value: -1}},
	})
	return err
}

type mongoProfileRepository struct {
	collection *mongo.Collection
}

func NewMongoProfileRepository(db *mongo.Database) ProfileRepository {
	return &mongoProfileRepository{collection: db.Collection("payment_profiles")}
}

func (m *mongoProfileRepository) List(ctx context.Context, userID string) ([]domain.PaymentProfile, error) {
	opts := options.Find().SetSort(bson.D{{Key: "is_default", Value: -1}, {Key: "created_at", Value: -1}})
	cur, err := m.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment profiles: %w", err)
	}
	defer cur.Close(ctx)

	var profiles []domain.PaymentProfile
	if err := cur.All(ctx, &profiles); err != nil {
		return nil, fmt.Errorf("failed to decode payment profiles: %w", err)
	}
	return profiles, nil
}

func (m *mongoProfileRepository) Create(ctx context.Context, profile *domain.PaymentProfile) error {
	profile.ID = primitive.NewObjectID()
	profile.CreatedAt = time.Now()
	if _, err := m.collection.InsertOne(ctx, profile); err != nil {
		return fmt.Errorf("failed to insert payment profile: %w", err)
	}
	return nil
}

func (m *mongoProfileRepository) Update(ctx context.Context, profile *domain.PaymentProfile) error {
	filter := bson.M{"_id": profile.ID, "user_id": profile.UserID}
	res, err := m.collection.ReplaceOne(ctx, filter, profile)
	if err != nil {
		return fmt.Errorf("failed to update payment profile: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (m *mongoProfileRepository) Delete(ctx context.Context, userID, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrProfileNotFound
	}
	res, err := m.collection.DeleteOne(ctx, bson.M{"_id": oid, "user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete payment profile: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (m *mongoProfileRepository) ClearDefault(ctx context.Context, userID string) error {
	_, err := m.collection.UpdateMany(ctx,
		bson.M{"user_id": userID, "is_default": true},
		bson.M{"$set": bson.M{"is_default": false}},
	)
	if err != nil {
		return fmt.Errorf("failed to clear default payment profile: %w", err)
	}
	return nil
}
