package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"

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
	return &mongoRepository{collection: db.Collection("products")}
}

func (r *mongoRepository) List(ctx context.Context, category string) ([]domain.Product, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []domain.Product
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode product: %w", err)
		}
		products = append(products, normalize(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor iteration error: %w", err)
	}
	return products, nil
}

func (r *mongoRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	// older documents carry string ids, newer ones ObjectIDs; match either
	filters := []bson.M{{"id": id}}
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		filters = append(filters, bson.M{"_id": oid})
	}

	var doc bson.M
	err := r.collection.FindOne(ctx, bson.M{"$or": filters}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query product %s: %w", id, err)
	}

	product := normalize(doc)
	return &product, nil
}

// normalize maps one raw store document into the canonical Product. It
// tolerates every shape the catalog has ever been written in: ObjectID or
// string ids, numeric or string prices, a single legacy image field or an
// images array. Unrecognized fields are dropped.
func normalize(doc bson.M) domain.Product {
	p := domain.Product{
		ID:          stringField(doc, "id"),
		Name:        stringField(doc, "name"),
		Description: stringField(doc, "description"),
		Category:    stringField(doc, "category"),
		Price:       priceField(doc["price"]),
		Images:      stringSlice(doc["images"]),
		Sizes:       stringSlice(doc["sizes"]),
	}

	if p.ID == "" {
		if oid, ok := doc["_id"].(primitive.ObjectID); ok {
			p.ID = oid.Hex()
		}
	}
	if len(p.Images) == 0 {
		for _, key := range []string{"image", "image_url", "imageUrl"} {
			if img := stringField(doc, key); img != "" {
				p.Images = []string{img}
				break
			}
		}
	}
	return p
}

func stringField(doc bson.M, key string) string {
	s, _ := doc[key].(string)
	return s
}

func priceField(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func stringSlice(v interface{}) []string {
	raw, ok := v.(primitive.A)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
