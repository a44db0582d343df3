package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ShippingAddress is a user-owned delivery address. At most one address per
// owner carries IsDefault. Orders embed a copy, never a reference.
type ShippingAddress struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID    string             `bson:"user_id,omitempty" json:"-"`
	Name      string             `bson:"name" json:"name"`
	Phone     string             `bson:"phone" json:"phone"`
	Line1     string             `bson:"line1" json:"line1"`
	Line2     string             `bson:"line2,omitempty" json:"line2,omitempty"`
	City      string             `bson:"city" json:"city"`
	State     string             `bson:"state" json:"state"`
	Pincode   string             `bson:"pincode" json:"pincode"`
	Country   string             `bson:"country" json:"country"`
	IsDefault bool               `bson:"is_default" json:"isDefault"`
	CreatedAt time.Time          `bson:"created_at,omitempty" json:"createdAt,omitempty"`
}

// PaymentProfile holds non-sensitive stored card metadata. The PAN never
// touches this system; the gateway owns it.
type PaymentProfile struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID      string             `bson:"user_id,omitempty" json:"-"`
	Brand       string             `bson:"brand" json:"brand"`
	Last4       string             `bson:"last4" json:"last4"`
	ExpiryMonth int                `bson:"expiry_month" json:"expiryMonth"`
	ExpiryYear  int                `bson:"expiry_year" json:"expiryYear"`
	HolderName  string             `bson:"holder_name" json:"holderName"`
	IsDefault   bool               `bson:"is_default" json:"isDefault"`
	CreatedAt   time.Time          `bson:"created_at,omitempty" json:"createdAt,omitempty"`
}
