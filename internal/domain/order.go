package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PaymentMethod string

const (
	PaymentMethodOnline PaymentMethod = "online"
	PaymentMethodCOD    PaymentMethod = "cod"
)

// OrderStatus and PaymentStatus are independent axes. A COD order is
// confirmed while its payment is still pending; a cancelled online order can
// still show a completed payment, signalling that a manual refund is owed.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// CanTransitionTo reports whether an order status transition is legal.
// Cancellation is only reachable before shipping.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return next == OrderStatusConfirmed || next == OrderStatusCancelled
	case OrderStatusConfirmed:
		return next == OrderStatusShipped || next == OrderStatusCancelled
	case OrderStatusShipped:
		return next == OrderStatusDelivered
	default:
		return false
	}
}

func (s OrderStatus) CanCancel() bool {
	return s == OrderStatusPending || s == OrderStatusConfirmed
}

// IsTerminal reports whether the payment status may never transition again.
// A retry always produces a new order; a terminal payment status is final.
func (p PaymentStatus) IsTerminal() bool {
	return p == PaymentStatusCompleted || p == PaymentStatusFailed
}

type OrderLine struct {
	ProductID      string            `bson:"product_id" json:"productId"`
	Name           string            `bson:"name" json:"name"`
	UnitPrice      float64           `bson:"unit_price" json:"unitPrice"`
	Quantity       int               `bson:"quantity" json:"quantity"`
	Size           string            `bson:"size,omitempty" json:"size,omitempty"`
	Customizations map[string]string `bson:"customizations,omitempty" json:"customizations,omitempty"`
	Subtotal       float64           `bson:"subtotal" json:"subtotal"`
}

type PaymentInfo struct {
	Method PaymentMethod `bson:"method" json:"method"`
	// TransactionID is the gateway order reference stamped before the user
	// pays; PaymentID is attached only after server-side verification.
	TransactionID string `bson:"transaction_id,omitempty" json:"transactionId,omitempty"`
	PaymentID     string `bson:"payment_id,omitempty" json:"paymentId,omitempty"`
}

// Order is the durable transaction record. It embeds a copy of the shipping
// address and the pricing breakdown at purchase time; later edits to saved
// addresses never touch placed orders. Orders are never deleted, only
// cancelled.
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderNumber     string             `bson:"order_number" json:"orderNumber"`
	UserID          string             `bson:"user_id" json:"userId"`
	Items           []OrderLine        `bson:"items" json:"items"`
	ShippingAddress ShippingAddress    `bson:"shipping_address" json:"shippingAddress"`
	Payment         PaymentInfo        `bson:"payment" json:"payment"`
	Pricing         PricingBreakdown   `bson:"pricing" json:"pricing"`
	Status          OrderStatus        `bson:"status" json:"status"`
	PaymentStatus   PaymentStatus      `bson:"payment_status" json:"paymentStatus"`
	TrackingNumber  string             `bson:"tracking_number,omitempty" json:"trackingNumber,omitempty"`
	// SaveAddress records whether the user asked to keep the shipping
	// address at checkout. The decision is stamped here so the verify
	// callback cannot rewrite it; it never leaves the server.
	SaveAddress bool `bson:"save_address,omitempty" json:"-"`
	CreatedAt       time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updatedAt"`
}
