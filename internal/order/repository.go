package order

import (
	"context"
	"errors"

	"github.com/saitejagovikar/my-website-sub000/internal/domain"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	// ErrPaymentFinal is returned when a write would move a payment status
	// that already reached a terminal value.
	ErrPaymentFinal = errors.New("payment status is terminal")
)

// Stats is the admin console aggregate over all orders.
type Stats struct {
	TotalOrders int64            `json:"totalOrders"`
	Revenue     float64          `json:"revenue"` // completed payments only
	ByStatus    map[string]int64 `json:"byStatus"`
}

type Repository interface {
	// Create persists the order and assigns the server-side ID and
	// human-readable order number.
	Create(ctx context.Context, ord *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	// GetByTransactionID looks an order up by its gateway order reference.
	GetByTransactionID(ctx context.Context, transactionID string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	// CompletePayment marks the payment completed and the order confirmed,
	// attaching the verified payment ID. It refuses to move a payment status
	// that is already failed and is a no-op when already completed.
	CompletePayment(ctx context.Context, id, paymentID string) error
	// UpdateStatus rewrites the order status axis only; paymentStatus is
	// never touched here.
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, trackingNumber string) error
	Stats(ctx context.Context) (*Stats, error)
}
