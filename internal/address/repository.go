package address

import (
	"context"
	"errors"

	"github.com/saitejagovikar/my-website-sub000/internal/domain"
)

var (
	ErrAddressNotFound = errors.New("address not found")
	ErrProfileNotFound = errors.New("payment profile not found")
)

// AddressRepository stores a user's saved shipping addresses. List returns the
// default address first so checkout can auto-select it without scanning.
type AddressRepository interface {
	List(ctx context.Context, userID string) ([]domain.ShippingAddress, error)
	Get(ctx context.Context, userID, id string) (*domain.ShippingAddress, error)
	Create(ctx context.Context, addr *domain.ShippingAddress) error
	Update(ctx context.Context, addr *domain.ShippingAddress) error
	Delete(ctx context.Context, userID, id string) error
	// ClearDefault demotes every default address the user has.
	ClearDefault(ctx context.Context, userID string) error
}

// ProfileRepository stores non-sensitive card metadata with the same
// default-selection contract as addresses.
type ProfileRepository interface {
	List(ctx context.Context, userID string) ([]domain.PaymentProfile, error)
	Create(ctx context.Context, profile *domain.PaymentProfile) error
	Update(ctx context.Context, profile *domain.PaymentProfile) error
	Delete(ctx context.Context, userID, id string) error
	ClearDefault(ctx context.Context, userID string) error
}
