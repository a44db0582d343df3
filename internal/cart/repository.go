package cart

import (
	"context"
	"errors"

	"github.com/saitejagovikar/my-website-sub000/internal/domain"
)

var ErrCartNotFound = errors.New("cart not found")

// MirrorRepository holds the server-side copy of an authenticated user's
// cart. Writes are replace-all: the mirror is a convenience copy for
// cross-device continuity, never the source of truth for an active session.
type MirrorRepository interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	Replace(ctx context.Context, userID string, cart *domain.Cart) error
	Delete(ctx context.Context, userID string) error
}

// SessionStore holds the authoritative cart for an active session, keyed by
// an opaque session ID. Every cart mutation writes here synchronously before
// any mirror write is scheduled.
type SessionStore interface {
	// Get returns the session's cart, or an empty cart if none exists yet.
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)
	Put(ctx context.Context, sessionID string, cart *domain.Cart) error
	Delete(ctx context.Context, sessionID string) error
}
