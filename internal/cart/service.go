package cart

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/saitejagovikar/my-website-sub000/internal/domain"
)

var ErrLineNotFound = errors.New("line not found in cart")

// Service owns the logical cart across the anonymous-to-authenticated
// boundary. The session store is written synchronously on every mutation;
// the user's Mongo mirror trails it through the debounced syncer.
type Service struct {
	sessions SessionStore
	mirror   MirrorRepository
	syncer   *Syncer
	sfg      singleflight.Group // collapses concurrent reads of one session
}

func NewService(sessions SessionStore, mirror MirrorRepository, syncer *Syncer) *Service {
	return &Service{
		sessions: sessions,
		mirror:   mirror,
		syncer:   syncer,
	}
}

func (s *Service) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	v, err, _ := s.sfg.Do(sessionID, func() (interface{}, error) {
		return s.sessions.Get(ctx, sessionID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Cart), nil
}

// AddLine inserts the line into the session cart, incrementing quantity when
// a line with the same identity key already exists.
func (s *Service) AddLine(ctx context.Context, sessionID string, line domain.CartLine) (*domain.Cart, error) {
	cart, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	cart.AddLine(line)
	return s.save(ctx, sessionID, cart)
}

func (s *Service) UpdateQuantity(ctx context.Context, sessionID, lineKey string, quantity int) (*domain.Cart, error) {
	cart, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !cart.SetQuantity(lineKey, quantity) {
		return nil, ErrLineNotFound
	}
	return s.save(ctx, sessionID, cart)
}

func (s *Service) RemoveLine(ctx context.Context, sessionID, lineKey string) (*domain.Cart, error) {
	cart, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !cart.RemoveLine(lineKey) {
		return nil, ErrLineNotFound
	}
	return s.save(ctx, sessionID, cart)
}

// Clear empties the session cart. The owner stamp is kept so a later login is
// still recognised as the same identity.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	cart, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	cart.Lines = nil
	_, err = s.save(ctx, sessionID, cart)
	return err
}

// ClearAll empties both the session cart and the user's mirror. Used after an
// order is placed; the mirror delete happens inline rather than debounced so a
// re-login cannot resurrect a purchased cart.
func (s *Service) ClearAll(ctx context.Context, sessionID, userID string) error {
	if err := s.Clear(ctx, sessionID); err != nil {
		return err
	}
	if userID == "" {
		return nil
	}
	if err := s.mirror.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear mirrored cart: %w", err)
	}
	return nil
}

// MergeOnLogin reconciles the session cart with the user's mirrored cart,
// exactly once per login event. An account switch (the session cart was last
// owned by a different identity) discards the session cart and adopts the
// mirror verbatim. Otherwise remote wins on conflicting identity keys and only
// local-only lines are appended; when that added anything the merged cart is
// written back to the mirror synchronously, not debounced.
func (s *Service) MergeOnLogin(ctx context.Context, sessionID, userID string) (*domain.Cart, error) {
	local, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	remote, err := s.mirror.Get(ctx, userID)
	if errors.Is(err, ErrCartNotFound) {
		remote = &domain.Cart{OwnerID: userID, CreatedAt: time.Now()}
	} else if err != nil {
		return nil, err
	}

	accountSwitch := local.OwnerID != "" && local.OwnerID != userID

	merged, added := domain.MergeCarts(local, remote, accountSwitch)
	merged.OwnerID = userID

	if err := s.sessions.Put(ctx, sessionID, merged); err != nil {
		return nil, err
	}

	if added {
		if err := s.mirror.Replace(ctx, userID, merged); err != nil {
			// The session copy is authoritative; a failed mirror write is
			// superseded by the next sync.
			log.Printf("cart merge: mirror write for user %s failed: %v", userID, err)
		}
	}
	return merged, nil
}

// ReplaceMirror applies the replace-all mirror endpoint semantics directly.
func (s *Service) ReplaceMirror(ctx context.Context, userID string, cart *domain.Cart) error {
	return s.mirror.Replace(ctx, userID, cart)
}

func (s *Service) GetMirror(ctx context.Context, userID string) (*domain.Cart, error) {
	return s.mirror.Get(ctx, userID)
}

// save persists the session cart synchronously, then schedules a debounced
// mirror write when the cart is owned by a user.
func (s *Service) save(ctx context.Context, sessionID string, cart *domain.Cart) (*domain.Cart, error) {
	if err := s.sessions.Put(ctx, sessionID, cart); err != nil {
		return nil, err
	}
	if cart.OwnerID != "" {
		s.syncer.Schedule(cart.OwnerID, sessionID)
	}
	return cart, nil
}
