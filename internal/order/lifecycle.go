package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/saitejagovikar/my-website-sub000/internal/domain"
	"github.com/saitejagovikar/my-website-sub000/internal/notify"
)

var (
	ErrNotOwner          = errors.New("order does not belong to user")
	ErrNotCancellable    = errors.New("order can no longer be cancelled")
	ErrIllegalTransition = errors.New("illegal order status transition")
)

// Service exposes the post-purchase order lifecycle to user views and the
// admin console. Cancellation rewrites the status axis only: a cancelled,
// already-paid order keeps paymentStatus=completed so operations knows a
// refund is owed.
type Service struct {
	repo   Repository
	events notify.Publisher
}

func NewService(repo Repository, events notify.Publisher) *Service {
	return &Service{repo: repo, events: events}
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) Get(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	ord, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if ord.UserID != userID {
		return nil, ErrNotOwner
	}
	return ord, nil
}

// Cancel is the user-initiated cancel. Allowed from pending or confirmed
// only; a shipped order is past the point of no return.
func (s *Service) Cancel(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	ord, err := s.Get(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if !ord.Status.CanCancel() {
		return nil, ErrNotCancellable
	}
	if err := s.repo.UpdateStatus(ctx, orderID, domain.OrderStatusCancelled, ""); err != nil {
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}
	ord.Status = domain.OrderStatusCancelled
	notify.FireAndForget(s.events, notify.Event{
		Type:        notify.EventOrderCancelled,
		OrderID:     ord.ID.Hex(),
		OrderNumber: ord.OrderNumber,
		UserID:      ord.UserID,
		Total:       ord.Pricing.Total,
	})
	return ord, nil
}

// AdminUpdateStatus drives confirmed→shipped→delivered (and admin cancels)
// with the same transition rules; shipping attaches the tracking number.
func (s *Service) AdminUpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus, trackingNumber string) (*domain.Order, error) {
	ord, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !ord.Status.CanTransitionTo(status) {
		return nil, ErrIllegalTransition
	}
	if err := s.repo.UpdateStatus(ctx, orderID, status, trackingNumber); err != nil {
		return nil, err
	}
	ord.Status = status
	if trackingNumber != "" {
		ord.TrackingNumber = trackingNumber
	}
	if status == domain.OrderStatusShipped {
		notify.FireAndForget(s.events, notify.Event{
			Type:        notify.EventOrderShipped,
			OrderID:     ord.ID.Hex(),
			OrderNumber: ord.OrderNumber,
			UserID:      ord.UserID,
			Total:       ord.Pricing.Total,
		})
	}
	return ord, nil
}

func (s *Service) ListAll(ctx context.Context) ([]domain.Order, error) {
	return s.repo.ListAll(ctx)
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	return s.repo.Stats(ctx)
}
