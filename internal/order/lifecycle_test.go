package order

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/saitejagovikar/my-website-sub000/internal/domain"
	"github.com/saitejagovikar/my-website-sub000/internal/notify"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []notify.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event notify.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) eventTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type memoryRepository struct {
	mu     sync.Mutex
	orders map[string]*domain.Order
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{orders: make(map[string]*domain.Order)}
}

func (m *memoryRepository) Create(_ context.Context, ord *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ord.ID = primitive.NewObjectID()
	ord.OrderNumber = "ORD-TEST-" + ord.ID.Hex()[:6]
	cp := *ord
	m.orders[ord.ID.Hex()] = &cp
	return nil
}

func (m *memoryRepository) GetByID(_ context.Context, id string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ord, ok := m.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	cp := *ord
	return &cp, nil
}

func (m *memoryRepository) GetByTransactionID(_ context.Context, transactionID string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ord := range m.orders {
		if ord.Payment.TransactionID == transactionID {
			cp := *ord
			return &cp, nil
		}
	}
	return nil, ErrOrderNotFound
}

func (m *memoryRepository) ListByUser(_ context.Context, userID string) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Order
	for _, ord := range m.orders {
		if ord.UserID == userID {
			out = append(out, *ord)
		}
	}
	return out, nil
}

func (m *memoryRepository) ListAll(_ context.Context) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Order
	for _, ord := range m.orders {
		out = append(out, *ord)
	}
	return out, nil
}

func (m *memoryRepository) CompletePayment(_ context.Context, id, paymentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ord, ok := m.orders[id]
	if !ok {
		return ErrOrderNotFound
	}
	if ord.PaymentStatus == domain.PaymentStatusCompleted {
		return nil
	}
	if ord.PaymentStatus.IsTerminal() {
		return ErrPaymentFinal
	}
	ord.PaymentStatus = domain.PaymentStatusCompleted
	ord.Status = domain.OrderStatusConfirmed
	ord.Payment.PaymentID = paymentID
	return nil
}

func (m *memoryRepository) UpdateStatus(_ context.Context, id string, status domain.OrderStatus, trackingNumber string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ord, ok := m.orders[id]
	if !ok {
		return ErrOrderNotFound
	}
	ord.Status = status
	if trackingNumber != "" {
		ord.TrackingNumber = trackingNumber
	}
	return nil
}

func (m *memoryRepository) Stats(_ context.Context) (*Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &Stats{ByStatus: make(map[string]int64)}
	for _, ord := range m.orders {
		stats.TotalOrders++
		stats.ByStatus[string(ord.Status)]++
		if ord.PaymentStatus == domain.PaymentStatusCompleted {
			stats.Revenue += ord.Pricing.Total
		}
	}
	return stats, nil
}

func seedOrder(t *testing.T, repo *memoryRepository, status domain.OrderStatus, payment domain.PaymentStatus) *domain.Order {
	t.Helper()
	ord := &domain.Order{
		UserID:        "u1",
		Status:        status,
		PaymentStatus: payment,
		Payment:       domain.PaymentInfo{Method: domain.PaymentMethodOnline},
		Pricing:       domain.PricingBreakdown{Total: 1260},
	}
	require.NoError(t, repo.Create(context.Background(), ord))
	return ord
}

func TestCancel_FromConfirmedKeepsPaymentStatus(t *testing.T) {
	repo := newMemoryRepository()
	events := &recordingPublisher{}
	svc := NewService(repo, events)
	ord := seedOrder(t, repo, domain.OrderStatusConfirmed, domain.PaymentStatusCompleted)

	got, err := svc.Cancel(context.Background(), "u1", ord.ID.Hex())
	require.NoError(t, err)

	assert.Equal(t, domain.OrderStatusCancelled, got.Status)
	// the payment axis is untouched: a refund is owed, not recorded here
	stored, err := repo.GetByID(context.Background(), ord.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, stored.Status)
	assert.Equal(t, domain.PaymentStatusCompleted, stored.PaymentStatus)

	assert.Eventually(t, func() bool {
		types := events.eventTypes()
		return len(types) == 1 && types[0] == notify.EventOrderCancelled
	}, time.Second, 5*time.Millisecond)
}

func TestCancel_RejectedOnceShipped(t *testing.T) {
	repo := newMemoryRepository()
	svc := NewService(repo, &recordingPublisher{})
	ord := seedOrder(t, repo, domain.OrderStatusShipped, domain.PaymentStatusCompleted)

	_, err := svc.Cancel(context.Background(), "u1", ord.ID.Hex())

	assert.ErrorIs(t, err, ErrNotCancellable)
}

func TestCancel_WrongOwner(t *testing.T) {
	repo := newMemoryRepository()
	svc := NewService(repo, &recordingPublisher{})
	ord := seedOrder(t, repo, domain.OrderStatusPending, domain.PaymentStatusPending)

	_, err := svc.Cancel(context.Background(), "someone-else", ord.ID.Hex())

	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestAdminUpdateStatus_ShipAttachesTracking(t *testing.T) {
	repo := newMemoryRepository()
	events := &recordingPublisher{}
	svc := NewService(repo, events)
	ord := seedOrder(t, repo, domain.OrderStatusConfirmed, domain.PaymentStatusCompleted)

	got, err := svc.AdminUpdateStatus(context.Background(), ord.ID.Hex(), domain.OrderStatusShipped, "AWB123456")
	require.NoError(t, err)

	assert.Equal(t, domain.OrderStatusShipped, got.Status)
	assert.Equal(t, "AWB123456", got.TrackingNumber)

	assert.Eventually(t, func() bool {
		types := events.eventTypes()
		return len(types) == 1 && types[0] == notify.EventOrderShipped
	}, time.Second, 5*time.Millisecond)
}

func TestAdminUpdateStatus_IllegalTransition(t *testing.T) {
	repo := newMemoryRepository()
	svc := NewService(repo, &recordingPublisher{})
	ord := seedOrder(t, repo, domain.OrderStatusPending, domain.PaymentStatusPending)

	_, err := svc.AdminUpdateStatus(context.Background(), ord.ID.Hex(), domain.OrderStatusDelivered, "")

	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestAdminUpdateStatus_DeliveredAfterShipped(t *testing.T) {
	repo := newMemoryRepository()
	svc := NewService(repo, &recordingPublisher{})
	ord := seedOrder(t, repo, domain.OrderStatusShipped, domain.PaymentStatusCompleted)

	got, err := svc.AdminUpdateStatus(context.Background(), ord.ID.Hex(), domain.OrderStatusDelivered, "")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusDelivered, got.Status)
}

func TestStats_RevenueCountsCompletedPaymentsOnly(t *testing.T) {
	repo := newMemoryRepository()
	svc := NewService(repo, &recordingPublisher{})
	seedOrder(t, repo, domain.OrderStatusConfirmed, domain.PaymentStatusCompleted)
	seedOrder(t, repo, domain.OrderStatusPending, domain.PaymentStatusPending)
	seedOrder(t, repo, domain.OrderStatusCancelled, domain.PaymentStatusCompleted)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.TotalOrders)
	assert.Equal(t, 2520.0, stats.Revenue)
	assert.Equal(t, int64(1), stats.ByStatus["pending"])
}
