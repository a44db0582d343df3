package checkout

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/saitejagovikar/my-website-sub000/internal/domain"
	"github.com/saitejagovikar/my-website-sub000/internal/gateway"
	"github.com/saitejagovikar/my-website-sub000/internal/notify"
	"github.com/saitejagovikar/my-website-sub000/internal/order"
)

// mockGateway scripts gateway behaviour and records calls.
type mockGateway struct {
	mu          sync.Mutex
	createCalls int
	createErr   error
	createDelay time.Duration
	verifyCalls int
	verifyOK    bool
	verifyDelay time.Duration
	nextRef     string
}

func (m *mockGateway) CreateOrder(ctx context.Context, req gateway.OrderRequest) (*gateway.GatewayOrder, error) {
	m.mu.Lock()
	m.createCalls++
	ref := m.nextRef
	err := m.createErr
	delay := m.createDelay
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
	if err != nil {
		return nil, err
	}
	if ref == "" {
		ref = "order_ref_1"
	}
	return &gateway.GatewayOrder{
		Reference: ref,
		KeyID:     "rzp_test_key",
		Amount:    int64(req.Amount * 100),
		Currency:  req.Currency,
	}, nil
}

func (m *mockGateway) VerifySignature(gateway.PaymentProof) bool {
	m.mu.Lock()
	m.verifyCalls++
	ok := m.verifyOK
	delay := m.verifyDelay
	m.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	return ok
}

func (m *mockGateway) calls() (created, verified int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createCalls, m.verifyCalls
}

// memoryOrderRepo implements order.Repository in memory.
type memoryOrderRepo struct {
	mu        sync.Mutex
	orders    map[string]*domain.Order
	completes int
}

func newMemoryOrderRepo() *memoryOrderRepo {
	return &memoryOrderRepo{orders: make(map[string]*domain.Order)}
}

func (m *memoryOrderRepo) Create(_ context.Context, ord *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ord.ID = primitive.NewObjectID()
	ord.OrderNumber = "ORD-TEST-" + ord.ID.Hex()[:6]
	cp := *ord
	m.orders[ord.ID.Hex()] = &cp
	return nil
}

func (m *memoryOrderRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ord, ok := m.orders[id]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	cp := *ord
	return &cp, nil
}

func (m *memoryOrderRepo) GetByTransactionID(_ context.Context, transactionID string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ord := range m.orders {
		if ord.Payment.TransactionID == transactionID {
			cp := *ord
			return &cp, nil
		}
	}
	return nil, order.ErrOrderNotFound
}

func (m *memoryOrderRepo) ListByUser(_ context.Context, userID string) ([]domain.Order, error) {
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

func (m *memoryOrderRepo) ListAll(_ context.Context) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Order
	for _, ord := range m.orders {
		out = append(out, *ord)
	}
	return out, nil
}

func (m *memoryOrderRepo) CompletePayment(_ context.Context, id, paymentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ord, ok := m.orders[id]
	if !ok {
		return order.ErrOrderNotFound
	}
	if ord.PaymentStatus == domain.PaymentStatusCompleted {
		return nil
	}
	if ord.PaymentStatus.IsTerminal() {
		return order.ErrPaymentFinal
	}
	m.completes++
	ord.PaymentStatus = domain.PaymentStatusCompleted
	ord.Status = domain.OrderStatusConfirmed
	ord.Payment.PaymentID = paymentID
	return nil
}

func (m *memoryOrderRepo) UpdateStatus(_ context.Context, id string, status domain.OrderStatus, trackingNumber string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ord, ok := m.orders[id]
	if !ok {
		return order.ErrOrderNotFound
	}
	ord.Status = status
	if trackingNumber != "" {
		ord.TrackingNumber = trackingNumber
	}
	return nil
}

func (m *memoryOrderRepo) Stats(_ context.Context) (*order.Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &order.Stats{TotalOrders: int64(len(m.orders)), ByStatus: map[string]int64{}}, nil
}

func (m *memoryOrderRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}

type mockClearer struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (m *mockClearer) ClearAll(context.Context, string, string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.err
}

func (m *mockClearer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type mockSaver struct {
	mu    sync.Mutex
	saved []domain.ShippingAddress
	err   error
}

func (m *mockSaver) CreateAddress(_ context.Context, addr *domain.ShippingAddress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, *addr)
	return nil
}

func (m *mockSaver) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.saved)
}

type mockPublisher struct {
	mu     sync.Mutex
	events []notify.Event
}

func (m *mockPublisher) Publish(_ context.Context, event notify.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *mockPublisher) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}
