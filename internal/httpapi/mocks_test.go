package httpapi

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/saitejagovikar/my-website-sub000/internal/address"
	"github.com/saitejagovikar/my-website-sub000/internal/cart"
	"github.com/saitejagovikar/my-website-sub000/internal/catalog"
	"github.com/saitejagovikar/my-website-sub000/internal/domain"
	"github.com/saitejagovikar/my-website-sub000/internal/gateway"
	"github.com/saitejagovikar/my-website-sub000/internal/notify"
	"github.com/saitejagovikar/my-website-sub000/internal/order"
)

type memSessions struct {
	mu    sync.Mutex
	carts map[string]*domain.Cart
}

func newMemSessions() *memSessions {
	return &memSessions{carts: make(map[string]*domain.Cart)}
}

func (m *memSessions) Get(_ context.Context, sessionID string) (*domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.carts[sessionID]; ok {
		cp := *c
		cp.Lines = append([]domain.CartLine(nil), c.Lines...)
		return &cp, nil
	}
	return &domain.Cart{CreatedAt: time.Now()}, nil
}

func (m *memSessions) Put(_ context.Context, sessionID string, c *domain.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	cp.Lines = append([]domain.CartLine(nil), c.Lines...)
	m.carts[sessionID] = &cp
	return nil
}

func (m *memSessions) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, sessionID)
	return nil
}

type memMirror struct {
	mu    sync.Mutex
	carts map[string]*domain.Cart
}

func newMemMirror() *memMirror {
	return &memMirror{carts: make(map[string]*domain.Cart)}
}

func (m *memMirror) Get(_ context.Context, userID string) (*domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.carts[userID]
	if !ok {
		return nil, cart.ErrCartNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memMirror) Replace(_ context.Context, userID string, c *domain.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.carts[userID] = &cp
	return nil
}

func (m *memMirror) Delete(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, userID)
	return nil
}

type fakeCatalog struct {
	products map[string]domain.Product
}

func (f *fakeCatalog) List(_ context.Context, category string) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range f.products {
		if category == "" || p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeCatalog) GetByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	return &p, nil
}

type memAddresses struct {
	mu    sync.Mutex
	addrs map[string]*domain.ShippingAddress
}

func newMemAddresses() *memAddresses {
	return &memAddresses{addrs: make(map[string]*domain.ShippingAddress)}
}

func (m *memAddresses) List(_ context.Context, userID string) ([]domain.ShippingAddress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.ShippingAddress
	for _, a := range m.addrs {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *memAddresses) Get(_ context.Context, userID, id string) (*domain.ShippingAddress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.addrs[id]
	if !ok || a.UserID != userID {
		return nil, address.ErrAddressNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memAddresses) Create(_ context.Context, addr *domain.ShippingAddress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	addr.ID = primitive.NewObjectID()
	cp := *addr
	m.addrs[addr.ID.Hex()] = &cp
	return nil
}

func (m *memAddresses) Update(_ context.Context, addr *domain.ShippingAddress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.addrs[addr.ID.Hex()]
	if !ok || existing.UserID != addr.UserID {
		return address.ErrAddressNotFound
	}
	cp := *addr
	m.addrs[addr.ID.Hex()] = &cp
	return nil
}

func (m *memAddresses) Delete(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.addrs[id]
	if !ok || a.UserID != userID {
		return address.ErrAddressNotFound
	}
	delete(m.addrs, id)
	return nil
}

func (m *memAddresses) ClearDefault(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.addrs {
		if a.UserID == userID {
			a.IsDefault = false
		}
	}
	return nil
}

type memProfiles struct {
	mu       sync.Mutex
	profiles map[string]*domain.PaymentProfile
}

func newMemProfiles() *memProfiles {
	return &memProfiles{profiles: make(map[string]*domain.PaymentProfile)}
}

func (m *memProfiles) List(_ context.Context, userID string) ([]domain.PaymentProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.PaymentProfile
	for _, p := range m.profiles {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memProfiles) Create(_ context.Context, profile *domain.PaymentProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	profile.ID = primitive.NewObjectID()
	cp := *profile
	m.profiles[profile.ID.Hex()] = &cp
	return nil
}

func (m *memProfiles) Update(_ context.Context, profile *domain.PaymentProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.profiles[profile.ID.Hex()]
	if !ok || existing.UserID != profile.UserID {
		return address.ErrProfileNotFound
	}
	cp := *profile
	m.profiles[profile.ID.Hex()] = &cp
	return nil
}

func (m *memProfiles) Delete(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok || p.UserID != userID {
		return address.ErrProfileNotFound
	}
	delete(m.profiles, id)
	return nil
}

func (m *memProfiles) ClearDefault(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.profiles {
		if p.UserID == userID {
			p.IsDefault = false
		}
	}
	return nil
}

type memOrders struct {
	mu     sync.Mutex
	orders map[string]*domain.Order
}

func newMemOrders() *memOrders {
	return &memOrders{orders: make(map[string]*domain.Order)}
}

func (m *memOrders) Create(_ context.Context, ord *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ord.ID = primitive.NewObjectID()
	ord.OrderNumber = "ORD-TEST-" + ord.ID.Hex()[:6]
	cp := *ord
	m.orders[ord.ID.Hex()] = &cp
	return nil
}

func (m *memOrders) GetByID(_ context.Context, id string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ord, ok := m.orders[id]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	cp := *ord
	return &cp, nil
}

func (m *memOrders) GetByTransactionID(_ context.Context, transactionID string) (*domain.Order, error) {
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

func (m *memOrders) ListByUser(_ context.Context, userID string) ([]domain.Order, error) {
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

func (m *memOrders) ListAll(_ context.Context) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Order
	for _, ord := range m.orders {
		out = append(out, *ord)
	}
	return out, nil
}

func (m *memOrders) CompletePayment(_ context.Context, id, paymentID string) error {
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
	ord.PaymentStatus = domain.PaymentStatusCompleted
	ord.Status = domain.OrderStatusConfirmed
	ord.Payment.PaymentID = paymentID
	return nil
}

func (m *memOrders) UpdateStatus(_ context.Context, id string, status domain.OrderStatus, trackingNumber string) error {
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

func (m *memOrders) Stats(_ context.Context) (*order.Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &order.Stats{
		TotalOrders: int64(len(m.orders)),
		ByStatus:    make(map[string]int64),
	}
	for _, ord := range m.orders {
		stats.ByStatus[string(ord.Status)]++
		if ord.PaymentStatus == domain.PaymentStatusCompleted {
			stats.Revenue += ord.Pricing.Total
		}
	}
	return stats, nil
}

type stubGateway struct {
	mu       sync.Mutex
	verifyOK bool
	nextRef  string
	fail     bool
}

func (g *stubGateway) CreateOrder(_ context.Context, req gateway.OrderRequest) (*gateway.GatewayOrder, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail {
		return nil, gateway.ErrGatewayUnavailable
	}
	ref := g.nextRef
	if ref == "" {
		ref = "order_stub_1"
	}
	return &gateway.GatewayOrder{
		Reference: ref,
		KeyID:     "rzp_test_key",
		Amount:    int64(req.Amount * 100),
		Currency:  req.Currency,
	}, nil
}

func (g *stubGateway) VerifySignature(gateway.PaymentProof) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.verifyOK
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, notify.Event) error { return nil }
