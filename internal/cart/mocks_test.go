package cart

import (
	"context"
	"sync"
	"time"

	"github.com/saitejagovikar/my-website-sub000/internal/domain"
)

type memorySessionStore struct {
	mu    sync.Mutex
	carts map[string]*domain.Cart
	err   error
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{carts: make(map[string]*domain.Cart)}
}

func (m *memorySessionStore) Get(_ context.Context, sessionID string) (*domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if c, ok := m.carts[sessionID]; ok {
		cp := *c
		cp.Lines = append([]domain.CartLine(nil), c.Lines...)
		return &cp, nil
	}
	now := time.Now()
	return &domain.Cart{CreatedAt: now, UpdatedAt: now}, nil
}

func (m *memorySessionStore) Put(_ context.Context, sessionID string, cart *domain.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	cp := *cart
	cp.Lines = append([]domain.CartLine(nil), cart.Lines...)
	m.carts[sessionID] = &cp
	return nil
}

func (m *memorySessionStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, sessionID)
	return nil
}

type mockMirror struct {
	mu       sync.Mutex
	carts    map[string]*domain.Cart
	replaces   []*domain.Cart // every cart passed to Replace, in order
	deletes    int
	err        error
	replaceErr error
	delay      time.Duration // simulates a slow write when non-zero
}

func newMockMirror() *mockMirror {
	return &mockMirror{carts: make(map[string]*domain.Cart)}
}

func (m *mockMirror) Get(_ context.Context, userID string) (*domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if c, ok := m.carts[userID]; ok {
		cp := *c
		cp.Lines = append([]domain.CartLine(nil), c.Lines...)
		return &cp, nil
	}
	return nil, ErrCartNotFound
}

func (m *mockMirror) Replace(_ context.Context, userID string, cart *domain.Cart) error {
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.replaceErr != nil {
		return m.replaceErr
	}
	cp := *cart
	cp.Lines = append([]domain.CartLine(nil), cart.Lines...)
	m.carts[userID] = &cp
	m.replaces = append(m.replaces, &cp)
	return nil
}

func (m *mockMirror) Delete(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	delete(m.carts, userID)
	m.deletes++
	return nil
}

func (m *mockMirror) replaceCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.replaces)
}

func (m *mockMirror) lastReplace() *domain.Cart {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.replaces) == 0 {
		return nil
	}
	return m.replaces[len(m.replaces)-1]
}
