package cart

import (
	"context"
	"log"
	"sync"
	"time"
)

// syncPhase is the explicit state of one user's mirror sync:
// idle -> scheduled (debounce timer armed) -> in flight (write running).
// A mutation that lands while a write is in flight marks the entry dirty and
// the write re-arms the timer when it finishes, so writes always apply in
// mutation order and never race each other.
type syncPhase int

const (
	syncIdle syncPhase = iota
	syncScheduled
	syncInFlight
)

type syncEntry struct {
	phase     syncPhase
	timer     *time.Timer
	dirty     bool
	sessionID string
}

// Syncer trails the session cart into the Mongo mirror. Bursts of mutations
// coalesce into a single write after the debounce window; the written state is
// whatever the session store holds at flush time, never an intermediate
// snapshot. A failed write is logged and superseded by the next one — the
// session cart is not rolled back.
type Syncer struct {
	sessions     SessionStore
	mirror       MirrorRepository
	debounce     time.Duration
	writeTimeout time.Duration

	mu      sync.Mutex
	entries map[string]*syncEntry // keyed by user ID
}

func NewSyncer(sessions SessionStore, mirror MirrorRepository, debounce time.Duration) *Syncer {
	return &Syncer{
		sessions:     sessions,
		mirror:       mirror,
		debounce:     debounce,
		writeTimeout: 5 * time.Second,
		entries:      make(map[string]*syncEntry),
	}
}

// Schedule requests a mirror write for the user after the debounce window.
// Safe to call on every mutation; calls during the window re-arm the timer.
func (s *Syncer) Schedule(userID, sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[userID]
	if !ok {
		e = &syncEntry{}
		s.entries[userID] = e
	}
	e.sessionID = sessionID

	switch e.phase {
	case syncIdle:
		e.phase = syncScheduled
		e.timer = time.AfterFunc(s.debounce, func() { s.fire(userID) })
	case syncScheduled:
		e.timer.Reset(s.debounce)
	case syncInFlight:
		e.dirty = true
	}
}

func (s *Syncer) fire(userID string) {
	s.mu.Lock()
	e, ok := s.entries[userID]
	if !ok || e.phase != syncScheduled {
		s.mu.Unlock()
		return
	}
	e.phase = syncInFlight
	e.dirty = false
	sessionID := e.sessionID
	s.mu.Unlock()

	s.write(userID, sessionID)

	s.mu.Lock()
	if e.dirty {
		e.phase = syncScheduled
		e.timer = time.AfterFunc(s.debounce, func() { s.fire(userID) })
	} else {
		delete(s.entries, userID)
	}
	s.mu.Unlock()
}

func (s *Syncer) write(userID, sessionID string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.writeTimeout)
	defer cancel()

	cart, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		log.Printf("cart sync: read session %s failed: %v", sessionID, err)
		return
	}
	if err := s.mirror.Replace(ctx, userID, cart); err != nil {
		log.Printf("cart sync: mirror write for user %s failed: %v", userID, err)
	}
}

// Flush writes all pending carts immediately. Called on shutdown so a
// debounce window in progress is not lost.
func (s *Syncer) Flush() {
	s.mu.Lock()
	type pending struct{ userID, sessionID string }
	var all []pending
	for userID, e := range s.entries {
		if e.timer != nil {
			e.timer.Stop()
		}
		all = append(all, pending{userID, e.sessionID})
		delete(s.entries, userID)
	}
	s.mu.Unlock()

	for _, p := range all {
		s.write(p.userID, p.sessionID)
	}
}
