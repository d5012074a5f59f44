package session

import (
	"context"
	"sync"

	"webcarros/internal/domain/entity"
)

// Provider is an identity-provider auth-state stream. Subscribe delivers the
// current identity (nil when signed out) at least once and again on every
// change, until the returned function is called.
type Provider interface {
	Subscribe(fn func(*entity.Identity)) (unsubscribe func())
}

// State is a snapshot of a Store.
type State struct {
	Identity *entity.Identity `json:"user"`
	Loading  bool             `json:"loading"`
}

// Signed reports whether a user is present.
func (s State) Signed() bool {
	return s.Identity != nil
}

// Store holds who is signed in for one browser session. It starts loading and
// stays so until the provider's first notification arrives.
type Store struct {
	mu          sync.RWMutex
	identity    *entity.Identity
	loading     bool
	ready       chan struct{}
	readyOnce   sync.Once
	unsubscribe func()
	watchers    map[int]func(State)
	nextWatcher int
	closed      bool
}

func NewStore() *Store {
	return &Store{
		loading:  true,
		ready:    make(chan struct{}),
		watchers: make(map[int]func(State)),
	}
}

// Mount subscribes the store to provider. Only the first call subscribes.
func (s *Store) Mount(provider Provider) {
	s.mu.Lock()
	if s.unsubscribe != nil || s.closed {
		s.mu.Unlock()
		return
	}
	// Placeholder so a concurrent Mount sees the store as taken.
	s.unsubscribe = func() {}
	s.mu.Unlock()

	unsubscribe := provider.Subscribe(s.apply)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		unsubscribe()
		return
	}
	s.unsubscribe = unsubscribe
	s.mu.Unlock()
}

func (s *Store) apply(identity *entity.Identity) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.identity = identity
	s.loading = false
	state := s.stateLocked()
	watchers := make([]func(State), 0, len(s.watchers))
	for _, fn := range s.watchers {
		watchers = append(watchers, fn)
	}
	s.mu.Unlock()

	s.readyOnce.Do(func() { close(s.ready) })

	for _, fn := range watchers {
		fn(state)
	}
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stateLocked()
}

func (s *Store) stateLocked() State {
	var identity *entity.Identity
	if s.identity != nil {
		copied := *s.identity
		identity = &copied
	}
	return State{Identity: identity, Loading: s.loading}
}

// Wait blocks until the store has left the loading state.
func (s *Store) Wait(ctx context.Context) (State, error) {
	select {
	case <-s.ready:
		return s.State(), nil
	case <-ctx.Done():
		return State{Loading: true}, ctx.Err()
	}
}

// Watch registers fn for every change. fn runs on the notifying goroutine and
// must not block.
func (s *Store) Watch(fn func(State)) (cancel func()) {
	s.mu.Lock()
	id := s.nextWatcher
	s.nextWatcher++
	s.watchers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.watchers, id)
		s.mu.Unlock()
	}
}

// Close unsubscribes from the provider. Later notifications are ignored.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	unsubscribe := s.unsubscribe
	s.watchers = make(map[int]func(State))
	s.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}
