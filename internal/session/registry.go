package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"webcarros/pkg/logger"
)

// Session bundles everything the service keeps for one browser.
type Session struct {
	ID       string
	Store    *Store
	Notifier *Notifier
	Draft    *Draft

	ephemeral bool
	mu        sync.Mutex
	lastSeen  time.Time
}

func newSession(id string, verifier TokenVerifier, token string, now time.Time) *Session {
	notifier := NewNotifier(verifier, token)
	store := NewStore()
	store.Mount(notifier)

	return &Session{
		ID:       id,
		Store:    store,
		Notifier: notifier,
		Draft:    NewDraft(),
		lastSeen: now,
	}
}

// Ephemeral reports whether the session lives only for one request.
func (s *Session) Ephemeral() bool {
	return s.ephemeral
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

func (s *Session) Close() {
	s.Store.Close()
}

// Registry owns one Session per browser, keyed by the session cookie.
type Registry struct {
	verifier    TokenVerifier
	idleTimeout time.Duration
	now         func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry(verifier TokenVerifier, idleTimeout time.Duration) *Registry {
	return &Registry{
		verifier:    verifier,
		idleTimeout: idleTimeout,
		now:         time.Now,
		sessions:    make(map[string]*Session),
	}
}

// Open returns the session for id, creating a fresh one under a new id when
// id is empty or unknown. created tells the caller to set the cookie.
func (r *Registry) Open(id string) (sess *Session, created bool) {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	if id != "" {
		if existing, ok := r.sessions[id]; ok {
			existing.touch(now)
			return existing, false
		}
	}

	sess = newSession(uuid.New().String(), r.verifier, "", now)
	r.sessions[sess.ID] = sess
	return sess, true
}

// Ephemeral builds a session for a request that authenticates with a bearer
// token. It is not registered; the caller closes it.
func (r *Registry) Ephemeral(token string) *Session {
	sess := newSession(uuid.New().String(), r.verifier, token, r.now())
	sess.ephemeral = true
	return sess
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// EvictIdle drops sessions not seen within the idle timeout.
func (r *Registry) EvictIdle() int {
	now := r.now()

	r.mu.Lock()
	var evicted []*Session
	for id, sess := range r.sessions {
		if sess.idleSince(now) > r.idleTimeout {
			delete(r.sessions, id)
			evicted = append(evicted, sess)
		}
	}
	r.mu.Unlock()

	for _, sess := range evicted {
		sess.Close()
	}
	return len(evicted)
}

// Run evicts idle sessions every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := r.EvictIdle(); n > 0 {
				logger.Debug("Evicted %d idle sessions", n)
			}
		case <-ctx.Done():
			return
		}
	}
}

func (r *Registry) Close() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, sess := range sessions {
		sess.Close()
	}
}
