package session

import (
	"context"
	"sync"
	"time"

	"webcarros/internal/domain/entity"
	"webcarros/pkg/logger"
)

// TokenVerifier resolves an ID token into an identity.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*entity.Identity, error)
}

const verifyTimeout = 10 * time.Second

// Notifier is the auth-state stream of one browser session. The first
// subscription kicks off an asynchronous verification of the stored token;
// SignIn and SignOut republish to every subscriber.
type Notifier struct {
	verifier TokenVerifier

	// deliver serializes notifications so subscribers see them in order.
	deliver sync.Mutex

	mu          sync.Mutex
	token       string
	current     *entity.Identity
	resolved    bool
	resolving   bool
	generation  int
	subscribers map[int]func(*entity.Identity)
	nextID      int
}

func NewNotifier(verifier TokenVerifier, token string) *Notifier {
	return &Notifier{
		verifier:    verifier,
		token:       token,
		subscribers: make(map[int]func(*entity.Identity)),
	}
}

func (n *Notifier) Subscribe(fn func(*entity.Identity)) func() {
	n.deliver.Lock()
	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.subscribers[id] = fn
	resolved := n.resolved
	current := n.current
	startResolve := !resolved && !n.resolving
	if startResolve {
		n.resolving = true
	}
	generation := n.generation
	token := n.token
	n.mu.Unlock()

	if resolved {
		fn(current)
	}
	n.deliver.Unlock()

	if startResolve {
		go n.resolve(generation, token)
	}

	return func() {
		n.mu.Lock()
		delete(n.subscribers, id)
		n.mu.Unlock()
	}
}

func (n *Notifier) resolve(generation int, token string) {
	var identity *entity.Identity
	if token != "" {
		ctx, cancel := context.WithTimeout(context.Background(), verifyTimeout)
		defer cancel()

		verified, err := n.verifier.VerifyToken(ctx, token)
		if err != nil {
			logger.Warn("Stored session token rejected: %v", err)
		} else {
			identity = verified
		}
	}

	n.publish(func() bool {
		n.resolving = false
		// A sign-in or sign-out during verification wins.
		if n.generation != generation {
			return false
		}
		if identity == nil {
			n.token = ""
		}
		n.current = identity
		n.resolved = true
		return true
	})
}

// SignIn records a fresh identity and token and notifies subscribers.
func (n *Notifier) SignIn(identity *entity.Identity, token string) {
	n.publish(func() bool {
		n.generation++
		n.token = token
		n.current = identity
		n.resolved = true
		return true
	})
}

// SignOut drops the identity and notifies subscribers with nil.
func (n *Notifier) SignOut() {
	n.publish(func() bool {
		n.generation++
		n.token = ""
		n.current = nil
		n.resolved = true
		return true
	})
}

// Token returns the ID token of the signed-in user, if any.
func (n *Notifier) Token() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.token
}

func (n *Notifier) publish(mutate func() bool) {
	n.deliver.Lock()
	defer n.deliver.Unlock()

	n.mu.Lock()
	if !mutate() {
		n.mu.Unlock()
		return
	}
	current := n.current
	subscribers := make([]func(*entity.Identity), 0, len(n.subscribers))
	for _, fn := range n.subscribers {
		subscribers = append(subscribers, fn)
	}
	n.mu.Unlock()

	for _, fn := range subscribers {
		fn(current)
	}
}
