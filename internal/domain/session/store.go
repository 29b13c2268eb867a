package session

import (
	"context"
	"errors"
	"sync"
	"time"
)

// CookieName is the name under which the token is persisted.
const CookieName = "token"

const (
	RememberTTL = 7 * 24 * time.Hour
	DefaultTTL  = 24 * time.Hour
)

var ErrNoToken = errors.New("session token not found")

// TTL returns how long a token is kept.
func TTL(rememberMe bool) time.Duration {
	if rememberMe {
		return RememberTTL
	}
	return DefaultTTL
}

// Store persists the bearer token. Implementations: the web cookie store,
// the terminal sqlite store and MemoryStore.
type Store interface {
	SetToken(ctx context.Context, token string, rememberMe bool) error
	Token(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

// MemoryStore keeps a single token in memory.
type MemoryStore struct {
	mu        sync.Mutex
	token     string
	expiresAt time.Time
	now       func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (m *MemoryStore) SetToken(_ context.Context, token string, rememberMe bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.token = token
	m.expiresAt = m.now().Add(TTL(rememberMe))
	return nil
}

func (m *MemoryStore) Token(_ context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token == "" {
		return "", ErrNoToken
	}
	if !m.now().Before(m.expiresAt) {
		m.token = ""
		return "", ErrNoToken
	}
	return m.token, nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.token = ""
	m.expiresAt = time.Time{}
	return nil
}
