package session

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Storage persists the period keys of a session. It is a mirror of the
// store's state and is only read when a store initialises.
type Storage interface {
	// Load returns every stored key of the session. An unknown session is
	// an empty map, not an error.
	Load(ctx context.Context, sessionID string) (map[string]string, error)
	// Save writes set and deletes clear in one step.
	Save(ctx context.Context, sessionID string, set map[string]string, clear []string) error
}

// MemoryStorage keeps session keys in process memory.
type MemoryStorage struct {
	mu    sync.Mutex
	items *gocache.Cache
}

var _ Storage = (*MemoryStorage)(nil)

// NewMemoryStorage creates an in-memory Storage. A ttl of zero keeps
// entries until the process exits.
func NewMemoryStorage(ttl time.Duration) *MemoryStorage {
	cleanup := ttl
	if cleanup <= 0 {
		ttl = gocache.NoExpiration
		cleanup = 0
	}
	return &MemoryStorage{items: gocache.New(ttl, cleanup)}
}

func (m *MemoryStorage) Load(_ context.Context, sessionID string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]string)
	if v, ok := m.items.Get(sessionID); ok {
		for k, val := range v.(map[string]string) {
			out[k] = val
		}
	}
	return out, nil
}

func (m *MemoryStorage) Save(_ context.Context, sessionID string, set map[string]string, clear []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	values := make(map[string]string)
	if v, ok := m.items.Get(sessionID); ok {
		for k, val := range v.(map[string]string) {
			values[k] = val
		}
	}
	for k, v := range set {
		values[k] = v
	}
	for _, k := range clear {
		delete(values, k)
	}
	m.items.Set(sessionID, values, gocache.DefaultExpiration)
	return nil
}
