package session

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const defaultStoreTTL = 24 * time.Hour

// Registry hands out the Store of each session. Idle stores expire after
// the configured TTL; their state survives in Storage.
type Registry struct {
	mu      sync.Mutex
	stores  *gocache.Cache
	ttl     time.Duration
	storage Storage
	opts    Options
}

func NewRegistry(storage Storage, ttl time.Duration, opts Options) *Registry {
	if ttl <= 0 {
		ttl = defaultStoreTTL
	}
	return &Registry{
		stores:  gocache.New(ttl, ttl/2),
		ttl:     ttl,
		storage: storage,
		opts:    opts,
	}
}

// Store returns the store of sessionID, creating it on first use. Every
// access pushes its expiry back.
func (r *Registry) Store(sessionID string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	var store *Store
	if v, ok := r.stores.Get(sessionID); ok {
		store = v.(*Store)
	} else {
		store = NewStore(sessionID, r.storage, r.opts)
	}
	r.stores.Set(sessionID, store, r.ttl)
	return store
}

// Len returns the number of live stores, reported by the health check.
func (r *Registry) Len() int {
	return r.stores.ItemCount()
}
