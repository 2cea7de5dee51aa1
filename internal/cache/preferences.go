package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const preferenceKeyPrefix = "apodata:session:"

// PreferenceStore keeps the period keys of each session in one Redis hash.
// It satisfies session.Storage.
type PreferenceStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPreferenceStore wraps client. A ttl of zero keeps hashes forever;
// otherwise every write pushes the expiry back.
func NewPreferenceStore(client *redis.Client, ttl time.Duration) *PreferenceStore {
	return &PreferenceStore{client: client, ttl: ttl}
}

func (s *PreferenceStore) Load(ctx context.Context, sessionID string) (map[string]string, error) {
	values, err := s.client.HGetAll(ctx, preferenceKey(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall failed: %w", err)
	}
	return values, nil
}

func (s *PreferenceStore) Save(ctx context.Context, sessionID string, set map[string]string, clear []string) error {
	key := preferenceKey(sessionID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if len(clear) > 0 {
			pipe.HDel(ctx, key, clear...)
		}
		if len(set) > 0 {
			pairs := make([]interface{}, 0, len(set)*2)
			for k, v := range set {
				pairs = append(pairs, k, v)
			}
			pipe.HSet(ctx, key, pairs...)
		}
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save preferences failed: %w", err)
	}
	return nil
}

func preferenceKey(sessionID string) string {
	return preferenceKeyPrefix + sessionID
}
