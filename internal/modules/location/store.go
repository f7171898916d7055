// README: Per-session cache of the last accepted device fix, Redis or in-memory.
package location

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const fixKeyPrefix = "location:session:%s:fix"

// FixStore keeps the last accepted fix of a session until ttl elapses.
type FixStore interface {
	SaveFix(ctx context.Context, session string, f Fix, ttl time.Duration) error
	LastFix(ctx context.Context, session string) (Fix, bool, error)
}

type RedisStore struct {
	redis *redis.Client
}

func NewRedisStore(redis *redis.Client) *RedisStore {
	return &RedisStore{redis: redis}
}

func (s *RedisStore) SaveFix(ctx context.Context, session string, f Fix, ttl time.Duration) error {
	payload, err := json.Marshal(f)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, fixKey(session), payload, ttl).Err()
}

func (s *RedisStore) LastFix(ctx context.Context, session string) (Fix, bool, error) {
	val, err := s.redis.Get(ctx, fixKey(session)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Fix{}, false, nil
	}
	if err != nil {
		return Fix{}, false, err
	}
	var f Fix
	if err := json.Unmarshal(val, &f); err != nil {
		return Fix{}, false, fmt.Errorf("decode cached fix: %w", err)
	}
	return f, true, nil
}

func fixKey(session string) string {
	return fmt.Sprintf(fixKeyPrefix, session)
}

// MemoryStore is used when Redis is not configured.
type MemoryStore struct {
	mu    sync.Mutex
	fixes map[string]cachedFix
	now   func() time.Time
}

type cachedFix struct {
	fix     Fix
	expires time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{fixes: make(map[string]cachedFix), now: time.Now}
}

func (s *MemoryStore) SaveFix(_ context.Context, session string, f Fix, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fixes[session] = cachedFix{fix: f, expires: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) LastFix(_ context.Context, session string) (Fix, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.fixes[session]
	if !ok {
		return Fix{}, false, nil
	}
	if !s.now().Before(c.expires) {
		delete(s.fixes, session)
		return Fix{}, false, nil
	}
	return c.fix, true, nil
}
