// README: Board store backed by a capped Redis list, with an in-memory fallback.
package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const boardKeyPrefix = "quote:session:%s:board"

// Board keeps the newest limit cards of each session, oldest first.
type Board interface {
	Append(ctx context.Context, session string, c Card, limit int, ttl time.Duration) error
	List(ctx context.Context, session string) ([]Card, error)
	Clear(ctx context.Context, session string) error
}

type RedisBoard struct {
	redis *redis.Client
}

func NewRedisBoard(redis *redis.Client) *RedisBoard {
	return &RedisBoard{redis: redis}
}

func (b *RedisBoard) Append(ctx context.Context, session string, c Card, limit int, ttl time.Duration) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return err
	}
	key := boardKey(session)
	pipe := b.redis.TxPipeline()
	pipe.RPush(ctx, key, payload)
	pipe.LTrim(ctx, key, int64(-limit), -1)
	pipe.Expire(ctx, key, ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func (b *RedisBoard) List(ctx context.Context, session string) ([]Card, error) {
	vals, err := b.redis.LRange(ctx, boardKey(session), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	cards := make([]Card, 0, len(vals))
	for _, v := range vals {
		var c Card
		if err := json.Unmarshal([]byte(v), &c); err != nil {
			return nil, fmt.Errorf("decode card: %w", err)
		}
		cards = append(cards, c)
	}
	return cards, nil
}

func (b *RedisBoard) Clear(ctx context.Context, session string) error {
	return b.redis.Del(ctx, boardKey(session)).Err()
}

func boardKey(session string) string {
	return fmt.Sprintf(boardKeyPrefix, session)
}

// MemoryBoard is used when Redis is not configured.
type MemoryBoard struct {
	mu     sync.Mutex
	boards map[string]*memoryEntry
	now    func() time.Time
}

type memoryEntry struct {
	cards   []Card
	expires time.Time
}

func NewMemoryBoard() *MemoryBoard {
	return &MemoryBoard{boards: make(map[string]*memoryEntry), now: time.Now}
}

func (b *MemoryBoard) Append(_ context.Context, session string, c Card, limit int, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	e := b.live(session)
	if e == nil {
		e = &memoryEntry{}
		b.boards[session] = e
	}
	e.cards = append(e.cards, c)
	if over := len(e.cards) - limit; over > 0 {
		e.cards = append([]Card(nil), e.cards[over:]...)
	}
	e.expires = b.now().Add(ttl)
	return nil
}

func (b *MemoryBoard) List(_ context.Context, session string) ([]Card, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e := b.live(session)
	if e == nil {
		return []Card{}, nil
	}
	return append([]Card(nil), e.cards...), nil
}

func (b *MemoryBoard) Clear(_ context.Context, session string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.boards, session)
	return nil
}

// live returns the session entry, dropping it once expired. Caller holds mu.
func (b *MemoryBoard) live(session string) *memoryEntry {
	e, ok := b.boards[session]
	if !ok {
		return nil
	}
	if !b.now().Before(e.expires) {
		delete(b.boards, session)
		return nil
	}
	return e
}
