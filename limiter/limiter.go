// Package limiter rate-limits processing requests per client with a fixed
// one-minute window.
package limiter

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter decides whether one more request from key is allowed right now.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

const window = time.Minute

func windowStamp(now time.Time) int64 {
	return now.Unix() / int64(window.Seconds())
}

// Redis is a fixed-window counter shared across server instances.
type Redis struct {
	client *redis.Client
	limit  int
	now    func() time.Time
}

// NewRedis builds a limiter over an existing client. limit is requests per
// minute per key.
func NewRedis(client *redis.Client, limit int) *Redis {
	return &Redis{client: client, limit: limit, now: time.Now}
}

func (r *Redis) Allow(ctx context.Context, key string) (bool, error) {
	bucket := fmt.Sprintf("ratelimit:%s:%d", key, windowStamp(r.now()))
	pipe := r.client.TxPipeline()
	count := pipe.Incr(ctx, bucket)
	pipe.Expire(ctx, bucket, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return count.Val() <= int64(r.limit), nil
}

// Memory is the single-process fallback used when Redis is not configured,
// and the implementation the tests drive.
type Memory struct {
	limit int
	now   func() time.Time

	mu     sync.Mutex
	stamp  int64
	counts map[string]int
}

// NewMemory builds an in-process fixed-window limiter.
func NewMemory(limit int) *Memory {
	return &Memory{limit: limit, now: time.Now, counts: make(map[string]int)}
}

func (m *Memory) Allow(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stamp := windowStamp(m.now())
	if stamp != m.stamp {
		m.stamp = stamp
		m.counts = make(map[string]int)
	}
	m.counts[key]++
	return m.counts[key] <= m.limit, nil
}
