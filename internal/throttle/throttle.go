// Package throttle limits how often one client may send the contact form.
package throttle

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"luxesalon.cz/salon-web/internal/observability"
)

// Limiter admits or rejects one event for key.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Redis is a fixed-window limiter shared by every instance pointing at the
// same Redis. It admits when Redis is unavailable.
type Redis struct {
	client *redis.Client
	limit  int64
	window time.Duration
	prefix string
}

// NewRedis limits key to limit events per window. limit <= 0 disables it.
func NewRedis(client *redis.Client, limit int, period time.Duration) *Redis {
	return &Redis{client: client, limit: int64(limit), window: period, prefix: "salon:contact:"}
}

func (r *Redis) Allow(ctx context.Context, key string) (bool, error) {
	if r.limit <= 0 {
		return true, nil
	}
	k := r.prefix + key
	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, r.window)
	if _, err := pipe.Exec(ctx); err != nil {
		observability.FromContext(ctx).Warn("throttle: redis unavailable", zap.Error(err))
		return true, err
	}
	return incr.Val() <= r.limit, nil
}

// Memory is an in-process fixed-window limiter.
type Memory struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	now     func() time.Time
	windows map[string]window
}

type window struct {
	start time.Time
	count int
}

// NewMemory limits key to limit events per window. limit <= 0 disables it.
func NewMemory(limit int, period time.Duration) *Memory {
	return &Memory{limit: limit, window: period, now: time.Now, windows: map[string]window{}}
}

func (m *Memory) Allow(_ context.Context, key string) (bool, error) {
	if m.limit <= 0 {
		return true, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	w := m.windows[key]
	if w.start.IsZero() || now.Sub(w.start) >= m.window {
		w = window{start: now}
		m.sweep(now)
	}
	if w.count >= m.limit {
		m.windows[key] = w
		return false, nil
	}
	w.count++
	m.windows[key] = w
	return true, nil
}

// sweep drops expired windows.
func (m *Memory) sweep(now time.Time) {
	for k, w := range m.windows {
		if now.Sub(w.start) >= m.window {
			delete(m.windows, k)
		}
	}
}
