package throttle

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryFixedWindow(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	m := NewMemory(2, time.Hour)
	m.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := m.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, _ := m.Allow(ctx, "1.2.3.4")
	assert.False(t, ok, "third event in the window")

	ok, _ = m.Allow(ctx, "5.6.7.8")
	assert.True(t, ok, "keys are independent")

	now = now.Add(time.Hour)
	ok, _ = m.Allow(ctx, "1.2.3.4")
	assert.True(t, ok, "new window")
}

func TestMemoryDisabled(t *testing.T) {
	m := NewMemory(0, time.Hour)
	for i := 0; i < 10; i++ {
		ok, err := m.Allow(context.Background(), "k")
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestRedisFailsOpen(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	defer client.Close()

	ok, err := NewRedis(client, 1, time.Hour).Allow(context.Background(), "k")
	assert.Error(t, err)
	assert.True(t, ok)
}
