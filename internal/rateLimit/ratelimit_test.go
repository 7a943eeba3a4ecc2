package rateLimit

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

type memCounter struct {
	hits map[string]int64
	err  error
}

func (m *memCounter) IncrWindow(_ context.Context, key string, _ time.Duration) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.hits[key]++
	return m.hits[key], nil
}

func TestAllow(t *testing.T) {
	counter := &memCounter{hits: map[string]int64{}}
	rl := NewRateLimiter(counter)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow(ctx, "ip:1", 3, time.Minute))
	}
	assert.False(t, rl.Allow(ctx, "ip:1", 3, time.Minute))
	assert.True(t, rl.Allow(ctx, "ip:2", 3, time.Minute))
	assert.Equal(t, int64(4), counter.hits["rl:ip:1"])
}

func TestAllowFailsOpen(t *testing.T) {
	rl := NewRateLimiter(&memCounter{err: errors.New("redis down")})
	assert.True(t, rl.Allow(context.Background(), "ip:1", 1, time.Minute))
}
