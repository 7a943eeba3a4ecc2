package rateLimit

import (
	"context"
	"time"

	redisadapter "github.com/robertarktes/campus-reservations/internal/adapters/redis"
	"github.com/robertarktes/campus-reservations/internal/observability"
)

// Counter counts hits within a fixed window; *redisadapter.Cache satisfies it.
type Counter interface {
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error)
}

var _ Counter = (*redisadapter.Cache)(nil)

type RateLimiter struct {
	counter Counter
}

func NewRateLimiter(counter Counter) *RateLimiter {
	return &RateLimiter{counter: counter}
}

// Allow reports whether key is still within rate hits per period. A counter
// failure lets the request through.
func (rl *RateLimiter) Allow(ctx context.Context, key string, rate int, period time.Duration) bool {
	n, err := rl.counter.IncrWindow(ctx, "rl:"+key, period)
	if err != nil {
		return true
	}
	if n > int64(rate) {
		observability.RateLimitExceeded.Inc()
		return false
	}
	return true
}
