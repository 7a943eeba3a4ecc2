package idempotency

import (
	"context"
	"time"

	redisadapter "github.com/robertarktes/campus-reservations/internal/adapters/redis"
)

// Backend stores responses; *redisadapter.Idempotency satisfies it.
type Backend interface {
	Get(ctx context.Context, key string) (*redisadapter.IdempResponse, error)
	Set(ctx context.Context, key string, resp redisadapter.IdempResponse, ttl time.Duration) error
}

type Idempotency struct {
	backend Backend
	ttl     time.Duration
}

// NewIdempotency returns a replay cache. A nil backend disables it: Get always
// misses and Set is a no-op.
func NewIdempotency(backend Backend, ttl time.Duration) *Idempotency {
	return &Idempotency{backend: backend, ttl: ttl}
}

type Response struct {
	Status      int
	ContentType string
	Result      []byte
}

func (i *Idempotency) Enabled() bool {
	return i != nil && i.backend != nil
}

func (i *Idempotency) Get(ctx context.Context, key string) (*Response, error) {
	if !i.Enabled() || key == "" {
		return nil, nil
	}
	stored, err := i.backend.Get(ctx, key)
	if err != nil || stored == nil {
		return nil, err
	}
	return &Response{Status: stored.Status, ContentType: stored.ContentType, Result: stored.Result}, nil
}

func (i *Idempotency) Set(ctx context.Context, key string, resp Response) error {
	if !i.Enabled() || key == "" {
		return nil
	}
	return i.backend.Set(ctx, key, redisadapter.IdempResponse{
		Status:      resp.Status,
		ContentType: resp.ContentType,
		Result:      resp.Result,
	}, i.ttl)
}
