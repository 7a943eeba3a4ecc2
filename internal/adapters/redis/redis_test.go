package redis_test

import (
	"context"
	"testing"
	"time"

	redisclient "github.com/redis/go-redis/v9"
	redisadapter "github.com/robertarktes/campus-reservations/internal/adapters/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(t *testing.T) *redisclient.Client {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client := redisclient.NewClient(&redisclient.Options{Addr: host + ":" + port.Port()})
	t.Cleanup(func() { client.Close() })
	return client
}

func TestIdempotencyRoundTrip(t *testing.T) {
	client := startRedis(t)
	ctx := context.Background()
	idemp := redisadapter.NewIdempotency(client)

	got, err := idemp.Get(ctx, "missing-key-0000")
	require.NoError(t, err)
	assert.Nil(t, got)

	want := redisadapter.IdempResponse{Status: 201, ContentType: "application/json", Result: []byte(`{"id":"a"}`)}
	require.NoError(t, idemp.Set(ctx, "checkout-key-0001", want, time.Minute))

	got, err = idemp.Get(ctx, "checkout-key-0001")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)
}

func TestIncrWindow(t *testing.T) {
	client := startRedis(t)
	ctx := context.Background()
	cache := redisadapter.NewCache(client)

	for want := int64(1); want <= 3; want++ {
		n, err := cache.IncrWindow(ctx, "rl:test", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}
	ttl, err := client.TTL(ctx, "rl:test").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
