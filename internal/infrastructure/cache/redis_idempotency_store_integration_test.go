//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/lastikpazari/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestRedisIdempotencyStore(t *testing.T) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	store, err := NewRedisIdempotencyStore(ctx, config.RedisConfig{Host: host, Port: port.Int()})
	require.NoError(t, err)
	defer store.Close()

	ok, err := store.Reserve(ctx, "checkout-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Reserve(ctx, "checkout-1", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	result, err := store.Result(ctx, "checkout-1")
	require.NoError(t, err)
	assert.Empty(t, result)

	require.NoError(t, store.Complete(ctx, "checkout-1", "order-id", time.Minute))
	result, err = store.Result(ctx, "checkout-1")
	require.NoError(t, err)
	assert.Equal(t, "order-id", result)

	require.NoError(t, store.Release(ctx, "checkout-1"))
	result, err = store.Result(ctx, "checkout-1")
	require.NoError(t, err)
	assert.Empty(t, result)
}
