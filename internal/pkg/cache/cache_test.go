package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type summary struct {
	Month int    `json:"month"`
	Total string `json:"total"`
}

func TestNoopCache(t *testing.T) {
	c := New(nil)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", summary{Month: 1}, time.Minute))

	var got summary
	found, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, c.Delete(ctx, "k"))
}

func TestConnectRedis_Disabled(t *testing.T) {
	client, err := ConnectRedis(context.Background(), config.RedisConfig{})
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestRedisCache_RoundTrip(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	client, err := ConnectRedis(ctx, config.RedisConfig{Addr: addr})
	require.NoError(t, err)
	defer client.Close()

	c := New(client)
	key := "test:payroll:summary:2024-01"

	require.NoError(t, c.Set(ctx, key, summary{Month: 1, Total: "100.00"}, time.Minute))

	var got summary
	found, err := c.Get(ctx, key, &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, summary{Month: 1, Total: "100.00"}, got)

	require.NoError(t, c.Delete(ctx, key))
	found, err = c.Get(ctx, key, &got)
	require.NoError(t, err)
	assert.False(t, found)
}
