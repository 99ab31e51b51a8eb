package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name    string `json:"name"`
	Minutes int    `json:"minutes"`
}

func TestRedisCacheWithoutClientAlwaysMisses(t *testing.T) {
	ctx := context.Background()
	c := NewRedisCache(nil, "ponto:", time.Minute)

	require.NoError(t, c.Set(ctx, "k", payload{Name: "a"}, "employee:1"))

	var got payload
	hit, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, c.Invalidate(ctx, "employee:1"))

	gen, err := c.Generation(ctx, "employee:1")
	require.NoError(t, err)
	assert.Zero(t, gen)
}

func TestNoop(t *testing.T) {
	var c Cache = Noop{}
	hit, err := c.Get(context.Background(), "k", &payload{})
	assert.NoError(t, err)
	assert.False(t, hit)
}

// Runs against a real server when REDIS_TEST_ADDR is set.
func TestRedisCacheTagInvalidation(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}

	ctx := context.Background()
	client, err := NewRedisClient(ctx, addr, "", 0)
	require.NoError(t, err)
	defer client.Close()

	c := NewRedisCache(client, "test-"+uuid.New().String()+":", time.Minute)

	require.NoError(t, c.Set(ctx, "mirror:1:march", payload{Name: "march", Minutes: 480}, "employee:1"))
	require.NoError(t, c.Set(ctx, "mirror:2:march", payload{Name: "other", Minutes: 420}, "employee:2"))

	var got payload
	hit, err := c.Get(ctx, "mirror:1:march", &got)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, 480, got.Minutes)

	require.NoError(t, c.Invalidate(ctx, "employee:1"))

	hit, err = c.Get(ctx, "mirror:1:march", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	hit, err = c.Get(ctx, "mirror:2:march", &got)
	require.NoError(t, err)
	assert.True(t, hit)
}

func TestRedisCacheGenerations(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}

	ctx := context.Background()
	client, err := NewRedisClient(ctx, addr, "", 0)
	require.NoError(t, err)
	defer client.Close()

	c := NewRedisCache(client, "test-"+uuid.New().String()+":", time.Minute)

	gen, err := c.Generation(ctx, "employee:1")
	require.NoError(t, err)
	assert.Zero(t, gen)

	require.NoError(t, c.Invalidate(ctx, "employee:1"))
	require.NoError(t, c.Invalidate(ctx, "employee:1"))

	gen, err = c.Generation(ctx, "employee:1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), gen)

	gen, err = c.Generation(ctx, "employee:2")
	require.NoError(t, err)
	assert.Zero(t, gen)
}
