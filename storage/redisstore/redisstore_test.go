package redisstore_test

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berhot/session-handoff/storage/redisstore"
)

// setupTestRedis returns a client for REDIS_ADDR. Tests are skipped when
// no Redis is configured.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set, skipping redis integration test")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis not reachable at %s: %v", addr, err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestStore_SetGetRemove(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	client := setupTestRedis(t)
	ctx := context.Background()

	cafe := redisstore.New(client, "berhot-test", "cafe")
	retail := redisstore.New(client, "berhot-test", "retail")
	t.Cleanup(func() {
		_ = cafe.RemoveItem(ctx, "berhot_auth")
		_ = retail.RemoveItem(ctx, "berhot_auth")
	})

	require.NoError(t, cafe.SetItem(ctx, "berhot_auth", `{"a":1}`))

	value, ok, err := cafe.GetItem(ctx, "berhot_auth")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"a":1}`, value)

	// Each origin has its own namespace
	_, ok, err = retail.GetItem(ctx, "berhot_auth")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cafe.RemoveItem(ctx, "berhot_auth"))
	_, ok, err = cafe.GetItem(ctx, "berhot_auth")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_EmptyKey(t *testing.T) {
	store := redisstore.New(redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"}), "p", "cafe")
	ctx := context.Background()

	_, _, err := store.GetItem(ctx, "")
	assert.Error(t, err)
	assert.Error(t, store.SetItem(ctx, "", "v"))
	assert.Error(t, store.RemoveItem(ctx, ""))
}
