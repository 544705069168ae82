package kvstore

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStoreRedis(t *testing.T) *redis.Client {
	t.Helper()

	host := os.Getenv("REDIS_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       1,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Skipping integration test (Redis down): %v", err)
	}
	return rdb
}

func TestRedisStore_Integration(t *testing.T) {
	rdb := setupStoreRedis(t)
	defer rdb.Close()

	ctx := context.Background()

	// A unique prefix per run keeps blobs from colliding across tests.
	prefix := "ritmo-test-" + uuid.NewString()
	store := NewRedisStore(rdb, prefix)

	t.Run("missing key", func(t *testing.T) {
		_, found, err := store.Load(ctx, "habits")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("save and load round trip", func(t *testing.T) {
		blob := []byte(`[{"id":"h1"}]`)
		require.NoError(t, store.Save(ctx, "habits", blob))

		loaded, found, err := store.Load(ctx, "habits")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, blob, loaded)
	})

	t.Run("save replaces the whole blob", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "habits", []byte(`[]`)))

		loaded, found, err := store.Load(ctx, "habits")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, []byte(`[]`), loaded)
	})

	t.Run("prefixes are isolated", func(t *testing.T) {
		other := NewRedisStore(rdb, prefix+"-other")

		_, found, err := other.Load(ctx, "habits")
		require.NoError(t, err)
		assert.False(t, found)
	})

	require.NoError(t, rdb.Del(ctx, fmt.Sprintf("%s:collection:%s", prefix, "habits")).Err())
}
