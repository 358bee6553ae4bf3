package sweeper

import (
	"context"
	"os"
	"testing"
	"time"

	"docgen/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Skips unless a Redis server is reachable at REDIS_ADDR.
func TestRedisLocker(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	rdb, err := Connect(config.RedisConfig{Addr: addr, DB: 15})
	if err != nil {
		t.Skipf("skipping integration test: redis not reachable: %v", err)
	}
	defer rdb.Close()

	ctx := context.Background()
	key := LockKey + ":test"
	locker := NewRedisLocker(rdb)

	lock, err := locker.Obtain(ctx, key, time.Minute)
	require.NoError(t, err)

	_, err = locker.Obtain(ctx, key, time.Minute)
	assert.ErrorIs(t, err, ErrNotObtained)

	require.NoError(t, lock.Release(ctx))

	again, err := locker.Obtain(ctx, key, time.Minute)
	require.NoError(t, err)
	require.NoError(t, again.Release(ctx))
}

func TestConnect_Unreachable(t *testing.T) {
	_, err := Connect(config.RedisConfig{Addr: "127.0.0.1:1"})
	assert.ErrorContains(t, err, "redis ping")
}
