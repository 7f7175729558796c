package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLocker(t *testing.T) (*miniredis.Miniredis, *RedisLocker) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewRedisLocker(client)
}

func TestAcquire_MutualExclusion(t *testing.T) {
	_, locker := setupLocker(t)
	ctx := context.Background()

	release, err := locker.Acquire(ctx, "sync", time.Minute)
	require.NoError(t, err)

	_, err = locker.Acquire(ctx, "sync", time.Minute)
	assert.ErrorIs(t, err, ErrLeaseHeld)

	// a different job type is unaffected
	_, err = locker.Acquire(ctx, "report", time.Minute)
	assert.NoError(t, err)

	require.NoError(t, release(ctx))
	_, err = locker.Acquire(ctx, "sync", time.Minute)
	assert.NoError(t, err)
}

func TestAcquire_ExpiredLeaseCanBeRetaken(t *testing.T) {
	mr, locker := setupLocker(t)
	ctx := context.Background()

	_, err := locker.Acquire(ctx, "sync", time.Second)
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	_, err = locker.Acquire(ctx, "sync", time.Minute)
	assert.NoError(t, err)
}

func TestRelease_DoesNotClearForeignLease(t *testing.T) {
	mr, locker := setupLocker(t)
	ctx := context.Background()

	staleRelease, err := locker.Acquire(ctx, "sync", time.Second)
	require.NoError(t, err)

	// first lease expires and someone else takes over
	mr.FastForward(2 * time.Second)
	_, err = locker.Acquire(ctx, "sync", time.Minute)
	require.NoError(t, err)

	// the stale holder's release must not free the new lease
	require.NoError(t, staleRelease(ctx))
	_, err = locker.Acquire(ctx, "sync", time.Minute)
	assert.ErrorIs(t, err, ErrLeaseHeld)
}
