package store

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// ErrLeaseHeld means another run of the same job type is in flight.
var ErrLeaseHeld = errors.New("lease already held")

// Locker hands out mutual-exclusion leases per job type, so at most one
// replicator run and one aggregator run are in flight at a time even when
// a periodic trigger overlaps a manual one.
type Locker interface {
	// Acquire takes the named lease for at most ttl. It returns
	// ErrLeaseHeld without blocking when the lease is taken. The returned
	// release func only clears the lease if it still belongs to this
	// acquisition (an expired lease re-acquired elsewhere is left alone).
	Acquire(ctx context.Context, name string, ttl time.Duration) (func(context.Context) error, error)
}

// RedisLocker implements Locker with SET NX + TTL and a token-checked
// release.
type RedisLocker struct {
	c *redis.Client
}

func NewRedisLocker(c *redis.Client) *RedisLocker { return &RedisLocker{c: c} }

var _ Locker = (*RedisLocker)(nil)

var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

func (l *RedisLocker) Acquire(ctx context.Context, name string, ttl time.Duration) (func(context.Context) error, error) {
	key := "jobs:lease:" + name
	token := uuid.NewString()

	ok, err := l.c.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLeaseHeld
	}

	release := func(ctx context.Context) error {
		return releaseScript.Run(ctx, l.c, []string{key}, token).Err()
	}
	return release, nil
}
