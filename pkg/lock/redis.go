package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNotAcquired is returned when another instance already holds the key.
// The booking service surfaces it as a conflict so the caller retries with
// fresh availability.
var ErrNotAcquired = errors.New("lock not acquired")

// RedisLocker guards critical sections across multiple API instances with a
// per-key Redis lock. The lock carries a random token so that an expired
// holder cannot release a lock someone else has since acquired.
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisLocker(client *redis.Client, ttl time.Duration) *RedisLocker {
	return &RedisLocker{client: client, ttl: ttl}
}

func (l *RedisLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	redisKey := fmt.Sprintf("lock:booking:%s", key)
	holder := uuid.NewString()

	ok, err := l.client.SetNX(ctx, redisKey, holder, l.ttl).Result()
	if err != nil {
		return fmt.Errorf("acquire booking lock: %w", err)
	}
	if !ok {
		return ErrNotAcquired
	}
	defer l.release(ctx, redisKey, holder)

	lockCtx, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()
	return fn(lockCtx)
}

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

func (l *RedisLocker) release(ctx context.Context, key, holder string) {
	// Best effort; the TTL reclaims the key if the release fails.
	_ = releaseScript.Run(ctx, l.client, []string{key}, holder).Err()
}
