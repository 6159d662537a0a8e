package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultLockTTL = 300 * time.Millisecond

var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
  return redis.call("del", KEYS[1])
else
  return 0
end`)

// DistLock is a best-effort SETNX lock used to let a single caller refill a
// cold cache key.
type DistLock struct {
	RDB *redis.Client
	TTL time.Duration
}

func (l *DistLock) Acquire(ctx context.Context, key, token string) (bool, error) {
	ttl := l.TTL
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	return l.RDB.SetNX(ctx, "lock:"+key, token, ttl).Result()
}

// Release deletes the lock only if token still owns it.
func (l *DistLock) Release(ctx context.Context, key, token string) error {
	_, err := releaseScript.Run(ctx, l.RDB, []string{"lock:" + key}, token).Result()
	return err
}
