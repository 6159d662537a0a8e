package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	LikeCntTTL       = 24 * time.Hour
	LikeCntKeyPrefix = "like:cnt:comment"
)

// LikeCacheRepository caches comment like counters. The database stays the
// source of truth; writers delete the key and readers refill it.
type LikeCacheRepository struct {
	RDB        *redis.Client
	likeCntTTL time.Duration
}

func NewLikeCacheRepository(rdb *redis.Client) *LikeCacheRepository {
	return &LikeCacheRepository{RDB: rdb, likeCntTTL: LikeCntTTL}
}

func (r *LikeCacheRepository) likeCntKey(commentID uint64) string {
	return fmt.Sprintf("%s:%d", LikeCntKeyPrefix, commentID)
}

// LockKey names the refill lock of one counter.
func (r *LikeCacheRepository) LockKey(commentID uint64) string {
	return r.likeCntKey(commentID)
}

// GetLikeCountCached reports the cached count and whether it was present.
func (r *LikeCacheRepository) GetLikeCountCached(ctx context.Context, commentID uint64) (int64, bool, error) {
	val, err := r.RDB.Get(ctx, r.likeCntKey(commentID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	return val, err == nil, err
}

func (r *LikeCacheRepository) SetLikeCount(ctx context.Context, commentID uint64, cnt int64) error {
	return r.RDB.Set(ctx, r.likeCntKey(commentID), cnt, r.likeCntTTL).Err()
}

func (r *LikeCacheRepository) DeleteCount(ctx context.Context, commentID uint64) error {
	if err := r.RDB.Del(ctx, r.likeCntKey(commentID)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}
