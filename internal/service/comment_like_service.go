package service

import (
	"context"
	"time"

	"FilmDB/internal/logging"
	"FilmDB/internal/repository/rdb"
	"FilmDB/internal/repository/redis"

	"github.com/google/uuid"
)

// CommentLikeService keeps like rows in the database and read-through
// counters in Redis.
type CommentLikeService struct {
	comments  *CommentService
	repo      *rdb.CommentLikeRepository
	likeCache *redis.LikeCacheRepository
	lock      *redis.DistLock
}

func NewCommentLikeService(comments *CommentService, repo *rdb.CommentLikeRepository, cache *redis.LikeCacheRepository, lock *redis.DistLock) *CommentLikeService {
	return &CommentLikeService{comments: comments, repo: repo, likeCache: cache, lock: lock}
}

func (s *CommentLikeService) check(ctx context.Context, idOrSlug string, mediaID, commentID, userID uint64) error {
	if _, _, err := s.comments.mediaOf(ctx, idOrSlug, mediaID, userID); err != nil {
		return err
	}
	_, err := s.comments.commentOf(ctx, mediaID, commentID)
	return err
}

// Like is idempotent; changed reports whether a new like was stored.
func (s *CommentLikeService) Like(ctx context.Context, idOrSlug string, mediaID, commentID, userID uint64) (bool, error) {
	if err := s.check(ctx, idOrSlug, mediaID, commentID, userID); err != nil {
		return false, err
	}
	changed, err := s.repo.Like(ctx, userID, commentID)
	if err != nil || !changed {
		return changed, err
	}
	s.refreshCount(ctx, commentID)
	return true, nil
}

func (s *CommentLikeService) Unlike(ctx context.Context, idOrSlug string, mediaID, commentID, userID uint64) (bool, error) {
	if err := s.check(ctx, idOrSlug, mediaID, commentID, userID); err != nil {
		return false, err
	}
	changed, err := s.repo.Unlike(ctx, userID, commentID)
	if err != nil || !changed {
		return changed, err
	}
	s.refreshCount(ctx, commentID)
	return true, nil
}

// refreshCount rewrites the cached counter under the lock; without the
// lock the key is dropped and the next read refills it.
func (s *CommentLikeService) refreshCount(ctx context.Context, commentID uint64) {
	key := s.likeCache.LockKey(commentID)
	token := uuid.NewString()
	got, _ := s.lock.Acquire(ctx, key, token)
	if !got {
		_ = s.likeCache.DeleteCount(ctx, commentID)
		return
	}
	defer func() { _ = s.lock.Release(ctx, key, token) }()

	n, err := s.repo.GetLikeCount(ctx, commentID)
	if err != nil || s.likeCache.SetLikeCount(ctx, commentID, n) != nil {
		_ = s.likeCache.DeleteCount(ctx, commentID)
	}
}

// LikeStatus is the like counter of a comment and whether the caller liked it.
type LikeStatus struct {
	Count int64 `json:"count"`
	Liked bool  `json:"liked"`
}

func (s *CommentLikeService) Status(ctx context.Context, idOrSlug string, mediaID, commentID, userID uint64) (*LikeStatus, error) {
	if err := s.check(ctx, idOrSlug, mediaID, commentID, userID); err != nil {
		return nil, err
	}
	n, err := s.CountWithLock(ctx, commentID)
	if err != nil {
		return nil, err
	}
	liked, err := s.repo.IsLiked(ctx, userID, commentID)
	if err != nil {
		return nil, err
	}
	return &LikeStatus{Count: n, Liked: liked}, nil
}

// CountWithLock reads the counter through the cache. On a miss only the
// lock holder goes to the database and refills the key.
func (s *CommentLikeService) CountWithLock(ctx context.Context, commentID uint64) (int64, error) {
	if v, ok, err := s.likeCache.GetLikeCountCached(ctx, commentID); err == nil && ok {
		return v, nil
	}

	key := s.likeCache.LockKey(commentID)
	token := uuid.NewString()
	got, _ := s.lock.Acquire(ctx, key, token)
	if got {
		defer func() {
			if err := s.lock.Release(ctx, key, token); err != nil {
				logging.Warn().Err(err).Uint64("comment_id", commentID).Msg("release like lock")
			}
		}()

		if v, ok, err := s.likeCache.GetLikeCountCached(ctx, commentID); err == nil && ok {
			return v, nil
		}
		v, err := s.repo.GetLikeCount(ctx, commentID)
		if err != nil {
			return 0, queryErr("comment", err)
		}
		_ = s.likeCache.SetLikeCount(ctx, commentID, v)
		return v, nil
	}

	// someone else is refilling; wait briefly and try the cache once more
	time.Sleep(50 * time.Millisecond)
	if v, ok, err := s.likeCache.GetLikeCountCached(ctx, commentID); err == nil && ok {
		return v, nil
	}
	v, err := s.repo.GetLikeCount(ctx, commentID)
	return v, queryErr("comment", err)
}
