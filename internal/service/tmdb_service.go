package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"FilmDB/internal/logging"
	"FilmDB/internal/metrics"
	"FilmDB/internal/repository/redis"
	"FilmDB/internal/tmdb"

	"github.com/google/uuid"
)

// TMDBClient is the upstream used by TMDBService.
type TMDBClient interface {
	Search(ctx context.Context, query string, page int) (*tmdb.SearchPage, error)
	Details(ctx context.Context, mediaType string, id int64) (*tmdb.Title, error)
}

// TMDBService proxies TMDB through a Redis read-through cache. On a miss
// only the lock holder calls upstream; the rest wait briefly for the fill.
type TMDBService struct {
	client TMDBClient
	cache  *redis.JSONCache
	lock   *redis.DistLock
}

func NewTMDBService(client TMDBClient, cache *redis.JSONCache, lock *redis.DistLock) *TMDBService {
	return &TMDBService{client: client, cache: cache, lock: lock}
}

func (s *TMDBService) Search(ctx context.Context, query string, page int) (*tmdb.SearchPage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, validationErr("query is required")
	}
	if page <= 0 {
		page = 1
	}
	key := fmt.Sprintf("search:%s:%d", strings.ToLower(query), page)
	out, err := readThrough(ctx, s, key, func() (*tmdb.SearchPage, error) {
		return s.client.Search(ctx, query, page)
	})
	return out, tmdbErr(err)
}

func (s *TMDBService) Details(ctx context.Context, mediaType string, id int64) (*tmdb.Title, error) {
	if mediaType != tmdb.MediaMovie && mediaType != tmdb.MediaTV {
		return nil, validationErr("mediaType must be movie or tv")
	}
	if id <= 0 {
		return nil, validationErr("invalid tmdb id")
	}
	key := fmt.Sprintf("%s:%d", mediaType, id)
	out, err := readThrough(ctx, s, key, func() (*tmdb.Title, error) {
		return s.client.Details(ctx, mediaType, id)
	})
	return out, tmdbErr(err)
}

func readThrough[T any](ctx context.Context, s *TMDBService, key string, fetch func() (*T, error)) (*T, error) {
	var cached T
	if found, err := s.cache.Get(ctx, key, &cached); err == nil && found {
		metrics.RecordCacheLookup(true)
		return &cached, nil
	}
	metrics.RecordCacheLookup(false)

	lockKey := "tmdb:" + key
	token := uuid.NewString()
	got, _ := s.lock.Acquire(ctx, lockKey, token)
	if got {
		defer func() { _ = s.lock.Release(ctx, lockKey, token) }()
	} else {
		time.Sleep(50 * time.Millisecond)
		if found, err := s.cache.Get(ctx, key, &cached); err == nil && found {
			return &cached, nil
		}
	}

	v, err := fetch()
	if err != nil {
		return nil, err
	}
	if err = s.cache.Set(ctx, key, v); err != nil {
		logging.Warn().Err(err).Str("key", key).Msg("tmdb cache write failed")
	}
	return v, nil
}

func tmdbErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, tmdb.ErrNotFound):
		return &QueryError{Message: "tmdb title not found", Err: err}
	case errors.Is(err, tmdb.ErrEmptySearchTerm), errors.Is(err, tmdb.ErrInvalidType):
		return &ValidationError{Message: err.Error()}
	default:
		return err
	}
}
