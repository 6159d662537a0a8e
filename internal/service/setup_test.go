package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"FilmDB/internal/config"
	"FilmDB/internal/model"
	"FilmDB/internal/pkg"
	"FilmDB/internal/repository/rdb"
	"FilmDB/internal/repository/redis"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	repos     *rdb.Repositories
	rdb       *goredis.Client
	mr        *miniredis.Miniredis
	mailer    *fakeMailer
	community *CommunityService
	media     *MediaService
	ratings   *RatingService
	comments  *CommentService
	likes     *CommentLikeService
	users     *UserService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := rdb.Open(config.DatabaseConfig{Driver: "sqlite", DSN: "file::memory:"})
	require.NoError(t, err)
	require.NoError(t, rdb.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repos := rdb.NewRepositories(db)
	mailer := &fakeMailer{}
	comments := NewCommentService(repos)
	lock := &redis.DistLock{RDB: client}
	tokens := pkg.NewTokenManager("access-test", "refresh-test", time.Minute, time.Hour)

	return &testEnv{
		repos:     repos,
		rdb:       client,
		mr:        mr,
		mailer:    mailer,
		community: NewCommunityService(repos, mailer, "http://filmdb.test/"),
		media:     NewMediaService(repos),
		ratings:   NewRatingService(repos),
		comments:  comments,
		likes:     NewCommentLikeService(comments, repos.CommentLikes, redis.NewLikeCacheRepository(client), lock),
		users:     NewUserService(repos.Users, redis.NewSessionRepository(client, time.Minute), tokens),
	}
}

func (e *testEnv) user(t *testing.T, name string) *model.User {
	t.Helper()
	u := &model.User{Name: name, Email: name + "@filmdb.test", Password: "x"}
	require.NoError(t, e.repos.Users.Create(context.Background(), u))
	return u
}

// communityWith creates a community owned by owner and joins members.
func (e *testEnv) communityWith(t *testing.T, name string, owner *model.User, members ...*model.User) *model.Community {
	t.Helper()
	ctx := context.Background()
	c, err := e.community.CreateCommunity(ctx, owner.ID, CreateCommunityInput{Name: name})
	require.NoError(t, err)
	for _, m := range members {
		_, err = e.community.AddUserToCommunity(ctx, c.InviteCode, m.ID)
		require.NoError(t, err)
	}
	return c
}

func (e *testEnv) addMedia(t *testing.T, c *model.Community, userID uint64, tmdbID int64, title string) *model.Media {
	t.Helper()
	m, err := e.media.CreateOrUpdateMedia(context.Background(), c.Slug, userID, MediaInput{
		Title:     title,
		MediaType: model.MediaTypeMovie,
		TmdbID:    tmdbID,
	})
	require.NoError(t, err)
	return m
}

type fakeMailer struct {
	to, subject, body string
	err               error
}

func (m *fakeMailer) Send(to, subject, htmlBody string) error {
	m.to, m.subject, m.body = to, subject, htmlBody
	return m.err
}

func isValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func isUnauthorized(err error) bool {
	var ue *UnauthorizedError
	return errors.As(err, &ue)
}

func isNotFound(err error) bool {
	var qe *QueryError
	return errors.As(err, &qe) && qe.NotFound()
}
