package rdb

import (
	"context"
	"errors"
	"testing"
	"time"

	"FilmDB/internal/config"
	"FilmDB/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestRepos(t *testing.T) *Repositories {
	t.Helper()
	db, err := Open(config.DatabaseConfig{Driver: "sqlite", DSN: "file::memory:"})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return NewRepositories(db)
}

func seedUser(t *testing.T, repos *Repositories, email string) *model.User {
	t.Helper()
	u := &model.User{Name: email, Email: email, Password: "x"}
	require.NoError(t, repos.Users.Create(context.Background(), u))
	return u
}

func seedCommunity(t *testing.T, repos *Repositories, owner uint64, name string) *model.Community {
	t.Helper()
	c, err := repos.Communities.Create(context.Background(), &model.Community{
		Name: name, Slug: name, InviteCode: "code-" + name, CreatedBy: owner,
	})
	require.NoError(t, err)
	return c
}

func TestOpen_RejectsUnknownDriver(t *testing.T) {
	_, err := Open(config.DatabaseConfig{Driver: "oracle", DSN: "x"})
	assert.Error(t, err)

	_, err = Open(config.DatabaseConfig{Driver: "sqlite"})
	assert.Error(t, err)
}

func TestCommunityCreate_AddsOwnerMembership(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()
	owner := seedUser(t, repos, "a@x.io")

	c := seedCommunity(t, repos, owner.ID, "club")

	ok, err := repos.Members.IsMember(ctx, c.ID, owner.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	joined, err := repos.Members.Join(ctx, &model.CommunityMember{CommunityID: c.ID, UserID: owner.ID})
	require.NoError(t, err)
	assert.False(t, joined)
}

func TestCommunityFindByIDOrSlug(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()
	owner := seedUser(t, repos, "a@x.io")
	c := seedCommunity(t, repos, owner.ID, "club")
	numeric := seedCommunity(t, repos, owner.ID, "1984")

	got, err := repos.Communities.FindByIDOrSlug(ctx, "club")
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)

	got, err = repos.Communities.FindByIDOrSlug(ctx, "1984")
	require.NoError(t, err)
	assert.Equal(t, numeric.ID, got.ID)

	_, err = repos.Communities.FindByIDOrSlug(ctx, "nope")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestMediaSetQueue_SkipsWatched(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()
	owner := seedUser(t, repos, "a@x.io")
	c := seedCommunity(t, repos, owner.ID, "club")

	now := time.Now()
	watched := &model.Media{Title: "Alien", MediaType: model.MediaTypeMovie, TmdbID: 348, CommunityID: c.ID, RequestedBy: owner.ID, Watched: true, WatchedAt: &now}
	require.NoError(t, repos.Media.Create(ctx, watched))

	n, err := repos.Media.SetQueue(ctx, c.ID, watched.ID, 3)
	require.NoError(t, err)
	assert.Zero(t, n)

	got, err := repos.Media.FindInCommunity(ctx, c.ID, watched.ID)
	require.NoError(t, err)
	assert.True(t, got.Watched)
	assert.Nil(t, got.Queue)
}

func TestMediaDelete_Cascades(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()
	owner := seedUser(t, repos, "a@x.io")
	c := seedCommunity(t, repos, owner.ID, "club")

	m := &model.Media{Title: "Alien", MediaType: model.MediaTypeMovie, TmdbID: 348, CommunityID: c.ID, RequestedBy: owner.ID}
	require.NoError(t, repos.Media.Create(ctx, m))
	require.NoError(t, repos.Ratings.Upsert(ctx, &model.Rating{UserID: owner.ID, MediaID: m.ID, Value: 4}))
	cm := &model.Comment{Body: "hi", UserID: owner.ID, MediaID: m.ID}
	require.NoError(t, repos.Comments.Create(ctx, cm))
	_, err := repos.CommentLikes.Like(ctx, owner.ID, cm.ID)
	require.NoError(t, err)

	err = repos.Transaction(ctx, func(tx *Repositories) error {
		return tx.Media.Delete(ctx, m.ID)
	})
	require.NoError(t, err)

	var n int64
	repos.DB.Model(&model.Rating{}).Count(&n)
	assert.Zero(t, n)
	repos.DB.Model(&model.Comment{}).Count(&n)
	assert.Zero(t, n)
	repos.DB.Model(&model.CommentLike{}).Count(&n)
	assert.Zero(t, n)

	err = repos.Media.Delete(ctx, m.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRatingUpsert_SingleRowPerUser(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()
	owner := seedUser(t, repos, "a@x.io")

	require.NoError(t, repos.Ratings.Upsert(ctx, &model.Rating{UserID: owner.ID, MediaID: 1, Value: 2}))
	require.NoError(t, repos.Ratings.Upsert(ctx, &model.Rating{UserID: owner.ID, MediaID: 1, Value: 5}))

	values, err := repos.Ratings.Values(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{5}, values)

	deleted, err := repos.Ratings.Delete(ctx, owner.ID, 1)
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = repos.Ratings.Delete(ctx, owner.ID, 1)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestCommentList_CursorPagination(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, repos.Comments.Create(ctx, &model.Comment{Body: "c", UserID: 1, MediaID: 7}))
	}
	parent := uint64(1)
	require.NoError(t, repos.Comments.Create(ctx, &model.Comment{Body: "reply", UserID: 1, MediaID: 7, ParentID: &parent}))

	all, next, err := repos.Comments.List(ctx, 7, nil, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
	assert.Zero(t, next)

	page, next, err := repos.Comments.List(ctx, 7, nil, 0, 2)
	require.NoError(t, err)
	assert.Len(t, page, 2)
	assert.Equal(t, page[1].ID, next)

	page, next, err = repos.Comments.List(ctx, 7, nil, next, 3)
	require.NoError(t, err)
	assert.Len(t, page, 3)
	assert.Zero(t, next)

	counts, err := repos.Comments.ChildCounts(ctx, []uint64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[1])
	assert.Zero(t, counts[2])
}

func TestCommentLike_Idempotent(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()
	c := &model.Comment{Body: "c", UserID: 1, MediaID: 7}
	require.NoError(t, repos.Comments.Create(ctx, c))

	changed, err := repos.CommentLikes.Like(ctx, 2, c.ID)
	require.NoError(t, err)
	assert.True(t, changed)
	changed, err = repos.CommentLikes.Like(ctx, 2, c.ID)
	require.NoError(t, err)
	assert.False(t, changed)

	n, err := repos.CommentLikes.GetLikeCount(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	changed, err = repos.CommentLikes.Unlike(ctx, 2, c.ID)
	require.NoError(t, err)
	assert.True(t, changed)
	changed, err = repos.CommentLikes.Unlike(ctx, 2, c.ID)
	require.NoError(t, err)
	assert.False(t, changed)

	n, err = repos.CommentLikes.GetLikeCount(ctx, c.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestOutbox_ListRetryBound(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()

	require.NoError(t, repos.Outbox.Insert(ctx, model.EventMediaAdded, 1, 2, 3, map[string]any{"title": "Alien"}))
	rows, err := repos.Outbox.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Contains(t, rows[0].Payload, `"title":"Alien"`)

	for i := 0; i < MaxOutboxRetry; i++ {
		require.NoError(t, repos.Outbox.RetryUpdate(ctx, rows[0].ID))
	}
	rows, err = repos.Outbox.List(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCommentSoftDelete(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()
	c := &model.Comment{Body: "<p>spoilers</p>", UserID: 1, MediaID: 7}
	require.NoError(t, repos.Comments.Create(ctx, c))

	require.NoError(t, repos.Comments.SoftDelete(ctx, c, time.Now()))

	got, err := repos.Comments.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, got.Deleted)
	assert.Equal(t, model.DeletedCommentBody, got.Body)
	assert.Equal(t, "<p>spoilers</p>", got.TextBackup)
	assert.NotNil(t, got.DeletedAt)
}
