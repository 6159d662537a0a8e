package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"FilmDB/internal/logging"
	"FilmDB/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutboxRelayer(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice")
	c := env.communityWith(t, "Movie Night", alice)
	env.addMedia(t, c, alice.ID, 1, "Alien")
	env.addMedia(t, c, alice.ID, 2, "Brazil")

	var failing = true
	var seen []string
	relayer := NewOutboxRelayer(env.repos.Outbox, func(_ context.Context, ob *model.ActivityOutbox) error {
		seen = append(seen, ob.EventType)
		if failing {
			return errors.New("broker down")
		}
		return nil
	})

	assert.Equal(t, 0, relayer.drainOnce(ctx))
	assert.Len(t, seen, 2)

	var failed []model.ActivityOutbox
	require.NoError(t, env.repos.Outbox.DB.Where("status = ?", model.OutboxFailed).Find(&failed).Error)
	require.Len(t, failed, 2)
	assert.Equal(t, 1, failed[0].Retry)

	failing = false
	assert.Equal(t, 2, relayer.drainOnce(ctx))
	assert.Equal(t, 0, relayer.drainOnce(ctx))

	pending, err := env.repos.Outbox.List(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestOutboxRelayerLogsFailedStatusUpdate(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice")
	c := env.communityWith(t, "Movie Night", alice)
	env.addMedia(t, c, alice.ID, 1, "Alien")

	var buf bytes.Buffer
	logging.Init(logging.Config{Level: "warn", Output: &buf})
	t.Cleanup(func() { logging.Init(logging.Config{}) })

	relayer := NewOutboxRelayer(env.repos.Outbox, func(context.Context, *model.ActivityOutbox) error {
		// the database goes away after delivery
		sqlDB, err := env.repos.DB.DB()
		require.NoError(t, err)
		return sqlDB.Close()
	})

	assert.Equal(t, 1, relayer.drainOnce(ctx))
	assert.Contains(t, buf.String(), "outbox success update failed")
	assert.Contains(t, buf.String(), `"level":"warn"`)
}

func TestLogSender(t *testing.T) {
	ob := &model.ActivityOutbox{EventType: model.EventMediaAdded, Payload: `{"title":"Alien"}`}
	assert.NoError(t, LogSender(context.Background(), ob))
}
