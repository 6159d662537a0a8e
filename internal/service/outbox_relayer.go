package service

import (
	"context"
	"time"

	"FilmDB/internal/logging"
	"FilmDB/internal/metrics"
	"FilmDB/internal/model"
	"FilmDB/internal/pkg"
	"FilmDB/internal/repository/rdb"
)

// Sender delivers one outbox event downstream.
type Sender func(ctx context.Context, ob *model.ActivityOutbox) error

// OutboxRelayer polls the activity outbox and hands rows to a Sender.
type OutboxRelayer struct {
	repo      *rdb.OutboxRepository
	batchSize int
	interval  time.Duration
	sender    Sender
}

func NewOutboxRelayer(repo *rdb.OutboxRepository, sender Sender) *OutboxRelayer {
	return &OutboxRelayer{
		repo:      repo,
		batchSize: 200,
		interval:  time.Second,
		sender:    sender,
	}
}

// Run blocks until ctx is cancelled.
func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.drainOnce(ctx)
		}
	}
}

// drainOnce relays one batch and returns how many rows were delivered.
func (r *OutboxRelayer) drainOnce(ctx context.Context) int {
	rows, err := r.repo.List(ctx, r.batchSize)
	if err != nil {
		logging.Error().Err(err).Msg("outbox query failed")
		return 0
	}
	sent := 0
	for i := range rows {
		ob := rows[i]
		if err = r.sender(ctx, &ob); err != nil {
			logging.Warn().Err(err).Uint64("outbox_id", ob.ID).Int("retry", ob.Retry).Msg("outbox send failed")
			metrics.OutboxEvents.WithLabelValues(ob.EventType, "failed").Inc()
			if err = r.repo.RetryUpdate(ctx, ob.ID); err != nil {
				logging.Warn().Err(err).Uint64("outbox_id", ob.ID).Msg("outbox retry update failed")
			}
			continue
		}
		metrics.OutboxEvents.WithLabelValues(ob.EventType, "sent").Inc()
		// delivered rows whose mark fails are sent again on the next tick
		if err = r.repo.SuccessUpdate(ctx, ob.ID); err != nil {
			logging.Warn().Err(err).Uint64("outbox_id", ob.ID).Msg("outbox success update failed")
		}
		sent++
	}
	return sent
}

// LogSender writes events to the log; used when Kafka is disabled.
func LogSender(_ context.Context, ob *model.ActivityOutbox) error {
	logging.Info().
		Str("event", ob.EventType).
		Uint64("community_id", ob.CommunityID).
		Uint64("media_id", ob.MediaID).
		Uint64("user_id", ob.UserID).
		RawJSON("payload", []byte(ob.Payload)).
		Msg("activity event")
	return nil
}

// KafkaSender publishes events keyed by community so one community's
// activity stays ordered within a partition.
func KafkaSender(p *pkg.ActivityPublisher) Sender {
	return func(ctx context.Context, ob *model.ActivityOutbox) error {
		return p.Publish(ctx, pkg.ActivityMessage{
			Key:       ob.CommunityID,
			EventType: ob.EventType,
			Payload:   []byte(ob.Payload),
			At:        ob.CreatedAt,
		})
	}
}
