package rdb

import (
	"context"
	"encoding/json"
	"time"

	"FilmDB/internal/model"

	"gorm.io/gorm"
)

// MaxOutboxRetry bounds how often a failed event is handed to the sender.
const MaxOutboxRetry = 5

type OutboxRepository struct {
	DB *gorm.DB
}

// Insert records an activity event; call it with the transaction that
// performs the state change.
func (r *OutboxRepository) Insert(ctx context.Context, event string, communityID, mediaID, userID uint64, data map[string]any) error {
	payload := map[string]any{
		"event":       event,
		"event_time":  time.Now().UTC().Format(time.RFC3339Nano),
		"communityId": communityID,
		"mediaId":     mediaID,
		"userId":      userID,
	}
	for k, v := range data {
		payload[k] = v
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return r.DB.WithContext(ctx).Create(&model.ActivityOutbox{
		EventType:   event,
		CommunityID: communityID,
		MediaID:     mediaID,
		UserID:      userID,
		Payload:     string(raw),
		Status:      model.OutboxPending,
	}).Error
}

// List returns pending events and failed ones still under the retry bound.
func (r *OutboxRepository) List(ctx context.Context, batchSize int) ([]model.ActivityOutbox, error) {
	var list []model.ActivityOutbox
	if err := r.DB.WithContext(ctx).
		Where("status = ? OR (status = ? AND retry < ?)", model.OutboxPending, model.OutboxFailed, MaxOutboxRetry).
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *OutboxRepository) RetryUpdate(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.ActivityOutbox{}).Where("id = ?", id).
		Updates(map[string]any{"status": model.OutboxFailed, "retry": gorm.Expr("retry + 1")}).Error
}

func (r *OutboxRepository) SuccessUpdate(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.ActivityOutbox{}).Where("id = ?", id).
		Update("status", model.OutboxSent).Error
}
