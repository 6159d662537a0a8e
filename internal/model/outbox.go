package model

import "time"

const (
	OutboxPending = 0
	OutboxSent    = 1
	OutboxFailed  = 2
)

const (
	EventMediaAdded     = "media.added"
	EventMediaQueued    = "media.queued"
	EventMediaWatched   = "media.watched"
	EventMediaRated     = "media.rated"
	EventCommentCreated = "comment.created"
)

// ActivityOutbox holds domain events until they are relayed to Kafka.
type ActivityOutbox struct {
	ID          uint64 `gorm:"primaryKey"`
	EventType   string `gorm:"size:32;not null"`
	CommunityID uint64 `gorm:"not null;index"`
	MediaID     uint64 `gorm:"not null"`
	UserID      uint64 `gorm:"not null"`
	Payload     string `gorm:"type:text;not null"`
	Status      int8   `gorm:"not null;default:0;index"` // 0=pending 1=sent 2=failed
	Retry       int    `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (ActivityOutbox) TableName() string { return "activity_outbox" }

// All lists every table for AutoMigrate.
func All() []any {
	return []any{
		&User{},
		&Community{},
		&CommunityMember{},
		&Media{},
		&Rating{},
		&Comment{},
		&CommentLike{},
		&ActivityOutbox{},
	}
}
