package model

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

type Rating struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	Value     int       `gorm:"not null" json:"value"`
	UserID    uint64    `gorm:"not null;uniqueIndex:uk_rating_user_media" json:"userId"`
	MediaID   uint64    `gorm:"not null;index;uniqueIndex:uk_rating_user_media" json:"mediaId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type RatingView struct {
	Rating
	User UserInfo `json:"user"`
}
