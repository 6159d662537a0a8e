package model

import "time"

type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeTV    MediaType = "tv"
)

type Media struct {
	ID           uint64     `gorm:"primaryKey" json:"id"`
	Title        string     `gorm:"size:255;not null;index" json:"title"`
	MediaType    MediaType  `gorm:"size:8;not null" json:"mediaType"`
	TmdbID       int64      `gorm:"not null;uniqueIndex:uk_media_tmdb_community" json:"tmdbId"`
	PosterPath   string     `gorm:"size:255" json:"posterPath"`
	BackdropPath string     `gorm:"size:255" json:"backdropPath"`
	Watched      bool       `gorm:"not null;default:false" json:"watched"`
	WatchedAt    *time.Time `json:"watchedAt"`
	Queue        *int       `json:"queue"`
	RequestedBy  uint64     `gorm:"not null;index" json:"requestedBy"`
	CommunityID  uint64     `gorm:"not null;index;uniqueIndex:uk_media_tmdb_community" json:"communityId"`
	Rating       *float64   `json:"rating"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// QueuePosition is one entry of a bulk queue reorder.
type QueuePosition struct {
	ID    uint64 `json:"id" binding:"required"`
	Queue int    `json:"queue"`
}
