package model

import "time"

// DeletedCommentBody replaces the body of a soft-deleted comment.
const DeletedCommentBody = "[deleted]"

type Comment struct {
	ID         uint64     `gorm:"primaryKey" json:"id"`
	Body       string     `gorm:"type:text;not null" json:"body"`
	UserID     uint64     `gorm:"not null;index" json:"userId"`
	MediaID    uint64     `gorm:"not null;index:idx_comment_media_parent,priority:1" json:"mediaId"`
	ParentID   *uint64    `gorm:"index:idx_comment_media_parent,priority:2" json:"parentId"`
	Deleted    bool       `gorm:"not null;default:false" json:"deleted"`
	DeletedAt  *time.Time `json:"deletedAt"`
	TextBackup string     `gorm:"type:text" json:"-"`
	LikeCount  int64      `gorm:"not null;default:0" json:"likeCount"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

type CommentLike struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	UserID    uint64 `gorm:"not null;uniqueIndex:uk_comment_like"`
	CommentID uint64 `gorm:"not null;index;uniqueIndex:uk_comment_like"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CommentLike) TableName() string {
	return "comment_likes"
}

// CommentView is a comment with its author and reply count.
type CommentView struct {
	Comment
	User       UserInfo `json:"user"`
	ChildCount int64    `json:"childCount"`
}
