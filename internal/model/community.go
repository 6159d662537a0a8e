package model

import "time"

const (
	RoleMember = 0
	RoleOwner  = 1
)

type Community struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:64;not null" json:"name"`
	Slug        string    `gorm:"uniqueIndex;size:80;not null" json:"slug"`
	Description string    `gorm:"type:text" json:"description"`
	InviteCode  string    `gorm:"uniqueIndex;size:32;not null" json:"inviteCode"`
	CreatedBy   uint64    `gorm:"not null;index" json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CommunityMember struct {
	ID          uint64 `gorm:"primaryKey"`
	CommunityID uint64 `gorm:"not null;index;uniqueIndex:uk_community_user"`
	UserID      uint64 `gorm:"not null;index;uniqueIndex:uk_community_user"`
	Role        int    `gorm:"not null;default:0"` // 0=member, 1=owner
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CommunityDetail is a community together with its watch list and members.
type CommunityDetail struct {
	Community
	Media   []Media    `json:"media"`
	Members []UserInfo `json:"members"`
}
