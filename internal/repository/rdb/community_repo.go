package rdb

import (
	"context"
	"strconv"

	"FilmDB/internal/model"

	"gorm.io/gorm"
)

type CommunityRepository struct {
	DB *gorm.DB
}

// Create stores the community and makes its creator the owning member in
// the same transaction.
func (r *CommunityRepository) Create(ctx context.Context, c *model.Community) (*model.Community, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		mRepo := &CommunityMemberRepository{DB: tx}

		if err := tx.Create(c).Error; err != nil {
			return err
		}

		_, err := mRepo.Join(ctx, &model.CommunityMember{
			CommunityID: c.ID,
			UserID:      c.CreatedBy,
			Role:        model.RoleOwner,
		})
		return err
	})
	return c, err
}

func (r *CommunityRepository) FindByID(ctx context.Context, id uint64) (*model.Community, error) {
	var community model.Community
	err := r.DB.WithContext(ctx).First(&community, id).Error
	return &community, err
}

func (r *CommunityRepository) FindByName(ctx context.Context, name string) (*model.Community, error) {
	var community model.Community
	err := r.DB.WithContext(ctx).Where("name = ?", name).First(&community).Error
	return &community, err
}

func (r *CommunityRepository) FindByInviteCode(ctx context.Context, code string) (*model.Community, error) {
	var community model.Community
	err := r.DB.WithContext(ctx).Where("invite_code = ?", code).First(&community).Error
	return &community, err
}

// FindByIDOrSlug resolves a path segment that is either a numeric id or a
// slug. A numeric slug such as "1984" is still found by slug.
func (r *CommunityRepository) FindByIDOrSlug(ctx context.Context, idOrSlug string) (*model.Community, error) {
	var community model.Community
	q := r.DB.WithContext(ctx)
	if id, err := strconv.ParseUint(idOrSlug, 10, 64); err == nil {
		q = q.Where("id = ? OR slug = ?", id, idOrSlug).Order("id ASC")
	} else {
		q = q.Where("slug = ?", idOrSlug)
	}
	err := q.First(&community).Error
	return &community, err
}

func (r *CommunityRepository) Update(ctx context.Context, id uint64, fields map[string]any) error {
	return r.DB.WithContext(ctx).Model(&model.Community{}).Where("id = ?", id).Updates(fields).Error
}

// ListByMember returns the communities userID belongs to, ordered by name.
func (r *CommunityRepository) ListByMember(ctx context.Context, userID uint64) ([]model.Community, error) {
	var list []model.Community
	err := r.DB.WithContext(ctx).
		Joins("JOIN community_members m ON m.community_id = communities.id").
		Where("m.user_id = ?", userID).
		Order("communities.name ASC").
		Find(&list).Error
	return list, err
}
