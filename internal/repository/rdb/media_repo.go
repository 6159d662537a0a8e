package rdb

import (
	"context"

	"FilmDB/internal/model"

	"gorm.io/gorm"
)

type MediaRepository struct {
	DB *gorm.DB
}

func (r *MediaRepository) Create(ctx context.Context, m *model.Media) error {
	return r.DB.WithContext(ctx).Create(m).Error
}

func (r *MediaRepository) FindByID(ctx context.Context, id uint64) (*model.Media, error) {
	var m model.Media
	err := r.DB.WithContext(ctx).First(&m, id).Error
	return &m, err
}

// FindInCommunity loads a media row only if it belongs to communityID.
func (r *MediaRepository) FindInCommunity(ctx context.Context, communityID, id uint64) (*model.Media, error) {
	var m model.Media
	err := r.DB.WithContext(ctx).Where("id = ? AND community_id = ?", id, communityID).First(&m).Error
	return &m, err
}

func (r *MediaRepository) FindByTmdb(ctx context.Context, communityID uint64, tmdbID int64) (*model.Media, error) {
	var m model.Media
	err := r.DB.WithContext(ctx).Where("community_id = ? AND tmdb_id = ?", communityID, tmdbID).First(&m).Error
	return &m, err
}

// ListByCommunity returns the watch list sorted by title.
func (r *MediaRepository) ListByCommunity(ctx context.Context, communityID uint64) ([]model.Media, error) {
	list := []model.Media{}
	err := r.DB.WithContext(ctx).
		Where("community_id = ?", communityID).
		Order("title ASC, id ASC").
		Find(&list).Error
	return list, err
}

// CountQueued counts unwatched media of the community, ignoring excludeID.
func (r *MediaRepository) CountQueued(ctx context.Context, communityID, excludeID uint64) (int64, error) {
	var n int64
	q := r.DB.WithContext(ctx).Model(&model.Media{}).
		Where("community_id = ? AND watched = ?", communityID, false)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&n).Error
	return n, err
}

// Update writes fields; nil values clear nullable columns.
func (r *MediaRepository) Update(ctx context.Context, id uint64, fields map[string]any) error {
	return r.DB.WithContext(ctx).Model(&model.Media{}).Where("id = ?", id).Updates(fields).Error
}

// SetQueue moves one unwatched item of the community to a queue slot.
func (r *MediaRepository) SetQueue(ctx context.Context, communityID, id uint64, queue int) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&model.Media{}).
		Where("id = ? AND community_id = ? AND watched = ?", id, communityID, false).
		UpdateColumn("queue", queue)
	return res.RowsAffected, res.Error
}

func (r *MediaRepository) SetRating(ctx context.Context, id uint64, rating float64) error {
	return r.DB.WithContext(ctx).Model(&model.Media{}).Where("id = ?", id).
		UpdateColumn("rating", rating).Error
}

// Delete removes the media together with its ratings, comments and comment
// likes. Callers run it inside a transaction.
func (r *MediaRepository) Delete(ctx context.Context, id uint64) error {
	db := r.DB.WithContext(ctx)
	commentIDs := db.Model(&model.Comment{}).Select("id").Where("media_id = ?", id)
	if err := db.Where("comment_id IN (?)", commentIDs).Delete(&model.CommentLike{}).Error; err != nil {
		return err
	}
	if err := db.Where("media_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
		return err
	}
	if err := db.Where("media_id = ?", id).Delete(&model.Rating{}).Error; err != nil {
		return err
	}
	res := db.Delete(&model.Media{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
