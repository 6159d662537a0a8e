package rdb

import (
	"context"

	"FilmDB/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RatingRepository struct {
	DB *gorm.DB
}

// Upsert writes the single (user, media) rating.
func (r *RatingRepository) Upsert(ctx context.Context, rating *model.Rating) error {
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "media_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(rating).Error
}

// Delete removes the caller's rating; deleted is false when none existed.
func (r *RatingRepository) Delete(ctx context.Context, userID, mediaID uint64) (deleted bool, err error) {
	res := r.DB.WithContext(ctx).Where("user_id = ? AND media_id = ?", userID, mediaID).Delete(&model.Rating{})
	return res.RowsAffected > 0, res.Error
}

func (r *RatingRepository) Find(ctx context.Context, userID, mediaID uint64) (*model.Rating, error) {
	var rating model.Rating
	err := r.DB.WithContext(ctx).Where("user_id = ? AND media_id = ?", userID, mediaID).First(&rating).Error
	return &rating, err
}

// Values returns every rating value currently recorded for the media.
func (r *RatingRepository) Values(ctx context.Context, mediaID uint64) ([]int, error) {
	var values []int
	err := r.DB.WithContext(ctx).Model(&model.Rating{}).Where("media_id = ?", mediaID).Pluck("value", &values).Error
	return values, err
}

func (r *RatingRepository) ListByMedia(ctx context.Context, mediaID uint64) ([]model.Rating, error) {
	list := []model.Rating{}
	err := r.DB.WithContext(ctx).Where("media_id = ?", mediaID).Order("id ASC").Find(&list).Error
	return list, err
}
