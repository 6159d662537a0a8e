package rdb

import (
	"context"
	"errors"

	"FilmDB/internal/model"

	"gorm.io/gorm"
)

type CommentLikeRepository struct {
	DB *gorm.DB
}

// Like records the (user, comment) like once and bumps the comment counter
// in the same transaction. changed is false for a repeated like.
func (r *CommentLikeRepository) Like(ctx context.Context, userID, commentID uint64) (bool, error) {
	var changed bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cl model.CommentLike
		err := tx.Where("user_id = ? AND comment_id = ?", userID, commentID).First(&cl).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err = tx.Create(&model.CommentLike{UserID: userID, CommentID: commentID}).Error; err != nil {
			return err
		}
		if err = tx.Model(&model.Comment{}).
			Where("id = ?", commentID).
			UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error; err != nil {
			return err
		}
		changed = true
		return nil
	})
	return changed, err
}

func (r *CommentLikeRepository) Unlike(ctx context.Context, userID, commentID uint64) (bool, error) {
	var changed bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND comment_id = ?", userID, commentID).Delete(&model.CommentLike{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		if err := tx.Model(&model.Comment{}).
			Where("id = ?", commentID).
			UpdateColumn("like_count", gorm.Expr("CASE WHEN like_count > 0 THEN like_count - 1 ELSE 0 END")).Error; err != nil {
			return err
		}
		changed = true
		return nil
	})
	return changed, err
}

func (r *CommentLikeRepository) IsLiked(ctx context.Context, userID, commentID uint64) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&model.CommentLike{}).
		Where("user_id = ? AND comment_id = ?", userID, commentID).
		Count(&count).Error
	return count > 0, err
}

func (r *CommentLikeRepository) GetLikeCount(ctx context.Context, commentID uint64) (int64, error) {
	var c model.Comment
	err := r.DB.WithContext(ctx).Select("id", "like_count").First(&c, commentID).Error
	if err != nil {
		return 0, err
	}
	return c.LikeCount, nil
}
