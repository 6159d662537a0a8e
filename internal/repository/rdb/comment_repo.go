package rdb

import (
	"context"
	"time"

	"FilmDB/internal/model"

	"gorm.io/gorm"
)

type CommentRepository struct {
	DB *gorm.DB
}

func (r *CommentRepository) Create(ctx context.Context, c *model.Comment) error {
	return r.DB.WithContext(ctx).Create(c).Error
}

func (r *CommentRepository) FindByID(ctx context.Context, id uint64) (*model.Comment, error) {
	var c model.Comment
	err := r.DB.WithContext(ctx).First(&c, id).Error
	return &c, err
}

// List returns the comments of a media whose parent is parentID (nil means
// top-level) in creation order. limit <= 0 returns the whole thread level;
// otherwise rows after the id cursor are returned, limit+1 being fetched to
// tell whether another page exists.
func (r *CommentRepository) List(ctx context.Context, mediaID uint64, parentID *uint64, cursor uint64, limit int) ([]model.Comment, uint64, error) {
	q := r.DB.WithContext(ctx).Where("media_id = ?", mediaID)
	if parentID == nil {
		q = q.Where("parent_id IS NULL")
	} else {
		q = q.Where("parent_id = ?", *parentID)
	}
	if cursor > 0 {
		q = q.Where("id > ?", cursor)
	}
	q = q.Order("id ASC")

	rows := []model.Comment{}
	if limit <= 0 {
		err := q.Find(&rows).Error
		return rows, 0, err
	}
	if err := q.Limit(limit + 1).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	var next uint64
	if len(rows) > limit {
		rows = rows[:limit]
		next = rows[limit-1].ID
	}
	return rows, next, nil
}

// ChildCounts returns the number of direct replies per comment id.
func (r *CommentRepository) ChildCounts(ctx context.Context, ids []uint64) (map[uint64]int64, error) {
	out := make(map[uint64]int64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []struct {
		ParentID uint64
		N        int64
	}
	err := r.DB.WithContext(ctx).Model(&model.Comment{}).
		Select("parent_id, COUNT(*) AS n").
		Where("parent_id IN ?", ids).
		Group("parent_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ParentID] = row.N
	}
	return out, nil
}

func (r *CommentRepository) UpdateBody(ctx context.Context, id uint64, body string) error {
	return r.DB.WithContext(ctx).Model(&model.Comment{}).Where("id = ?", id).Update("body", body).Error
}

// SoftDelete keeps the row and its thread position, moving the body to the
// backup column.
func (r *CommentRepository) SoftDelete(ctx context.Context, c *model.Comment, at time.Time) error {
	return r.DB.WithContext(ctx).Model(&model.Comment{}).
		Where("id = ? AND deleted = ?", c.ID, false).
		Updates(map[string]any{
			"text_backup": c.Body,
			"body":        model.DeletedCommentBody,
			"deleted":     true,
			"deleted_at":  at,
		}).Error
}
