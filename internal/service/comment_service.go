package service

import (
	"context"
	"strings"
	"time"

	"FilmDB/internal/logging"
	"FilmDB/internal/model"
	"FilmDB/internal/repository/rdb"

	"github.com/microcosm-cc/bluemonday"
)

type CommentService struct {
	repos  *rdb.Repositories
	policy *bluemonday.Policy
}

func NewCommentService(repos *rdb.Repositories) *CommentService {
	return &CommentService{repos: repos, policy: bluemonday.UGCPolicy()}
}

func (s *CommentService) sanitize(body string) (string, error) {
	clean := strings.TrimSpace(s.policy.Sanitize(body))
	if clean == "" {
		return "", validationErr("comment body is required")
	}
	return clean, nil
}

// mediaOf checks membership and that mediaID belongs to the community.
func (s *CommentService) mediaOf(ctx context.Context, idOrSlug string, mediaID, userID uint64) (*model.Community, *model.Media, error) {
	community, err := memberCommunity(ctx, s.repos, idOrSlug, userID)
	if err != nil {
		return nil, nil, err
	}
	media, err := s.repos.Media.FindInCommunity(ctx, community.ID, mediaID)
	if err != nil {
		return nil, nil, queryErr("media", err)
	}
	return community, media, nil
}

// commentOf loads a comment and checks it hangs off mediaID.
func (s *CommentService) commentOf(ctx context.Context, mediaID, commentID uint64) (*model.Comment, error) {
	c, err := s.repos.Comments.FindByID(ctx, commentID)
	if err != nil {
		return nil, queryErr("comment", err)
	}
	if c.MediaID != mediaID {
		return nil, notFound("comment")
	}
	return c, nil
}

func (s *CommentService) CreateComment(ctx context.Context, idOrSlug string, mediaID, userID uint64, body string, parentID *uint64) (*model.CommentView, error) {
	community, media, err := s.mediaOf(ctx, idOrSlug, mediaID, userID)
	if err != nil {
		return nil, err
	}
	clean, err := s.sanitize(body)
	if err != nil {
		return nil, err
	}
	if parentID != nil {
		parent, err := s.repos.Comments.FindByID(ctx, *parentID)
		if err != nil || parent.MediaID != media.ID {
			return nil, validationErr("parent comment does not belong to this media")
		}
	}

	c := &model.Comment{Body: clean, UserID: userID, MediaID: media.ID, ParentID: parentID}
	err = s.repos.Transaction(ctx, func(tx *rdb.Repositories) error {
		if err := tx.Comments.Create(ctx, c); err != nil {
			return err
		}
		return tx.Outbox.Insert(ctx, model.EventCommentCreated, community.ID, media.ID, userID, map[string]any{
			"commentId": c.ID,
			"parentId":  parentID,
		})
	})
	if err != nil {
		return nil, queryErr("comment", err)
	}

	author, err := s.repos.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, queryErr("user", err)
	}
	logging.Debug().Uint64("comment_id", c.ID).Uint64("media_id", media.ID).Msg("comment created")
	return &model.CommentView{Comment: *c, User: author.Info()}, nil
}

// ListComments returns one thread level: top-level comments when parentID
// is nil, otherwise the direct replies. limit <= 0 returns everything.
func (s *CommentService) ListComments(ctx context.Context, idOrSlug string, mediaID, userID uint64, parentID *uint64, cursor uint64, limit int) ([]model.CommentView, uint64, error) {
	if _, _, err := s.mediaOf(ctx, idOrSlug, mediaID, userID); err != nil {
		return nil, 0, err
	}
	if limit > 100 {
		limit = 100
	}

	rows, next, err := s.repos.Comments.List(ctx, mediaID, parentID, cursor, limit)
	if err != nil {
		return nil, 0, err
	}
	ids := make([]uint64, 0, len(rows))
	authors := make([]uint64, 0, len(rows))
	for _, c := range rows {
		ids = append(ids, c.ID)
		authors = append(authors, c.UserID)
	}
	counts, err := s.repos.Comments.ChildCounts(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	infos, err := s.repos.Users.Infos(ctx, authors)
	if err != nil {
		return nil, 0, err
	}

	views := make([]model.CommentView, 0, len(rows))
	for _, c := range rows {
		views = append(views, model.CommentView{Comment: c, User: infos[c.UserID], ChildCount: counts[c.ID]})
	}
	return views, next, nil
}

// UpdateComment lets the author edit a comment that is not deleted.
func (s *CommentService) UpdateComment(ctx context.Context, idOrSlug string, mediaID, commentID, userID uint64, body string) (*model.Comment, error) {
	if _, _, err := s.mediaOf(ctx, idOrSlug, mediaID, userID); err != nil {
		return nil, err
	}
	c, err := s.commentOf(ctx, mediaID, commentID)
	if err != nil {
		return nil, err
	}
	if c.UserID != userID {
		return nil, unauthorizedErr("only the author can edit this comment")
	}
	if c.Deleted {
		return nil, validationErr("deleted comments cannot be edited")
	}
	clean, err := s.sanitize(body)
	if err != nil {
		return nil, err
	}

	if err = s.repos.Comments.UpdateBody(ctx, c.ID, clean); err != nil {
		return nil, queryErr("comment", err)
	}
	c, err = s.repos.Comments.FindByID(ctx, c.ID)
	return c, queryErr("comment", err)
}

// DeleteComment soft-deletes: the row keeps its id and thread position, the
// body moves to the backup column and is replaced by a placeholder.
func (s *CommentService) DeleteComment(ctx context.Context, idOrSlug string, mediaID, commentID, userID uint64) (*model.Comment, error) {
	community, _, err := s.mediaOf(ctx, idOrSlug, mediaID, userID)
	if err != nil {
		return nil, err
	}
	c, err := s.commentOf(ctx, mediaID, commentID)
	if err != nil {
		return nil, err
	}
	if c.UserID != userID && community.CreatedBy != userID {
		return nil, unauthorizedErr("only the author or the community owner can delete this comment")
	}
	if c.Deleted {
		return c, nil
	}

	if err = s.repos.Comments.SoftDelete(ctx, c, time.Now()); err != nil {
		return nil, queryErr("comment", err)
	}
	logging.Info().Uint64("comment_id", c.ID).Uint64("user_id", userID).Msg("comment deleted")
	c, err = s.repos.Comments.FindByID(ctx, c.ID)
	return c, queryErr("comment", err)
}
