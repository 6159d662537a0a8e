package service

import (
	"context"

	"FilmDB/internal/logging"
	"FilmDB/internal/model"
	"FilmDB/internal/repository/rdb"
)

type RatingService struct {
	repos *rdb.Repositories
}

func NewRatingService(repos *rdb.Repositories) *RatingService {
	return &RatingService{repos: repos}
}

// UpsertRating records the caller's 1..5 rating and refreshes the media
// average in the same transaction.
func (s *RatingService) UpsertRating(ctx context.Context, idOrSlug string, mediaID, userID uint64, value int) (*model.Media, error) {
	if value < model.MinRating || value > model.MaxRating {
		return nil, validationErr("rating must be between %d and %d", model.MinRating, model.MaxRating)
	}
	community, err := memberCommunity(ctx, s.repos, idOrSlug, userID)
	if err != nil {
		return nil, err
	}

	var out *model.Media
	err = s.repos.Transaction(ctx, func(tx *rdb.Repositories) error {
		if _, err := tx.Media.FindInCommunity(ctx, community.ID, mediaID); err != nil {
			return err
		}
		if err := tx.Ratings.Upsert(ctx, &model.Rating{Value: value, UserID: userID, MediaID: mediaID}); err != nil {
			return err
		}
		avg, err := s.recompute(ctx, tx, mediaID)
		if err != nil {
			return err
		}
		if err = tx.Outbox.Insert(ctx, model.EventMediaRated, community.ID, mediaID, userID, map[string]any{
			"value":  value,
			"rating": avg,
		}); err != nil {
			return err
		}
		out, err = tx.Media.FindByID(ctx, mediaID)
		return err
	})
	if err != nil {
		return nil, queryErr("media", err)
	}
	logging.Debug().Uint64("media_id", mediaID).Uint64("user_id", userID).Int("value", value).Msg("rating saved")
	return out, nil
}

func (s *RatingService) ListRatings(ctx context.Context, idOrSlug string, mediaID, userID uint64) ([]model.RatingView, error) {
	community, err := memberCommunity(ctx, s.repos, idOrSlug, userID)
	if err != nil {
		return nil, err
	}
	if _, err = s.repos.Media.FindInCommunity(ctx, community.ID, mediaID); err != nil {
		return nil, queryErr("media", err)
	}

	ratings, err := s.repos.Ratings.ListByMedia(ctx, mediaID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(ratings))
	for _, r := range ratings {
		ids = append(ids, r.UserID)
	}
	infos, err := s.repos.Users.Infos(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]model.RatingView, 0, len(ratings))
	for _, r := range ratings {
		views = append(views, model.RatingView{Rating: r, User: infos[r.UserID]})
	}
	return views, nil
}

// DeleteRating removes the caller's rating. With no ratings left the media
// keeps its last average.
func (s *RatingService) DeleteRating(ctx context.Context, idOrSlug string, mediaID, userID uint64) (*model.Media, error) {
	community, err := memberCommunity(ctx, s.repos, idOrSlug, userID)
	if err != nil {
		return nil, err
	}

	var out *model.Media
	err = s.repos.Transaction(ctx, func(tx *rdb.Repositories) error {
		if _, err := tx.Media.FindInCommunity(ctx, community.ID, mediaID); err != nil {
			return err
		}
		deleted, err := tx.Ratings.Delete(ctx, userID, mediaID)
		if err != nil {
			return err
		}
		if !deleted {
			return notFound("rating")
		}
		if _, err = s.recompute(ctx, tx, mediaID); err != nil {
			return err
		}
		out, err = tx.Media.FindByID(ctx, mediaID)
		return err
	})
	if err != nil {
		return nil, queryErr("media", err)
	}
	return out, nil
}

// recompute stores the mean of all ratings; no ratings leaves the column as is.
func (s *RatingService) recompute(ctx context.Context, tx *rdb.Repositories, mediaID uint64) (*float64, error) {
	values, err := tx.Ratings.Values(ctx, mediaID)
	if err != nil {
		return nil, err
	}
	avg, ok := average(values)
	if !ok {
		return nil, nil
	}
	if err = tx.Media.SetRating(ctx, mediaID, avg); err != nil {
		return nil, err
	}
	return &avg, nil
}

func average(values []int) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values)), true
}
