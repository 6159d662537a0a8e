package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"FilmDB/internal/logging"
	"FilmDB/internal/model"
	"FilmDB/internal/repository/rdb"

	"gorm.io/gorm"
)

// Transition is the explicit watch-state move requested for a media item.
type Transition int

const (
	SetQueued Transition = iota
	SetWatched
)

func (t Transition) String() string {
	if t == SetWatched {
		return "watched"
	}
	return "queued"
}

type MediaInput struct {
	Title        string
	MediaType    model.MediaType
	TmdbID       int64
	PosterPath   string
	BackdropPath string
	Transition   Transition
}

func (in MediaInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return validationErr("title is required")
	}
	if in.MediaType != model.MediaTypeMovie && in.MediaType != model.MediaTypeTV {
		return validationErr("mediaType must be movie or tv")
	}
	if in.TmdbID <= 0 {
		return validationErr("tmdbId is required")
	}
	return nil
}

type MediaService struct {
	repos *rdb.Repositories
}

func NewMediaService(repos *rdb.Repositories) *MediaService {
	return &MediaService{repos: repos}
}

// CreateOrUpdateMedia adds a title to the watch list or moves an existing
// one between queue and watched. Queue slots are appended from the current
// unwatched count and never compacted.
func (s *MediaService) CreateOrUpdateMedia(ctx context.Context, idOrSlug string, userID uint64, in MediaInput) (*model.Media, error) {
	community, err := memberCommunity(ctx, s.repos, idOrSlug, userID)
	if err != nil {
		return nil, err
	}
	if in.Transition == SetWatched && community.CreatedBy != userID {
		return nil, unauthorizedErr("only the community owner can mark media as watched")
	}
	if err = in.validate(); err != nil {
		return nil, err
	}

	var out *model.Media
	err = s.repos.Transaction(ctx, func(tx *rdb.Repositories) error {
		existing, err := tx.Media.FindByTmdb(ctx, community.ID, in.TmdbID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			out, err = s.create(ctx, tx, community.ID, userID, in)
			return err
		}
		if err != nil {
			return err
		}
		out, err = s.transition(ctx, tx, existing, userID, in.Transition)
		return err
	})
	if err != nil {
		return nil, queryErr("media", err)
	}
	return out, nil
}

func (s *MediaService) create(ctx context.Context, tx *rdb.Repositories, communityID, userID uint64, in MediaInput) (*model.Media, error) {
	m := &model.Media{
		Title:        strings.TrimSpace(in.Title),
		MediaType:    in.MediaType,
		TmdbID:       in.TmdbID,
		PosterPath:   in.PosterPath,
		BackdropPath: in.BackdropPath,
		RequestedBy:  userID,
		CommunityID:  communityID,
	}
	if in.Transition == SetWatched {
		now := time.Now()
		m.Watched = true
		m.WatchedAt = &now
	} else {
		n, err := tx.Media.CountQueued(ctx, communityID, 0)
		if err != nil {
			return nil, err
		}
		q := int(n) + 1
		m.Queue = &q
	}

	if err := tx.Media.Create(ctx, m); err != nil {
		return nil, err
	}
	if err := tx.Outbox.Insert(ctx, model.EventMediaAdded, communityID, m.ID, userID, map[string]any{
		"title":   m.Title,
		"tmdbId":  m.TmdbID,
		"watched": m.Watched,
	}); err != nil {
		return nil, err
	}
	logging.Info().Uint64("media_id", m.ID).Uint64("community_id", communityID).Str("state", in.Transition.String()).Msg("media added")
	return m, nil
}

func (s *MediaService) transition(ctx context.Context, tx *rdb.Repositories, m *model.Media, userID uint64, t Transition) (*model.Media, error) {
	var (
		fields map[string]any
		event  string
	)
	switch t {
	case SetWatched:
		if m.Watched {
			return m, nil
		}
		fields = map[string]any{"watched": true, "queue": nil, "watched_at": time.Now()}
		event = model.EventMediaWatched
	default:
		// already queued items keep their slot
		if !m.Watched && m.Queue != nil {
			return m, nil
		}
		n, err := tx.Media.CountQueued(ctx, m.CommunityID, m.ID)
		if err != nil {
			return nil, err
		}
		fields = map[string]any{"watched": false, "queue": int(n) + 1, "watched_at": nil}
		event = model.EventMediaQueued
	}

	if err := tx.Media.Update(ctx, m.ID, fields); err != nil {
		return nil, err
	}
	updated, err := tx.Media.FindByID(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	if err = tx.Outbox.Insert(ctx, event, m.CommunityID, m.ID, userID, map[string]any{
		"title": updated.Title,
		"queue": updated.Queue,
	}); err != nil {
		return nil, err
	}
	logging.Debug().Uint64("media_id", m.ID).Str("state", t.String()).Msg("media transition")
	return updated, nil
}

// UpdateMedia applies a transition to a media item addressed by id.
func (s *MediaService) UpdateMedia(ctx context.Context, idOrSlug string, mediaID, userID uint64, t Transition) (*model.Media, error) {
	community, err := memberCommunity(ctx, s.repos, idOrSlug, userID)
	if err != nil {
		return nil, err
	}
	if t == SetWatched && community.CreatedBy != userID {
		return nil, unauthorizedErr("only the community owner can mark media as watched")
	}

	var out *model.Media
	err = s.repos.Transaction(ctx, func(tx *rdb.Repositories) error {
		m, err := tx.Media.FindInCommunity(ctx, community.ID, mediaID)
		if err != nil {
			return err
		}
		out, err = s.transition(ctx, tx, m, userID, t)
		return err
	})
	if err != nil {
		return nil, queryErr("media", err)
	}
	return out, nil
}

func (s *MediaService) GetMedia(ctx context.Context, idOrSlug string, mediaID, userID uint64) (*model.Media, error) {
	community, err := memberCommunity(ctx, s.repos, idOrSlug, userID)
	if err != nil {
		return nil, err
	}
	m, err := s.repos.Media.FindInCommunity(ctx, community.ID, mediaID)
	if err != nil {
		return nil, queryErr("media", err)
	}
	return m, nil
}

func (s *MediaService) ListMedia(ctx context.Context, idOrSlug string, userID uint64) ([]model.Media, error) {
	community, err := memberCommunity(ctx, s.repos, idOrSlug, userID)
	if err != nil {
		return nil, err
	}
	return s.repos.Media.ListByCommunity(ctx, community.ID)
}

// DeleteMedia is open to any member and removes ratings, comments and
// comment likes along with the item.
func (s *MediaService) DeleteMedia(ctx context.Context, idOrSlug string, mediaID, userID uint64) error {
	community, err := memberCommunity(ctx, s.repos, idOrSlug, userID)
	if err != nil {
		return err
	}
	err = s.repos.Transaction(ctx, func(tx *rdb.Repositories) error {
		if _, err := tx.Media.FindInCommunity(ctx, community.ID, mediaID); err != nil {
			return err
		}
		return tx.Media.Delete(ctx, mediaID)
	})
	if err != nil {
		return queryErr("media", err)
	}
	logging.Info().Uint64("media_id", mediaID).Uint64("user_id", userID).Msg("media deleted")
	return nil
}

// ReorderQueue stores the queue positions supplied by the owner as given.
// Watched items are rejected and the whole batch rolls back.
func (s *MediaService) ReorderQueue(ctx context.Context, idOrSlug string, userID uint64, positions []model.QueuePosition) ([]model.Media, error) {
	community, err := memberCommunity(ctx, s.repos, idOrSlug, userID)
	if err != nil {
		return nil, err
	}
	if community.CreatedBy != userID {
		return nil, unauthorizedErr("only the community owner can reorder the queue")
	}

	var list []model.Media
	err = s.repos.Transaction(ctx, func(tx *rdb.Repositories) error {
		for _, p := range positions {
			m, err := tx.Media.FindInCommunity(ctx, community.ID, p.ID)
			if err != nil {
				return err
			}
			if m.Watched {
				return validationErr("media %d is watched and has no queue slot", p.ID)
			}
			if _, err = tx.Media.SetQueue(ctx, community.ID, p.ID, p.Queue); err != nil {
				return err
			}
		}
		var err error
		list, err = tx.Media.ListByCommunity(ctx, community.ID)
		return err
	})
	if err != nil {
		return nil, queryErr("media", err)
	}
	return list, nil
}
