package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"FilmDB/internal/logging"
	"FilmDB/internal/model"
	"FilmDB/internal/pkg"
	"FilmDB/internal/repository/rdb"

	"gorm.io/gorm"
)

var ErrMailerDisabled = &QueryError{Message: "mailer not configured"}

type CommunityService struct {
	repos  *rdb.Repositories
	mailer pkg.Mailer
	appURL string
}

// NewCommunityService wires the service; mailer may be nil when SMTP is off.
func NewCommunityService(repos *rdb.Repositories, mailer pkg.Mailer, appURL string) *CommunityService {
	return &CommunityService{repos: repos, mailer: mailer, appURL: strings.TrimRight(appURL, "/")}
}

type CreateCommunityInput struct {
	Name        string
	Description *string
}

// CreateCommunity upserts by name. An existing community only gets its
// description refreshed; membership is left alone.
func (s *CommunityService) CreateCommunity(ctx context.Context, userID uint64, in CreateCommunityInput) (*model.Community, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, validationErr("community name is required")
	}

	existing, err := s.repos.Communities.FindByName(ctx, name)
	switch {
	case err == nil:
		if in.Description != nil {
			if err = s.repos.Communities.Update(ctx, existing.ID, map[string]any{"description": *in.Description}); err != nil {
				return nil, queryErr("community", err)
			}
			existing.Description = *in.Description
		}
		return existing, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	code, err := pkg.RandInviteCode()
	if err != nil {
		return nil, err
	}
	community := &model.Community{
		Name:       name,
		Slug:       pkg.Slugify(name),
		InviteCode: code,
		CreatedBy:  userID,
	}
	if in.Description != nil {
		community.Description = *in.Description
	}

	if _, err = s.repos.Communities.Create(ctx, community); err != nil {
		return nil, queryErr("community", err)
	}
	logging.Info().Uint64("community_id", community.ID).Uint64("user_id", userID).Str("slug", community.Slug).Msg("community created")
	return community, nil
}

// FindCommunityBySlugOrID hides communities from non-members behind a
// not-found error.
func (s *CommunityService) FindCommunityBySlugOrID(ctx context.Context, idOrSlug string, userID uint64) (*model.CommunityDetail, error) {
	community, err := s.repos.Communities.FindByIDOrSlug(ctx, idOrSlug)
	if err != nil {
		return nil, queryErr("community", err)
	}
	ok, err := s.repos.Members.IsMember(ctx, community.ID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, notFound("community")
	}

	media, err := s.repos.Media.ListByCommunity(ctx, community.ID)
	if err != nil {
		return nil, err
	}
	ids, err := s.repos.Members.MemberIDs(ctx, community.ID)
	if err != nil {
		return nil, err
	}
	infos, err := s.repos.Users.Infos(ctx, ids)
	if err != nil {
		return nil, err
	}
	members := make([]model.UserInfo, 0, len(ids))
	for _, id := range ids {
		if info, found := infos[id]; found {
			members = append(members, info)
		}
	}

	return &model.CommunityDetail{Community: *community, Media: media, Members: members}, nil
}

type UpdateCommunityInput struct {
	Name        *string
	Description *string
}

func (s *CommunityService) UpdateCommunity(ctx context.Context, idOrSlug string, userID uint64, in UpdateCommunityInput) (*model.Community, error) {
	community, err := s.repos.Communities.FindByIDOrSlug(ctx, idOrSlug)
	if err != nil {
		return nil, queryErr("community", err)
	}
	if community.CreatedBy != userID {
		return nil, unauthorizedErr("only the community owner can update the community")
	}

	fields := map[string]any{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, validationErr("community name is required")
		}
		fields["name"] = name
		fields["slug"] = pkg.Slugify(name)
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if len(fields) == 0 {
		return community, nil
	}

	if err = s.repos.Communities.Update(ctx, community.ID, fields); err != nil {
		return nil, queryErr("community", err)
	}
	updated, err := s.repos.Communities.FindByID(ctx, community.ID)
	return updated, queryErr("community", err)
}

// AddUserToCommunity joins the caller through an invite code.
func (s *CommunityService) AddUserToCommunity(ctx context.Context, inviteCode string, userID uint64) (*model.Community, error) {
	code := strings.TrimSpace(inviteCode)
	if code == "" {
		return nil, validationErr("invalid invite code")
	}
	community, err := s.repos.Communities.FindByInviteCode(ctx, code)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, validationErr("invalid invite code")
	}
	if err != nil {
		return nil, err
	}

	joined, err := s.repos.Members.Join(ctx, &model.CommunityMember{
		CommunityID: community.ID,
		UserID:      userID,
		Role:        model.RoleMember,
	})
	if err != nil {
		return nil, err
	}
	if !joined {
		return nil, validationErr("already a member")
	}
	logging.Info().Uint64("community_id", community.ID).Uint64("user_id", userID).Msg("member joined")
	return community, nil
}

// RemoveUserFromCommunity is idempotent. The owner always stays a member.
func (s *CommunityService) RemoveUserFromCommunity(ctx context.Context, idOrSlug string, userID uint64) error {
	community, err := s.repos.Communities.FindByIDOrSlug(ctx, idOrSlug)
	if err != nil {
		return queryErr("community", err)
	}
	if community.CreatedBy == userID {
		return validationErr("the owner cannot leave the community")
	}
	return s.repos.Members.Leave(ctx, community.ID, userID)
}

func (s *CommunityService) IsCommunityOwner(ctx context.Context, idOrSlug string, userID uint64) (bool, error) {
	community, err := s.repos.Communities.FindByIDOrSlug(ctx, idOrSlug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return community.CreatedBy == userID, nil
}

func (s *CommunityService) ListCommunities(ctx context.Context, userID uint64) ([]model.Community, error) {
	return s.repos.Communities.ListByMember(ctx, userID)
}

// SendInvite mails the community invite code to email on behalf of a member.
func (s *CommunityService) SendInvite(ctx context.Context, idOrSlug string, userID uint64, email string) error {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return validationErr("a valid email is required")
	}
	community, err := memberCommunity(ctx, s.repos, idOrSlug, userID)
	if err != nil {
		return err
	}
	if s.mailer == nil {
		return ErrMailerDisabled
	}
	inviter, err := s.repos.Users.FindByID(ctx, userID)
	if err != nil {
		return queryErr("user", err)
	}

	joinURL := fmt.Sprintf("%s/join?code=%s", s.appURL, community.InviteCode)
	body := pkg.InviteHTML(inviter.Name, community.Name, joinURL, community.InviteCode)
	if err = s.mailer.Send(email, "You're invited to "+community.Name, body); err != nil {
		logging.Error().Err(err).Uint64("community_id", community.ID).Msg("invite mail failed")
		return fmt.Errorf("send invite: %w", err)
	}
	return nil
}

// memberCommunity resolves idOrSlug and checks that userID belongs to it.
func memberCommunity(ctx context.Context, repos *rdb.Repositories, idOrSlug string, userID uint64) (*model.Community, error) {
	community, err := repos.Communities.FindByIDOrSlug(ctx, idOrSlug)
	if err != nil {
		return nil, queryErr("community", err)
	}
	ok, err := repos.Members.IsMember(ctx, community.ID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, unauthorizedErr(errNotMember)
	}
	return community, nil
}
