package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"FilmDB/internal/logging"
	"FilmDB/internal/model"
	"FilmDB/internal/pkg"
	"FilmDB/internal/repository/rdb"
	"FilmDB/internal/repository/redis"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLen = 8

var errInvalidCredentials = &QueryError{Message: "invalid email or password"}

type UserService struct {
	repo     *rdb.UserRepository
	sessions *redis.SessionRepository
	tokens   *pkg.TokenManager
}

func NewUserService(repo *rdb.UserRepository, sessions *redis.SessionRepository, tokens *pkg.TokenManager) *UserService {
	return &UserService{repo: repo, sessions: sessions, tokens: tokens}
}

func (s *UserService) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" {
		return nil, validationErr("name is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, validationErr("a valid email is required")
	}
	if len(password) < minPasswordLen {
		return nil, validationErr("password must be at least %d characters", minPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &model.User{Name: name, Email: email, Password: string(hash)}
	if err = s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &QueryError{Message: "email already registered", Err: err}
		}
		return nil, err
	}
	logging.Info().Uint64("user_id", user.ID).Msg("user registered")
	return user, nil
}

// Login issues a token pair and makes its access token the only live
// session of the user.
func (s *UserService) Login(ctx context.Context, email, password string) (*pkg.Pair, error) {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, errInvalidCredentials
	}
	return s.issue(ctx, user.ID)
}

func (s *UserService) issue(ctx context.Context, userID uint64) (*pkg.Pair, error) {
	pair, err := s.tokens.GeneratePair(userID)
	if err != nil {
		return nil, err
	}
	if err = s.sessions.Save(ctx, userID, pair.AccessToken); err != nil {
		return nil, err
	}
	return pair, nil
}

// Refresh exchanges a refresh token for a new pair, replacing the session.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*pkg.Pair, error) {
	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	if _, err = s.repo.FindByID(ctx, claims.UserID); err != nil {
		return nil, queryErr("user", err)
	}
	return s.issue(ctx, claims.UserID)
}

func (s *UserService) Logout(ctx context.Context, userID uint64) error {
	return s.sessions.Delete(ctx, userID)
}

func (s *UserService) Me(ctx context.Context, userID uint64) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, queryErr("user", err)
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uint64, name, image *string) (*model.User, error) {
	fields := map[string]any{}
	if name != nil {
		n := strings.TrimSpace(*name)
		if n == "" {
			return nil, validationErr("name is required")
		}
		fields["name"] = n
	}
	if image != nil {
		fields["image"] = strings.TrimSpace(*image)
	}
	if len(fields) > 0 {
		if err := s.repo.UpdateProfile(ctx, userID, fields); err != nil {
			return nil, queryErr("user", err)
		}
	}
	return s.Me(ctx, userID)
}

// ChangePassword checks the old password, stores the new hash and ends the
// current session.
func (s *UserService) ChangePassword(ctx context.Context, userID uint64, oldPassword, newPassword string) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return queryErr("user", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)) != nil {
		return validationErr("old password is incorrect")
	}
	if len(newPassword) < minPasswordLen {
		return validationErr("password must be at least %d characters", minPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err = s.repo.UpdateProfile(ctx, userID, map[string]any{"password": string(hash)}); err != nil {
		return err
	}
	return s.Logout(ctx, userID)
}
