// Package rdb holds the gorm-backed repositories.
package rdb

import (
	"context"
	"fmt"
	stdlog "log"
	"strings"
	"time"

	"FilmDB/internal/config"
	"FilmDB/internal/logging"
	"FilmDB/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the configured database. An in-memory SQLite database is
// pinned to a single connection so every query sees the same schema.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database dsn is empty")
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "", "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger: logger.New(stdlog.New(logging.Logger(), "", 0), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	if cfg.Driver == "sqlite" && strings.Contains(cfg.DSN, ":memory:") {
		sqlDB.SetMaxOpenConns(1)
		return db, nil
	}

	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	return db, nil
}

// Migrate creates or alters every table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(model.All()...)
}

// Repositories bundles every repository over one handle, so a transaction
// can hand a consistent set to service code.
type Repositories struct {
	DB           *gorm.DB
	Users        *UserRepository
	Communities  *CommunityRepository
	Members      *CommunityMemberRepository
	Media        *MediaRepository
	Ratings      *RatingRepository
	Comments     *CommentRepository
	CommentLikes *CommentLikeRepository
	Outbox       *OutboxRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		DB:           db,
		Users:        &UserRepository{DB: db},
		Communities:  &CommunityRepository{DB: db},
		Members:      &CommunityMemberRepository{DB: db},
		Media:        &MediaRepository{DB: db},
		Ratings:      &RatingRepository{DB: db},
		Comments:     &CommentRepository{DB: db},
		CommentLikes: &CommentLikeRepository{DB: db},
		Outbox:       &OutboxRepository{DB: db},
	}
}

// Transaction runs fn with repositories bound to one database transaction.
// Returning an error rolls everything back.
func (r *Repositories) Transaction(ctx context.Context, fn func(tx *Repositories) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
