package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"FilmDB/internal/config"
	"FilmDB/internal/handler"
	"FilmDB/internal/logging"
	"FilmDB/internal/pkg"
	"FilmDB/internal/repository/rdb"
	"FilmDB/internal/repository/redis"
	"FilmDB/internal/router"
	"FilmDB/internal/service"
	"FilmDB/internal/tmdb"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg := config.MustLoad()
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	log := logging.Logger()
	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := rdb.Open(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("open database")
	}
	if cfg.Database.AutoMigrate {
		if err = rdb.Migrate(db); err != nil {
			log.Fatal().Err(err).Msg("migrate database")
		}
	}

	rdbClient, err := redis.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("connect redis")
	}
	defer rdbClient.Close()

	repos := rdb.NewRepositories(db)
	tokens := pkg.NewTokenManager(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	sessions := redis.NewSessionRepository(rdbClient, tokens.AccessTTL)
	lock := &redis.DistLock{RDB: rdbClient}

	var mailer pkg.Mailer
	if cfg.SMTP.MailEnabled() {
		mailer = pkg.NewSMTPMailer(pkg.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	} else {
		logging.Warn().Msg("smtp not configured, invites disabled")
	}

	tmdbClient := tmdb.NewClient(tmdb.Config{
		APIKey:     cfg.TMDB.APIKey,
		BaseURL:    cfg.TMDB.BaseURL,
		Timeout:    cfg.TMDB.Timeout,
		RatePerSec: cfg.TMDB.RatePerSec,
	})

	communitySvc := service.NewCommunityService(repos, mailer, cfg.SMTP.AppURL)
	commentSvc := service.NewCommentService(repos)
	likeSvc := service.NewCommentLikeService(commentSvc, repos.CommentLikes, redis.NewLikeCacheRepository(rdbClient), lock)
	tmdbSvc := service.NewTMDBService(tmdbClient, &redis.JSONCache{RDB: rdbClient, Prefix: "tmdb:", TTL: cfg.TMDB.CacheTTL}, lock)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sender := service.LogSender
	if cfg.Kafka.Enabled {
		publisher, err := pkg.NewActivityPublisher(pkg.KafkaConfig{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.Topic})
		if err != nil {
			log.Fatal().Err(err).Msg("kafka publisher")
		}
		defer publisher.Close()
		sender = service.KafkaSender(publisher)
	}
	go service.NewOutboxRelayer(repos.Outbox, sender).Run(ctx)

	engine := router.InitRouter(router.Deps{
		Community: handler.NewCommunityHandler(communitySvc),
		Media:     handler.NewMediaHandler(service.NewMediaService(repos)),
		Rating:    handler.NewRatingHandler(service.NewRatingService(repos)),
		Comment:   handler.NewCommentHandler(commentSvc, likeSvc),
		User:      handler.NewUserHandler(service.NewUserService(repos.Users, sessions, tokens)),
		TMDB:      handler.NewTMDBHandler(tmdbSvc),

		Tokens:       tokens,
		Sessions:     sessions,
		AllowOrigins: cfg.CORS.AllowOrigins,
		HealthChecks: map[string]func(context.Context) error{
			"database": func(ctx context.Context) error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return sqlDB.PingContext(ctx)
			},
			"redis": func(ctx context.Context) error { return rdbClient.Ping(ctx).Err() },
		},
	})

	srv := &http.Server{Addr: cfg.HTTP.Address, Handler: engine}
	go func() {
		logging.Info().Str("addr", cfg.HTTP.Address).Str("env", cfg.Env).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error().Err(err).Msg("http server")
			stop()
		}
	}()

	<-ctx.Done()
	logging.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("http shutdown")
	}
}
