// Command api serves the social network HTTP API.
//
// @title                       Social API
// @version                     1.0
// @description                 Signup and login with cookie sessions, profiles, follows, posts, likes, comments and notifications.
// @BasePath                    /
// @securityDefinitions.apikey  CookieAuth
// @in                          cookie
// @name                        jwt
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chirp/social-api/internal/api"
	"github.com/chirp/social-api/internal/core/ports"
	"github.com/chirp/social-api/internal/core/service"
	"github.com/chirp/social-api/internal/infrastructure/config"
	"github.com/chirp/social-api/internal/infrastructure/db/mongo"
	"github.com/chirp/social-api/internal/infrastructure/db/redis"
	"github.com/chirp/social-api/internal/infrastructure/http/handlers"
	"github.com/chirp/social-api/internal/infrastructure/queue"
	"github.com/chirp/social-api/pkg/logger"
)

const shutdownTimeout = 5 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		l := logger.Init(logger.Options{})
		l.Fatal().Err(err).Msg("load config")
	}
	logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "social-api",
	})

	if err := run(ctx, cfg); err != nil {
		l := logger.Get()
		l.Fatal().Err(err).Msg("server exited")
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	log := logger.Get()

	// --- Storage ---
	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()

	userRepo := mongo.NewUserRepository(db)
	postRepo := mongo.NewPostRepository(db)
	notificationRepo := mongo.NewNotificationRepository(db)
	for name, ensure := range map[string]func(context.Context) error{
		"users":         userRepo.EnsureIndexes,
		"posts":         postRepo.EnsureIndexes,
		"notifications": notificationRepo.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			return fmt.Errorf("ensure %s indexes: %w", name, err)
		}
	}

	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	objects, err := newObjectStore(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	images := service.NewImageStore(objects)

	// --- Services ---
	var deduper service.NotificationDeduper
	if cfg.Notifications.DedupWindow > 0 {
		deduper = redis.NewNotificationDeduper(rdb, cfg.Notifications.DedupWindow)
	}
	notifications := service.NewNotificationService(
		notificationRepo,
		userRepo,
		deduper,
		service.NotificationOptions{SuppressSelf: cfg.Notifications.SuppressSelf},
		log,
	)

	var emitter ports.NotificationEmitter = notifications
	var dispatcher *queue.Dispatcher
	if cfg.Notifications.Workers > 0 {
		dispatcher = queue.NewDispatcher(cfg.Notifications.Workers, notifications, log)
		dispatcher.Start(context.WithoutCancel(ctx))
		emitter = dispatcher
	}

	sessions := service.NewSessionIssuer(cfg.JWTSecret, cfg.SessionTTL)
	authService := service.NewAuthService(userRepo, sessions, log)
	userService := service.NewUserService(userRepo, images, emitter, log)
	postService := service.NewPostService(postRepo, userRepo, images, emitter, log)

	// --- HTTP ---
	deps := api.Deps{
		Auth:          authService,
		Sessions:      sessions,
		Users:         userService,
		Posts:         postService,
		Notifications: notifications,
		Readiness: map[string]handlers.Pinger{
			"mongodb": mongo.NewPinger(client),
			"redis":   redis.NewPinger(rdb),
		},
		Log:          log,
		SecureCookie: cfg.IsProduction(),
		StaticDir:    cfg.StaticDir,
	}
	if cfg.Storage.Backend == config.StorageFilesystem {
		deps.UploadsDir = cfg.Storage.FSRoot
		deps.UploadsURL = cfg.Storage.FSPublicURL
	}
	e := api.NewRouter(deps)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if dispatcher != nil {
		dispatcher.Close()
	}
	log.Info().Msg("server stopped")
	return nil
}
