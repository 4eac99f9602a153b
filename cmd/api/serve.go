// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/taibuivan/tahmin/internal/api"
	"github.com/taibuivan/tahmin/internal/core/article"
	"github.com/taibuivan/tahmin/internal/core/editor"
	"github.com/taibuivan/tahmin/internal/core/football"
	"github.com/taibuivan/tahmin/internal/core/prediction"
	"github.com/taibuivan/tahmin/internal/platform/config"
	"github.com/taibuivan/tahmin/internal/platform/constants"
	"github.com/taibuivan/tahmin/internal/platform/events"
	"github.com/taibuivan/tahmin/internal/platform/middleware"
	"github.com/taibuivan/tahmin/internal/platform/migration"
	pgstore "github.com/taibuivan/tahmin/internal/platform/postgres"
	redisstore "github.com/taibuivan/tahmin/internal/platform/redis"
	"github.com/taibuivan/tahmin/internal/platform/sec"
	"github.com/taibuivan/tahmin/internal/platform/storage"
	"github.com/taibuivan/tahmin/internal/users/account"
	"github.com/taibuivan/tahmin/internal/users/admin"
	"github.com/taibuivan/tahmin/internal/users/auth"
)

var skipMigrations bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	for _, cmd := range []*cobra.Command{rootCmd, serveCmd} {
		cmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "do not apply pending migrations on startup")
	}
}

/*
runServe boots the server.

# Startup Sequence

 1. Initialize structured logger and load configuration.
 2. Connect to PostgreSQL (pgxpool).
 3. Connect to Redis when REDIS_URL is set.
 4. Run database migrations (idempotent).
 5. Connect object storage and the event broker when configured.
 6. Wire HTTP handlers.
 7. Start HTTP server with graceful shutdown.
*/
func runServe(cmd *cobra.Command, _ []string) error {

	// ── 1. Logger & Configuration ─────────────────────────────────────────
	log, cfg := bootstrap()
	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. A deadline surfaces misconfiguration quickly.
	startupCtx, startupCancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer startupCancel()

	// ── 2. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	health := api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) },
	}

	// ── 3. Redis (optional) ───────────────────────────────────────────────
	var footballCache football.Cache
	if cfg.RedisURL != "" {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing_redis_client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis_close_failed", slog.Any("error", cerr))
			}
		}()

		footballCache = redisstore.NewCache(rdb, constants.RedisPrefixFootball, cfg.FootballCacheTTL)
		health.CheckCache = func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) }
	} else {
		log.Warn("redis_disabled", slog.String("reason", "REDIS_URL not set"))
	}

	// ── 4. Migrations ─────────────────────────────────────────────────────
	if !skipMigrations {
		must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")
	}

	// ── 5. Object Storage & Events (optional) ─────────────────────────────
	objects := newObjectStorage(startupCtx, cfg, log)

	var publisher events.Publisher = events.Noop{}
	if cfg.RabbitMQURL != "" {
		backend, err := events.NewRabbitMQBackend(cfg.RabbitMQURL, cfg.EventsQueue)
		must(log, err, "connect to rabbitmq")
		broker := events.NewBrokerPublisher(backend)
		defer func() {
			if cerr := broker.Close(); cerr != nil {
				log.Error("rabbitmq_close_failed", slog.Any("error", cerr))
			}
		}()
		publisher = broker
	}

	// ── 6. Security ───────────────────────────────────────────────────────
	tokens := sec.NewTokenService(cfg.JWTSecret, constants.AuthIssuer, cfg.TokenTTL)
	if !tokens.Configured() {
		log.Warn("jwt_secret_missing", slog.String("effect", "protected routes return SERVER_MISCONFIGURATION"))
	}

	userRepository := auth.NewUserRepository(pool)
	gate := middleware.NewGate(tokens, userRepository)

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers(health, log)

	authService := auth.NewService(userRepository, tokens)
	accountService := account.NewService(account.NewAccountRepository(pool), objects)
	adminService := admin.NewService(admin.NewUserRepository(pool), publisher)

	articleService := article.NewService(article.NewPostgresRepository(pool), publisher)
	predictionService := prediction.NewService(prediction.NewPostgresRepository(pool), publisher)
	editorService := editor.NewService(editor.NewPostgresRepository(pool), predictionService, articleService, publisher)

	footballClient := football.NewClient(cfg.FootballAPIURL, cfg.FootballAPIKey, constants.UpstreamTimeout)
	footballService := football.NewService(footballClient, footballCache)

	handlers := api.Handlers{
		Liveness:   liveness,
		Readiness:  readiness,
		Auth:       auth.NewHandler(authService, gate.Authenticate),
		Account:    account.NewHandler(accountService, gate.Authenticate),
		Admin:      admin.NewHandler(adminService, gate.Authenticate),
		Article:    article.NewHandler(articleService, gate.Authenticate),
		Prediction: prediction.NewHandler(predictionService, gate.Authenticate),
		Editor:     editor.NewHandler(editorService, gate.Authenticate),
		Football:   football.NewHandler(footballService),
	}

	// ── 8. HTTP Server & Graceful Shutdown ────────────────────────────────
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, handlers)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_failed", slog.Any("error", err))
		return err
	}

	log.Info("shutting_down_server", slog.Duration("timeout", constants.ShutdownTimeout))
	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown_failed", slog.Any("error", err))
		return err
	}

	log.Info("server_stopped_cleanly")
	return nil
}

// newObjectStorage returns MinIO when credentials are configured, otherwise
// a storage that rejects uploads.
func newObjectStorage(ctx context.Context, cfg *config.Config, log *slog.Logger) storage.ObjectStorage {
	if !cfg.StorageEnabled() {
		log.Warn("object_storage_disabled", slog.String("reason", "S3 credentials not set"))
		return storage.Disabled{}
	}

	client, err := storage.NewMinioClient(storage.MinioConfig{
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3Bucket,
		UseSSL:    cfg.S3UseSSL,
		PublicURL: cfg.S3PublicURL,
	})
	must(log, err, "connect to object storage")
	must(log, client.EnsureBucket(ctx, log), "ensure storage bucket")

	return client
}
