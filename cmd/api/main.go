// Package main is the entrypoint for the Dream Journal API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/dreamjournal/dreamjournal/internal/cache"
	"github.com/dreamjournal/dreamjournal/internal/config"
	"github.com/dreamjournal/dreamjournal/internal/handler"
	"github.com/dreamjournal/dreamjournal/internal/metrics"
	"github.com/dreamjournal/dreamjournal/internal/repository"
	"github.com/dreamjournal/dreamjournal/internal/router"
	"github.com/dreamjournal/dreamjournal/internal/server"
	"github.com/dreamjournal/dreamjournal/internal/service"
	"github.com/dreamjournal/dreamjournal/internal/validation"
)

func main() {
	if err := run(context.Background()); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return err
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Initialize database
	repo, err := repository.New(ctx, cfg.DatabaseURL, repository.PoolConfig{
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	})
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		return err
	}
	logger.Info("connected to database")

	if cfg.AutoMigrate {
		if err := repo.Migrate(ctx, logger); err != nil {
			logger.Error("failed to apply migrations", slog.String("error", sanitizeError(err, cfg.DatabaseURL)))
			repo.Close()
			return err
		}
		if version, err := repo.SchemaVersion(ctx); err == nil {
			logger.Info("schema up to date", "version", version)
		}
	}

	// Initialize cache
	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		repo.Close()
		return err
	}
	logger.Info("connected to Redis")

	sessions := cache.NewSessionStore(cacheClient, cfg.SessionTTL)

	// Initialize services
	recorder := metrics.NewInMemory()
	v := validation.New()
	userService := service.NewUserService(repo, sessions, v, recorder)
	authService := service.NewAuthService(repo, userService, sessions, recorder)
	dreamLogService := service.NewDreamLogService(repo, v, recorder)
	tagService := service.NewTagService(repo, v, recorder)

	// Initialize handlers
	handlers := router.Handlers{
		Root:    handler.New(),
		Health:  handler.NewHealthHandler(repo, cacheClient),
		Metrics: handler.NewMetricsHandler(recorder),
		Users:   handler.NewUserHandler(userService, logger),
		Auth: handler.NewAuthHandler(authService, handler.CookieConfig{
			SessionName: cfg.SessionCookieName,
			Secure:      cfg.CookieSecure,
			TTL:         cfg.SessionTTL,
		}, logger),
		DreamLog: handler.NewDreamLogHandler(dreamLogService, logger),
		Tags:     handler.NewTagHandler(tagService, logger),
	}

	// Setup router
	r := router.New(handlers, router.Config{
		Logger:             logger,
		Sessions:           sessions,
		SessionCookieName:  cfg.SessionCookieName,
		RateLimiter:        cacheClient,
		Metrics:            recorder,
		RateLimitEnabled:   cfg.RateLimitAuthEnabled,
		RateLimitRPS:       cfg.RateLimitAuthRPS,
		RateLimitBurst:     cfg.RateLimitAuthBurst,
		CORSAllowedOrigins: cfg.GetCORSAllowedOrigins(),
		MaxBodySize:        cfg.MaxRequestBodySize,
		IsDevelopment:      cfg.IsDevelopment(),
	})

	// Create and run server
	srv := server.New(r, server.Config{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	srv.OnShutdown("postgres", func(context.Context) error {
		repo.Close()
		return nil
	})
	srv.OnShutdown("redis", func(context.Context) error {
		return cacheClient.Close()
	})

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"session_ttl", cfg.SessionTTL,
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		return err
	}
	return nil
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
