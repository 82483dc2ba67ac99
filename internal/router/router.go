// Package router assembles the HTTP routing tree and middleware chain.
package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dreamjournal/dreamjournal/internal/handler"
	"github.com/dreamjournal/dreamjournal/internal/metrics"
	"github.com/dreamjournal/dreamjournal/internal/middleware"
)

// Handlers groups the endpoint handlers mounted by New.
type Handlers struct {
	Root     *handler.Handler
	Health   *handler.HealthHandler
	Metrics  *handler.MetricsHandler
	Users    *handler.UserHandler
	Auth     *handler.AuthHandler
	DreamLog *handler.DreamLogHandler
	Tags     *handler.TagHandler
}

// Config carries the request-pipeline settings.
type Config struct {
	Logger             *slog.Logger
	Sessions           middleware.SessionGetter
	SessionCookieName  string
	RateLimiter        middleware.IPRateLimiter
	Metrics            metrics.Recorder
	RateLimitEnabled   bool
	RateLimitRPS       int
	RateLimitBurst     int
	CORSAllowedOrigins []string
	MaxBodySize        int64
	IsDevelopment      bool
}

// New configures the chi router with all routes and middleware.
func New(h Handlers, cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recoverer(cfg.Logger))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment}))
	if cfg.MaxBodySize > 0 {
		r.Use(middleware.MaxBodySize(cfg.MaxBodySize))
	}
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSAllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID", "Retry-After"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	r.Use(middleware.LoadSession(middleware.SessionConfig{
		Logger:     cfg.Logger,
		Store:      cfg.Sessions,
		CookieName: cfg.SessionCookieName,
	}))

	// Probes and service info
	r.Get("/", h.Root.Hello)
	r.Get("/healthz", h.Health.Healthz)
	r.Get("/readyz", h.Health.Readyz)
	if h.Metrics != nil {
		r.Get("/metrics", h.Metrics.Metrics)
	}

	rateLimitCfg := middleware.RateLimitConfig{
		Logger:  cfg.Logger,
		Limiter: cfg.RateLimiter,
		Metrics: cfg.Metrics,
		Enabled: cfg.RateLimitEnabled,
		Scope:   "auth",
		RPS:     cfg.RateLimitRPS,
		Burst:   cfg.RateLimitBurst,
	}

	// Credential endpoints share one per-IP bucket
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimitIP(rateLimitCfg))
		r.Post("/signup", h.Auth.Signup)
		r.Post("/login", h.Auth.Login)
	})
	r.Delete("/logout", h.Auth.Logout)

	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.Users.List)
		r.Post("/", h.Users.Create)
		r.Get("/{id:[0-9]+}", h.Users.Get)
		r.Delete("/{id:[0-9]+}", h.Users.Delete)
	})

	r.Route("/dream-logs", func(r chi.Router) {
		r.Get("/", h.DreamLog.List)
		r.With(middleware.RequireSession(handler.MsgLoginToPost)).Post("/", h.DreamLog.Create)
		r.Get("/{id:[0-9]+}", h.DreamLog.Get)
		r.Patch("/{id:[0-9]+}", h.DreamLog.Patch)
		r.Delete("/{id:[0-9]+}", h.DreamLog.Delete)
	})

	r.Route("/tags", func(r chi.Router) {
		r.Get("/", h.Tags.ListTags)
		r.Post("/", h.Tags.CreateTag)
	})

	r.Route("/dream-tags", func(r chi.Router) {
		r.Get("/", h.Tags.ListDreamTags)
		r.Post("/", h.Tags.CreateDreamTag)
		r.Get("/{id:[0-9]+}", h.Tags.GetDreamTag)
		r.Delete("/{id:[0-9]+}", h.Tags.DeleteDreamTag)
	})

	// 404 and 405 handlers
	r.NotFound(h.Root.NotFound)
	r.MethodNotAllowed(h.Root.MethodNotAllowed)

	return r
}
