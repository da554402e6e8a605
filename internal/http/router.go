// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, idempotency, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	_ "github.com/https-aaryannn/anonbox/docs"
	"github.com/https-aaryannn/anonbox/internal/config"
	"github.com/https-aaryannn/anonbox/internal/domain"
	"github.com/https-aaryannn/anonbox/internal/http/handlers"
	"github.com/https-aaryannn/anonbox/internal/http/middleware"
	"github.com/https-aaryannn/anonbox/internal/repo"
	"github.com/https-aaryannn/anonbox/internal/review"
	"github.com/https-aaryannn/anonbox/internal/services"
)

// confessionRepoShim adapts the repository free functions to the
// services.ConfessionRepo interface expected by the ConfessionService. This
// keeps services decoupled from the concrete repo package while reusing
// existing functions.
type confessionRepoShim struct{}

// CreateConfession proxies repo.CreateConfession.
func (confessionRepoShim) CreateConfession(ctx context.Context, db *gorm.DB, content string) (*domain.Confession, error) {
	return repo.CreateConfession(ctx, db, content)
}

// ListConfessions proxies repo.ListConfessions.
func (confessionRepoShim) ListConfessions(ctx context.Context, db *gorm.DB, limit int) ([]domain.Confession, error) {
	return repo.ListConfessions(ctx, db, limit)
}

// SetConfessionRead proxies repo.SetConfessionRead.
func (confessionRepoShim) SetConfessionRead(ctx context.Context, db *gorm.DB, id string, value bool) error {
	return repo.SetConfessionRead(ctx, db, id, value)
}

// SetConfessionArchived proxies repo.SetConfessionArchived.
func (confessionRepoShim) SetConfessionArchived(ctx context.Context, db *gorm.DB, id string, value bool) error {
	return repo.SetConfessionArchived(ctx, db, id, value)
}

// DeleteConfession proxies repo.DeleteConfession.
func (confessionRepoShim) DeleteConfession(ctx context.Context, db *gorm.DB, id string) error {
	return repo.DeleteConfession(ctx, db, id)
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine and wires the application services. It returns the review controller
// (so the caller can warm its snapshot) and the auth service (so the caller
// can bootstrap the admin account).
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Idempotency validator (before rate limiter to allow bypass on replay)
//  8. Rate limiter (per admin/IP, bypass on replay)
//  9. CORS, security headers, gzip
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) (*review.Controller, *services.AuthService) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction. Bodies are never logged; the
	// submission endpoint exists because its payloads are confidential.
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{
			middleware.HeaderIdempotencyKey,
		},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Idempotency validation (before rate limiting)
	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{
			MaxLen: 200,
		},
		func(ctx context.Context, key string, now time.Time) (bool, error) {
			rec, err := repo.GetIdempotency(ctx, db, key, now)
			if err != nil || rec == nil {
				return false, nil
			}
			return true, nil
		},
	))

	// 8) Token-bucket rate limiter per admin/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByAdminOrIP())
	r.Use(rl.Handler())

	// 9) CORS posture (safe defaults: allow all if none configured)
	corsHeaders := []string{
		"Origin", "Content-Type", "Accept", "Authorization",
		middleware.HeaderIdempotencyKey, handlers.HeaderConfirmDelete,
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     corsHeaders,
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length", "ETag", "Content-Disposition"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     corsHeaders,
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length", "ETag", "Content-Disposition"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Compress responses; CSV exports in particular shrink well.
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Swagger UI (optional)
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← repo/db
	confSvc := services.NewConfessionService(db, confessionRepoShim{})
	authSvc := services.NewAuthService(db)
	authSvc.SessionTTL = cfg.SessionTTL
	ctrl := review.NewController(confSvc)

	h := handlers.New(confSvc, ctrl, authSvc, db, cfg.IdempotencyTTL)

	// Public submission endpoint; the path is part of the client contract
	// and stays outside the versioned admin base.
	r.POST("/api/confess", h.SubmitConfession)

	// Versioned admin/auth API
	api := groupWithPrefix(r, cfg.APIBasePath)
	api.POST("/auth/login", h.Login)

	authed := api.Group("", middleware.RequireSession(authSvc.Validate))
	{
		authed.POST("/auth/logout", h.Logout)

		authed.GET("/confessions", h.ListConfessions)
		authed.POST("/confessions/refresh", h.RefreshConfessions)
		authed.GET("/confessions/export", h.ExportConfessions)
		authed.PATCH("/confessions/:id/read", h.ToggleRead)
		authed.PATCH("/confessions/:id/archive", h.ToggleArchive)
		authed.DELETE("/confessions/:id", h.DeleteConfession)
	}

	return ctrl, authSvc
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
