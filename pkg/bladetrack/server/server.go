// Package server assembles the HTTP router: public auth routes, the tenant
// API behind authentication and the tenancy guard, system admin routes,
// metrics, API docs and the optional web frontend.
package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"
	"github.com/mikepea/bladetrack/pkg/bladetrack/admin"
	"github.com/mikepea/bladetrack/pkg/bladetrack/apikeys"
	"github.com/mikepea/bladetrack/pkg/bladetrack/auth"
	"github.com/mikepea/bladetrack/pkg/bladetrack/blades"
	"github.com/mikepea/bladetrack/pkg/bladetrack/database"
	"github.com/mikepea/bladetrack/pkg/bladetrack/exports"
	"github.com/mikepea/bladetrack/pkg/bladetrack/installs"
	"github.com/mikepea/bladetrack/pkg/bladetrack/logging"
	"github.com/mikepea/bladetrack/pkg/bladetrack/metrics"
	"github.com/mikepea/bladetrack/pkg/bladetrack/oidc"
	"github.com/mikepea/bladetrack/pkg/bladetrack/organizations"
	"github.com/mikepea/bladetrack/pkg/bladetrack/ratelimit"
	"github.com/mikepea/bladetrack/pkg/bladetrack/runlogs"
	"github.com/mikepea/bladetrack/pkg/bladetrack/saws"
	"github.com/mikepea/bladetrack/pkg/bladetrack/servicing"
	"github.com/mikepea/bladetrack/pkg/bladetrack/stats"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "github.com/mikepea/bladetrack/api/swagger"
)

// Config holds everything the router needs
type Config struct {
	DB          *gorm.DB
	Tokens      *auth.Tokens
	Logger      zerolog.Logger
	Metrics     *metrics.Metrics
	Clock       func() time.Time   // Defaults to time.Now
	WebDist     string             // Frontend build directory, served when present
	OIDC        *oidc.Handler      // Identity provider sign-in, disabled when nil
	AuthLimiter *ratelimit.Limiter // Throttles sign-in per client address, disabled when nil
}

// New builds the router
func New(cfg Config) *gin.Engine {
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.New()
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	r := gin.New()
	r.Use(logging.RequestLogger(cfg.Logger), cfg.Metrics.Middleware(), recovery())

	health := func(c *gin.Context) {
		if err := database.Ping(cfg.DB); err != nil {
			zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "bladetrack"})
	}
	r.GET("/health", health)
	r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		api.GET("/health", health)

		// Auth routes (public)
		var authMiddleware []gin.HandlerFunc
		if cfg.AuthLimiter != nil {
			authMiddleware = append(authMiddleware, cfg.AuthLimiter.Middleware())
		}
		authGroup := api.Group("/auth", authMiddleware...)
		auth.NewHandler(cfg.DB, cfg.Tokens).RegisterRoutes(authGroup)
		if cfg.OIDC != nil {
			cfg.OIDC.RegisterRoutes(authGroup.Group("/oidc"))
		}

		// Accepts a session token or an API key
		combinedAuth := apikeys.CombinedAuthMiddleware(cfg.DB, cfg.Tokens)

		// Organizations span tenants, so they only need an identified user
		orgHandler := organizations.NewHandler(cfg.DB)
		orgGroup := api.Group("/organizations", combinedAuth)
		orgHandler.RegisterRoutes(orgGroup)
		orgHandler.RegisterMemberRoutes(orgGroup)

		// Admin routes (system admin role required)
		adminGroup := api.Group("/admin", combinedAuth, auth.RequireAdmin())
		admin.NewHandler(cfg.DB).RegisterRoutes(adminGroup)

		// Everything below is scoped to the caller's organization
		tenant := api.Group("", combinedAuth, auth.TenancyGuard(cfg.DB))

		manager := installs.NewManager(cfg.DB,
			installs.WithClock(cfg.Clock),
			installs.WithRecorder(cfg.Metrics))
		installs.NewHandler(manager).RegisterRoutes(tenant)

		saws.NewHandler(cfg.DB).RegisterRoutes(tenant.Group("/saws"))

		bladeHandler := blades.NewHandler(cfg.DB)
		bladeHandler.RegisterRoutes(tenant.Group("/blades"))
		bladeHandler.RegisterTypeRoutes(tenant.Group("/blade-types"))

		runlogs.NewHandler(cfg.DB).RegisterRoutes(tenant)
		servicing.NewHandler(cfg.DB).RegisterRoutes(tenant)
		stats.NewHandler(cfg.DB).RegisterRoutes(tenant.Group("/stats"))
		exports.NewHandler(cfg.DB).RegisterRoutes(tenant)
		apikeys.NewHandler(cfg.DB).RegisterRoutes(tenant)
	}

	serveFrontend(r, cfg.WebDist, cfg.Logger)

	return r
}

// WithCORS lets browsers on origins call the API with bearer credentials. No
// origins leaves h unchanged, which suits the frontend served from this server.
func WithCORS(origins []string, h http.Handler) http.Handler {
	if len(origins) == 0 {
		return h
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Authorization", "Content-Type", auth.HeaderOrganizationID, logging.RequestIDHeader},
		ExposedHeaders: []string{logging.RequestIDHeader, "Content-Disposition"},
		MaxAge:         600,
	}).Handler(h)
}

// WithCompression gzips responses for clients that accept it, which matters
// mostly for history exports and the API docs.
func WithCompression(h http.Handler) http.Handler {
	return gzhttp.GzipHandler(h)
}

// recovery turns panics into the standard internal error body
func recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, err any) {
		zerolog.Ctx(c.Request.Context()).Error().Interface("panic", err).Msg("recovered from panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
			"kind":  "internal",
		})
	})
}

// serveFrontend serves a built single-page app from dir. Unknown non-API
// paths fall back to index.html so client-side routes survive a reload.
func serveFrontend(r *gin.Engine, dir string, logger zerolog.Logger) {
	if dir == "" {
		return
	}
	indexHTML := filepath.Join(dir, "index.html")
	if _, err := os.Stat(indexHTML); err != nil {
		logger.Info().Str("web_dist", dir).Msg("no frontend build found, API only mode")
		return
	}

	r.Static("/assets", filepath.Join(dir, "assets"))
	r.StaticFile("/favicon.ico", filepath.Join(dir, "favicon.ico"))
	r.NoRoute(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet || strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found", "kind": "not_found"})
			return
		}
		c.File(indexHTML)
	})

	logger.Info().Str("web_dist", dir).Msg("serving frontend")
}
