// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"time"

	"dwellr/internal/config"
	"dwellr/internal/describe"
	"dwellr/internal/middleware"
	"dwellr/internal/presign"
	"dwellr/internal/repository"
	"dwellr/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	promMiddleware *fiberprometheus.FiberPrometheus
	postRepo       repository.PostRepository
	postService    *service.PostService
	engine         describe.Engine
	issuer         presign.Issuer
}

// NewServer creates a Server from already-initialized dependencies. The
// bootstrap package builds them for production; tests pass fakes directly.
func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, engine describe.Engine, issuer presign.Issuer) *Server {
	middleware.InitMiddleware(cfg)
	postRepo := repository.NewPostRepository(db)

	return &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("dwellr-api"),
		postRepo:       postRepo,
		postService:    service.NewPostService(postRepo),
		engine:         engine,
		issuer:         issuer,
	}
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context middleware to propagate request ID and username
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// OpenTelemetry tracing
	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS before middlewares that can short-circuit (e.g. limiter) so
	// browser clients still receive CORS headers on error responses.
	if origins := s.config.AllowedOrigins; origins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins: origins,
			AllowHeaders: "Origin, Content-Type, Accept, Authorization",
			MaxAge:       86400,
		}))
	}

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application. Every /api route
// requires a valid bearer token; auth failure short-circuits with 401 before
// any component work.
func (s *Server) SetupRoutes(app *fiber.App) {
	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api", middleware.AuthRequired)

	api.Get("/presignedUrl", s.GetPresignedURL)
	api.Get("/getPosts", s.GetPosts)
	api.Post("/createPost", middleware.RateLimit(
		s.redis, 10, time.Minute, "create_post"), s.CreatePost)
	// Generation is billable upstream; keep the per-user budget tight.
	api.Post("/describe", middleware.RateLimit(
		s.redis, 6, time.Minute, "describe"), s.Describe)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	// Redis is an optimization, not a dependency: report but don't fail.
	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}
