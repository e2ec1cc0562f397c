// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vincentFaye/dev-social-network/internal/cache"
	"github.com/vincentFaye/dev-social-network/internal/config"
	"github.com/vincentFaye/dev-social-network/internal/database"
	"github.com/vincentFaye/dev-social-network/internal/github"
	"github.com/vincentFaye/dev-social-network/internal/middleware"
	"github.com/vincentFaye/dev-social-network/internal/models"
	"github.com/vincentFaye/dev-social-network/internal/repository"
	"github.com/vincentFaye/dev-social-network/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const serviceName = "devsocial-api"

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	jwt            *middleware.JWTManager
	userRepo       repository.UserRepository
	postService    *service.PostService
	profileService *service.ProfileService
	githubClient   *github.Client
}

// NewServer connects to the database and Redis and builds a Server on them.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	return NewServerWithDeps(cfg, db, cache.InitRedis(cfg.RedisURL))
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil, which disables caching and Redis rate limits.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if db == nil {
		return nil, errors.New("database handle is required")
	}

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	profileRepo := repository.NewProfileRepository(db)

	s := &Server{
		config:   cfg,
		db:       db,
		redis:    redisClient,
		jwt:      middleware.NewJWTManager(cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour),
		userRepo: userRepo,
		postService: service.NewPostService(postRepo, userRepo, service.PostServiceOptions{
			CommentRemovalMode: cfg.CommentRemovalMode,
			MaxAttempts:        cfg.MutationMaxAttempts,
		}),
		profileService: service.NewProfileService(profileRepo, userRepo, cfg.MutationMaxAttempts),
		githubClient: github.NewClient(github.Config{
			BaseURL: cfg.GithubAPIURL,
			Token:   cfg.GithubToken,
			Timeout: time.Duration(cfg.GithubTimeoutSeconds) * time.Second,
		}, redisClient),
	}
	return s, nil
}

// App builds the Fiber application with middleware and routes installed.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "DevSocial API",
		ErrorHandler: s.errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// errorHandler serves errors that escape handlers, such as unknown routes or
// oversized bodies, with the same envelope as handler errors.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(models.ErrorResponse{Msg: fe.Message})
	}
	return s.respondServiceError(c, err)
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())
	app.Use(middleware.InitMetrics(app, serviceName))
	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected requests still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, x-auth-token",
		MaxAge:       86400,
	}))

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
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
				Msg: "Too many requests, please try again later",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	api := app.Group("/api")
	auth := middleware.AuthRequired(s.jwt)

	// Users and auth
	api.Post("/users", middleware.RateLimit(s.redis, s.config.Env, 5, 10*time.Minute, "register"), s.Register)
	api.Get("/auth", auth, s.GetAuthUser)
	api.Post("/auth", middleware.RateLimit(s.redis, s.config.Env, 10, 5*time.Minute, "login"), s.Login)

	// Posts. Specific /like, /unlike and /comment routes come before /:postId.
	posts := api.Group("/posts", auth)
	posts.Post("/", middleware.RateLimit(s.redis, s.config.Env, 10, time.Minute, "create_post"), s.CreatePost)
	posts.Get("/", s.GetPosts)
	posts.Put("/like/:postId", s.LikePost)
	posts.Put("/unlike/:postId", s.UnlikePost)
	posts.Post("/comment/:postId", middleware.RateLimit(s.redis, s.config.Env, 20, time.Minute, "create_comment"), s.CreateComment)
	posts.Delete("/comment/:postId/:commentId", s.DeleteComment)
	posts.Get("/:postId", s.GetPost)
	posts.Delete("/:postId", s.DeletePost)

	// Profiles
	profile := api.Group("/profile")
	profile.Get("/", s.GetProfiles)
	profile.Get("/me", auth, s.GetMyProfile)
	profile.Get("/user/:userId", s.GetProfileByUser)
	profile.Get("/github/:username", middleware.RateLimit(s.redis, s.config.Env, 30, time.Minute, "github"), s.GetGithubRepos)
	profile.Post("/", auth, s.UpsertProfile)
	profile.Delete("/", auth, s.DeleteAccount)
	profile.Put("/experience", auth, s.AddExperience)
	profile.Delete("/experience/:expId", auth, s.DeleteExperience)
	profile.Put("/education", auth, s.AddEducation)
	profile.Delete("/education/:eduId", auth, s.DeleteEducation)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports whether the database and Redis answer.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus != "healthy" || redisStatus != "healthy" {
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

// Start builds the app and listens on the configured port until Shutdown.
func (s *Server) Start() error {
	s.app = s.App()

	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port))
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown stops the listener, then closes the database pool and Redis client.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if err := database.Close(s.db); err != nil {
		middleware.Logger.Error("error closing database", slog.String("error", err.Error()))
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", err.Error()))
		}
	}

	middleware.Logger.Info("Server shutdown complete")
	return nil
}
