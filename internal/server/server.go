// Package server contains the HTTP handlers and routing for the blog API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	_ "blogify/docs" // swagger docs
	"blogify/internal/auth"
	"blogify/internal/cache"
	"blogify/internal/config"
	"blogify/internal/database"
	"blogify/internal/mailer"
	"blogify/internal/middleware"
	"blogify/internal/models"
	"blogify/internal/repository"
	"blogify/internal/service"
	"blogify/internal/storage"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the outbound integrations a Server talks to. Zero values fall
// back to the log mailer and no image storage.
type Deps struct {
	Mailer mailer.Mailer
	Store  storage.Store
}

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	appOnce        sync.Once
	promMiddleware *fiberprometheus.FiberPrometheus
	tokens         *auth.TokenService
	mail           *mailer.Dispatcher
	store          storage.Store

	authService     *service.AuthService
	userService     *service.UserService
	postService     *service.PostService
	commentService  *service.CommentService
	categoryService *service.CategoryService
	uploadService   *service.UploadService
}

// NewServer connects to the database and Redis and builds the configured
// mailer and image store.
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	redisClient := cache.InitRedis(cfg.RedisURL)

	store, err := storage.New(ctx, cfg)
	if err != nil {
		database.Close(db)
		cache.Close(redisClient)
		return nil, fmt.Errorf("image storage setup failed: %w", err)
	}

	var m mailer.Mailer = mailer.LogMailer{}
	if cfg.ResendAPIKey != "" {
		m = mailer.NewResendMailer(cfg.ResendAPIKey, cfg.MailFrom, cfg.ResendBaseURL)
	}

	return NewServerWithDeps(cfg, db, redisClient, Deps{Mailer: m, Store: store})
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Tests use it with an in-memory database and stub integrations.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, deps Deps) (*Server, error) {
	if db == nil {
		return nil, errors.New("database is required")
	}
	if deps.Mailer == nil {
		deps.Mailer = mailer.LogMailer{}
	}

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	c := cache.New(redisClient)

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("blogify-api"),
		store:          deps.Store,
		mail:           mailer.NewDispatcher(deps.Mailer, mailer.DefaultSendTimeout),
		tokens: auth.NewTokenService(auth.Options{
			Secret:       cfg.JWTSecret,
			Issuer:       cfg.JWTIssuer,
			Audience:     cfg.JWTAudience,
			SecureCookie: cfg.IsProduction(),
			Logger:       middleware.Logger,
		}, redisClient),
	}

	s.authService = service.NewAuthService(userRepo, s.mail, c, cfg.ClientURL)
	s.userService = service.NewUserService(userRepo, c)
	s.postService = service.NewPostService(postRepo, categoryRepo, c)
	s.commentService = service.NewCommentService(commentRepo, postRepo, c)
	s.categoryService = service.NewCategoryService(categoryRepo, c)
	s.uploadService = service.NewUploadService(deps.Store, cfg.UploadMaxBytes())

	return s, nil
}

// App returns the Fiber application, building it with middleware and routes
// on first use.
func (s *Server) App() *fiber.App {
	s.appOnce.Do(func() { s.app = s.newApp() })
	return s.app
}

func (s *Server) newApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "Blogify API",
		// Leave headroom for multipart framing so oversized images reach the
		// upload handler and get a proper 413 envelope.
		BodyLimit:    int(2*s.config.UploadMaxBytes()) + 1<<20,
		ErrorHandler: errorHandler,
	})

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return models.RespondWithError(c, fe.Code, err)
	}
	if models.StatusFor(err) >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "unhandled error",
			slog.String("path", c.Path()),
			slog.String("error", err.Error()))
	}
	return models.RespondWithAppError(c, err)
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())

	// Propagates request and trace IDs into the user context for logging.
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS runs before anything that can short-circuit so error responses
	// still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions || s.config.Env == "test"
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
				Success: false,
				Message: "Too many requests, please try again later.",
				Code:    "RATE_LIMITED",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	if s.config.StorageDriver == "" || s.config.StorageDriver == "disk" {
		app.Static(staticPrefix(s.config.UploadPublicURL), s.config.UploadDir)
	}

	api := app.Group("/api")
	api.Get("/swagger/*", swagger.HandlerDefault)

	authRequired := middleware.AuthRequired(s.tokens)

	authRoutes := api.Group("/auth")
	authRoutes.Post("/signup", middleware.RateLimit(s.redis, 5, 10*time.Minute, "signup"), s.Signup)
	authRoutes.Post("/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)
	authRoutes.Post("/logout", s.Logout)
	authRoutes.Get("/check-auth", authRequired, s.CheckAuth)
	// A code alone identifies its account, so guesses are capped per caller
	// and across all callers.
	authRoutes.Post("/verify-email",
		middleware.RateLimitWithPolicy(s.redis, 10, 10*time.Minute, middleware.FailClosed, "verify_email"),
		middleware.GlobalRateLimit(s.redis, 300, 10*time.Minute, "verify_email_all"), s.VerifyEmail)
	authRoutes.Post("/resend-verification", authRequired,
		middleware.RateLimit(s.redis, 3, 10*time.Minute, "resend_verification"), s.ResendVerification)
	authRoutes.Post("/forgot-password", middleware.RateLimit(s.redis, 3, 15*time.Minute, "forgot_password"), s.ForgotPassword)
	authRoutes.Post("/reset-password/:token", middleware.RateLimit(s.redis, 10, 15*time.Minute, "reset_password"), s.ResetPassword)
	authRoutes.Get("/profile/:user_id", authRequired, s.GetProfile)
	authRoutes.Get("/:user_id", authRequired, s.GetUser)

	categories := api.Group("/categories")
	categories.Get("/", s.GetCategories)
	categories.Post("/", authRequired, s.CreateCategory)
	categories.Get("/:id/posts", s.GetCategoryPosts)
	categories.Get("/:id", s.GetCategory)
	categories.Put("/:id", authRequired, s.UpdateCategory)
	categories.Delete("/:id", authRequired, s.DeleteCategory)

	// Specific routes are registered before the generic /:slug ones.
	posts := api.Group("/posts")
	posts.Get("/search", middleware.RateLimit(s.redis, 30, time.Minute, "search"), s.SearchPosts)
	posts.Get("/", authRequired, s.GetPosts)
	posts.Post("/", authRequired, middleware.RateLimit(s.redis, 10, 5*time.Minute, "create_post"), s.CreatePost)
	posts.Get("/likes/:user_id", authRequired, s.GetLikedPosts)
	posts.Post("/like-and-unlike-post", authRequired, s.ToggleLike)
	posts.Get("/:slug", authRequired, s.GetPost)
	posts.Put("/:slug", authRequired, s.UpdatePost)
	posts.Delete("/:slug", authRequired, s.DeletePost)

	comments := api.Group("/comments")
	comments.Get("/:post_id", s.GetComments)
	comments.Post("/", authRequired, middleware.RateLimit(s.redis, 10, time.Minute, "create_comment"), s.CreateComment)

	api.Post("/upload", middleware.OptionalAuth(s.tokens),
		middleware.RateLimitWithPolicy(s.redis, 20, 10*time.Minute, middleware.FailClosed, "upload"), s.UploadImage)
}

// staticPrefix is the path component under which disk uploads are served.
func staticPrefix(publicURL string) string {
	if u, err := url.Parse(publicURL); err == nil && u.Path != "" && u.Path != "/" {
		return u.Path
	}
	return "/static"
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports database and Redis reachability.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if sqlDB, err := s.db.DB(); err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overall := "up"
	if dbStatus != "healthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overall = "down"
	}

	return c.Status(status).JSON(fiber.Map{
		"status":   overall,
		"database": dbStatus,
		"redis":    redisStatus,
		"time":     time.Now(),
	})
}

// Start serves on the configured port until Shutdown is called.
func (s *Server) Start() error {
	app := s.App()
	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port))
	return app.Listen(":" + s.config.Port)
}

// Shutdown stops accepting requests, flushes pending mail and closes the
// database and Redis connections.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.App().ShutdownWithContext(ctx); err != nil {
		middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
	}

	done := make(chan struct{})
	go func() {
		s.mail.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		middleware.Logger.Warn("shutdown deadline reached with mail still in flight")
	}

	database.Close(s.db)
	cache.Close(s.redis)

	middleware.Logger.Info("Server shutdown complete")
	return nil
}
