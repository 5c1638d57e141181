package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/menkyoquiz/menkyo-backend/internal/config"
	"github.com/menkyoquiz/menkyo-backend/internal/handler"
	"github.com/menkyoquiz/menkyo-backend/internal/middleware"
	"github.com/menkyoquiz/menkyo-backend/internal/response"
	"github.com/menkyoquiz/menkyo-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth     *handler.AuthHandler
	Quiz     *handler.QuizHandler
	Progress *handler.ProgressHandler
	Sharing  *handler.SharingHandler
	Question *handler.QuestionHandler
	Media    *handler.MediaHandler
	Stats    *handler.StatsHandler
	WS       *handler.WSHandler
	System   *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Serve question images statically with aggressive caching (1 year).
	uploadsGroup := router.Group("/uploads")
	uploadsGroup.Use(middleware.CacheControl(31536000))
	{
		uploadsGroup.Static("/", cfg.UploadDir)
	}

	// Health check.
	router.GET("/health", handlers.System.Health)

	// ─── 0. Public Group (No Auth) ─────────────────────────────────────
	publicAPI := router.Group("/api/v1/public")
	{
		publicAPI.GET("/categories", handlers.Quiz.Categories)
	}

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)
		auth.POST("/admin/login", handlers.Auth.AdminLogin)

		// Authenticated profile routes
		auth.GET("/me", middleware.RequireUserJWT(authService), handlers.Auth.Me)
		auth.POST("/logout", middleware.RequireUserJWT(authService), handlers.Auth.Logout)
	}

	// ─── 2. User Group (JWT + Single Device) ───────────────────────────
	userAPI := router.Group("/api/v1")
	userAPI.Use(
		middleware.RequireUserJWT(authService),
		middleware.CheckSingleDeviceLogin(authService),
	)
	{
		userAPI.GET("/quiz/categories", handlers.Quiz.Categories)
		userAPI.GET("/quiz/sets", handlers.Quiz.Sets)

		userAPI.POST("/quiz/sessions", handlers.Quiz.StartSession)
		userAPI.GET("/quiz/sessions/active", handlers.Quiz.ActiveSession)
		userAPI.GET("/quiz/sessions/:session_id", handlers.Quiz.GetSession)
		userAPI.POST("/quiz/sessions/:session_id/answer", handlers.Quiz.SubmitAnswer)
		userAPI.POST("/quiz/sessions/:session_id/advance", handlers.Quiz.Advance)
		userAPI.DELETE("/quiz/sessions/:session_id", handlers.Quiz.AbortSession)

		userAPI.GET("/progress", handlers.Progress.Get)
		userAPI.GET("/progress/history", handlers.Progress.History)
		userAPI.DELETE("/progress", handlers.Progress.Clear)

		userAPI.GET("/sharing/status", handlers.Sharing.Status)
		userAPI.POST("/sharing/unlock", handlers.Sharing.Unlock)
	}

	// ─── 3. WebSocket Group (User WS Auth) ─────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireUserWSAuth(authService))
	{
		ws.GET("/quiz/:session_id/stream", handlers.WS.QuizStream)
	}

	// ─── 4. Admin Group (JWT, admin token type) ────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdminJWT(authService))
	{
		adminAPI.GET("/questions", handlers.Question.List)
		adminAPI.POST("/questions", handlers.Question.Create)
		adminAPI.POST("/questions/import", handlers.Question.Import)
		adminAPI.GET("/questions/:id", handlers.Question.Get)
		adminAPI.PUT("/questions/:id", handlers.Question.Update)
		adminAPI.DELETE("/questions/:id", handlers.Question.Delete)

		adminAPI.POST("/media/upload", handlers.Media.Upload)

		adminAPI.GET("/stats", handlers.Stats.Dashboard)
	}

	return router
}
