package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/examin-app/examin-backend/internal/config"
	"github.com/examin-app/examin-backend/internal/handler"
	"github.com/examin-app/examin-backend/internal/middleware"
	"github.com/examin-app/examin-backend/internal/response"
	"github.com/examin-app/examin-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Exam       *handler.ExamHandler
	Submission *handler.SubmissionHandler
	Monitor    *handler.MonitorHandler
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

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for credential endpoints (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group ─────────────────────────────────────────────────
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/register", authLimiter.Middleware(), handlers.Auth.Register)
		auth.POST("/login", authLimiter.Middleware(), handlers.Auth.Login)

		authed := auth.Group("")
		authed.Use(
			middleware.RequireJWT(authService),
			middleware.CheckSingleDeviceSession(authService),
		)
		{
			authed.GET("/me", handlers.Auth.Me)
			authed.POST("/logout", handlers.Auth.Logout)
		}

		adminOnly := auth.Group("")
		adminOnly.Use(middleware.RequireJWT(authService), middleware.RequireAdmin())
		{
			adminOnly.GET("/admins", handlers.Auth.ListAdmins)
			adminOnly.POST("/admins", handlers.Auth.AddAdmin)
			adminOnly.DELETE("/admins/:id", handlers.Auth.DeleteAdmin)
			adminOnly.PUT("/change-credentials", handlers.Auth.ChangeCredentials)
		}
	}

	// ─── 2. Exams Group (JWT, role-branching reads) ────────────────────
	exams := router.Group("/api/v1/exams")
	exams.Use(
		middleware.RequireJWT(authService),
		middleware.CheckSingleDeviceSession(authService),
	)
	{
		exams.GET("", handlers.Exam.List)
		exams.GET("/:id", handlers.Exam.Get)

		adminOnly := exams.Group("")
		adminOnly.Use(middleware.RequireAdmin())
		{
			adminOnly.POST("", handlers.Exam.Create)
			adminOnly.PUT("/:id", handlers.Exam.Update)
			adminOnly.DELETE("/:id", handlers.Exam.Delete)
			adminOnly.GET("/:id/submissions", handlers.Submission.ListByExam)
		}
	}

	// ─── 3. Submissions Group ──────────────────────────────────────────
	submissions := router.Group("/api/v1/submissions")
	submissions.Use(
		middleware.RequireJWT(authService),
		middleware.CheckSingleDeviceSession(authService),
	)
	{
		submissions.POST("", middleware.RequireStudent(), handlers.Submission.Submit)
		submissions.GET("/my", middleware.RequireStudent(), handlers.Submission.ListMine)
		submissions.GET("/:id", handlers.Submission.Get)
		submissions.DELETE("/:id", middleware.RequireAdmin(), handlers.Submission.Delete)
	}

	// ─── 4. WebSocket Group (token via query param) ────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireAdminWSAuth(authService))
	{
		ws.GET("/exams/:id/monitor", handlers.Monitor.MonitorExam)
	}

	return router
}
