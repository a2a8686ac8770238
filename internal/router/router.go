package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/examina/examina-backend/internal/config"
	"github.com/examina/examina-backend/internal/handler"
	"github.com/examina/examina-backend/internal/middleware"
	"github.com/examina/examina-backend/internal/response"
	"github.com/examina/examina-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Exam       *handler.ExamHandler
	Submission *handler.SubmissionHandler
	Analytics  *handler.AnalyticsHandler
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

	// Rate limiter for auth routes (per IP, per minute).
	authLimiter := middleware.NewRateLimiter(cfg.AuthRateLimit, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/student/register", handlers.Auth.RegisterStudent)
		auth.POST("/faculty/register", handlers.Auth.RegisterFaculty)
		auth.POST("/login", handlers.Auth.Login)

		// Authenticated profile route
		auth.GET("/me", middleware.RequireAuth(authService), handlers.Auth.GetProfile)
	}

	// ─── 2. Exams Group (JWT) ──────────────────────────────────────────
	exams := router.Group("/api/v1/exams")
	exams.Use(middleware.RequireAuth(authService))
	{
		exams.POST("", middleware.RequireFaculty(), handlers.Exam.Create)
		exams.GET("", handlers.Exam.List)
		exams.GET("/results", middleware.RequireFaculty(), handlers.Submission.GetResultsOverview)
		exams.GET("/:id", handlers.Exam.Get)
		exams.GET("/:id/paper", middleware.RequireStudent(), handlers.Exam.GetPaper)
		exams.POST("/:id/submit", middleware.RequireStudent(), handlers.Submission.Submit)
		exams.GET("/:id/submissions", middleware.RequireFaculty(), handlers.Submission.GetSubmissions)
		exams.GET("/:id/submissions/:submission_id", middleware.RequireFaculty(), handlers.Submission.GetSubmissionDetails)
		exams.GET("/:id/analytics", middleware.RequireFaculty(), handlers.Analytics.GetExamAnalytics)
	}

	return router
}
