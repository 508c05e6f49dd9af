package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/handyman-backend/internal/config"
	"github.com/ignatzorin/handyman-backend/internal/http/handlers"
	"github.com/ignatzorin/handyman-backend/internal/http/middleware"
	"github.com/ignatzorin/handyman-backend/internal/models"
	"github.com/ignatzorin/handyman-backend/internal/service"
)

func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	catalogHandler *handlers.CatalogHandler,
	bookingHandler *handlers.BookingHandler,
	reviewHandler *handlers.ReviewHandler,
	earningHandler *handlers.EarningHandler,
	adminHandler *handlers.AdminHandler,
	healthHandler *handlers.HealthHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authRateLimit := middleware.RateLimitMiddleware(5, cfg.RateLimitPeriod)
	authGroup.Use(authRateLimit)
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/logout", authHandler.Logout)
	}

	protectedAuth := api.Group("/auth")
	protectedAuth.Use(middleware.AuthMiddleware(tokenManager))
	{
		protectedAuth.GET("/me", authHandler.Me)
		protectedAuth.GET("/sessions", authHandler.ListSessions)
		protectedAuth.DELETE("/sessions/:id", authHandler.DeleteSession)
	}

	// Публичная витрина
	api.GET("/skills", catalogHandler.ListSkills)
	api.GET("/handymen", catalogHandler.SearchHandymen)
	api.GET("/handymen/:id", middleware.UUIDValidator("id"), catalogHandler.GetHandyman)
	api.GET("/handymen/:id/reviews", middleware.UUIDValidator("id"), reviewHandler.ListByHandyman)

	// Защищённые маршруты
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.POST("/bookings", bookingHandler.Create)
		protected.GET("/bookings", bookingHandler.ListMy)
		protected.GET("/bookings/:id", middleware.UUIDValidator("id"), bookingHandler.Get)
		protected.PATCH("/bookings/:id/status", middleware.UUIDValidator("id"), bookingHandler.UpdateStatus)

		protected.POST("/bookings/:id/review", middleware.UUIDValidator("id"), reviewHandler.Create)
		protected.GET("/bookings/:id/review", middleware.UUIDValidator("id"), reviewHandler.GetByBooking)

		protected.GET("/earnings/my",
			middleware.RequireRole(models.RoleHandyman),
			earningHandler.ListMy)
	}

	// Админка
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(tokenManager), middleware.RequireRole(models.RoleAdmin))
	{
		admin.GET("/users", adminHandler.ListUsers)
		admin.GET("/skills", adminHandler.ListSkills)
		admin.PATCH("/skills/:id/rate", middleware.UUIDValidator("id"), adminHandler.UpdateSkillRate)
		admin.PUT("/handymen/:id/certification", middleware.UUIDValidator("id"), adminHandler.SetCertification)
		admin.PUT("/handymen/:id/verify", middleware.UUIDValidator("id"), adminHandler.SetVerified)
		admin.GET("/reports", adminHandler.GetReport)
	}

	return r
}
