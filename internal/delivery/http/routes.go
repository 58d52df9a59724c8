package http

import (
	"github.com/gin-gonic/gin"
	"github.com/ucuzbot/backend/config"
	"github.com/ucuzbot/backend/internal/metrics"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	limiter := NewIPRateLimiter(cfg.RateLimit.PerIP)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/stores", handler.ListStores)
		v1.GET("/categories", handler.ListCategories)
		v1.GET("/search", RateLimitMiddleware(limiter), handler.Search)

		watches := v1.Group("/watches")
		{
			watches.POST("/check", RateLimitMiddleware(limiter), handler.CheckWatch)
		}
	}

	return router
}
