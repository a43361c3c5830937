package http

import (
	"github.com/gin-gonic/gin"
	"github.com/pricelens/backend/config"
	"github.com/rs/zerolog"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger zerolog.Logger) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	if cfg.RateLimit.PerIP > 0 {
		v1.Use(RateLimitMiddleware(NewIPRateLimiter(cfg.RateLimit.PerIP)))
	}
	{
		v1.GET("/catalog", handler.GetCatalog)
		v1.POST("/match", handler.MatchNames)

		compare := v1.Group("/compare")
		{
			compare.POST("/catalog", handler.CompareCatalog)
			compare.POST("/free", handler.CompareFree)
			compare.POST("/storefronts", handler.CompareStorefronts)
		}
	}

	return router
}
