package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"neptune/internal/config"
	"neptune/internal/service"
)

// BuildInfo is reported by /health and /version
type BuildInfo struct {
	Version   string
	BuildTime string
	GitCommit string
}

// NewRouter wires middleware and routes onto a new gin engine
func NewRouter(cfg *config.Config, searchService *service.SearchService, build BuildInfo, log *logrus.Logger) *gin.Engine {
	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(log))
	router.Use(RecoveryMiddleware(log))

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.Server.AllowedOrigins
	if len(corsConfig.AllowOrigins) == 0 || corsConfig.AllowOrigins[0] == "*" {
		corsConfig.AllowOrigins = nil
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization", requestIDHeader}
	corsConfig.ExposeHeaders = []string{requestIDHeader}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":     "healthy",
			"service":    "neptune-search",
			"version":    build.Version,
			"build_time": build.BuildTime,
			"git_commit": build.GitCommit,
		})
	})

	// Version endpoint
	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    build.Version,
			"build_time": build.BuildTime,
			"git_commit": build.GitCommit,
		})
	})

	searchHandler := NewSearchHandler(searchService, log)
	limit := RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst, log)

	// Unversioned path kept for the web client
	router.POST("/api/search", limit, searchHandler.Search)

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/search", limit, searchHandler.Search)
		apiV1.GET("/intent", searchHandler.Intent)
		apiV1.GET("/providers/:id", searchHandler.GetProvider)
		apiV1.GET("/categories", searchHandler.Categories)
	}

	return router
}
