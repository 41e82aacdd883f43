package v1

import (
	"github.com/gin-gonic/gin"

	"linkarchive/internal/infrastructure/http/v1/handlers"
	"linkarchive/internal/infrastructure/http/v1/middleware"
	"linkarchive/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Database backs the readiness and info probes
	Database handlers.Database

	// Logger for request logging
	Logger *logger.Logger

	// Entries serves /api/v1/entries
	Entries *handlers.EntryHandler
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Trace())
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger(log))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.Database)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	v1 := router.Group("/api/v1")
	{
		if cfg.Entries != nil {
			RegisterSearchRoutes(v1.Group("/entries"), cfg.Entries)
		}
	}

	return router
}
