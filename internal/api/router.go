// Package api wires the HTTP routes and middleware for the icon catalog
// service.
package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonesrussell/north-cloud/icon-catalog/internal/handlers"
	"github.com/jonesrussell/north-cloud/icon-catalog/internal/logger"
)

// RouterOptions carries the dependencies the router needs.
type RouterOptions struct {
	Service     handlers.IconService
	Logger      logger.Logger
	CORSOrigins []string
	Debug       bool
}

// NewRouter builds the Gin engine with all routes and middleware.
func NewRouter(opts RouterOptions) *gin.Engine {
	if opts.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(corsMiddleware(opts.CORSOrigins))
	router.Use(requestID())
	router.Use(ginLogger(opts.Logger))
	router.Use(gin.Recovery())

	iconHandler := handlers.NewIconHandler(opts.Service, opts.Logger)
	healthHandler := handlers.NewHealthHandler(opts.Service, opts.Logger)

	router.GET("/health", healthHandler.Check)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiGroup := router.Group("/api")
	apiGroup.GET("/providers", iconHandler.Providers)
	apiGroup.GET("/tags", iconHandler.Tags)

	icons := apiGroup.Group("/icons")
	icons.GET("", iconHandler.List)
	icons.GET("/:provider/:id", iconHandler.Get)
	icons.GET("/:provider/:id/content", iconHandler.Content)

	return router
}
