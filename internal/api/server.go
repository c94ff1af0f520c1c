// Package api exposes the engine over HTTP with gin: collection and point
// CRUD, search, and health/readiness/metrics endpoints.
package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vecdb-go/internal/engine"
)

// Server wraps an engine with its HTTP transport.
type Server struct {
	engine         *engine.Engine
	requestTimeout time.Duration
}

// New returns a Server ready to build a router over e.
func New(e *engine.Engine, requestTimeout time.Duration) *Server {
	return &Server{engine: e, requestTimeout: requestTimeout}
}

// Router builds the gin engine with middleware and every route wired in.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID())
	if s.requestTimeout > 0 {
		router.Use(RequestTimeout(s.requestTimeout))
	}

	router.GET("/healthz", s.handleHealthz)
	router.GET("/readyz", s.handleReadyz)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	collections := router.Group("/collections")
	collections.POST("", s.handleCreateCollection)
	collections.GET("", s.handleListCollections)
	collections.GET("/:name", s.handleGetCollection)
	collections.DELETE("/:name", s.handleDeleteCollection)
	collections.POST("/:name/points", s.handleUpsertPoint)
	collections.GET("/:name/points", s.handleListPoints)
	collections.GET("/:name/points/:id", s.handleGetPoint)
	collections.DELETE("/:name/points/:id", s.handleDeletePoint)
	collections.POST("/:name/search", s.handleSearch)

	return router
}
