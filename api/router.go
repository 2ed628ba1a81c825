package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/use-agent/aeroharvest/api/handler"
	"github.com/use-agent/aeroharvest/api/middleware"
	"github.com/use-agent/aeroharvest/config"
	"github.com/use-agent/aeroharvest/store"
)

// Version reported by the health endpoint.
const Version = "0.1.0"

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health and metrics endpoints sit outside auth so monitoring probes
// always work. st may be nil when the server runs without persistence; the
// airports listing is only mounted when a store is attached.
func NewRouter(factory handler.HarvesterFactory, st *store.Store, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")

	// Health — no auth required.
	v1.GET("/health", handler.Health(startTime, Version))

	// Protected group — auth + rate limit.
	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	// Harvest jobs
	protected.POST("/harvest", handler.PostHarvest(factory, st))
	protected.GET("/harvest/:id", handler.GetHarvest())

	// Stored records
	if st != nil {
		protected.GET("/airports", handler.ListAirports(st))
	}

	return r
}
