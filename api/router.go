package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pagelens/pagelens/api/handler"
	"github.com/pagelens/pagelens/api/middleware"
	"github.com/pagelens/pagelens/cache"
	"github.com/pagelens/pagelens/config"
	"github.com/pagelens/pagelens/scraper"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery (structured 500) → Logger → Headers (no-cache + CORS)
//	Scrape:  Auth (if enabled) → RateLimit
//
// The landing page and health endpoint stay outside auth so monitoring
// probes always work.
func NewRouter(sc *scraper.Scraper, cfg *config.Config, cc *cache.Cache, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.Headers())

	r.GET("/", handler.Home())
	r.GET("/healthz", handler.Health(startTime))

	protected := r.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	protected.POST("/scrape", handler.Scrape(sc, cc, cfg.Scrape.RequestTimeout))

	return r
}
