// Package api serves health probes, metrics and the letter preview used by
// the back-office editor.
package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"correspondence-workers/internal/common/database"
	"correspondence-workers/internal/common/logger"
	"correspondence-workers/internal/templates"
	rc "correspondence-workers/internal/workers/correspondence/render-correspondence"
)

type RouterConfig struct {
	Renderer       *rc.Service
	Templates      templates.Source
	Checks         []database.Pinger
	AllowedOrigins []string
	ServiceName    string
	Version        string
	Logger         logger.Logger
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Logger.Named("http")
	h := &Handlers{
		renderer:  cfg.Renderer,
		templates: cfg.Templates,
		checks:    cfg.Checks,
		version:   cfg.Version,
		logger:    log,
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(requestLogger(log))
	if len(cfg.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/v1")
	{
		v1.POST("/preview", h.Preview)
		v1.GET("/templates", h.ListTemplates)
		v1.GET("/templates/:id", h.GetTemplate)
	}

	return router
}

func requestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := map[string]interface{}{
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		}
		if c.Writer.Status() >= 500 {
			log.Error("request failed", fields)
			return
		}
		log.Debug("request", fields)
	}
}
