package api

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"correspondence-workers/internal/common/config"
	"correspondence-workers/internal/common/logger"
)

// Server runs the router on the configured address.
type Server struct {
	srv    *http.Server
	logger logger.Logger
}

func NewServer(cfg config.HTTPConfig, router *gin.Engine, log logger.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              cfg.Address,
			Handler:           router,
			ReadHeaderTimeout: config.GetDuration(cfg.ReadTimeout),
			ReadTimeout:       config.GetDuration(cfg.ReadTimeout),
		},
		logger: log,
	}
}

// Start serves in the background. A listener failure is logged.
func (s *Server) Start() {
	go func() {
		s.logger.Info("http server listening", map[string]interface{}{"address": s.srv.Addr})
		if err := s.srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server failed", map[string]interface{}{"error": err})
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
