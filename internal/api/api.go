// Package api exposes the operator endpoints: a health check and a manual
// pipeline trigger.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Triggerer interface {
	Trigger()
}

type APIServer struct {
	router  *gin.Engine
	trigger Triggerer
	logger  *zap.Logger
	srv     *http.Server
}

func NewAPIServer(trigger Triggerer, logger *zap.Logger) *APIServer {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &APIServer{
		router:  router,
		trigger: trigger,
		logger:  logger,
	}
	s.setupRoutes()
	return s
}

func (s *APIServer) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)
	s.router.POST("/trigger", s.handleTrigger)
}

func (s *APIServer) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *APIServer) handleTrigger(c *gin.Context) {
	s.trigger.Trigger()
	s.logger.Info("pipeline triggered over http", zap.String("remote", c.ClientIP()))
	c.JSON(http.StatusAccepted, gin.H{"message": "pipeline triggered"})
}

func (s *APIServer) Handler() http.Handler {
	return s.router
}

// Start serves on addr in the background.
func (s *APIServer) Start(addr string) {
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		s.logger.Info("api server starting", zap.String("addr", addr))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server failed", zap.Error(err))
		}
	}()
}

func (s *APIServer) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
