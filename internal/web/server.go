// Package web serves the actions over a JSON HTTP API.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/dailyos/internal/actions"
	"github.com/julianstephens/dailyos/internal/logger"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	svc     *actions.Service
	tokens  Tokens
	metrics *Metrics
	engine  *gin.Engine
}

func NewServer(svc *actions.Service, tokens Tokens) *Server {
	s := &Server{
		svc:     svc,
		tokens:  tokens,
		metrics: NewMetrics(),
		engine:  gin.New(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() {
	r := s.engine
	r.Use(gin.Recovery(), RequestLogger(), s.metrics.Middleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	api := r.Group("/api", Auth(s.tokens))

	api.GET("/today", s.getToday)
	api.PUT("/today/work-unit", s.putTodayWorkUnit)
	api.GET("/status", s.getStatus)
	api.GET("/streaks", s.getStreaks)
	api.GET("/momentum", s.getMomentum)

	api.GET("/days/:day", s.getDay)
	api.PUT("/days/:day/intent", s.putIntent)
	api.PUT("/days/:day/horizons/:horizon", s.putHorizon)
	api.GET("/days/:day/checkpoint", s.getDayCheckpoint)
	api.POST("/days/:day/nails", s.postNail)

	api.PATCH("/nails/:id", s.patchNail)
	api.DELETE("/nails/:id", s.deleteNail)

	api.GET("/checkpoints", s.getCheckpoints)
	api.POST("/checkpoints", s.postCheckpoint)

	api.GET("/work-units", s.getWorkUnits)
	api.GET("/work-units/active", s.getActiveWorkUnits)
	api.POST("/work-units", s.postWorkUnit)
	api.GET("/work-units/:id", s.getWorkUnit)
	api.PATCH("/work-units/:id", s.patchWorkUnit)
	api.DELETE("/work-units/:id", s.deleteWorkUnit)
	api.PUT("/work-units/:id/status", s.putWorkUnitStatus)
	api.POST("/work-units/:id/complete", s.postCompleteWorkUnit)
	api.GET("/work-units/:id/latest-checkpoint", s.getLatestCheckpoint)
	api.POST("/work-units/:id/checklist", s.postChecklistItem)

	api.PATCH("/checklist-items/:id", s.patchChecklistItem)
	api.DELETE("/checklist-items/:id", s.deleteChecklistItem)
}

// Run serves on addr until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
