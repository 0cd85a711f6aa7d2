// Package server exposes the tracker, goals, mentor and speech services
// as a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/abhisek/kidtimer/internal/config"
	"github.com/abhisek/kidtimer/internal/logger"
	"github.com/abhisek/kidtimer/internal/mentor"
	"github.com/abhisek/kidtimer/internal/speech"
	"github.com/abhisek/kidtimer/internal/tracker"
)

// Deps are the services the API is built on. Mentor and Speech may be nil;
// the mentor then always answers with fallback text and speech with 204.
type Deps struct {
	Tracker *tracker.Service
	Mentor  *mentor.Service
	Speech  speech.Synthesizer
}

// Server is the HTTP API.
type Server struct {
	cfg     config.Config
	tracker *tracker.Service
	mentor  *mentor.Service
	speech  speech.Synthesizer
	handler http.Handler
}

// New creates a server for cfg.
func New(cfg config.Config, deps Deps) *Server {
	s := &Server{
		cfg:     cfg,
		tracker: deps.Tracker,
		mentor:  deps.Mentor,
		speech:  deps.Speech,
	}
	s.handler = s.routes()
	return s
}

// Handler returns the root handler with middleware applied.
func (s *Server) Handler() http.Handler { return s.handler }

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)

	api := http.NewServeMux()
	api.HandleFunc("GET /api/activities", s.handleListActivities)
	api.HandleFunc("POST /api/activities", s.handleCreateActivity)
	api.HandleFunc("PATCH /api/activities/{id}", s.handleUpdateActivity)
	api.HandleFunc("DELETE /api/activities/{id}", s.handleDeleteActivity)

	api.HandleFunc("GET /api/rewards", s.handleListRewards)
	api.HandleFunc("POST /api/rewards", s.handleCreateReward)
	api.HandleFunc("DELETE /api/rewards/{id}", s.handleDeleteReward)

	api.HandleFunc("GET /api/logs", s.handleListLogs)
	api.HandleFunc("DELETE /api/logs/{id}", s.handleDeleteLog)
	api.HandleFunc("POST /api/logs/reset-today", s.handleResetToday)

	api.HandleFunc("GET /api/session", s.handleSessionStatus)
	api.HandleFunc("POST /api/session/start", s.handleStart)
	api.HandleFunc("POST /api/session/stop", s.handleStop)
	api.HandleFunc("POST /api/session/cancel", s.handleCancel)

	api.HandleFunc("GET /api/settings", s.handleGetSettings)
	api.HandleFunc("PATCH /api/settings", s.handleUpdateSettings)

	api.HandleFunc("GET /api/stats/today", s.handleStatsToday)
	api.HandleFunc("GET /api/stats/history", s.handleStatsHistory)
	api.HandleFunc("GET /api/goals", s.handleGoals)

	api.HandleFunc("POST /api/mentor", s.handleMentor)
	api.HandleFunc("POST /api/speech", s.handleSpeech)

	api.HandleFunc("GET /api/backup", s.handleExport)
	api.HandleFunc("POST /api/backup", s.handleImport)

	mux.Handle("/api/", s.authenticate(api))
	return recoverer(requestLogger(mux))
}

// Run serves on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Server.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       s.cfg.Server.ReadTimeout,
		WriteTimeout:      s.cfg.Server.WriteTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	logger.Info("api shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
