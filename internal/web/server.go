// Package web serves the liveness and status endpoints used by deployment
// health checks.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"nfl_bot/internal/scheduler"
)

// StatusProvider exposes the scheduler's observable state.
type StatusProvider interface {
	Status() scheduler.Status
}

// Server exposes /healthz and /status over HTTP.
type Server struct {
	status StatusProvider
	log    *slog.Logger
}

// New creates a Server reporting the given scheduler status.
func New(status StatusProvider, log *slog.Logger) *Server {
	return &Server{status: status, log: log}
}

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealthz)
	r.Get("/status", s.handleStatus)

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.log.Info("health server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.status.Status()); err != nil {
		s.log.Error("encode status", "error", err)
	}
}
