// Package http exposes the JSON REST API.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"kyatbook/internal/auth"
	"kyatbook/internal/services"
	"kyatbook/internal/storage"
)

// Server wires the API routes to the service layer.
type Server struct {
	records   *services.RecordService
	fees      *services.FeeService
	reports   *services.ReportService
	tokens    *auth.TokenStore
	storage   *storage.Repository
	pageLimit int

	httpServer *http.Server
}

func NewServer(records *services.RecordService, fees *services.FeeService, reports *services.ReportService, tokens *auth.TokenStore, storage *storage.Repository, pageLimit int) *Server {
	return &Server{
		records:   records,
		fees:      fees,
		reports:   reports,
		tokens:    tokens,
		storage:   storage,
		pageLimit: pageLimit,
	}
}

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(s.withMetrics)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, "")
	})
	r.Get("/readyz", s.handleReady)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/logout", s.handleLogout)

		r.Group(func(r chi.Router) {
			r.Use(s.requireSession)

			r.Get("/fees", s.handleListFees)
			r.Put("/fees", s.handleReplaceFees)
			r.Get("/fees/for-amount", s.handleFeeForAmount)

			r.Post("/records", s.handleCreateRecord)
			r.Get("/records/recent", s.handleRecentRecords)
			r.Get("/records/report", s.handleReport)
			r.Post("/records/report/export", s.handleExport)
			r.Get("/records/total", s.handleTotals)
		})
	})

	return r
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if _, err := s.storage.ListFeeBrackets(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "database not ready", nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, "")
}

// Start runs the HTTP server until ctx is cancelled, then drains in-flight
// requests.
func (s *Server) Start(ctx context.Context, port string) error {
	s.httpServer = &http.Server{
		Addr:              ":" + port,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", port)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		slog.Info("Shutting down HTTP server")
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}
