// Streamboard - Unified Media Status Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamboard

// Package api serves the ops HTTP surface: liveness, Prometheus
// metrics, and the latest aggregated view as JSON. It is read-only;
// everything the dashboard shows on Discord is inspectable here without
// touching Discord.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/streamboard/internal/config"
	"github.com/tomtom215/streamboard/internal/logging"
	"github.com/tomtom215/streamboard/internal/models"
)

// StatusProvider exposes the most recent completed tick.
type StatusProvider interface {
	Latest() *models.ViewModel
}

// Server is the ops HTTP server, run under the supervision tree.
type Server struct {
	cfg      *config.Config
	provider StatusProvider
	server   *http.Server
}

// New builds the ops server.
func New(cfg *config.Config, provider StatusProvider) *Server {
	s := &Server{cfg: cfg, provider: provider}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	r.Get("/healthz", s.handleHealthz)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/api/v1/status", s.handleStatus)

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

// String names the service in supervisor logs.
func (s *Server) String() string {
	return "ops-http"
}

// Serve implements suture.Service: it blocks until the listener fails
// or the context is canceled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", s.server.Addr).Msg("Starting ops HTTP server")
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
		return ctx.Err()
	}
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleStatus returns the latest view model. 503 before the first tick
// completes so probes can tell "starting" from "idle".
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	vm := s.provider.Latest()
	if vm == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no tick completed yet"})
		return
	}
	writeJSON(w, http.StatusOK, vm)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Debug().Err(err).Msg("Failed to encode response")
	}
}
