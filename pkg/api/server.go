// Package api exposes stored run results over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"speedtest-tester/pkg/models"
)

const (
	defaultLimit = 20
	maxLimit     = 500
)

// ResultStore provides the stored results the API serves.
// database.DB satisfies it.
type ResultStore interface {
	RecentResults(ctx context.Context, limit int) ([]models.Result, error)
}

type Server struct {
	log        *slog.Logger
	store      ResultStore
	httpServer *http.Server
}

func NewServer(log *slog.Logger, store ResultStore, addr string) *Server {
	return &Server{
		log:   log,
		store: store,
		httpServer: &http.Server{
			Addr: addr,
		},
	}
}

// Run starts the server and blocks until it stops.
func (s *Server) Run() error {
	s.httpServer.Handler = s.registerRouter()

	s.log.Info("starting http server", slog.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down http server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) registerRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)

	r.Get("/healthz", s.healthCheck)
	r.Get("/results", s.results)

	return r
}

func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) results(w http.ResponseWriter, r *http.Request) {
	limit := defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	results, err := s.store.RecentResults(r.Context(), limit)
	if err != nil {
		s.log.Error("failed to load results", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(results)
}
