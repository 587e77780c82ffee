package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"reddit-lead-finder/internal/adapters/export"
	"reddit-lead-finder/internal/domain"
)

const (
	defaultListLimit = 25
	maxListLimit     = 100
)

// Server оборачивает chi.Router с базовыми middlewares.
type Server struct {
	Router chi.Router
	log    zerolog.Logger
	srv    *http.Server
}

// NewServer создаёт HTTP сервер с /healthz и /metrics.
func NewServer(logger zerolog.Logger, addr string) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return &Server{
		Router: r,
		log:    logger,
		srv: &http.Server{
			Addr:         addr,
			Handler:      r,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
	}
}

// MountOpportunities регистрирует GET /api/v1/opportunities.
func (s *Server) MountOpportunities(repo domain.OpportunityRepo) {
	s.Router.Get("/api/v1/opportunities", OpportunitiesHandler(repo, s.log))
}

// OpportunitiesHandler отдаёт возможности последнего запуска в формате выгрузки.
func OpportunitiesHandler(repo domain.OpportunityRepo, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultListLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				writeError(w, http.StatusBadRequest, "invalid limit")
				return
			}
			limit = min(parsed, maxListLimit)
		}
		opps, err := repo.ListLatest(r.Context(), limit)
		if err != nil {
			logger.Error().Err(err).Msg("api: не удалось получить возможности")
			writeError(w, http.StatusInternalServerError, "failed to list opportunities")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": export.ToLeads(opps)})
	}
}

// Start запускает http.Server и блокируется до его остановки.
// После Shutdown возвращает nil, даже если Shutdown был вызван раньше Start.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.srv.Addr).Msg("HTTP сервер запущен")
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown корректно завершает работу сервера.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}
