package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"reddit-lead-finder/internal/adapters/repo"
	"reddit-lead-finder/internal/infra/config"
	"reddit-lead-finder/internal/infra/db"
	httpinfra "reddit-lead-finder/internal/infra/http"
	logpkg "reddit-lead-finder/internal/infra/log"
	"reddit-lead-finder/internal/infra/metrics"
)

func main() {
	cfg := config.Load()
	logger := logpkg.NewLogger(cfg.AppEnv, "api")

	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.PGDSN == "" {
		logger.Fatal().Msg("api: PG_DSN не задан")
	}
	pool, err := db.Connect(ctx, cfg.PGDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("api: нет подключения к БД")
	}
	defer pool.Close()

	repoAdapter := repo.NewPostgres(pool)
	if err := repoAdapter.EnsureSchema(ctx); err != nil {
		logger.Fatal().Err(err).Msg("api: не удалось подготовить схему")
	}

	srv := httpinfra.NewServer(logger.With().Str("component", "http").Logger(), cfg.HTTPAddr)
	srv.MountOpportunities(repoAdapter)

	go func() {
		logger.Info().Msg("api: старт")
		if err := srv.Start(); err != nil {
			logger.Error().Err(err).Msg("api: сервер остановлен")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("api: остановка")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
