package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"reddit-lead-finder/internal/app"
	"reddit-lead-finder/internal/infra/config"
	logpkg "reddit-lead-finder/internal/infra/log"
	"reddit-lead-finder/internal/infra/metrics"
)

func main() {
	cfg := config.Load()
	logger := logpkg.NewLogger(cfg.AppEnv, "finder")

	settings, err := config.LoadSettings(cfg.ConfigPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.ConfigPath).Msg("finder: некорректный файл настроек")
	}

	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.MetricsAddr != "" {
		metrics.StartServer(ctx, logger.With().Str("component", "metrics").Logger(), cfg.MetricsAddr)
	}

	deps, err := app.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("finder: не удалось подключить сервисы")
	}
	defer deps.Close()

	runner := app.NewRunner(cfg, settings, app.NewRedditClient(cfg), deps.Cache, deps.Sinks, logger)
	run, err := runner.Run(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("finder: запуск не удался")
	}
	logger.Info().Str("run_id", run.ID).Int("opportunities", len(run.Opportunities)).Str("output", cfg.OutputPath).Msg("finder: готово")
}
