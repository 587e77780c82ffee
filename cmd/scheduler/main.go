package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"

	"reddit-lead-finder/internal/app"
	"reddit-lead-finder/internal/infra/config"
	logpkg "reddit-lead-finder/internal/infra/log"
	"reddit-lead-finder/internal/infra/metrics"
)

func main() {
	cfg := config.Load()
	logger := logpkg.NewLogger(cfg.AppEnv, "scheduler")

	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.MetricsAddr != "" {
		metrics.StartServer(ctx, logger.With().Str("component", "metrics").Logger(), cfg.MetricsAddr)
	}

	deps, err := app.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("scheduler: не удалось подключить сервисы")
	}
	defer deps.Close()

	schedule := cfg.RunSchedule
	slotSize := time.Minute
	if schedule == "" {
		interval := cfg.RunInterval
		if interval <= 0 {
			interval = 6 * time.Hour
		}
		schedule = "@every " + interval.String()
		slotSize = interval
	}

	source := app.NewRedditClient(cfg)
	runOnce := func() {
		slot := app.SlotFor(time.Now(), slotSize)
		// Несколько реплик планировщика делят один слот через Redis.
		err := app.RunInSlot(deps.Cache, slot, slotSize, func() error {
			// config.json перечитывается на каждом запуске.
			settings, err := config.LoadSettings(cfg.ConfigPath)
			if err != nil {
				return fmt.Errorf("load settings %s: %w", cfg.ConfigPath, err)
			}
			runner := app.NewRunner(cfg, settings, source, deps.Cache, deps.Sinks, logger)
			_, err = runner.Run(ctx)
			return err
		})
		if err != nil {
			logger.Error().Err(err).Time("slot", slot).Msg("scheduler: запуск не удался")
		}
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(schedule, runOnce); err != nil {
		logger.Fatal().Err(err).Str("schedule", schedule).Msg("scheduler: некорректное расписание")
	}

	logger.Info().Str("schedule", schedule).Msg("scheduler: старт")
	runOnce()
	c.Start()

	<-ctx.Done()
	logger.Info().Msg("scheduler: остановка")
	<-c.Stop().Done()
}
