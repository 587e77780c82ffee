package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"reddit-lead-finder/internal/adapters/export"
	"reddit-lead-finder/internal/adapters/keywords"
	"reddit-lead-finder/internal/adapters/ranker"
	"reddit-lead-finder/internal/adapters/replies"
	"reddit-lead-finder/internal/adapters/risk"
	"reddit-lead-finder/internal/domain"
	"reddit-lead-finder/internal/infra/config"
	"reddit-lead-finder/internal/infra/metrics"
	"reddit-lead-finder/internal/usecase/opportunity"
	"reddit-lead-finder/internal/usecase/search"
)

// Sinks перечисляет необязательные получатели результатов запуска.
type Sinks struct {
	Repo     domain.OpportunityRepo
	Queue    domain.OpportunityQueue
	Notifier domain.Notifier
}

// Runner выполняет полный запуск: поиск, оценку и доставку.
type Runner struct {
	search     *search.Service
	pipeline   *opportunity.Service
	request    search.Request
	outputPath string
	seenTTL    time.Duration
	sinks      Sinks
	log        zerolog.Logger
	now        func() time.Time
}

// NewRunner собирает пайплайн из настроек и конфигурации окружения.
func NewRunner(cfg config.AppConfig, settings config.Settings, source domain.PostSource, seen domain.Cache, sinks Sinks, log zerolog.Logger) *Runner {
	set := keywords.Expand(settings.KeywordsCore)
	opts := opportunity.Options{
		MinUpvotes:  cfg.Limits.MinUpvotes,
		MinScore:    settings.RelevanceThreshold,
		ResultLimit: cfg.Limits.ResultLimit,
		Workers:     cfg.Limits.ScoringWorkers,
	}
	pipeline := opportunity.NewService(set, ranker.NewRelevance(set), risk.New(), replies.NewGenerator(), opts, log.With().Str("component", "pipeline").Logger())

	return &Runner{
		search:   search.NewService(source, seen, log.With().Str("component", "search").Logger()),
		pipeline: pipeline,
		request: search.Request{
			Subreddits:    search.SelectSubreddits(settings.AllowlistSubs, settings.BlocklistSubs),
			Queries:       set.Head(cfg.Limits.SearchKeywords),
			DateRangeDays: settings.DateRangeDays,
		},
		outputPath: cfg.OutputPath,
		seenTTL:    cfg.SeenTTL,
		sinks:      sinks,
		log:        log,
		now:        time.Now,
	}
}

// SetClock подменяет источник текущего времени во всех компонентах.
func (r *Runner) SetClock(now func() time.Time) {
	r.now = now
	r.search.SetClock(now)
	r.pipeline.SetClock(now)
}

// Request возвращает параметры поиска текущего запуска.
func (r *Runner) Request() search.Request {
	return r.request
}

// Run выполняет один запуск. Ошибка возвращается только при сбое записи выгрузки,
// сбои остальных получателей логируются.
func (r *Runner) Run(ctx context.Context) (domain.Run, error) {
	run := domain.Run{ID: uuid.NewString(), StartedAt: r.now().UTC()}
	logger := r.log.With().Str("run_id", run.ID).Logger()
	logger.Info().
		Int("subreddits", len(r.request.Subreddits)).
		Int("queries", len(r.request.Queries)).
		Msg("finder: запуск поиска")

	opps := r.pipeline.Run(ctx, r.search.Candidates(ctx, r.request))
	for i := range opps {
		opps[i].RunID = run.ID
	}
	run.Opportunities = opps
	run.FinishedAt = r.now().UTC()
	metrics.RunSeconds.Observe(run.FinishedAt.Sub(run.StartedAt).Seconds())
	logger.Info().Int("opportunities", len(opps)).Msg("finder: поиск завершён")

	if r.outputPath != "" {
		if err := export.WriteFile(r.outputPath, opps); err != nil {
			metrics.IncSinkError("json")
			return run, fmt.Errorf("export leads: %w", err)
		}
		logger.Info().Str("path", r.outputPath).Msg("finder: выгрузка записана")
	}

	r.deliver(ctx, run, logger)
	return run, nil
}

func (r *Runner) deliver(ctx context.Context, run domain.Run, logger zerolog.Logger) {
	if err := r.search.MarkSeen(run.Opportunities, r.seenTTL); err != nil {
		metrics.IncSinkError("seen")
		logger.Warn().Err(err).Msg("finder: не удалось запомнить выданные посты")
	}
	if r.sinks.Repo != nil {
		if err := r.sinks.Repo.SaveRun(ctx, run); err != nil {
			metrics.IncSinkError("postgres")
			logger.Error().Err(err).Msg("finder: не удалось сохранить запуск")
		}
	}
	if r.sinks.Queue != nil {
		for _, opp := range run.Opportunities {
			if err := r.sinks.Queue.Enqueue(ctx, opp); err != nil {
				metrics.IncSinkError("queue")
				logger.Error().Err(err).Str("url", opp.URL).Msg("finder: не удалось опубликовать возможность")
				break
			}
		}
	}
	if r.sinks.Notifier != nil && len(run.Opportunities) > 0 {
		if err := r.sinks.Notifier.Notify(ctx, run); err != nil {
			metrics.IncSinkError("telegram")
			logger.Error().Err(err).Msg("finder: не удалось отправить отчёт")
		}
	}
}
