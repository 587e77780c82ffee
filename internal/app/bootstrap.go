package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"reddit-lead-finder/internal/adapters/reddit"
	"reddit-lead-finder/internal/adapters/repo"
	"reddit-lead-finder/internal/adapters/telegram"
	"reddit-lead-finder/internal/domain"
	"reddit-lead-finder/internal/infra/cache"
	"reddit-lead-finder/internal/infra/config"
	"reddit-lead-finder/internal/infra/db"
	"reddit-lead-finder/internal/infra/queue"
	"reddit-lead-finder/internal/usecase/opportunity"
)

// NewRedditClient создаёт источник постов из конфигурации.
func NewRedditClient(cfg config.AppConfig) *reddit.Client {
	return reddit.NewClient(reddit.Options{
		ClientID:     cfg.Reddit.ClientID,
		ClientSecret: cfg.Reddit.ClientSecret,
		UserAgent:    cfg.Reddit.UserAgent,
		AuthURL:      cfg.Reddit.AuthURL,
		APIURL:       cfg.Reddit.APIURL,
		RPS:          cfg.Reddit.RPS,
		Limit:        cfg.Limits.SearchLimit,
	})
}

// Deps содержит подключённые внешние сервисы.
type Deps struct {
	Sinks Sinks
	// Cache хранит выданные ссылки и блокировки слотов расписания.
	Cache domain.Cache
	close []func()
}

// Close освобождает подключения.
func (d *Deps) Close() {
	for i := len(d.close) - 1; i >= 0; i-- {
		d.close[i]()
	}
}

// Connect подключает сервисы, заданные в окружении. Незаданные пропускаются.
func Connect(ctx context.Context, cfg config.AppConfig, log zerolog.Logger) (*Deps, error) {
	deps := &Deps{}

	if cfg.PGDSN != "" {
		pool, err := db.Connect(ctx, cfg.PGDSN)
		if err != nil {
			deps.Close()
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		deps.close = append(deps.close, pool.Close)
		pg := repo.NewPostgres(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			deps.Close()
			return nil, err
		}
		deps.Sinks.Repo = pg
		log.Info().Msg("finder: подключён Postgres")
	}

	if cfg.RedisAddr != "" {
		client, err := cache.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			deps.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		deps.close = append(deps.close, func() { _ = client.Close() })
		deps.Cache = cache.NewRedis(client)
		deps.Sinks.Queue = queue.NewRedisOpportunityQueue(client, cfg.Queues.Opportunities)
		log.Info().Str("queue", cfg.Queues.Opportunities).Msg("finder: подключён Redis")
	}

	if cfg.Telegram.Token != "" && cfg.Telegram.ChatID != 0 {
		bot, err := telegram.NewBot(cfg.Telegram.Token)
		if err != nil {
			deps.Close()
			return nil, fmt.Errorf("connect telegram: %w", err)
		}
		deps.Sinks.Notifier = telegram.NewNotifier(bot, cfg.Telegram.ChatID, opportunity.FormatReport)
		log.Info().Int64("chat", cfg.Telegram.ChatID).Msg("finder: подключён Telegram")
	}

	return deps, nil
}
