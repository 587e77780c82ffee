package diagnostics

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"reddit-lead-finder/internal/domain"
	"reddit-lead-finder/internal/infra/config"
)

// RedditAPI проверяет доступность Reddit API.
type RedditAPI interface {
	domain.PostSource
	Token(ctx context.Context) (string, error)
}

// Result описывает итог одной проверки.
type Result struct {
	Name   string
	OK     bool
	Detail string
}

// Report содержит результаты проверок.
type Report []Result

// OK сообщает, пройдены ли все проверки.
func (r Report) OK() bool {
	for _, res := range r {
		if !res.OK {
			return false
		}
	}
	return true
}

// String печатает отчёт в формате ✅/❌.
func (r Report) String() string {
	var b strings.Builder
	for _, res := range r {
		mark := "✅"
		if !res.OK {
			mark = "❌"
		}
		fmt.Fprintf(&b, "%s %s", mark, res.Name)
		if res.Detail != "" {
			fmt.Fprintf(&b, ": %s", res.Detail)
		}
		b.WriteString("\n")
	}
	if r.OK() {
		b.WriteString("Все проверки пройдены.\n")
	} else {
		b.WriteString("Есть ошибки, исправьте их перед запуском.\n")
	}
	return b.String()
}

// Checker выполняет проверки окружения перед запуском.
type Checker struct {
	cfg   config.AppConfig
	api RedditAPI
}

// NewChecker создаёт проверку. api может быть nil, тогда связь не проверяется.
func NewChecker(cfg config.AppConfig, api RedditAPI) *Checker {
	return &Checker{cfg: cfg, api: api}
}

// Run выполняет все проверки по порядку.
func (c *Checker) Run(ctx context.Context) Report {
	var report Report
	settings, res := c.checkConfig()
	report = append(report, res...)
	report = append(report, c.checkCredentials())
	if c.api != nil {
		report = append(report, c.checkConnectivity(ctx, settings)...)
	}
	return report
}

func (c *Checker) checkConfig() (config.Settings, []Result) {
	path := c.cfg.ConfigPath
	if _, err := os.Stat(path); err != nil {
		return config.Settings{}, []Result{{Name: "Файл настроек", Detail: fmt.Sprintf("%s не найден", path)}}
	}
	results := []Result{{Name: "Файл настроек", OK: true, Detail: path}}
	settings, err := config.LoadSettings(path)
	switch {
	case errors.Is(err, config.ErrMissingKey):
		results = append(results, Result{Name: "Обязательные ключи", Detail: err.Error()})
	case err != nil:
		results = append(results, Result{Name: "Формат настроек", Detail: err.Error()})
	default:
		results = append(results, Result{
			Name:   "Обязательные ключи",
			OK:     true,
			Detail: fmt.Sprintf("%d ключевых слов, окно %d дн., порог %d", len(settings.KeywordsCore), settings.DateRangeDays, settings.RelevanceThreshold),
		})
	}
	return settings, results
}

func (c *Checker) checkCredentials() Result {
	var missing []string
	if c.cfg.Reddit.ClientID == "" {
		missing = append(missing, "REDDIT_CLIENT_ID")
	}
	if c.cfg.Reddit.ClientSecret == "" {
		missing = append(missing, "REDDIT_CLIENT_SECRET")
	}
	if len(missing) > 0 {
		return Result{Name: "Учётные данные Reddit", Detail: "не заданы " + strings.Join(missing, ", ")}
	}
	return Result{Name: "Учётные данные Reddit", OK: true}
}

func (c *Checker) checkConnectivity(ctx context.Context, settings config.Settings) []Result {
	if _, err := c.api.Token(ctx); err != nil {
		return []Result{{Name: "Авторизация Reddit", Detail: err.Error()}}
	}
	results := []Result{{Name: "Авторизация Reddit", OK: true}}

	query := "trading"
	if len(settings.KeywordsCore) > 0 && strings.TrimSpace(settings.KeywordsCore[0]) != "" {
		query = settings.KeywordsCore[0]
	}
	sub := "algotrading"
	if len(settings.AllowlistSubs) > 0 {
		sub = strings.TrimPrefix(settings.AllowlistSubs[0], "r/")
	}
	posts, err := c.api.SearchPosts(ctx, sub, query, domain.WindowWeek)
	if err != nil {
		return append(results, Result{Name: "Поиск в r/" + sub, Detail: err.Error()})
	}
	return append(results, Result{Name: "Поиск в r/" + sub, OK: true, Detail: fmt.Sprintf("найдено постов: %d", len(posts))})
}
