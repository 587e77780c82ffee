package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"reddit-lead-finder/internal/app"
	"reddit-lead-finder/internal/infra/config"
	logpkg "reddit-lead-finder/internal/infra/log"
	"reddit-lead-finder/internal/usecase/diagnostics"
)

func main() {
	cfg, err := config.Parse()
	if err != nil {
		logger := logpkg.NewLogger("prod", "setup-check")
		logger.Fatal().Err(err).Msg("setup-check: не удалось прочитать окружение")
	}
	os.Exit(run(cfg, os.Stdout))
}

// run печатает отчёт и возвращает код выхода процесса.
func run(cfg config.AppConfig, out io.Writer) int {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var api diagnostics.RedditAPI
	if cfg.Reddit.ClientID != "" && cfg.Reddit.ClientSecret != "" {
		api = app.NewRedditClient(cfg)
	}

	fmt.Fprintln(out, "Проверка окружения lead finder")
	report := diagnostics.NewChecker(cfg, api).Run(ctx)
	fmt.Fprint(out, report.String())
	if !report.OK() {
		return 1
	}
	return 0
}
