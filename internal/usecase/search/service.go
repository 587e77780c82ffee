package search

import (
	"context"
	"iter"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"reddit-lead-finder/internal/domain"
	"reddit-lead-finder/internal/infra/metrics"
)

// DefaultSubreddits используются, если allowlist пуст.
var DefaultSubreddits = []string{
	"algotrading", "trading", "daytrading", "stocks", "investing",
	"options", "forex", "cryptocurrency", "bitcointrading",
}

const seenKeyPrefix = "lead-finder:seen:"

// Request описывает один проход поиска.
type Request struct {
	Subreddits    []string
	Queries       []string
	DateRangeDays int
}

// Service обходит сабреддиты и ключевые слова через источник постов.
type Service struct {
	source domain.PostSource
	seen   domain.Cache
	log    zerolog.Logger
	now    func() time.Time
}

// NewService создаёт сервис поиска. seen может быть nil.
func NewService(source domain.PostSource, seen domain.Cache, log zerolog.Logger) *Service {
	return &Service{source: source, seen: seen, log: log, now: time.Now}
}

// SetClock подменяет источник текущего времени.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// SelectSubreddits применяет allowlist и blocklist.
func SelectSubreddits(allowlist, blocklist []string) []string {
	candidates := allowlist
	if len(candidates) == 0 {
		candidates = DefaultSubreddits
	}
	blocked := make(map[string]struct{}, len(blocklist))
	for _, sub := range blocklist {
		blocked[normalizeSubreddit(sub)] = struct{}{}
	}
	out := make([]string, 0, len(candidates))
	for _, sub := range candidates {
		name := normalizeSubreddit(sub)
		if name == "" {
			continue
		}
		if _, ok := blocked[name]; ok {
			continue
		}
		out = append(out, name)
	}
	return out
}

func normalizeSubreddit(name string) string {
	trimmed := strings.TrimSpace(name)
	trimmed = strings.TrimPrefix(trimmed, "/")
	trimmed = strings.TrimPrefix(trimmed, "r/")
	return trimmed
}

// Candidates возвращает ленивый поток постов. Ошибки источника по паре
// сабреддит/запрос логируются и пропускаются.
func (s *Service) Candidates(ctx context.Context, req Request) iter.Seq[domain.CandidatePost] {
	return func(yield func(domain.CandidatePost) bool) {
		cutoff := s.now().Add(-time.Duration(req.DateRangeDays) * 24 * time.Hour)
		window := domain.WindowForDays(req.DateRangeDays)
		for _, sub := range req.Subreddits {
			for _, query := range req.Queries {
				if ctx.Err() != nil {
					return
				}
				posts, err := s.source.SearchPosts(ctx, sub, query, window)
				if err != nil {
					metrics.IncCollectorError(sub)
					s.log.Error().Err(err).Str("subreddit", sub).Str("query", query).Msg("search: ошибка поиска, пропускаем")
					continue
				}
				for _, post := range posts {
					if req.DateRangeDays > 0 && post.CreatedAt.Before(cutoff) {
						continue
					}
					if s.wasSeen(post.URL) {
						continue
					}
					if !yield(post) {
						return
					}
				}
			}
		}
	}
}

func (s *Service) wasSeen(url string) bool {
	if s.seen == nil || url == "" {
		return false
	}
	_, err := s.seen.Get(seenKeyPrefix + url)
	return err == nil
}

// MarkSeen запоминает выданные ссылки, чтобы не предлагать их повторно.
func (s *Service) MarkSeen(opps []domain.Opportunity, ttl time.Duration) error {
	if s.seen == nil {
		return nil
	}
	for _, opp := range opps {
		if opp.URL == "" {
			continue
		}
		if err := s.seen.Set(seenKeyPrefix+opp.URL, []byte(opp.RunID), ttl); err != nil {
			return err
		}
	}
	return nil
}
