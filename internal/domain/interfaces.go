package domain

import (
	"context"
	"time"
)

// PostSource ищет посты на площадке.
type PostSource interface {
	SearchPosts(ctx context.Context, subreddit, query string, window TimeWindow) ([]CandidatePost, error)
}

// Scorer оценивает релевантность поста.
type Scorer interface {
	Score(body, title, subreddit string, createdAt time.Time, upvotes int, keywords KeywordSet, now time.Time) ScoreBreakdown
}

// RiskAssessor выставляет флаги риска.
type RiskAssessor interface {
	Assess(subreddit, text string) RiskFlagSet
}

// ReplyGenerator готовит черновики ответов.
type ReplyGenerator interface {
	Generate(intent Intent, includeLink bool) []ReplyDraft
}

// OpportunityRepo сохраняет результаты запусков.
type OpportunityRepo interface {
	SaveRun(ctx context.Context, run Run) error
	ListLatest(ctx context.Context, limit int) ([]Opportunity, error)
}

// OpportunityQueue публикует найденные возможности для внешних обработчиков.
type OpportunityQueue interface {
	Enqueue(ctx context.Context, opp Opportunity) error
}

// Notifier доставляет отчёт о запуске.
type Notifier interface {
	Notify(ctx context.Context, run Run) error
}

// Cache используется для простых TTL-хранилищ.
type Cache interface {
	Once(key string, ttl time.Duration, fn func() error) error
	Set(key string, value []byte, ttl time.Duration) error
	Get(key string) ([]byte, error)
}
