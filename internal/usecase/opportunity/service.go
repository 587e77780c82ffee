package opportunity

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"reddit-lead-finder/internal/adapters/ranker"
	"reddit-lead-finder/internal/domain"
	"reddit-lead-finder/internal/infra/metrics"
)

// ErrInvalidCandidate возвращается для поста без обязательных полей.
var ErrInvalidCandidate = errors.New("некорректный пост-кандидат")

// HardRejectFlags отклоняют пост без обсуждения.
var HardRejectFlags = domain.NewRiskFlagSet(domain.RiskVendorBanned, domain.RiskLowQualityThread)

const (
	reasonInvalid = "invalid"
	reasonUpvotes = "upvotes"
	reasonScore   = "score"
	reasonRisk    = "risk"
)

// Options задаёт пороги допуска и размер выдачи.
type Options struct {
	MinUpvotes  int
	MinScore    int
	ResultLimit int
	// Workers > 1 включает параллельный скоринг.
	Workers int
}

// DefaultOptions возвращает пороги по умолчанию.
func DefaultOptions() Options {
	return Options{MinUpvotes: 3, MinScore: 60, ResultLimit: 25, Workers: 1}
}

// Service прогоняет кандидатов через скоринг, риски и генерацию ответов.
type Service struct {
	keywords domain.KeywordSet
	scorer   domain.Scorer
	risk     domain.RiskAssessor
	replies  domain.ReplyGenerator
	opts     Options
	log      zerolog.Logger
	now      func() time.Time
}

// NewService создаёт пайплайн возможностей.
func NewService(keywords domain.KeywordSet, scorer domain.Scorer, risk domain.RiskAssessor, replies domain.ReplyGenerator, opts Options, log zerolog.Logger) *Service {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &Service{keywords: keywords, scorer: scorer, risk: risk, replies: replies, opts: opts, log: log, now: time.Now}
}

// SetClock подменяет источник текущего времени.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Run оценивает поток кандидатов и возвращает отсортированный список возможностей.
// Ошибка одного кандидата не прерывает обработку остальных.
func (s *Service) Run(ctx context.Context, candidates iter.Seq[domain.CandidatePost]) []domain.Opportunity {
	now := s.now().UTC()
	var admitted []domain.Opportunity
	if s.opts.Workers > 1 {
		admitted = s.runParallel(ctx, candidates, now)
	} else {
		for post := range candidates {
			if ctx.Err() != nil {
				s.log.Warn().Err(ctx.Err()).Msg("pipeline: обработка прервана")
				break
			}
			if opp, ok := s.process(post, now); ok {
				admitted = append(admitted, opp)
			}
		}
	}
	return s.finalize(admitted)
}

func (s *Service) runParallel(ctx context.Context, candidates iter.Seq[domain.CandidatePost], now time.Time) []domain.Opportunity {
	type slot struct {
		opp domain.Opportunity
		ok  bool
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)

	// Каждый кандидат пишет только в свой слот, порядок входа сохраняется.
	var slots []*slot
	for post := range candidates {
		if ctx.Err() != nil {
			s.log.Warn().Err(ctx.Err()).Msg("pipeline: обработка прервана")
			break
		}
		res := &slot{}
		slots = append(slots, res)
		g.Go(func() error {
			res.opp, res.ok = s.process(post, now)
			return nil
		})
	}
	_ = g.Wait()

	admitted := make([]domain.Opportunity, 0, len(slots))
	for _, res := range slots {
		if res.ok {
			admitted = append(admitted, res.opp)
		}
	}
	return admitted
}

func (s *Service) finalize(admitted []domain.Opportunity) []domain.Opportunity {
	ranker.SortByScore(admitted)
	admitted = ranker.DeduplicateByURL(admitted)
	if s.opts.ResultLimit > 0 && len(admitted) > s.opts.ResultLimit {
		admitted = admitted[:s.opts.ResultLimit]
	}
	return admitted
}

func (s *Service) process(post domain.CandidatePost, now time.Time) (domain.Opportunity, bool) {
	opp, reason, err := s.Evaluate(post, now)
	if err != nil {
		metrics.IncRejected(reasonInvalid)
		s.log.Warn().Err(err).Str("url", post.URL).Msg("pipeline: кандидат пропущен")
		return domain.Opportunity{}, false
	}
	if reason != "" {
		metrics.IncRejected(reason)
		s.log.Debug().Str("url", post.URL).Str("reason", reason).Msg("pipeline: кандидат отклонён")
		return domain.Opportunity{}, false
	}
	metrics.IncAdmitted(string(opp.Score.Intent))
	return opp, true
}

// Evaluate прогоняет одного кандидата через фильтры допуска.
// Возвращает причину отказа или готовую возможность.
func (s *Service) Evaluate(post domain.CandidatePost, now time.Time) (opp domain.Opportunity, reason string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrInvalidCandidate, r)
		}
	}()

	if err := validate(post); err != nil {
		return domain.Opportunity{}, "", err
	}
	if post.Upvotes < s.opts.MinUpvotes {
		return domain.Opportunity{}, reasonUpvotes, nil
	}

	score := s.scorer.Score(post.Body, post.Title, post.Subreddit, post.CreatedAt, post.Upvotes, s.keywords, now)
	metrics.CandidatesScored.Inc()
	if score.TotalScore < s.opts.MinScore {
		return domain.Opportunity{}, reasonScore, nil
	}

	risks := s.risk.Assess(post.Subreddit, post.Title+" "+post.Body)
	if risks.Intersects(HardRejectFlags) {
		return domain.Opportunity{}, reasonRisk, nil
	}

	includeLink := !risks.Has(domain.RiskSelfPromoRestricted)
	drafts := s.replies.Generate(score.Intent, includeLink)

	return domain.Opportunity{
		URL:         post.URL,
		Type:        "post",
		Subreddit:   post.Subreddit,
		Title:       post.Title,
		Author:      post.AuthorOrDeleted(),
		CreatedAt:   post.CreatedAt,
		Upvotes:     post.Upvotes,
		Score:       score,
		RiskFlags:   risks,
		FitReasons:  fitReasons(score, post.CreatedAt, now),
		ReplyDrafts: drafts,
		IncludeLink: includeLink,
		ReplyNotes:  replyNotes(score.Intent, includeLink),
	}, "", nil
}

func validate(post domain.CandidatePost) error {
	if strings.TrimSpace(post.URL) == "" {
		return fmt.Errorf("%w: пустой url", ErrInvalidCandidate)
	}
	if post.CreatedAt.IsZero() {
		return fmt.Errorf("%w: нет времени публикации", ErrInvalidCandidate)
	}
	return nil
}

func fitReasons(score domain.ScoreBreakdown, createdAt, now time.Time) []string {
	intent := strings.ToLower(string(score.Intent))
	days := int(now.Sub(createdAt).Hours() / 24)
	return []string{
		fmt.Sprintf("Strong %s intent signal", intent),
		fmt.Sprintf("Matched %d relevant keywords", len(score.MatchedKeywords)),
		fmt.Sprintf("Posted %d days ago", days),
	}
}

func replyNotes(intent domain.Intent, includeLink bool) string {
	note := fmt.Sprintf("Natural entry point with %s context. ", strings.ToLower(string(intent)))
	if includeLink {
		return note + "Link included as value-add."
	}
	return note + "No link due to sub rules; value-only approach."
}
