package ranker

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"reddit-lead-finder/internal/adapters/textmatch"
	"reddit-lead-finder/internal/domain"
)

const (
	intentMatchScore   = 40
	intentDefaultScore = 20
	keywordPoints      = 2
	maxKeywordScore    = 20
	contextPoints      = 5
	maxContextScore    = 25
	qualitySubScore    = 5
	defaultSubScore    = 3
	secondsPerDay      = 86400
)

// IntentRule связывает метку намерения с шаблоном. Порядок правил задаёт приоритет.
type IntentRule struct {
	Intent  domain.Intent
	Pattern *regexp.Regexp
}

// IntentRules проверяются по порядку, выигрывает первое совпадение.
var IntentRules = []IntentRule{
	{Intent: domain.IntentToolSeeking, Pattern: regexp.MustCompile(`(recommend|best|looking for|suggest|which|what.*use|any good|need.*tool)`)},
	{Intent: domain.IntentHowTo, Pattern: regexp.MustCompile(`(how to|how do|how can|guide|tutorial|help me|teach)`)},
	{Intent: domain.IntentProblemSolving, Pattern: regexp.MustCompile(`(problem|issue|stuck|struggling|confused|not working|error)`)},
	{Intent: domain.IntentShowAndTell, Pattern: regexp.MustCompile(`(built|made|created|check out|my.*tool)`)},
}

// FeatureTerms описывают возможности продукта. Совпадение по подстроке,
// поэтому "automat" покрывает automation, automated и т.д.
var FeatureTerms = []string{
	"chart", "technical analysis", "ai", "automat", "algo",
	"signal", "backtest", "scan", "indicator", "strategy",
}

// QualitySubreddits перечисляет известные трейдерские сообщества.
var QualitySubreddits = []string{
	"algotrading", "trading", "daytrading", "stocks", "investing",
	"wallstreetbets", "forex", "cryptocurrency", "bitcoin",
}

// FreshnessStep задаёт ступень свежести. Посты младше MaxAgeDays получают Score.
type FreshnessStep struct {
	MaxAgeDays float64
	Score      int
}

// FreshnessSteps упорядочены по возрастанию возраста.
var FreshnessSteps = []FreshnessStep{
	{MaxAgeDays: 1, Score: 10},
	{MaxAgeDays: 3, Score: 7},
	{MaxAgeDays: 7, Score: 5},
}

// RelevanceScorer считает оценку 0-100 по пяти независимым факторам.
type RelevanceScorer struct {
	features *textmatch.Matcher

	// матчер ключевых слов строится один раз на набор.
	keywordsFor  []string
	keywordMatch *textmatch.Matcher
}

// NewRelevance создаёт скорер. Если keywords задан, матчер для него строится сразу.
func NewRelevance(keywords domain.KeywordSet) *RelevanceScorer {
	terms := keywords.Terms()
	return &RelevanceScorer{
		features:     textmatch.New(FeatureTerms),
		keywordsFor:  terms,
		keywordMatch: textmatch.New(terms),
	}
}

var _ domain.Scorer = (*RelevanceScorer)(nil)

// Score оценивает пост. Функция никогда не завершается ошибкой:
// пустой текст даёт минимальные значения факторов.
func (r *RelevanceScorer) Score(body, title, subreddit string, createdAt time.Time, upvotes int, keywords domain.KeywordSet, now time.Time) domain.ScoreBreakdown {
	// Тело идёт перед заголовком: от порядка зависит, какие фрагменты
	// захватят шаблоны вроде "what.*use" и "my.*tool".
	text := strings.ToLower(body + " " + title)

	intent, intentScore := ClassifyIntent(text)
	matched := r.matchKeywords(text, keywords)
	keywordScore := min(len(matched)*keywordPoints, maxKeywordScore)
	contextScore := min(len(r.features.Match(text))*contextPoints, maxContextScore)
	freshnessScore := FreshnessScore(now.Sub(createdAt))
	subredditScore := SubredditScore(subreddit)

	return domain.ScoreBreakdown{
		Intent:          intent,
		IntentScore:     intentScore,
		KeywordScore:    keywordScore,
		ContextScore:    contextScore,
		FreshnessScore:  freshnessScore,
		SubredditScore:  subredditScore,
		TotalScore:      intentScore + keywordScore + contextScore + freshnessScore + subredditScore,
		MatchedKeywords: matched,
	}
}

func (r *RelevanceScorer) matchKeywords(text string, keywords domain.KeywordSet) []string {
	terms := keywords.Terms()
	matcher := r.keywordMatch
	if !sameTerms(terms, r.keywordsFor) {
		matcher = textmatch.New(terms)
	}
	matched := matcher.MatchTerms(text)
	if matched == nil {
		return []string{}
	}
	return matched
}

// ClassifyIntent возвращает метку первого совпавшего правила.
func ClassifyIntent(lowered string) (domain.Intent, int) {
	for _, rule := range IntentRules {
		if rule.Pattern.MatchString(lowered) {
			return rule.Intent, intentMatchScore
		}
	}
	return domain.IntentGeneral, intentDefaultScore
}

// FreshnessScore переводит возраст поста в баллы.
func FreshnessScore(age time.Duration) int {
	days := age.Seconds() / secondsPerDay
	for _, step := range FreshnessSteps {
		if days < step.MaxAgeDays {
			return step.Score
		}
	}
	return 0
}

// SubredditScore даёт бонус известным трейдерским сообществам.
func SubredditScore(subreddit string) int {
	name := strings.ToLower(subreddit)
	for _, sub := range QualitySubreddits {
		if strings.Contains(name, sub) {
			return qualitySubScore
		}
	}
	return defaultSubScore
}

func sameTerms(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// SortByScore стабильно сортирует возможности по убыванию итоговой оценки.
func SortByScore(items []domain.Opportunity) {
	sort.SliceStable(items, func(i, j int) bool { return items[i].Score.TotalScore > items[j].Score.TotalScore })
}

// DeduplicateByURL удаляет возможности с одинаковыми ссылками, оставляя первую.
func DeduplicateByURL(items []domain.Opportunity) []domain.Opportunity {
	seen := make(map[string]struct{})
	out := make([]domain.Opportunity, 0, len(items))
	for _, item := range items {
		key := item.URL
		if key == "" {
			out = append(out, item)
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}
