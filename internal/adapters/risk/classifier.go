package risk

import (
	"strings"

	"reddit-lead-finder/internal/adapters/textmatch"
	"reddit-lead-finder/internal/domain"
)

// RestrictedSubreddits запрещают самопродвижение.
var RestrictedSubreddits = []string{"wallstreetbets", "investing", "stocks"}

// SpamIndicators указывают на низкое качество треда.
var SpamIndicators = []string{"giveaway", "free money", "guaranteed", "100% win", "get rich"}

// PoliticalTerms уводят тред от темы.
var PoliticalTerms = []string{"biden", "trump", "election", "democrat", "republican"}

// Classifier проверяет пост на риски. Проверки независимы, флаги складываются.
type Classifier struct {
	spam      *textmatch.Matcher
	political *textmatch.Matcher
}

// New создаёт классификатор рисков.
func New() *Classifier {
	return &Classifier{
		spam:      textmatch.New(SpamIndicators),
		political: textmatch.New(PoliticalTerms),
	}
}

var _ domain.RiskAssessor = (*Classifier)(nil)

// Assess возвращает множество флагов риска для поста.
func (c *Classifier) Assess(subreddit, text string) domain.RiskFlagSet {
	flags := domain.NewRiskFlagSet()
	name := strings.ToLower(subreddit)
	for _, sub := range RestrictedSubreddits {
		if strings.Contains(name, sub) {
			flags.Add(domain.RiskSelfPromoRestricted)
			break
		}
	}
	if c.spam.Contains(text) {
		flags.Add(domain.RiskLowQualityThread)
	}
	if c.political.Contains(text) {
		flags.Add(domain.RiskOffTopic)
	}
	return flags
}
