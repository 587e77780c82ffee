package keywords

import (
	"strings"

	"reddit-lead-finder/internal/domain"
)

const (
	// expandedSeeds задаёт, сколько первых сидов комбинируются с шаблонами.
	expandedSeeds = 3
	// appliedTemplates задаёт, сколько первых шаблонов применяются к каждому сиду.
	appliedTemplates = 10
	slot             = "{}"
)

// VariationTemplates хранит упорядоченную библиотеку шаблонов с одной подстановкой.
var VariationTemplates = []string{
	"best {} for",
	"recommend {}",
	"looking for {}",
	"any good {}",
	"how to find {}",
	"help with {}",
	"{} recommendations",
	"which {} should I use",
	"need {} advice",
	"{} that works",
	"free {}",
	"automated {}",
	"{} tool",
	"{} platform",
	"{} software",
	"{} app",
	"{} service",
}

// IntentPhrases добавляются в набор как есть.
var IntentPhrases = []string{
	"how do I analyze charts",
	"need trading setup help",
	"automate my trading",
	"find good entry points",
	"technical analysis help",
	"improve my trading strategy",
	"backtest my strategy",
	"trading tool recommendations",
	"alternative to TradingView",
	"AI stock picker",
}

// Expand строит ограниченный набор поисковых фраз из сидов.
func Expand(seeds []string) domain.KeywordSet {
	expanded := make([]string, 0, len(seeds)+expandedSeeds*appliedTemplates+len(IntentPhrases))
	expanded = append(expanded, seeds...)

	templates := VariationTemplates[:min(appliedTemplates, len(VariationTemplates))]
	for _, seed := range seeds[:min(expandedSeeds, len(seeds))] {
		if strings.TrimSpace(seed) == "" {
			continue
		}
		for _, tmpl := range templates {
			if !strings.Contains(tmpl, slot) {
				continue
			}
			expanded = append(expanded, strings.Replace(tmpl, slot, seed, 1))
		}
	}

	expanded = append(expanded, IntentPhrases...)
	return domain.NewKeywordSet(expanded)
}
