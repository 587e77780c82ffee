package risk

import (
	"testing"

	"reddit-lead-finder/internal/domain"
)

func TestAssess(t *testing.T) {
	c := New()
	tests := []struct {
		name      string
		subreddit string
		text      string
		want      []domain.RiskFlag
	}{
		{name: "clean", subreddit: "algotrading", text: "which indicator works", want: nil},
		{name: "spam anywhere", subreddit: "algotrading", text: "Guaranteed returns every week", want: []domain.RiskFlag{domain.RiskLowQualityThread}},
		{name: "spam in restricted", subreddit: "stocks", text: "guaranteed returns", want: []domain.RiskFlag{domain.RiskLowQualityThread, domain.RiskSelfPromoRestricted}},
		{name: "restricted regardless of text", subreddit: "r/wallstreetbets", text: "", want: []domain.RiskFlag{domain.RiskSelfPromoRestricted}},
		{name: "politics", subreddit: "trading", text: "Markets after the Election", want: []domain.RiskFlag{domain.RiskOffTopic}},
		{name: "all flags", subreddit: "Investing", text: "get rich before the election", want: []domain.RiskFlag{domain.RiskLowQualityThread, domain.RiskOffTopic, domain.RiskSelfPromoRestricted}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Assess(tt.subreddit, tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("ожидали %v, получили %v", tt.want, got.Sorted())
			}
			for _, flag := range tt.want {
				if !got.Has(flag) {
					t.Fatalf("ожидали флаг %s, получили %v", flag, got.Sorted())
				}
			}
		})
	}
}

func TestVendorBannedNeverEmitted(t *testing.T) {
	c := New()
	got := c.Assess("wallstreetbets", "vendor banned giveaway trump")
	if got.Has(domain.RiskVendorBanned) {
		t.Fatal("флаг vendor-banned зарезервирован и не должен выставляться")
	}
}
