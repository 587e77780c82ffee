package repo

import (
	"testing"
	"time"

	"reddit-lead-finder/internal/domain"
)

func TestRowPayloadRoundTripKeepsFlags(t *testing.T) {
	opp := domain.Opportunity{
		RunID:     "run",
		URL:       "https://reddit.com/r/stocks/1",
		Subreddit: "stocks",
		CreatedAt: time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC),
		Score:     domain.ScoreBreakdown{Intent: domain.IntentHowTo, TotalScore: 64},
		RiskFlags: domain.NewRiskFlagSet(domain.RiskSelfPromoRestricted),
	}
	row, err := toRow(opp)
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if row.Score != 64 || row.Intent != string(domain.IntentHowTo) {
		t.Fatalf("unexpected row: %+v", row)
	}
	back, err := fromPayload(row.Payload)
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if !back.RiskFlags.Has(domain.RiskSelfPromoRestricted) || back.URL != opp.URL {
		t.Fatalf("unexpected opportunity: %+v", back)
	}
}

func TestFromPayloadInitialisesFlags(t *testing.T) {
	opp, err := fromPayload([]byte(`{"URL":"https://reddit.com/1"}`))
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if opp.RiskFlags == nil {
		t.Fatal("ожидали пустой набор флагов")
	}
}
