package domain

import "testing"

func TestNewKeywordSetDedupAndCap(t *testing.T) {
	var terms []string
	for i := 0; i < 80; i++ {
		terms = append(terms, string(rune('a'+i%26))+string(rune('a'+i/26)))
	}
	terms = append([]string{"", "dup", "dup"}, terms...)

	set := NewKeywordSet(terms)
	if set.Len() != MaxKeywords {
		t.Fatalf("ожидали %d ключевых слов, получили %d", MaxKeywords, set.Len())
	}
	if set.Terms()[0] != "dup" {
		t.Fatalf("ожидали, что первым останется первое непустое слово")
	}
	seen := map[string]bool{}
	for _, term := range set.Terms() {
		if term == "" {
			t.Fatal("пустое ключевое слово в наборе")
		}
		if seen[term] {
			t.Fatalf("дубликат %q", term)
		}
		seen[term] = true
	}
}

func TestKeywordSetTermsIsCopy(t *testing.T) {
	set := NewKeywordSet([]string{"a", "b"})
	terms := set.Terms()
	terms[0] = "z"
	if set.Terms()[0] != "a" {
		t.Fatal("набор ключевых слов должен быть неизменяемым")
	}
	if got := set.Head(1); len(got) != 1 || got[0] != "a" {
		t.Fatalf("unexpected head: %v", got)
	}
}

func TestRiskFlagSet(t *testing.T) {
	set := NewRiskFlagSet(RiskOffTopic, RiskSelfPromoRestricted)
	if !set.Has(RiskOffTopic) || set.Has(RiskLowQualityThread) {
		t.Fatal("неверное содержимое множества")
	}
	if set.Intersects(NewRiskFlagSet(RiskVendorBanned, RiskLowQualityThread)) {
		t.Fatal("не ожидали пересечения")
	}
	if !set.Intersects(NewRiskFlagSet(RiskOffTopic)) {
		t.Fatal("ожидали пересечение")
	}
	sorted := set.Sorted()
	if len(sorted) != 2 || sorted[0] != RiskOffTopic || sorted[1] != RiskSelfPromoRestricted {
		t.Fatalf("unexpected order: %v", sorted)
	}
}

func TestWindowForDays(t *testing.T) {
	cases := map[int]TimeWindow{0: WindowDay, 1: WindowDay, 3: WindowWeek, 7: WindowWeek, 30: WindowMonth}
	for days, want := range cases {
		if got := WindowForDays(days); got != want {
			t.Fatalf("WindowForDays(%d) = %s, want %s", days, got, want)
		}
	}
}

func TestAuthorOrDeleted(t *testing.T) {
	if got := (CandidatePost{}).AuthorOrDeleted(); got != DeletedAuthor {
		t.Fatalf("ожидали %s, получили %s", DeletedAuthor, got)
	}
	if got := (CandidatePost{Author: "bob"}).AuthorOrDeleted(); got != "bob" {
		t.Fatalf("ожидали bob, получили %s", got)
	}
}
