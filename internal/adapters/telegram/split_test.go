package telegram

import (
	"strings"
	"testing"
)

func TestSplitMessageKeepsItemsTogether(t *testing.T) {
	item := "1. <a href=\"https://reddit.com/x\">" + strings.Repeat("a", 1500) + "</a>\nr/stocks · 4 ⬆"
	text := strings.Join([]string{item, item, item}, "\n\n")

	parts := SplitMessage(text)
	if len(parts) != 2 {
		t.Fatalf("ожидали 2 части, получили %d", len(parts))
	}
	for i, part := range parts {
		if n := runeLen(part); n > messageLimit {
			t.Fatalf("часть %d превышает лимит: %d", i, n)
		}
		if strings.Count(part, "<a ") != strings.Count(part, "</a>") {
			t.Fatalf("часть %d разорвала HTML-тег", i)
		}
	}
	if parts[1] != item {
		t.Fatalf("ожидали третью позицию целиком во второй части")
	}
}

func TestSplitMessageFallsBackToLines(t *testing.T) {
	block := strings.Repeat("a", 3000) + "\n" + strings.Repeat("b", 3000)
	parts := splitWithLimit(block, messageLimit)
	if len(parts) != 2 || parts[0] != strings.Repeat("a", 3000) || parts[1] != strings.Repeat("b", 3000) {
		t.Fatalf("unexpected parts: %d", len(parts))
	}
}

func TestSplitMessageHardCut(t *testing.T) {
	parts := splitWithLimit(strings.Repeat("я", 25), 10)
	if len(parts) != 3 || runeLen(parts[2]) != 5 {
		t.Fatalf("unexpected parts: %v", parts)
	}
}

func TestSplitMessageShortAndEmpty(t *testing.T) {
	if parts := SplitMessage("hello world"); len(parts) != 1 || parts[0] != "hello world" {
		t.Fatalf("unexpected parts: %v", parts)
	}
	if parts := SplitMessage("   \n  "); len(parts) != 0 {
		t.Fatalf("ожидали пустой результат, получили %d", len(parts))
	}
}
