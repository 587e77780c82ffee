package telegram

import "strings"

// messageLimit задаёт лимит длины сообщения Bot API в символах.
const messageLimit = 4096

// SplitMessage разбивает отчёт на части в пределах лимита Telegram.
func SplitMessage(text string) []string {
	return splitWithLimit(text, messageLimit)
}

// splitWithLimit сначала режет по пустым строкам между позициями отчёта,
// чтобы HTML-теги одной позиции не разрывались, затем по строкам, затем по символам.
func splitWithLimit(text string, limit int) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	if runeLen(trimmed) <= limit {
		return []string{trimmed}
	}

	var (
		parts   []string
		current strings.Builder
	)
	flush := func() {
		if chunk := strings.TrimSpace(current.String()); chunk != "" {
			parts = append(parts, chunk)
		}
		current.Reset()
	}
	appendPiece := func(piece, sep string) {
		if current.Len() > 0 && runeLen(current.String())+runeLen(sep)+runeLen(piece) > limit {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString(sep)
		}
		current.WriteString(piece)
	}

	for _, block := range strings.Split(trimmed, "\n\n") {
		if runeLen(block) <= limit {
			appendPiece(block, "\n\n")
			continue
		}
		flush()
		for _, line := range strings.Split(block, "\n") {
			if runeLen(line) <= limit {
				appendPiece(line, "\n")
				continue
			}
			flush()
			runes := []rune(line)
			for start := 0; start < len(runes); start += limit {
				end := min(start+limit, len(runes))
				appendPiece(string(runes[start:end]), "")
				flush()
			}
		}
		flush()
	}
	flush()
	return parts
}

func runeLen(s string) int {
	return len([]rune(s))
}
