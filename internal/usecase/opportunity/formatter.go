package opportunity

import (
	"fmt"
	"html"
	"strings"

	"reddit-lead-finder/internal/domain"
)

// maxReportItems ограничивает число возможностей в отчёте для чата.
const maxReportItems = 10

// FormatReport формирует HTML-отчёт о запуске для отправки в Telegram.
func FormatReport(run domain.Run) string {
	var sections []string

	header := fmt.Sprintf("🔍 <b>Найдено возможностей: %d</b>", len(run.Opportunities))
	if !run.StartedAt.IsZero() {
		header += "\n" + escapeHTML(run.StartedAt.UTC().Format("2006-01-02 15:04 MST"))
	}
	sections = append(sections, header)

	if items := buildItemsSection(run.Opportunities); items != "" {
		sections = append(sections, items)
	}

	if len(run.Opportunities) > maxReportItems {
		sections = append(sections, fmt.Sprintf("…и ещё %d в выгрузке", len(run.Opportunities)-maxReportItems))
	}

	return strings.TrimSpace(strings.Join(sections, "\n\n"))
}

func buildItemsSection(items []domain.Opportunity) string {
	if len(items) == 0 {
		return ""
	}
	var builder strings.Builder
	for idx, item := range items {
		if idx >= maxReportItems {
			break
		}
		title := escapeHTML(strings.TrimSpace(item.Title))
		if title == "" {
			title = fmt.Sprintf("Пост %d", idx+1)
		}
		if url := strings.TrimSpace(item.URL); url != "" {
			title = fmt.Sprintf("<a href=\"%s\">%s</a>", html.EscapeString(url), title)
		}
		builder.WriteString(fmt.Sprintf("%d. %s\n", idx+1, title))
		builder.WriteString(fmt.Sprintf("r/%s · %d ⬆ · <b>%d</b> · %s\n",
			escapeHTML(strings.TrimPrefix(item.Subreddit, "r/")),
			item.Upvotes,
			item.Score.TotalScore,
			escapeHTML(string(item.Score.Intent)),
		))
		if flags := item.RiskFlags.Sorted(); len(flags) > 0 {
			names := make([]string, 0, len(flags))
			for _, f := range flags {
				names = append(names, string(f))
			}
			builder.WriteString("⚠️ " + escapeHTML(strings.Join(names, ", ")) + "\n")
		}
		if len(item.ReplyDrafts) > 0 {
			builder.WriteString("💬 " + escapeHTML(item.ReplyDrafts[0].Text) + "\n")
		}
		builder.WriteString("\n")
	}
	return strings.TrimSpace(builder.String())
}

func escapeHTML(s string) string {
	return html.EscapeString(s)
}
