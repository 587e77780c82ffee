package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"reddit-lead-finder/internal/domain"
)

// maxExportKeywords ограничивает число совпавших ключевых слов в выгрузке.
const maxExportKeywords = 5

// Lead описывает одну запись выгрузки leads.json.
type Lead struct {
	URL             string       `json:"url"`
	Type            string       `json:"type"`
	Subreddit       string       `json:"subreddit"`
	Title           string       `json:"title"`
	Author          string       `json:"author"`
	CreatedUTC      string       `json:"created_utc"`
	Upvotes         int          `json:"upvotes"`
	MatchedKeywords []string     `json:"matched_keywords"`
	IntentLabel     string       `json:"intent_label"`
	RelevanceScore  int          `json:"relevance_score"`
	FitReasons      []string     `json:"fit_reasons"`
	RiskFlags       []string     `json:"risk_flags"`
	ReplyDrafts     []DraftEntry `json:"reply_drafts"`
	ReplyNotes      string       `json:"reply_notes"`
	IncludeLink     bool         `json:"include_link"`
}

// DraftEntry описывает вариант ответа в выгрузке.
type DraftEntry struct {
	Variant   string `json:"variant"`
	ReplyText string `json:"reply_text"`
}

// ToLead переводит возможность в формат выгрузки.
func ToLead(opp domain.Opportunity) Lead {
	matched := opp.Score.MatchedKeywords
	if len(matched) > maxExportKeywords {
		matched = matched[:maxExportKeywords]
	}
	flags := make([]string, 0, len(opp.RiskFlags))
	for _, f := range opp.RiskFlags.Sorted() {
		flags = append(flags, string(f))
	}
	drafts := make([]DraftEntry, 0, len(opp.ReplyDrafts))
	for _, d := range opp.ReplyDrafts {
		drafts = append(drafts, DraftEntry{Variant: d.Variant, ReplyText: d.Text})
	}
	author := opp.Author
	if author == "" {
		author = domain.DeletedAuthor
	}
	kind := opp.Type
	if kind == "" {
		kind = "post"
	}
	return Lead{
		URL:             opp.URL,
		Type:            kind,
		Subreddit:       "r/" + strings.TrimPrefix(opp.Subreddit, "r/"),
		Title:           opp.Title,
		Author:          "u/" + strings.TrimPrefix(author, "u/"),
		CreatedUTC:      opp.CreatedAt.UTC().Format(time.RFC3339),
		Upvotes:         opp.Upvotes,
		MatchedKeywords: append([]string{}, matched...),
		IntentLabel:     string(opp.Score.Intent),
		RelevanceScore:  opp.Score.TotalScore,
		FitReasons:      append([]string{}, opp.FitReasons...),
		RiskFlags:       flags,
		ReplyDrafts:     drafts,
		ReplyNotes:      opp.ReplyNotes,
		IncludeLink:     opp.IncludeLink,
	}
}

// ToLeads переводит список возможностей, сохраняя порядок.
func ToLeads(opps []domain.Opportunity) []Lead {
	out := make([]Lead, 0, len(opps))
	for _, opp := range opps {
		out = append(out, ToLead(opp))
	}
	return out
}

// WriteFile записывает выгрузку атомарно: во временный файл и rename.
func WriteFile(path string, opps []domain.Opportunity) error {
	payload, err := json.MarshalIndent(ToLeads(opps), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal leads: %w", err)
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".leads-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write leads: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close leads: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename leads: %w", err)
	}
	return nil
}
