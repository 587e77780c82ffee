package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestParseSettings(t *testing.T) {
	raw := []byte(`{
		"keywords_core": ["AI trading tool", "trading bot"],
		"blocklist_subs": ["wallstreetbets"],
		"date_range_days": 7,
		"relevance_threshold": 60
	}`)
	s, err := ParseSettings(raw)
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if !reflect.DeepEqual(s.KeywordsCore, []string{"AI trading tool", "trading bot"}) {
		t.Fatalf("unexpected keywords: %v", s.KeywordsCore)
	}
	if s.DateRangeDays != 7 || s.RelevanceThreshold != 60 || len(s.AllowlistSubs) != 0 {
		t.Fatalf("unexpected settings: %+v", s)
	}
}

func TestParseSettingsMissingKey(t *testing.T) {
	for _, key := range RequiredKeys {
		fields := map[string]string{
			"keywords_core":       `"keywords_core": ["bot"]`,
			"date_range_days":     `"date_range_days": 7`,
			"relevance_threshold": `"relevance_threshold": 60`,
		}
		delete(fields, key)
		var parts []string
		for _, f := range fields {
			parts = append(parts, f)
		}
		_, err := ParseSettings([]byte("{" + strings.Join(parts, ",") + "}"))
		if !errors.Is(err, ErrMissingKey) {
			t.Fatalf("ожидали ErrMissingKey для %s, получили %v", key, err)
		}
		if !strings.Contains(err.Error(), key) {
			t.Fatalf("ошибка должна содержать имя ключа %s: %v", key, err)
		}
	}
}

func TestParseSettingsInvalidJSON(t *testing.T) {
	if _, err := ParseSettings([]byte("{not json")); err == nil {
		t.Fatal("ожидали ошибку разбора")
	}
}

func TestLoadSettingsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{"keywords_core": [], "date_range_days": 3, "relevance_threshold": 50}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if s.DateRangeDays != 3 {
		t.Fatalf("unexpected days: %d", s.DateRangeDays)
	}
	if _, err := LoadSettings(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("ожидали ошибку для отсутствующего файла")
	}
}

func TestParseDefaults(t *testing.T) {
	t.Setenv("REDDIT_RPS", "2.5")
	cfg, err := Parse()
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if cfg.Limits.ResultLimit != 25 || cfg.Limits.SearchKeywords != 10 || cfg.OutputPath != "leads.json" {
		t.Fatalf("unexpected defaults: %+v", cfg.Limits)
	}
	if cfg.Reddit.RPS != 2.5 {
		t.Fatalf("ожидали RPS 2.5, получили %v", cfg.Reddit.RPS)
	}
}
