package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrMissingKey возвращается, если в файле настроек нет обязательного ключа.
var ErrMissingKey = errors.New("missing required key")

// RequiredKeys перечисляет обязательные ключи файла настроек.
var RequiredKeys = []string{"keywords_core", "date_range_days", "relevance_threshold"}

// Settings описывает параметры поиска из config.json.
type Settings struct {
	KeywordsCore       []string `json:"keywords_core"`
	AllowlistSubs      []string `json:"allowlist_subs"`
	BlocklistSubs      []string `json:"blocklist_subs"`
	DateRangeDays      int      `json:"date_range_days"`
	RelevanceThreshold int      `json:"relevance_threshold"`
}

// LoadSettings читает и проверяет файл настроек.
func LoadSettings(path string) (Settings, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("read settings: %w", err)
	}
	return ParseSettings(raw)
}

// ParseSettings разбирает JSON настроек и проверяет обязательные ключи.
func ParseSettings(raw []byte) (Settings, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	for _, key := range RequiredKeys {
		if _, ok := keys[key]; !ok {
			return Settings{}, fmt.Errorf("%w: %s", ErrMissingKey, key)
		}
	}
	var s Settings
	if err := json.Unmarshal(raw, &s); err != nil {
		return Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	if s.DateRangeDays < 0 {
		return Settings{}, fmt.Errorf("date_range_days must be non-negative, got %d", s.DateRangeDays)
	}
	return s, nil
}
