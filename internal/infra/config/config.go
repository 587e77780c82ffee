package config

import (
	"log"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// AppConfig описывает конфигурацию сервисов.
type AppConfig struct {
	AppEnv     string `envconfig:"APP_ENV" default:"dev"`
	ConfigPath string `envconfig:"CONFIG_PATH" default:"config.json"`
	OutputPath string `envconfig:"OUTPUT_PATH" default:"leads.json"`

	Reddit struct {
		ClientID     string  `envconfig:"REDDIT_CLIENT_ID"`
		ClientSecret string  `envconfig:"REDDIT_CLIENT_SECRET"`
		UserAgent    string  `envconfig:"REDDIT_USER_AGENT" default:"TradingWizard Lead Finder v1.0"`
		AuthURL      string  `envconfig:"REDDIT_AUTH_URL" default:"https://www.reddit.com/api/v1/access_token"`
		APIURL       string  `envconfig:"REDDIT_API_URL" default:"https://oauth.reddit.com"`
		RPS          float64 `envconfig:"REDDIT_RPS" default:"1"`
	} `envconfig:""`

	Limits struct {
		MinUpvotes     int `envconfig:"MIN_UPVOTES" default:"3"`
		ResultLimit    int `envconfig:"RESULT_LIMIT" default:"25"`
		SearchKeywords int `envconfig:"SEARCH_KEYWORDS" default:"10"`
		SearchLimit    int `envconfig:"SEARCH_LIMIT" default:"10"`
		ScoringWorkers int `envconfig:"SCORING_WORKERS" default:"1"`
	} `envconfig:""`

	PGDSN string `envconfig:"PG_DSN"`

	RedisAddr string        `envconfig:"REDIS_ADDR"`
	SeenTTL   time.Duration `envconfig:"SEEN_TTL" default:"168h"`

	Queues struct {
		Opportunities string `envconfig:"OPPORTUNITY_QUEUE_KEY" default:"lead_opportunities"`
	} `envconfig:""`

	Telegram struct {
		Token  string `envconfig:"TG_BOT_TOKEN"`
		ChatID int64  `envconfig:"TG_CHAT_ID"`
	} `envconfig:""`

	MetricsAddr string        `envconfig:"METRICS_ADDR"`
	HTTPAddr    string        `envconfig:"HTTP_ADDR" default:":8080"`
	RunInterval time.Duration `envconfig:"RUN_INTERVAL" default:"6h"`
	RunSchedule string        `envconfig:"RUN_SCHEDULE"`
}

// Load загружает конфиг из окружения.
func Load() AppConfig {
	cfg, err := Parse()
	if err != nil {
		log.Fatalf("не удалось загрузить конфиг: %v", err)
	}
	return cfg
}

// Parse читает конфиг из окружения без завершения процесса.
func Parse() (AppConfig, error) {
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}
