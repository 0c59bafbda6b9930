package config

import (
	"log"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// AppConfig описывает конфигурацию сервисов.
type AppConfig struct {
	AppEnv      string `envconfig:"APP_ENV" default:"dev"`
	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":8080"`
	MetricsAddr string `envconfig:"METRICS_ADDR" default:":9090"`

	PGDSN string `envconfig:"PG_DSN"`

	RedisAddr    string        `envconfig:"REDIS_ADDR"`
	FeedCacheTTL time.Duration `envconfig:"FEED_CACHE_TTL" default:"10m"`

	LLM struct {
		APIKey  string        `envconfig:"LLM_API_KEY"`
		BaseURL string        `envconfig:"LLM_BASE_URL"`
		Model   string        `envconfig:"LLM_MODEL" default:"gpt-4.1-mini"`
		Timeout time.Duration `envconfig:"LLM_TIMEOUT" default:"30s"`
	} `envconfig:""`

	Mail struct {
		Provider string `envconfig:"MAIL_PROVIDER" default:"smtp"`
		SMTPHost string `envconfig:"SMTP_HOST" default:"smtp.gmail.com"`
		SMTPPort int    `envconfig:"SMTP_PORT" default:"587"`
		Sender   string `envconfig:"MAIL_SENDER"`
		Password string `envconfig:"MAIL_PASSWORD"`
		OutDir   string `envconfig:"MAIL_OUT_DIR" default:"."`
	} `envconfig:""`

	Digest struct {
		SettingsFile      string        `envconfig:"SETTINGS_FILE" default:"user_settings.json"`
		FallbackRecipient string        `envconfig:"FALLBACK_RECIPIENT"`
		MaxPerFeed        int           `envconfig:"MAX_PER_FEED" default:"3"`
		SummaryLang       string        `envconfig:"SUMMARY_LANG" default:"Japanese"`
		DailyAt           string        `envconfig:"DAILY_AT" default:"04:30"`
		FeedTimeout       time.Duration `envconfig:"FEED_TIMEOUT" default:"15s"`
	} `envconfig:""`
}

// Load загружает конфиг из окружения.
func Load() AppConfig {
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("не удалось загрузить конфиг: %v", err)
	}
	return cfg
}
