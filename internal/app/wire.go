package app

import (
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"morning-digest/internal/adapters/feed"
	"morning-digest/internal/adapters/mailer"
	"morning-digest/internal/adapters/processor"
	"morning-digest/internal/adapters/settingsrepo"
	"morning-digest/internal/domain"
	"morning-digest/internal/infra/cache"
	"morning-digest/internal/infra/config"
	"morning-digest/internal/infra/db"
	"morning-digest/internal/infra/openai"
	"morning-digest/internal/usecase/digest"
	"morning-digest/internal/usecase/settings"
)

// Services собирает зависимости, общие для всех точек входа.
type Services struct {
	Settings *settings.Service
	Digest   *digest.Service
	cleanup  func()
}

// Close освобождает соединения.
func (s *Services) Close() {
	if s.cleanup != nil {
		s.cleanup()
	}
}

// Build собирает конвейер рассылки по конфигурации.
func Build(cfg config.AppConfig, logger zerolog.Logger) *Services {
	cleanup := func() {}

	var store domain.SettingsStore
	if cfg.PGDSN != "" {
		pool, err := db.Connect(cfg.PGDSN)
		if err != nil {
			// Недоступное хранилище — пустой уровень настроек, не фатальная ошибка.
			logger.Warn().Err(err).Msg("app: нет подключения к БД, уровень хранилища пропущен")
		} else {
			store = settingsrepo.NewPostgres(pool)
			cleanup = pool.Close
		}
	}

	var feedCache domain.Cache
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		feedCache = cache.NewRedis(client)
	}

	settingsService := settings.NewService(
		settingsrepo.NewFileStore(cfg.Digest.SettingsFile),
		store,
		cfg.Digest.FallbackRecipient,
		logger,
	)

	fetcher := feed.NewHTTPFetcher(cfg.Digest.FeedTimeout, feedCache, cfg.FeedCacheTTL, logger)
	aggregator := feed.NewAggregator(feed.DefaultCatalog(), fetcher, cfg.Digest.MaxPerFeed, logger)

	var chat processor.ChatClient
	if cfg.LLM.APIKey != "" {
		chat = openai.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Timeout)
	}
	proc := processor.NewLLM(chat, cfg.LLM.Model, cfg.Digest.SummaryLang, cfg.LLM.Timeout, logger)

	var mail domain.Mailer
	switch cfg.Mail.Provider {
	case "file":
		mail = mailer.NewFile(cfg.Mail.OutDir, logger)
	default:
		mail = mailer.NewSMTP(cfg.Mail.SMTPHost, cfg.Mail.SMTPPort, cfg.Mail.Sender, cfg.Mail.Password, logger)
	}

	return &Services{
		Settings: settingsService,
		Digest:   digest.NewService(settingsService, aggregator, proc, mail, logger),
		cleanup:  cleanup,
	}
}
