package domain

import (
	"context"
	"time"
)

// FeedEntry описывает запись ленты до преобразования в Article.
type FeedEntry struct {
	Title     string     `json:"title"`
	Link      string     `json:"link"`
	Published *time.Time `json:"published,omitempty"`
	Source    string     `json:"source,omitempty"`
}

// FeedFetcher скачивает и разбирает ленту по адресу.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) ([]FeedEntry, error)
}

// Aggregator собирает статьи по выбранным жанрам и пользовательским темам.
// genres == nil означает «все жанры каталога», пустой срез — «ни одного».
// Сбои отдельных источников изолируются и не прерывают сбор.
type Aggregator interface {
	Collect(ctx context.Context, genres []string, topics []string) []Article
}

// Processor строит тезисы и оценку надёжности для каждой статьи.
// Порядок сохраняется; статьи с ошибкой вызова модели пропускаются.
type Processor interface {
	Process(ctx context.Context, articles []Article) []ProcessedArticle
}

// SettingsStore — удалённое хранилище документов с настройками пользователей.
type SettingsStore interface {
	ListUsers(ctx context.Context) ([]UserSettings, error)
	UpsertUser(ctx context.Context, settings UserSettings) error
}

// SettingsResolver возвращает настройки всех адресуемых пользователей запуска.
type SettingsResolver interface {
	ResolveForRun(ctx context.Context) ([]UserSettings, error)
}

// Mailer отправляет одно письмо одному получателю.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// Cache используется для простых TTL-хранилищ.
type Cache interface {
	Set(key string, value []byte, ttl time.Duration) error
	Get(key string) ([]byte, error)
}
