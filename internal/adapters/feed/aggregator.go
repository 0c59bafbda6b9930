package feed

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"morning-digest/internal/domain"
	"morning-digest/internal/infra/metrics"
)

const defaultPerFeed = 3

// Aggregator собирает статьи из лент каталога и пользовательских тем.
type Aggregator struct {
	catalog *Catalog
	fetcher domain.FeedFetcher
	perFeed int
	log     zerolog.Logger
	now     func() time.Time
}

var _ domain.Aggregator = (*Aggregator)(nil)

// NewAggregator создаёт сборщик новостей.
func NewAggregator(catalog *Catalog, fetcher domain.FeedFetcher, perFeed int, logger zerolog.Logger) *Aggregator {
	if perFeed <= 0 {
		perFeed = defaultPerFeed
	}
	return &Aggregator{
		catalog: catalog,
		fetcher: fetcher,
		perFeed: perFeed,
		log:     logger,
		now:     time.Now,
	}
}

// Collect собирает статьи. genres == nil означает все жанры каталога,
// пустой срез — ни одного. Сбой одного источника логируется и даёт
// ноль статей, не прерывая остальные источники.
func (a *Aggregator) Collect(ctx context.Context, genres []string, topics []string) []domain.Article {
	keys := genres
	if keys == nil {
		keys = a.catalog.Keys()
	}

	a.log.Info().Strs("genres", keys).Strs("topics", topics).Msg("aggregator: начинаем сбор")

	var articles []domain.Article
	for _, key := range keys {
		feedURL, ok := a.catalog.ResolveGenre(key)
		if !ok {
			continue
		}
		articles = a.appendFromFeed(ctx, articles, feedURL, key)
	}

	for _, topic := range topics {
		trimmed := strings.TrimSpace(topic)
		if trimmed == "" {
			continue
		}
		label := domain.CustomGenrePrefix + trimmed
		articles = a.appendFromFeed(ctx, articles, TopicURL(trimmed), label)
	}

	a.log.Info().Int("count", len(articles)).Msg("aggregator: сбор завершён")
	return articles
}

func (a *Aggregator) appendFromFeed(ctx context.Context, articles []domain.Article, feedURL, label string) []domain.Article {
	entries, err := a.fetcher.Fetch(ctx, feedURL)
	if err != nil {
		a.log.Error().Err(err).Str("source", label).Msg("aggregator: источник недоступен")
		metrics.IncFeedFetchError(label)
		return articles
	}
	if len(entries) > a.perFeed {
		entries = entries[:a.perFeed]
	}
	for _, entry := range entries {
		article := domain.Article{
			Title:     entry.Title,
			Link:      entry.Link,
			Published: a.now(),
			Source:    "Unknown",
			Genre:     label,
		}
		if entry.Published != nil {
			article.Published = *entry.Published
		}
		if entry.Source != "" {
			article.Source = entry.Source
		}
		articles = append(articles, article)
		metrics.ArticlesCollected.Inc()
	}
	return articles
}
