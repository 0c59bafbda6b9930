package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mmcdole/gofeed/rss"
	"github.com/rs/zerolog"

	"morning-digest/internal/domain"
	"morning-digest/internal/infra/metrics"
)

// HTTPFetcher скачивает RSS-ленты и разбирает их через gofeed.
// Разобранные записи могут кэшироваться в Redis на время TTL,
// чтобы не дёргать один и тот же источник для каждого пользователя.
type HTTPFetcher struct {
	client *http.Client
	cache  domain.Cache
	ttl    time.Duration
	log    zerolog.Logger
}

var _ domain.FeedFetcher = (*HTTPFetcher)(nil)

// NewHTTPFetcher создаёт загрузчик лент. cache может быть nil.
func NewHTTPFetcher(timeout time.Duration, cacheStore domain.Cache, ttl time.Duration, logger zerolog.Logger) *HTTPFetcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPFetcher{
		client: &http.Client{Timeout: timeout},
		cache:  cacheStore,
		ttl:    ttl,
		log:    logger,
	}
}

// Fetch возвращает записи ленты по адресу.
func (f *HTTPFetcher) Fetch(ctx context.Context, feedURL string) ([]domain.FeedEntry, error) {
	if entries, ok := f.fromCache(feedURL); ok {
		return entries, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("построение запроса: %w", err)
	}
	req.Header.Set("User-Agent", "morning-digest/1.0")

	start := time.Now()
	resp, err := f.client.Do(req)
	metrics.ObserveNetworkRequest("feed", "fetch", hostOf(feedURL), start, err)
	if err != nil {
		return nil, fmt.Errorf("скачивание ленты: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("скачивание ленты: статус %d", resp.StatusCode)
	}

	parsed, err := (&rss.Parser{}).Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("разбор ленты: %w", err)
	}

	entries := make([]domain.FeedEntry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		entry := domain.FeedEntry{
			Title:     item.Title,
			Link:      item.Link,
			Published: item.PubDateParsed,
		}
		if item.Source != nil {
			entry.Source = item.Source.Title
		}
		entries = append(entries, entry)
	}

	f.toCache(feedURL, entries)
	return entries, nil
}

func (f *HTTPFetcher) fromCache(feedURL string) ([]domain.FeedEntry, bool) {
	if f.cache == nil {
		return nil, false
	}
	data, err := f.cache.Get(cacheKey(feedURL))
	if err != nil {
		return nil, false
	}
	var entries []domain.FeedEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, false
	}
	return entries, true
}

func (f *HTTPFetcher) toCache(feedURL string, entries []domain.FeedEntry) {
	if f.cache == nil || f.ttl <= 0 {
		return
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return
	}
	if err := f.cache.Set(cacheKey(feedURL), data, f.ttl); err != nil {
		f.log.Debug().Err(err).Msg("feed: не удалось записать кэш")
	}
}

func cacheKey(feedURL string) string {
	return "feed:" + feedURL
}

func hostOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "unknown"
	}
	return parsed.Host
}
