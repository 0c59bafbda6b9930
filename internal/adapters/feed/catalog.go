package feed

import (
	"strings"

	"morning-digest/internal/domain"
)

const baseURL = "https://news.google.com/rss"

// Catalog хранит фиксированный набор жанров и их источники.
// Состав задаётся при старте процесса и не меняется.
type Catalog struct {
	order []string
	specs map[string]domain.FeedSpec
}

// DefaultCatalog возвращает каталог жанров сервиса.
func DefaultCatalog() *Catalog {
	c := &Catalog{specs: make(map[string]domain.FeedSpec)}
	add := func(key string, spec domain.FeedSpec) {
		c.order = append(c.order, key)
		c.specs[key] = spec
	}
	add("domestic_business", domain.FeedSpec{URL: baseURL + "/topics/CAAqJggKIiBDQkFTRWvfSkdnZ0YwWjI0Y1hDNW1iVzVvYkNnQVAB?hl=ja&gl=JP&ceid=JP:ja", Lang: "ja"})
	add("global_business", domain.FeedSpec{URL: baseURL + "/topics/CAAqJggKIiBDQkFTRWvfSkdnZ0YwWjI0Y1hDNW1iVzVvYkNnQVAB?hl=en-US&gl=US&ceid=US:en", Lang: "en"})
	add("finance", domain.FeedSpec{Query: "Finance+Market+Economy", Lang: "ja"})
	// У жанра есть и URL, и запрос: в этом случае побеждает поисковый запрос.
	add("global_tech", domain.FeedSpec{URL: baseURL + "/topics/CAAqJggKIiBDQkFTRWvfSkdnZ0YwWjI0Y1hDNW1iVzVvYkNnQVAB?hl=en-US&gl=US&ceid=US:en", Query: "Technology"})
	add("new_tech", domain.FeedSpec{Query: "Artificial+Intelligence+New+Technology", Lang: "en"})
	add("corporate_tracking", domain.FeedSpec{Query: "Japan+Tobacco+British+American+Tobacco", Lang: "ja"})
	add("entertainment", domain.FeedSpec{Query: "Music+Festival+Market", Lang: "ja"})
	add("sports", domain.FeedSpec{Query: "Shohei+Ohtani+Baseball", Lang: "ja"})
	add("science", domain.FeedSpec{Query: "Science+Discovery+Space", Lang: "en"})
	add("health", domain.FeedSpec{Query: "Health+Wellness+Medical+News", Lang: "ja"})
	add("politics", domain.FeedSpec{Query: "Japan+Politics+Government", Lang: "ja"})
	add("startups", domain.FeedSpec{Query: "Startup+Venture+Capital+Japan", Lang: "ja"})
	return c
}

// Keys возвращает жанры в порядке каталога.
func (c *Catalog) Keys() []string {
	keys := make([]string, len(c.order))
	copy(keys, c.order)
	return keys
}

// Spec возвращает описание источника жанра.
func (c *Catalog) Spec(key string) (domain.FeedSpec, bool) {
	spec, ok := c.specs[key]
	return spec, ok
}

// ResolveGenre возвращает адрес ленты жанра. Фиксированный URL без запроса
// возвращается как есть, иначе строится поисковый адрес.
func (c *Catalog) ResolveGenre(key string) (string, bool) {
	spec, ok := c.specs[key]
	if !ok {
		return "", false
	}
	if spec.URL != "" && spec.Query == "" {
		return spec.URL, true
	}
	query := spec.Query
	if query == "" {
		query = "News"
	}
	return SearchURL(query, spec.Lang), true
}

// SearchURL строит локализованный поисковый адрес.
// Переключение локали двухпозиционное: ja → JP/ja, всё остальное → US/en-US.
func SearchURL(query, lang string) string {
	hl, gl, ceid := "en-US", "US", "US:en"
	if lang == "ja" {
		hl, gl, ceid = "ja", "JP", "JP:ja"
	}
	return baseURL + "/search?q=" + query + "&hl=" + hl + "&gl=" + gl + "&ceid=" + ceid
}

// TopicURL строит поисковый адрес для пользовательской темы.
// Темы всегда используют японскую локаль: автоматического определения
// языка нет, это намеренное упрощение.
func TopicURL(topic string) string {
	query := strings.Join(strings.Fields(topic), "+")
	return SearchURL(query, "ja")
}
