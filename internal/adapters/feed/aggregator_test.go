package feed

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"morning-digest/internal/domain"
)

type stubFetcher struct {
	entries map[string][]domain.FeedEntry
	fail    map[string]bool
	calls   []string
}

func (f *stubFetcher) Fetch(_ context.Context, url string) ([]domain.FeedEntry, error) {
	f.calls = append(f.calls, url)
	if f.fail[url] {
		return nil, errors.New("сеть недоступна")
	}
	return f.entries[url], nil
}

func entriesOf(titles ...string) []domain.FeedEntry {
	out := make([]domain.FeedEntry, 0, len(titles))
	for _, title := range titles {
		out = append(out, domain.FeedEntry{Title: title, Link: "https://example.com/" + title})
	}
	return out
}

func newTestAggregator(fetcher domain.FeedFetcher) *Aggregator {
	return NewAggregator(DefaultCatalog(), fetcher, 3, zerolog.Nop())
}

func TestCollectCapsPerSource(t *testing.T) {
	c := DefaultCatalog()
	sportsURL, _ := c.ResolveGenre("sports")
	fetcher := &stubFetcher{entries: map[string][]domain.FeedEntry{
		sportsURL: entriesOf("a", "b", "c", "d", "e"),
	}}
	ag := newTestAggregator(fetcher)

	got := ag.Collect(context.Background(), []string{"sports"}, nil)
	if len(got) != 3 {
		t.Fatalf("ожидали не более 3 статей на источник, получили %d", len(got))
	}
	for _, article := range got {
		if article.Genre != "sports" {
			t.Fatalf("ожидали жанр sports, получили %q", article.Genre)
		}
	}
}

func TestCollectIsolatesSourceFailure(t *testing.T) {
	c := DefaultCatalog()
	sportsURL, _ := c.ResolveGenre("sports")
	financeURL, _ := c.ResolveGenre("finance")
	fetcher := &stubFetcher{
		entries: map[string][]domain.FeedEntry{financeURL: entriesOf("x", "y")},
		fail:    map[string]bool{sportsURL: true},
	}
	ag := newTestAggregator(fetcher)

	got := ag.Collect(context.Background(), []string{"sports", "finance"}, nil)
	if len(got) != 2 {
		t.Fatalf("сбой одного источника не должен сокращать остальные: получили %d статей", len(got))
	}
	for _, article := range got {
		if article.Genre != "finance" {
			t.Fatalf("от спортивного источника ничего не ожидали: %q", article.Genre)
		}
	}
}

func TestCollectCustomTopics(t *testing.T) {
	url := TopicURL("SpaceX")
	fetcher := &stubFetcher{entries: map[string][]domain.FeedEntry{url: entriesOf("launch")}}
	ag := newTestAggregator(fetcher)

	got := ag.Collect(context.Background(), []string{}, []string{"SpaceX", "   "})
	if len(got) != 1 {
		t.Fatalf("ожидали 1 статью по теме, получили %d", len(got))
	}
	if got[0].Genre != domain.CustomGenrePrefix+"SpaceX" {
		t.Fatalf("тема должна помечаться префиксом custom:, получили %q", got[0].Genre)
	}
	if len(fetcher.calls) != 1 {
		t.Fatalf("пустая тема не должна запрашиваться, вызовов: %d", len(fetcher.calls))
	}
}

func TestCollectNilMeansAllGenres(t *testing.T) {
	fetcher := &stubFetcher{}
	ag := newTestAggregator(fetcher)

	ag.Collect(context.Background(), nil, nil)
	if len(fetcher.calls) != 12 {
		t.Fatalf("nil означает все жанры каталога: ожидали 12 запросов, получили %d", len(fetcher.calls))
	}

	fetcher.calls = nil
	ag.Collect(context.Background(), []string{}, nil)
	if len(fetcher.calls) != 0 {
		t.Fatalf("пустой срез означает ни одного жанра, получили %d запросов", len(fetcher.calls))
	}
}

func TestCollectSkipsUnknownGenres(t *testing.T) {
	fetcher := &stubFetcher{}
	ag := newTestAggregator(fetcher)
	got := ag.Collect(context.Background(), []string{"nonexistent"}, nil)
	if len(got) != 0 || len(fetcher.calls) != 0 {
		t.Fatalf("неизвестный жанр пропускается без запроса")
	}
}

func TestCollectDefaults(t *testing.T) {
	published := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	c := DefaultCatalog()
	url, _ := c.ResolveGenre("science")
	fetcher := &stubFetcher{entries: map[string][]domain.FeedEntry{url: {
		{Title: "with meta", Link: "https://example.com/1", Published: &published, Source: "Nature"},
		{Title: "bare", Link: "https://example.com/2"},
	}}}
	ag := newTestAggregator(fetcher)

	got := ag.Collect(context.Background(), []string{"science"}, nil)
	if len(got) != 2 {
		t.Fatalf("ожидали 2 статьи, получили %d", len(got))
	}
	if !got[0].Published.Equal(published) || got[0].Source != "Nature" {
		t.Fatalf("метаданные записи должны сохраняться: %+v", got[0])
	}
	if got[1].Source != "Unknown" {
		t.Fatalf("источник по умолчанию Unknown, получили %q", got[1].Source)
	}
	if got[1].Published.IsZero() {
		t.Fatalf("дата публикации по умолчанию — текущее время")
	}
}

func TestCollectOrderGenresThenTopics(t *testing.T) {
	c := DefaultCatalog()
	sportsURL, _ := c.ResolveGenre("sports")
	topicURL := TopicURL("Ramen")
	fetcher := &stubFetcher{entries: map[string][]domain.FeedEntry{
		sportsURL: entriesOf("s1", "s2"),
		topicURL:  entriesOf("r1"),
	}}
	ag := newTestAggregator(fetcher)

	got := ag.Collect(context.Background(), []string{"sports"}, []string{"Ramen"})
	var genres []string
	for _, article := range got {
		genres = append(genres, article.Genre)
	}
	want := "sports,sports,custom:Ramen"
	if strings.Join(genres, ",") != want {
		t.Fatalf("ожидали порядок %q, получили %q", want, strings.Join(genres, ","))
	}
}
