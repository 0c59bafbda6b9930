package digest

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"morning-digest/internal/domain"
)

type stubResolver struct {
	users []domain.UserSettings
	err   error
}

func (s *stubResolver) ResolveForRun(context.Context) ([]domain.UserSettings, error) {
	return s.users, s.err
}

type stubAggregator struct {
	articles []domain.Article
	calls    [][2][]string
}

func (s *stubAggregator) Collect(_ context.Context, genres []string, topics []string) []domain.Article {
	s.calls = append(s.calls, [2][]string{genres, topics})
	return s.articles
}

type stubProcessor struct {
	out []domain.ProcessedArticle
}

func (s *stubProcessor) Process(_ context.Context, articles []domain.Article) []domain.ProcessedArticle {
	if s.out != nil {
		return s.out
	}
	processed := make([]domain.ProcessedArticle, 0, len(articles))
	for _, article := range articles {
		processed = append(processed, domain.ProcessedArticle{
			Article: article,
			Summary: []string{"- тезис"},
			Score:   domain.DefaultScore,
		})
	}
	return processed
}

type stubMailer struct {
	sent    []string
	failFor map[string]bool
}

func (s *stubMailer) Send(_ context.Context, to, _, _ string) error {
	if s.failFor[to] {
		return errors.New("smtp unavailable")
	}
	s.sent = append(s.sent, to)
	return nil
}

func articlesOf(genres ...string) []domain.Article {
	out := make([]domain.Article, 0, len(genres))
	for _, genre := range genres {
		out = append(out, domain.Article{Title: "t", Link: "https://example.com", Source: "S", Genre: genre})
	}
	return out
}

func newTestService(resolver *stubResolver, ag *stubAggregator, mail *stubMailer) *Service {
	return NewService(resolver, ag, &stubProcessor{}, mail, zerolog.Nop())
}

func TestRunNothingToDo(t *testing.T) {
	svc := newTestService(&stubResolver{}, &stubAggregator{}, &stubMailer{})
	res := svc.Run(context.Background())
	if !res.OK {
		t.Fatalf("отсутствие пользователей — успех, а не ошибка: %+v", res)
	}
	if !strings.Contains(res.Message, "рассылать нечего") {
		t.Fatalf("ожидали сообщение «рассылать нечего», получили %q", res.Message)
	}
}

func TestRunResolverErrorFailsRun(t *testing.T) {
	svc := newTestService(&stubResolver{err: errors.New("boom")}, &stubAggregator{}, &stubMailer{})
	res := svc.Run(context.Background())
	if res.OK {
		t.Fatalf("ошибку резолвера нужно отражать в итоге запуска")
	}
}

func TestRunRequestsActiveGenresAndTopics(t *testing.T) {
	resolver := &stubResolver{users: []domain.UserSettings{{
		ID:           "local_web_user",
		Emails:       []string{"a@x.com"},
		Prefs:        domain.NewGenrePrefs(map[string]bool{"sports": true, "finance": false}),
		CustomTopics: []string{"SpaceX"},
	}}}
	ag := &stubAggregator{articles: articlesOf("sports", "custom:SpaceX")}
	mail := &stubMailer{}
	svc := newTestService(resolver, ag, mail)

	res := svc.Run(context.Background())
	if !res.OK {
		t.Fatalf("не ожидали ошибку: %+v", res)
	}
	if len(ag.calls) != 1 {
		t.Fatalf("ожидали один сбор, получили %d", len(ag.calls))
	}
	if !reflect.DeepEqual(ag.calls[0][0], []string{"sports"}) {
		t.Fatalf("запрашиваются только активные жанры: %v", ag.calls[0][0])
	}
	if !reflect.DeepEqual(ag.calls[0][1], []string{"SpaceX"}) {
		t.Fatalf("темы передаются как есть: %v", ag.calls[0][1])
	}
	if !reflect.DeepEqual(mail.sent, []string{"a@x.com"}) {
		t.Fatalf("ожидали одно письмо: %v", mail.sent)
	}
}

func TestRunUnsetPrefsMeanAllGenres(t *testing.T) {
	resolver := &stubResolver{users: []domain.UserSettings{{
		ID:     "default_env_user",
		Emails: []string{"a@x.com"},
	}}}
	ag := &stubAggregator{articles: articlesOf("sports")}
	svc := newTestService(resolver, ag, &stubMailer{})

	svc.Run(context.Background())
	if ag.calls[0][0] != nil {
		t.Fatalf("незаданные предпочтения означают nil (все жанры), получили %v", ag.calls[0][0])
	}
}

func TestRunSkipsOptedOutUser(t *testing.T) {
	resolver := &stubResolver{users: []domain.UserSettings{{
		ID:     "u1",
		Emails: []string{"a@x.com"},
		Prefs:  domain.NewGenrePrefs(map[string]bool{"sports": false, "finance": false}),
	}}}
	ag := &stubAggregator{}
	mail := &stubMailer{}
	svc := newTestService(resolver, ag, mail)

	res := svc.Run(context.Background())
	if !res.OK {
		t.Fatalf("пропуск пользователя не ошибка: %+v", res)
	}
	if len(ag.calls) != 0 {
		t.Fatalf("отказавшийся пользователь не запрашивает статьи")
	}
	if len(mail.sent) != 0 {
		t.Fatalf("отказавшемуся пользователю письма не отправляются")
	}
}

func TestRunSkipsUserWithoutRecipients(t *testing.T) {
	resolver := &stubResolver{users: []domain.UserSettings{{ID: "u1"}}}
	ag := &stubAggregator{}
	svc := newTestService(resolver, ag, &stubMailer{})

	res := svc.Run(context.Background())
	if !res.OK || len(ag.calls) != 0 {
		t.Fatalf("пользователь без получателей пропускается до сбора")
	}
}

func TestRunSkipsWhenNoArticles(t *testing.T) {
	resolver := &stubResolver{users: []domain.UserSettings{{ID: "u1", Emails: []string{"a@x.com"}}}}
	mail := &stubMailer{}
	svc := newTestService(resolver, &stubAggregator{}, mail)

	res := svc.Run(context.Background())
	if !res.OK {
		t.Fatalf("пустой сбор не ошибка: %+v", res)
	}
	if len(mail.sent) != 0 {
		t.Fatalf("без статей письмо не отправляется")
	}
}

func TestRunRecipientFailureIsIsolated(t *testing.T) {
	resolver := &stubResolver{users: []domain.UserSettings{{
		ID:     "u1",
		Emails: []string{"bad@x.com", "good@x.com"},
	}}}
	ag := &stubAggregator{articles: articlesOf("sports")}
	mail := &stubMailer{failFor: map[string]bool{"bad@x.com": true}}
	svc := newTestService(resolver, ag, mail)

	res := svc.Run(context.Background())
	if !res.OK {
		t.Fatalf("сбой одного получателя не валит запуск: %+v", res)
	}
	if !reflect.DeepEqual(mail.sent, []string{"good@x.com"}) {
		t.Fatalf("остальные получатели должны получить письмо: %v", mail.sent)
	}
}

func TestRunEmptyProcessingSkipsDelivery(t *testing.T) {
	resolver := &stubResolver{users: []domain.UserSettings{{ID: "u1", Emails: []string{"a@x.com"}}}}
	ag := &stubAggregator{articles: articlesOf("sports")}
	mail := &stubMailer{}
	svc := NewService(resolver, ag, &stubProcessor{out: []domain.ProcessedArticle{}}, mail, zerolog.Nop())

	res := svc.Run(context.Background())
	if !res.OK || len(mail.sent) != 0 {
		t.Fatalf("без обработанных статей доставка пропускается")
	}
}
