package digest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"morning-digest/internal/domain"
	"morning-digest/internal/infra/metrics"
)

// MailSubject — тема письма с дайджестом.
const MailSubject = "Morning 5 Daily Digest"

// Service строит и рассылает дайджесты всем пользователям запуска.
// Ошибка одного пользователя логируется и не прерывает остальных.
type Service struct {
	resolver   domain.SettingsResolver
	aggregator domain.Aggregator
	processor  domain.Processor
	mailer     domain.Mailer
	log        zerolog.Logger
}

// NewService создаёт оркестратор рассылки.
func NewService(resolver domain.SettingsResolver, aggregator domain.Aggregator, processor domain.Processor, mailer domain.Mailer, logger zerolog.Logger) *Service {
	return &Service{
		resolver:   resolver,
		aggregator: aggregator,
		processor:  processor,
		mailer:     mailer,
		log:        logger,
	}
}

// Run выполняет один полный запуск рассылки.
func (s *Service) Run(ctx context.Context) domain.RunResult {
	runLog := s.log.With().Str("run_id", uuid.NewString()).Logger()
	runLog.Info().Msg("digest: запуск рассылки")

	users, err := s.resolver.ResolveForRun(ctx)
	if err != nil {
		metrics.IncRun(false)
		return domain.RunResult{OK: false, Message: fmt.Sprintf("разрешение настроек: %v", err)}
	}
	if len(users) == 0 {
		runLog.Info().Msg("digest: пользователей нет, рассылать нечего")
		metrics.IncRun(true)
		return domain.RunResult{OK: true, Message: "нет пользователей и резервного получателя — рассылать нечего"}
	}

	for _, user := range users {
		s.processUser(ctx, runLog, user)
	}

	runLog.Info().Int("users", len(users)).Msg("digest: рассылка завершена")
	metrics.IncRun(true)
	return domain.RunResult{OK: true, Message: "рассылка завершена"}
}

func (s *Service) processUser(ctx context.Context, runLog zerolog.Logger, user domain.UserSettings) {
	userLog := runLog.With().Str("user", user.ID).Logger()
	start := time.Now()
	defer func() {
		metrics.DigestBuildSeconds.Observe(time.Since(start).Seconds())
	}()

	if len(user.Emails) == 0 {
		userLog.Info().Msg("digest: нет получателей, пользователь пропущен")
		return
	}
	if !user.Prefs.IsUnset() && user.Prefs.AllDisabled() {
		userLog.Info().Msg("digest: все жанры отключены, пользователь пропущен")
		return
	}

	// nil означает «все жанры каталога», явный список — только выбранные.
	var genres []string
	if !user.Prefs.IsUnset() {
		genres = user.Prefs.Active()
	}

	articles := s.aggregator.Collect(ctx, genres, user.CustomTopics)
	if len(articles) == 0 {
		userLog.Info().Msg("digest: статей не найдено")
		return
	}

	processed := s.processor.Process(ctx, articles)
	if len(processed) == 0 {
		userLog.Info().Msg("digest: нет обработанных статей")
		return
	}

	body := RenderHTML(processed)

	sent := 0
	for _, recipient := range user.Emails {
		if err := s.mailer.Send(ctx, recipient, MailSubject, body); err != nil {
			userLog.Error().Err(err).Str("to", recipient).Msg("digest: письмо не отправлено")
			continue
		}
		sent++
	}
	userLog.Info().Int("sent", sent).Int("articles", len(processed)).Msg("digest: дайджест доставлен")
}
