package settings

import (
	"context"

	"github.com/rs/zerolog"

	"morning-digest/internal/domain"
)

// DefaultEnvUserID присваивается пользователю из резервного получателя окружения.
const DefaultEnvUserID = "default_env_user"

// WebUserID — идентификатор документа, в который пишет веб-редактор.
const WebUserID = "default_user_web"

// OverrideStore — локальный файл настроек, перекрывающий остальные уровни.
type OverrideStore interface {
	Load() (domain.UserSettings, bool, error)
	Save(domain.UserSettings) error
}

// Service разрешает настройки пользователей по трём уровням:
// локальный файл → удалённое хранилище → резервный получатель окружения.
// Уровни не смешиваются, побеждает первый непустой.
type Service struct {
	file     OverrideStore
	store    domain.SettingsStore
	fallback string
	log      zerolog.Logger
}

var _ domain.SettingsResolver = (*Service)(nil)

// NewService создаёт резолвер. file и store могут быть nil,
// тогда соответствующий уровень пропускается.
func NewService(file OverrideStore, store domain.SettingsStore, fallback string, logger zerolog.Logger) *Service {
	return &Service{file: file, store: store, fallback: fallback, log: logger}
}

// ResolveForRun возвращает настройки всех адресуемых пользователей запуска.
// Пустой результат без ошибки означает «рассылать нечего».
func (s *Service) ResolveForRun(ctx context.Context) ([]domain.UserSettings, error) {
	if s.file != nil {
		local, found, err := s.file.Load()
		if err != nil {
			s.log.Error().Err(err).Msg("settings: не удалось прочитать локальный файл")
		} else if found {
			s.log.Info().Msg("settings: использованы настройки из локального файла")
			return []domain.UserSettings{local}, nil
		}
	}

	if s.store != nil {
		users, err := s.store.ListUsers(ctx)
		if err != nil {
			// Недоступное хранилище приравнивается к пустому уровню.
			s.log.Error().Err(err).Msg("settings: хранилище недоступно")
		}
		if len(users) > 0 {
			return users, nil
		}
	}

	if s.fallback == "" {
		return nil, nil
	}
	s.log.Info().Msg("settings: пользователей нет, используется резервный получатель")
	return []domain.UserSettings{{
		ID:     DefaultEnvUserID,
		Emails: []string{s.fallback},
	}}, nil
}

// Current возвращает настройки для веб-редактора: хранилище,
// затем локальный файл, затем пустой документ с резервным получателем.
func (s *Service) Current(ctx context.Context) domain.UserSettings {
	if s.store != nil {
		users, err := s.store.ListUsers(ctx)
		if err != nil {
			s.log.Error().Err(err).Msg("settings: хранилище недоступно")
		}
		if len(users) > 0 {
			return users[0]
		}
	}
	if s.file != nil {
		local, found, err := s.file.Load()
		if err == nil && found {
			return local
		}
	}
	settings := domain.UserSettings{ID: WebUserID}
	if s.fallback != "" {
		settings.Emails = []string{s.fallback}
	}
	return settings
}

// Save сохраняет настройки из веб-редактора: локальный файл — гарантированно,
// удалённое хранилище — по возможности.
func (s *Service) Save(ctx context.Context, settings domain.UserSettings) error {
	settings.ID = WebUserID
	if s.file != nil {
		if err := s.file.Save(settings); err != nil {
			return err
		}
	}
	if s.store != nil {
		if err := s.store.UpsertUser(ctx, settings); err != nil {
			s.log.Warn().Err(err).Msg("settings: не удалось синхронизировать хранилище")
		}
	}
	return nil
}
