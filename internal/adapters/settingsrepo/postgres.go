package settingsrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"morning-digest/internal/domain"
)

// PostgresStore хранит документы настроек пользователей в таблице user_settings:
//
//	id text primary key,
//	preferences jsonb, email_recipients jsonb, custom_topics jsonb,
//	updated_at timestamptz.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ domain.SettingsStore = (*PostgresStore)(nil)

// NewPostgres создаёт адаптер хранилища настроек.
func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) connCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, 5*time.Second)
}

// ListUsers возвращает документы всех пользователей.
func (s *PostgresStore) ListUsers(ctx context.Context) ([]domain.UserSettings, error) {
	queryCtx, cancel := s.connCtx(ctx)
	defer cancel()

	rows, err := s.pool.Query(queryCtx,
		`SELECT id, COALESCE(preferences, '{}'), COALESCE(email_recipients, '[]'), COALESCE(custom_topics, '[]')
		 FROM user_settings ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("выборка настроек: %w", err)
	}
	defer rows.Close()

	var users []domain.UserSettings
	for rows.Next() {
		var (
			id                    string
			prefs, emails, topics []byte
		)
		if err := rows.Scan(&id, &prefs, &emails, &topics); err != nil {
			return nil, fmt.Errorf("чтение строки настроек: %w", err)
		}
		user, err := decodeUser(id, prefs, emails, topics)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("обход настроек: %w", err)
	}
	return users, nil
}

// UpsertUser сохраняет документ пользователя по идентификатору.
func (s *PostgresStore) UpsertUser(ctx context.Context, settings domain.UserSettings) error {
	prefs, err := json.Marshal(settings.Prefs.Map())
	if err != nil {
		return fmt.Errorf("сериализация предпочтений: %w", err)
	}
	emails, err := json.Marshal(settings.Emails)
	if err != nil {
		return fmt.Errorf("сериализация получателей: %w", err)
	}
	topics, err := json.Marshal(settings.CustomTopics)
	if err != nil {
		return fmt.Errorf("сериализация тем: %w", err)
	}

	execCtx, cancel := s.connCtx(ctx)
	defer cancel()

	_, err = s.pool.Exec(execCtx,
		`INSERT INTO user_settings (id, preferences, email_recipients, custom_topics, updated_at)
		 VALUES ($1, $2, $3, $4, now())
		 ON CONFLICT (id) DO UPDATE SET
		   preferences = EXCLUDED.preferences,
		   email_recipients = EXCLUDED.email_recipients,
		   custom_topics = EXCLUDED.custom_topics,
		   updated_at = now()`,
		settings.ID, prefs, emails, topics)
	if err != nil {
		return fmt.Errorf("сохранение настроек: %w", err)
	}
	return nil
}

func decodeUser(id string, prefs, emails, topics []byte) (domain.UserSettings, error) {
	var prefMap map[string]bool
	if err := json.Unmarshal(prefs, &prefMap); err != nil {
		return domain.UserSettings{}, fmt.Errorf("разбор предпочтений %s: %w", id, err)
	}
	var emailList []string
	if err := json.Unmarshal(emails, &emailList); err != nil {
		return domain.UserSettings{}, fmt.Errorf("разбор получателей %s: %w", id, err)
	}
	var topicList []string
	if err := json.Unmarshal(topics, &topicList); err != nil {
		return domain.UserSettings{}, fmt.Errorf("разбор тем %s: %w", id, err)
	}
	return domain.UserSettings{
		ID:           id,
		Emails:       emailList,
		Prefs:        domain.NewGenrePrefs(prefMap),
		CustomTopics: topicList,
	}, nil
}
