package domain

import (
	"sort"
	"time"
)

// FeedSpec описывает источник ленты жанра: либо фиксированный URL,
// либо поисковый запрос с языком локали.
type FeedSpec struct {
	URL   string
	Query string
	Lang  string
}

// Article представляет статью-кандидата из ленты.
type Article struct {
	Title     string
	Link      string
	Published time.Time
	Source    string
	Genre     string
}

// CustomGenrePrefix помечает статьи из пользовательских тем.
const CustomGenrePrefix = "custom:"

// NoSummaryText подставляется, если из ответа модели не удалось извлечь тезисы.
const NoSummaryText = "No summary available."

// DefaultScore используется, когда оценка надёжности не распознана.
const DefaultScore = 5

// ProcessedArticle содержит статью вместе с тезисами и оценкой надёжности.
// Инвариант: Summary непустой (хотя бы NoSummaryText), Score в диапазоне 1-10.
type ProcessedArticle struct {
	Article
	Summary []string
	Score   int
}

// GenrePrefs хранит предпочтения жанров в явном виде:
// либо «не задано» (фильтра нет), либо явная карта жанр → включён.
type GenrePrefs struct {
	explicit bool
	active   map[string]bool
}

// NewGenrePrefs создаёт явные предпочтения. Пустая или nil карта означает «не задано».
func NewGenrePrefs(values map[string]bool) GenrePrefs {
	if len(values) == 0 {
		return GenrePrefs{}
	}
	copied := make(map[string]bool, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return GenrePrefs{explicit: true, active: copied}
}

// IsUnset сообщает, что предпочтения не заданы и фильтр жанров не применяется.
func (p GenrePrefs) IsUnset() bool {
	return !p.explicit
}

// AllDisabled сообщает, что пользователь явно отключил все жанры.
func (p GenrePrefs) AllDisabled() bool {
	if !p.explicit {
		return false
	}
	for _, v := range p.active {
		if v {
			return false
		}
	}
	return true
}

// Active возвращает включённые жанры в детерминированном порядке.
func (p GenrePrefs) Active() []string {
	if !p.explicit {
		return nil
	}
	keys := make([]string, 0, len(p.active))
	for k, v := range p.active {
		if v {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Map возвращает копию карты предпочтений для сериализации.
func (p GenrePrefs) Map() map[string]bool {
	if !p.explicit {
		return nil
	}
	copied := make(map[string]bool, len(p.active))
	for k, v := range p.active {
		copied[k] = v
	}
	return copied
}

// UserSettings описывает настройки рассылки одного пользователя.
type UserSettings struct {
	ID           string
	Emails       []string
	Prefs        GenrePrefs
	CustomTopics []string
}

// RunResult описывает итог запуска рассылки.
type RunResult struct {
	OK      bool
	Message string
}
