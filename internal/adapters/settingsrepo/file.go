package settingsrepo

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"morning-digest/internal/domain"
)

// LocalUserID присваивается синтетическому пользователю из локального файла.
const LocalUserID = "local_web_user"

// FileStore читает и пишет локальный файл настроек.
// Файл правится веб-редактором и читается запуском рассылки;
// запись атомарная (временный файл + rename), но гонка между
// сохранением и параллельным запуском остаётся возможной.
type FileStore struct {
	path string
}

// NewFileStore создаёт хранилище по пути к файлу.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

type fileSettings struct {
	Emails       []string        `json:"emails"`
	Preferences  map[string]bool `json:"preferences"`
	CustomTopics []string        `json:"custom_topics"`
}

// Load возвращает настройки из файла. Отсутствие или пустое содержимое
// файла ошибкой не считается: found будет false.
func (s *FileStore) Load() (domain.UserSettings, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.UserSettings{}, false, nil
		}
		return domain.UserSettings{}, false, fmt.Errorf("чтение файла настроек: %w", err)
	}

	var parsed fileSettings
	if err := json.Unmarshal(data, &parsed); err != nil {
		return domain.UserSettings{}, false, fmt.Errorf("разбор файла настроек: %w", err)
	}
	if len(parsed.Emails) == 0 && len(parsed.Preferences) == 0 && len(parsed.CustomTopics) == 0 {
		return domain.UserSettings{}, false, nil
	}

	return domain.UserSettings{
		ID:           LocalUserID,
		Emails:       parsed.Emails,
		Prefs:        domain.NewGenrePrefs(parsed.Preferences),
		CustomTopics: parsed.CustomTopics,
	}, true, nil
}

// Save записывает настройки атомарно.
func (s *FileStore) Save(settings domain.UserSettings) error {
	payload := fileSettings{
		Emails:       settings.Emails,
		Preferences:  settings.Prefs.Map(),
		CustomTopics: settings.CustomTopics,
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("сериализация настроек: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".settings-*")
	if err != nil {
		return fmt.Errorf("создание временного файла: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("запись настроек: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("закрытие временного файла: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("замена файла настроек: %w", err)
	}
	return nil
}
