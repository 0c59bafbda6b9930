package mailer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"morning-digest/internal/domain"
)

// FileMailer пишет письма в HTML-файлы вместо отправки.
// Используется для локальных запусков без SMTP-доступа.
type FileMailer struct {
	dir string
	log zerolog.Logger
}

var _ domain.Mailer = (*FileMailer)(nil)

// NewFile создаёт файловый транспорт.
func NewFile(dir string, logger zerolog.Logger) *FileMailer {
	if dir == "" {
		dir = "."
	}
	return &FileMailer{dir: dir, log: logger}
}

// Send сохраняет письмо в файл email_to_<адрес>.html.
func (m *FileMailer) Send(_ context.Context, to, subject, htmlBody string) error {
	name := "email_to_" + sanitizeAddr(to) + ".html"
	path := filepath.Join(m.dir, name)

	var b strings.Builder
	fmt.Fprintf(&b, "<!-- To: %s -->\n", to)
	fmt.Fprintf(&b, "<!-- Subject: %s -->\n", subject)
	b.WriteString(htmlBody)

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("запись письма в файл: %w", err)
	}
	m.log.Info().Str("to", to).Str("path", path).Msg("mailer: письмо сохранено в файл")
	return nil
}

func sanitizeAddr(addr string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", ":", "_")
	return replacer.Replace(addr)
}
