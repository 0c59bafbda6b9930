package mailer

import (
	"context"
	"fmt"
	"mime"
	"net/smtp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"morning-digest/internal/domain"
	"morning-digest/internal/infra/metrics"
)

// SMTP отправляет письма через SMTP с STARTTLS.
type SMTP struct {
	host     string
	port     int
	sender   string
	password string
	log      zerolog.Logger
}

var _ domain.Mailer = (*SMTP)(nil)

// NewSMTP создаёт почтовый транспорт.
func NewSMTP(host string, port int, sender, password string, logger zerolog.Logger) *SMTP {
	if port <= 0 {
		port = 587
	}
	return &SMTP{host: host, port: port, sender: sender, password: password, log: logger}
}

// Send отправляет одно письмо одному получателю.
// net/smtp не принимает контекст, таймаут обеспечивает сам сервер.
func (m *SMTP) Send(_ context.Context, to, subject, htmlBody string) error {
	if m.sender == "" || m.password == "" {
		return fmt.Errorf("smtp: не заданы учётные данные отправителя")
	}

	msg := buildMessage(m.sender, to, subject, htmlBody)
	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	auth := smtp.PlainAuth("", m.sender, m.password, m.host)

	start := time.Now()
	err := smtp.SendMail(addr, auth, m.sender, []string{to}, msg)
	metrics.ObserveNetworkRequest("smtp", "send", m.host, start, err)
	if err != nil {
		metrics.EmailSendErrors.Inc()
		return fmt.Errorf("smtp: отправка на %s: %w", to, err)
	}
	metrics.EmailsSent.Inc()
	m.log.Info().Str("to", to).Msg("mailer: письмо отправлено")
	return nil
}

func buildMessage(from, to, subject, htmlBody string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return []byte(b.String())
}
