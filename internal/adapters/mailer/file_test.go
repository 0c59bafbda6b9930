package mailer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestFileMailerWritesEmail(t *testing.T) {
	dir := t.TempDir()
	m := NewFile(dir, zerolog.Nop())

	if err := m.Send(context.Background(), "a@x.com", "Morning 5 Daily Digest", "<h1>digest</h1>"); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "email_to_a@x.com.html"))
	if err != nil {
		t.Fatalf("файл письма не создан: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "<!-- To: a@x.com -->") {
		t.Fatalf("ожидали комментарий с получателем: %q", content)
	}
	if !strings.Contains(content, "<h1>digest</h1>") {
		t.Fatalf("ожидали тело письма: %q", content)
	}
}

func TestSMTPWithoutCredentials(t *testing.T) {
	m := NewSMTP("smtp.example.com", 587, "", "", zerolog.Nop())
	if err := m.Send(context.Background(), "a@x.com", "s", "b"); err == nil {
		t.Fatalf("без учётных данных ожидали ошибку")
	}
}

func TestBuildMessageHeaders(t *testing.T) {
	msg := string(buildMessage("from@x.com", "to@x.com", "Morning 5 Daily Digest", "<p>hi</p>"))
	for _, want := range []string{
		"From: from@x.com\r\n",
		"To: to@x.com\r\n",
		"Content-Type: text/html; charset=\"utf-8\"\r\n",
		"\r\n\r\n<p>hi</p>",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("ожидали %q в сообщении %q", want, msg)
		}
	}
}
