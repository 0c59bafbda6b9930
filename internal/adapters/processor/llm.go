package processor

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"morning-digest/internal/domain"
	"morning-digest/internal/infra/metrics"
	openai "morning-digest/internal/infra/openai"
)

// ChatClient выполняет запрос к генеративной модели.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// LLM строит тезисы и оценку надёжности статей через Chat Completions.
// Сводка строится только по заголовку и источнику: полный текст статьи
// сервис не скачивает, это осознанный потолок качества.
type LLM struct {
	client  ChatClient
	model   string
	lang    string
	timeout time.Duration
	log     zerolog.Logger
}

var _ domain.Processor = (*LLM)(nil)

// NewLLM создаёт обработчик. client == nil означает отсутствие ключа API:
// обработка в этом случае пропускается целиком.
func NewLLM(client ChatClient, model, lang string, timeout time.Duration, logger zerolog.Logger) *LLM {
	if model == "" {
		model = "gpt-4.1-mini"
	}
	if lang == "" {
		lang = "Japanese"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &LLM{client: client, model: model, lang: lang, timeout: timeout, log: logger}
}

// Process обрабатывает статьи по порядку. Статья с ошибкой вызова модели
// пропускается; искажённый ответ модели даёт значения по умолчанию.
func (p *LLM) Process(ctx context.Context, articles []domain.Article) []domain.ProcessedArticle {
	if p.client == nil {
		p.log.Error().Msg("processor: ключ API не задан, обработка пропущена")
		return nil
	}

	processed := make([]domain.ProcessedArticle, 0, len(articles))
	for _, article := range articles {
		result, err := p.summarize(ctx, article)
		if err != nil {
			p.log.Error().Err(err).Str("title", article.Title).Msg("processor: статья пропущена")
			metrics.SummarizeErrors.Inc()
			continue
		}
		processed = append(processed, result)
	}
	return processed
}

func (p *LLM) summarize(ctx context.Context, article domain.Article) (domain.ProcessedArticle, error) {
	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model:       p.model,
		Temperature: 0.2,
		MaxTokens:   300,
		Messages: []openai.ChatMessage{
			{Role: openai.RoleSystem, Content: "You are a professional news analyst. Keep to the facts in the given headline and do not invent details."},
			{Role: openai.RoleUser, Content: p.buildPrompt(article)},
		},
	}

	resp, err := p.client.CreateChatCompletion(callCtx, req)
	if err != nil {
		return domain.ProcessedArticle{}, fmt.Errorf("вызов модели: %w", err)
	}
	if len(resp.Choices) == 0 {
		return domain.ProcessedArticle{}, fmt.Errorf("вызов модели: пустой ответ")
	}

	text := resp.Choices[0].Message.Content

	// Два независимых извлечения: сбой одного не мешает другому.
	summary, ok := parseBullets(text)
	if !ok {
		summary = []string{domain.NoSummaryText}
	}
	score, ok := parseScore(text)
	if !ok {
		score = domain.DefaultScore
	}

	return domain.ProcessedArticle{Article: article, Summary: summary, Score: score}, nil
}

func (p *LLM) buildPrompt(article domain.Article) string {
	return fmt.Sprintf(`Summarize the following news article into exactly 3 bullet points (%s).
Also assign a "Reliability Score" from 1 to 10 based on the source and content clarity.

Title: %s
Source: %s

Output format:
Summary:
- Point 1
- Point 2
- Point 3
Score: X/10`, p.lang, article.Title, article.Source)
}

// parseBullets собирает первые три строки-тезиса (дефис или «•»).
func parseBullets(text string) ([]string, bool) {
	var bullets []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "-") || strings.HasPrefix(trimmed, "•") {
			bullets = append(bullets, trimmed)
			if len(bullets) == 3 {
				break
			}
		}
	}
	return bullets, len(bullets) > 0
}

// parseScore ищет строки с токеном «Score:» и берёт число до первого «/».
// Сканируются все строки, побеждает последнее разобранное совпадение.
func parseScore(text string) (int, bool) {
	score := 0
	found := false
	for _, line := range strings.Split(text, "\n") {
		_, after, ok := strings.Cut(line, "Score:")
		if !ok {
			continue
		}
		numeric, _, _ := strings.Cut(after, "/")
		value, err := strconv.Atoi(strings.TrimSpace(numeric))
		if err != nil {
			continue
		}
		score = clampScore(value)
		found = true
	}
	return score, found
}

func clampScore(value int) int {
	if value < 1 {
		return 1
	}
	if value > 10 {
		return 10
	}
	return value
}
