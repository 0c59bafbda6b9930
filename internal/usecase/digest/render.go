package digest

import (
	"fmt"
	"html"
	"strings"
	"time"

	"morning-digest/internal/domain"
)

// RenderHTML собирает тело письма: шапка и карточка на каждую статью.
// Заголовки, источники и тезисы приходят из внешних лент и ответов модели,
// поэтому экранируются перед вставкой в HTML.
func RenderHTML(articles []domain.ProcessedArticle) string {
	var b strings.Builder
	b.WriteString("<h1>Morning 5 Daily Digest</h1>")
	b.WriteString("<p style='color: #7f8c8d;'>" + time.Now().Format("2006-01-02") + "</p>")
	b.WriteString("<hr>")

	for _, article := range articles {
		summary := make([]string, 0, len(article.Summary))
		for _, line := range article.Summary {
			summary = append(summary, html.EscapeString(line))
		}
		fmt.Fprintf(&b, `
<div style='margin-bottom: 20px; padding: 10px; background-color: #f9f9f9; border-left: 4px solid #3498db;'>
    <h3 style='margin-top: 0;'><a href="%s">%s</a></h3>
    <p style='color: #555; font-size: 14px;'>Score: <b>%d/10</b> | Source: %s</p>
    <div style='background-color: white; padding: 10px; border-radius: 5px;'>
        %s
    </div>
</div>
`,
			html.EscapeString(article.Link),
			html.EscapeString(article.Title),
			article.Score,
			html.EscapeString(article.Source),
			strings.Join(summary, "<br>"),
		)
	}
	return b.String()
}
