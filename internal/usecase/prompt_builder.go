package usecase

import (
	"fmt"
	"strings"
	"time"

	"newschat/internal/domain"
)

// PromptBuilder renders the generation prompt from a query and its
// retrieved articles.
type PromptBuilder interface {
	Build(query string, results []domain.SearchResult) string
}

// XMLPromptBuilder creates structured prompts that separate context,
// instructions and query with XML-style tags.
type XMLPromptBuilder struct {
	additionalInstructions []string
}

// NewXMLPromptBuilder creates a prompt builder with optional extra
// instructions appended.
func NewXMLPromptBuilder(additionalInstructions ...string) PromptBuilder {
	return &XMLPromptBuilder{additionalInstructions: additionalInstructions}
}

// Build renders the full prompt. With zero results the context block is
// omitted and the model is instructed to say no relevant articles were
// found rather than invent facts.
func (b *XMLPromptBuilder) Build(query string, results []domain.SearchResult) string {
	var sb strings.Builder

	sb.WriteString("<instructions>\n")
	instructions := []string{
		"You are a news assistant that answers questions based ONLY on the provided <context> articles.",
		"Answer the <query> using strictly the facts from the <context>.",
		"Mention which article a fact came from by its number, e.g. [1].",
		"If the context contains no relevant articles, say that no relevant articles were found; do not invent facts.",
	}
	for _, inst := range append(instructions, b.additionalInstructions...) {
		sb.WriteString("  <line>")
		sb.WriteString(escape(inst))
		sb.WriteString("</line>\n")
	}
	sb.WriteString("</instructions>\n\n")

	if len(results) > 0 {
		sb.WriteString("<context>\n")
		for i, res := range results {
			article := res.Article
			sb.WriteString(fmt.Sprintf("  <article number=\"%d\">\n", i+1))
			sb.WriteString("    <title>")
			sb.WriteString(escape(article.Title))
			sb.WriteString("</title>\n")
			sb.WriteString("    <source>")
			sb.WriteString(escape(article.Source))
			sb.WriteString("</source>\n")
			if !article.PublishedAt.IsZero() {
				sb.WriteString("    <published_at>")
				sb.WriteString(article.PublishedAt.Format(time.RFC3339))
				sb.WriteString("</published_at>\n")
			}
			sb.WriteString("    <text>")
			sb.WriteString(escape(articleText(article)))
			sb.WriteString("</text>\n")
			sb.WriteString("  </article>\n")
		}
		sb.WriteString("</context>\n\n")
	}

	sb.WriteString("<query>\n")
	sb.WriteString(escape(query))
	sb.WriteString("\n</query>\n")

	return sb.String()
}

// maxArticleRunes bounds each article's contribution so a handful of long
// articles cannot blow past the generator's context window.
const maxArticleRunes = 2000

func articleText(article domain.Article) string {
	text := article.Content
	if strings.TrimSpace(text) == "" {
		text = article.Summary
	}
	runes := []rune(text)
	if len(runes) > maxArticleRunes {
		return string(runes[:maxArticleRunes])
	}
	return text
}

func escape(value string) string {
	s := strings.TrimSpace(value)
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"\"", "&quot;",
		"'", "&#39;",
	)
	return replacer.Replace(s)
}
