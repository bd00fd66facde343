package feed

import (
	"strings"

	"codeberg.org/readeck/go-readability/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// minReadableLength guards against readability extracting only a title or
// byline while the real body sits elsewhere in the document.
const minReadableLength = 200

// ExtractArticleText converts raw article or summary HTML into plain text.
// Non-content elements are stripped before readability runs; when the
// readable portion is too short the whole document is tag-stripped instead.
func ExtractArticleText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	// Short-circuit if the payload is already plain text.
	if !strings.Contains(trimmed, "<") {
		return normalizeWhitespace(trimmed)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(trimmed))
	if err == nil {
		doc.Find("head, script, style, noscript, title, aside, nav, header, footer").Remove()
		doc.Find("iframe, embed, object, video, audio, canvas").Remove()
		doc.Find("[class*='social'], [class*='share'], [class*='comment'], [id*='comment']").Remove()

		cleanedHTML, _ := doc.Html()
		if cleanedHTML != "" {
			trimmed = cleanedHTML
		}
	}

	article, err := readability.FromReader(strings.NewReader(trimmed), nil)
	if err == nil {
		var textBuf strings.Builder
		if err := article.RenderText(&textBuf); err == nil {
			text := strings.TrimSpace(textBuf.String())
			if len(text) >= minReadableLength {
				return normalizeWhitespace(text)
			}
		}
	}

	return StripTags(trimmed)
}

// StripTags removes all HTML tags and returns normalized plain text.
func StripTags(raw string) string {
	p := bluemonday.StrictPolicy()
	return normalizeWhitespace(p.Sanitize(raw))
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
