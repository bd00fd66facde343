package feed

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"newschat/internal/domain"

	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"
)

// summaryRuneLimit bounds the auto-derived summary for items whose feed
// carries no description.
const summaryRuneLimit = 240

// RSSCollector fetches the configured feeds and converts their items into
// articles ready for ingestion. Feeds that fail to parse are skipped; the
// collector errors only when every feed fails.
type RSSCollector struct {
	feedURLs []string
	parser   *gofeed.Parser
	pacer    *HostPacer
	logger   *slog.Logger
}

// NewRSSCollector creates a collector over the given feed URLs. A nil
// pacer disables per-host pacing.
func NewRSSCollector(feedURLs []string, client *http.Client, pacer *HostPacer, logger *slog.Logger) *RSSCollector {
	parser := gofeed.NewParser()
	if client != nil {
		parser.Client = client
	}
	return &RSSCollector{
		feedURLs: feedURLs,
		parser:   parser,
		pacer:    pacer,
		logger:   logger,
	}
}

func (c *RSSCollector) Collect(ctx context.Context) ([]domain.Article, error) {
	var articles []domain.Article
	failed := 0

	for _, feedURL := range c.feedURLs {
		if err := c.pacer.Wait(ctx, feedHost(feedURL)); err != nil {
			return articles, fmt.Errorf("feed pacing interrupted: %w", err)
		}

		parsed, err := c.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			c.logger.Warn("feed_parse_failed",
				slog.String("url", feedURL),
				slog.String("error", err.Error()))
			failed++
			continue
		}

		count := 0
		for _, item := range parsed.Items {
			article, ok := c.itemToArticle(item)
			if !ok {
				continue
			}
			articles = append(articles, article)
			count++
		}

		c.logger.Info("feed_collected",
			slog.String("url", feedURL),
			slog.String("title", parsed.Title),
			slog.Int("items", count))
	}

	if len(articles) == 0 && failed > 0 {
		return nil, fmt.Errorf("all %d feeds failed to parse", failed)
	}
	return articles, nil
}

func (c *RSSCollector) itemToArticle(item *gofeed.Item) (domain.Article, bool) {
	link := strings.TrimSpace(item.Link)
	if link == "" || strings.TrimSpace(item.Title) == "" {
		return domain.Article{}, false
	}

	content := ExtractArticleText(item.Content)
	if content == "" {
		content = ExtractArticleText(item.Description)
	}

	summary := StripTags(item.Description)
	if summary == "" {
		summary = truncateRunes(content, summaryRuneLimit)
	}

	publishedAt := time.Now().UTC()
	if item.PublishedParsed != nil {
		publishedAt = item.PublishedParsed.UTC()
	} else if item.UpdatedParsed != nil {
		publishedAt = item.UpdatedParsed.UTC()
	}

	return domain.Article{
		// The ID is derived from the link so re-collecting the same item
		// upserts instead of duplicating.
		ID:          uuid.NewSHA1(uuid.NameSpaceURL, []byte(link)).String(),
		Title:       strings.TrimSpace(item.Title),
		Content:     content,
		URL:         link,
		PublishedAt: publishedAt,
		Source:      sourceFromURL(link),
		Summary:     summary,
	}, true
}

// feedHost extracts the pacing key for a feed URL. Unparseable URLs map
// to the empty host, which the pacer treats as unpaced; they fail soon
// after in the parser anyway.
func feedHost(feedURL string) string {
	parsed, err := url.Parse(feedURL)
	if err != nil {
		return ""
	}
	return parsed.Host
}

func sourceFromURL(link string) string {
	parsed, err := url.Parse(link)
	if err != nil || parsed.Host == "" {
		return ""
	}
	return strings.TrimPrefix(parsed.Host, "www.")
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return strings.TrimSpace(string(runes[:limit])) + "..."
}

var _ domain.ArticleCollector = (*RSSCollector)(nil)
