package news

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"blogpilot/config"
	"blogpilot/logger"
)

// Headline is one feed item used as topic inspiration.
type Headline struct {
	Title       string
	Description string
	Source      string
	Link        string
	PublishedAt time.Time
}

// Client fetches category headlines from an RSS/Atom feed.
type Client struct {
	cfg    config.NewsConfig
	parser *gofeed.Parser
}

func New(cfg config.NewsConfig) *Client {
	fp := gofeed.NewParser()
	fp.Client = &http.Client{Timeout: 30 * time.Second}
	return &Client{cfg: cfg, parser: fp}
}

// FeedURL substitutes the category into the feed URL template, query-escaped
// so names with reserved or non-ASCII characters survive.
func FeedURL(template, category string) string {
	return fmt.Sprintf(template, url.QueryEscape(strings.ToLower(category)))
}

// FetchHeadlines pulls the latest headlines for a category. The feed URL
// template gets the category name substituted in.
func (c *Client) FetchHeadlines(ctx context.Context, category string) ([]Headline, error) {
	feed, err := c.parser.ParseURLWithContext(FeedURL(c.cfg.FeedURL, category), ctx)
	if err != nil {
		return nil, err
	}

	max := c.cfg.MaxHeadlines
	if max <= 0 {
		max = 10
	}
	var items []Headline
	for _, item := range feed.Items {
		if item.Title == "" {
			continue
		}
		var published time.Time
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			published = *item.UpdatedParsed
		}
		source := feed.Title
		if item.Author != nil && item.Author.Name != "" {
			source = item.Author.Name
		}
		items = append(items, Headline{
			Title:       item.Title,
			Description: item.Description,
			Source:      source,
			Link:        item.Link,
			PublishedAt: published,
		})
		if len(items) >= max {
			break
		}
	}
	logger.InfoWithFields("fetched headlines", logger.Fields{
		"category": category,
		"count":    len(items),
	})
	return items, nil
}

// FormatContext renders headlines as the prompt block the topic generator
// embeds. Returns "" when there is nothing to report.
func FormatContext(headlines []Headline) string {
	if len(headlines) == 0 {
		return ""
	}
	divider := strings.Repeat("=", 60)

	var b strings.Builder
	b.WriteString("TRENDING NEWS (latest headlines):\n")
	b.WriteString(divider)
	for i, h := range headlines {
		if i >= 10 {
			break
		}
		fmt.Fprintf(&b, "\n\n%d. %s\n   Source: %s", i+1, h.Title, h.Source)
		if desc := strings.TrimSpace(h.Description); desc != "" {
			if len(desc) > 200 {
				desc = desc[:200] + "..."
			}
			fmt.Fprintf(&b, "\n   %s", desc)
		}
	}
	b.WriteString("\n\n")
	b.WriteString(divider)
	return b.String()
}
