package news

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatContextEmpty(t *testing.T) {
	assert.Equal(t, "", FormatContext(nil))
	assert.Equal(t, "", FormatContext([]Headline{}))
}

func TestFormatContextNumbersAndSources(t *testing.T) {
	out := FormatContext([]Headline{
		{Title: "Kubernetes 1.34 Released", Source: "CNCF Blog", Description: "Minor release with sidecar improvements."},
		{Title: "Postgres 18 Beta", Source: "PG News"},
	})

	assert.Contains(t, out, "TRENDING NEWS")
	assert.Contains(t, out, "1. Kubernetes 1.34 Released")
	assert.Contains(t, out, "Source: CNCF Blog")
	assert.Contains(t, out, "2. Postgres 18 Beta")
	assert.Contains(t, out, "sidecar improvements")
}

func TestFormatContextTruncatesLongDescriptions(t *testing.T) {
	long := strings.Repeat("x", 300)
	out := FormatContext([]Headline{{Title: "t", Source: "s", Description: long}})

	assert.Contains(t, out, strings.Repeat("x", 200)+"...")
	assert.NotContains(t, out, strings.Repeat("x", 201))
}

func TestFeedURLEscapesCategory(t *testing.T) {
	template := "https://news.example.com/rss?q=%s&hl=en"

	assert.Equal(t, "https://news.example.com/rss?q=cloud+computing&hl=en",
		FeedURL(template, "Cloud Computing"))
	assert.Equal(t, "https://news.example.com/rss?q=ci%2Fcd+%26+devops&hl=en",
		FeedURL(template, "CI/CD & DevOps"))
	assert.Equal(t, "https://news.example.com/rss?q=s%C3%A9curit%C3%A9&hl=en",
		FeedURL(template, "Sécurité"))
}

func TestFormatContextCapsAtTen(t *testing.T) {
	var hs []Headline
	for i := 0; i < 15; i++ {
		hs = append(hs, Headline{Title: "headline", Source: "s"})
	}
	out := FormatContext(hs)

	assert.Contains(t, out, "10. headline")
	assert.NotContains(t, out, "11. headline")
}
