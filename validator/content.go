// Package validator checks generated article content at the trust boundary.
// The generative API cannot be relied on to honor formatting constraints, so
// every field and the markdown structure are re-verified before storage.
package validator

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Quality thresholds for generated articles.
const (
	TitleMinLen   = 10
	TitleMaxLen   = 200
	SEOTitleMin   = 40
	SEOTitleMax   = 70
	ContentMinLen = 500
	MetaMinLen    = 120
	MetaMaxLen    = 170
	TagsMin       = 1
	TagsMax       = 10
	MinH2Count    = 3
	MinHeadings   = 4
	MinWordCount  = 800
	minIntroLen   = 50
	minOutroLen   = 100
)

// BlogContent is the structured article payload requested from the
// generative API. WordCount is recomputed here, never trusted from the API.
type BlogContent struct {
	Title             string   `json:"title"`
	SEOTitle          string   `json:"seo_title"`
	Content           string   `json:"content"`
	MetaDescription   string   `json:"meta_description"`
	Tags              []string `json:"tags"`
	EstimatedReadTime string   `json:"estimated_read_time"`

	WordCount int `json:"-"`
}

// ValidationError collects every failing rule so the caller sees the
// complete list of defects at once.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "content validation failed: " + strings.Join(e.Problems, "; ")
}

// Metrics describes the markdown structure of an article body.
type Metrics struct {
	H2Count         int
	H3Count         int
	WordCount       int
	HasIntroduction bool
	HasConclusion   bool
	EndsProperly    bool
	HeadingTitles   []string
}

// TotalHeadings is the combined count of level-2 and level-3 headings.
func (m Metrics) TotalHeadings() int { return m.H2Count + m.H3Count }

var (
	h2Pattern     = regexp.MustCompile(`^##\s+(.+)$`)
	h3Pattern     = regexp.MustCompile(`^###\s+(.+)$`)
	codeBlockRe   = regexp.MustCompile("(?s)```.*?```")
	inlineCodeRe  = regexp.MustCompile("`[^`]+`")
	linkRe        = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	headingMarkRe = regexp.MustCompile(`(?m)^#+\s+`)
	boldItalicRe  = regexp.MustCompile(`\*+([^*]+)\*+`)
	underscoreRe  = regexp.MustCompile(`_+([^_]+)_+`)
)

var properEndings = []string{".", "!", "?", ")", `"`, "'", "`", ">", "-", "*", "```"}

var suspiciousEndings = []string{
	",", " and", " or", " the", " a", " an", " in", " on", " at", " to", " for", " with",
}

// AnalyzeStructure extracts structural metrics from a markdown body.
func AnalyzeStructure(content string) Metrics {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return Metrics{}
	}

	lines := strings.Split(trimmed, "\n")

	var m Metrics
	firstHeadingLine := -1
	lastH2Line := -1

	for i, line := range lines {
		stripped := strings.TrimSpace(line)
		if match := h2Pattern.FindStringSubmatch(stripped); match != nil {
			m.H2Count++
			m.HeadingTitles = append(m.HeadingTitles, strings.TrimSpace(match[1]))
			if firstHeadingLine == -1 {
				firstHeadingLine = i
			}
			lastH2Line = i
		} else if match := h3Pattern.FindStringSubmatch(stripped); match != nil {
			m.H3Count++
			m.HeadingTitles = append(m.HeadingTitles, strings.TrimSpace(match[1]))
			if firstHeadingLine == -1 {
				firstHeadingLine = i
			}
		}
	}

	// Introduction: meaningful text before the first heading, or anywhere
	// when the document has no headings at all.
	switch {
	case firstHeadingLine > 0:
		intro := strings.TrimSpace(strings.Join(lines[:firstHeadingLine], "\n"))
		m.HasIntroduction = utf8.RuneCountInString(intro) >= minIntroLen
	case firstHeadingLine == -1:
		m.HasIntroduction = utf8.RuneCountInString(trimmed) >= minIntroLen
	}

	// Conclusion: content after the last level-2 heading.
	if lastH2Line >= 0 && lastH2Line < len(lines)-1 {
		outro := strings.TrimSpace(strings.Join(lines[lastH2Line+1:], "\n"))
		m.HasConclusion = utf8.RuneCountInString(outro) >= minOutroLen
	}

	m.WordCount = countWords(content)
	m.EndsProperly = endsProperly(trimmed)
	return m
}

// countWords strips code blocks, inline code, link syntax (keeping link
// text), heading markers, and bold/italic markers before splitting on
// whitespace.
func countWords(content string) int {
	text := codeBlockRe.ReplaceAllString(content, "")
	text = inlineCodeRe.ReplaceAllString(text, "")
	text = linkRe.ReplaceAllString(text, "$1")
	text = headingMarkRe.ReplaceAllString(text, "")
	text = boldItalicRe.ReplaceAllString(text, "$1")
	text = underscoreRe.ReplaceAllString(text, "$1")
	return len(strings.Fields(text))
}

// endsProperly is a heuristic truncation check: the document must end in
// sentence punctuation or closing markup and must not trail off on a
// dangling conjunction or preposition.
func endsProperly(trimmed string) bool {
	proper := false
	for _, end := range properEndings {
		if strings.HasSuffix(trimmed, end) {
			proper = true
			break
		}
	}
	if !proper {
		return false
	}
	for _, end := range suspiciousEndings {
		if strings.HasSuffix(trimmed, end) {
			return false
		}
	}
	return true
}

// Validate runs every field-level and structural rule against c. All failing
// rules are collected and returned together as one *ValidationError. On
// success the recomputed word count and cleaned tags are written back to c.
func Validate(c *BlogContent) error {
	var problems []string

	// Length bands count characters, not bytes; generated text regularly
	// carries multibyte punctuation.
	title := strings.TrimSpace(c.Title)
	if n := utf8.RuneCountInString(title); n < TitleMinLen {
		problems = append(problems, fmt.Sprintf("title too short: %d chars (minimum %d)", n, TitleMinLen))
	} else if n > TitleMaxLen {
		problems = append(problems, fmt.Sprintf("title too long: %d chars (maximum %d)", n, TitleMaxLen))
	}

	seo := strings.TrimSpace(c.SEOTitle)
	if n := utf8.RuneCountInString(seo); n < SEOTitleMin {
		problems = append(problems, fmt.Sprintf("seo title too short: %d chars (minimum %d)", n, SEOTitleMin))
	} else if n > SEOTitleMax {
		problems = append(problems, fmt.Sprintf("seo title too long: %d chars (maximum %d)", n, SEOTitleMax))
	}

	if n := utf8.RuneCountInString(c.Content); n < ContentMinLen {
		problems = append(problems, fmt.Sprintf("content too short: %d chars (minimum %d)", n, ContentMinLen))
	}

	meta := strings.TrimSpace(c.MetaDescription)
	if n := utf8.RuneCountInString(meta); n < MetaMinLen {
		problems = append(problems, fmt.Sprintf("meta description too short: %d chars (minimum %d)", n, MetaMinLen))
	} else if n > MetaMaxLen {
		problems = append(problems, fmt.Sprintf("meta description too long: %d chars (maximum %d)", n, MetaMaxLen))
	}

	tags := make([]string, 0, len(c.Tags))
	for _, tag := range c.Tags {
		if t := strings.TrimSpace(tag); t != "" {
			tags = append(tags, t)
		}
	}
	if len(tags) < TagsMin {
		problems = append(problems, fmt.Sprintf("must have at least %d tag", TagsMin))
	} else if len(tags) > TagsMax {
		problems = append(problems, fmt.Sprintf("too many tags: %d (maximum %d)", len(tags), TagsMax))
	}

	metrics := AnalyzeStructure(c.Content)
	if metrics.H2Count < MinH2Count {
		problems = append(problems, fmt.Sprintf(
			"content must have at least %d main sections (## headings), found %d", MinH2Count, metrics.H2Count))
	}
	if metrics.TotalHeadings() < MinHeadings {
		problems = append(problems, fmt.Sprintf(
			"content must have at least %d headings total (## or ###), found %d", MinHeadings, metrics.TotalHeadings()))
	}
	if metrics.WordCount < MinWordCount {
		problems = append(problems, fmt.Sprintf(
			"content too short: %d words (minimum %d)", metrics.WordCount, MinWordCount))
	}
	if !metrics.HasIntroduction {
		problems = append(problems, "content must start with an introduction before the first heading")
	}
	if !metrics.HasConclusion {
		problems = append(problems, "content must end with a closing section after the last main heading")
	}
	if !metrics.EndsProperly {
		problems = append(problems, "content appears truncated or incomplete (suspicious ending)")
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}

	c.Title = title
	c.SEOTitle = seo
	c.MetaDescription = meta
	c.Tags = tags
	c.WordCount = metrics.WordCount
	return nil
}
