package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"blogpilot/errs"
	"blogpilot/logger"
	"blogpilot/retry"
)

// TopicIdea is one generated topic candidate.
type TopicIdea struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
	Angle       string   `json:"angle"`
}

// TopicRequest carries the context for one topic generation call.
type TopicRequest struct {
	CategoryName        string
	CategoryDescription string
	ExistingTitles      []string
	Count               int
	NewsContext         string
	AvoidHintSize       int
}

var topicSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":       {Type: genai.TypeString},
			"description": {Type: genai.TypeString},
			"keywords":    {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			"angle":       {Type: genai.TypeString},
		},
		Required: []string{"title", "description", "keywords", "angle"},
	},
}

// GenerateTopics asks the model for a batch of topic candidates. Candidates
// missing any required field are dropped; an empty batch is an error.
func (c *Client) GenerateTopics(ctx context.Context, req TopicRequest) ([]TopicIdea, error) {
	logger.InfoWithFields("generating topics", logger.Fields{
		"category": req.CategoryName,
		"count":    req.Count,
	})

	prompt := buildTopicPrompt(req)

	text, err := retry.DoValue(ctx, c.retry, "gemini topics", func() (string, error) {
		resp, err := c.ai.Models.GenerateContent(ctx, c.cfg.Model, genai.Text(prompt), &genai.GenerateContentConfig{
			Temperature:      genai.Ptr(c.cfg.Temperature),
			MaxOutputTokens:  c.cfg.MaxTokensTopics,
			ResponseMIMEType: "application/json",
			ResponseSchema:   topicSchema,
		})
		if err != nil {
			return "", classify(err)
		}
		return resp.Text(), nil
	})
	if err != nil {
		return nil, err
	}

	raw, err := ExtractJSON(text)
	if err != nil {
		return nil, errs.Newf(errs.Validation, "topic response: %v", err)
	}
	var candidates []TopicIdea
	if err := json.Unmarshal([]byte(raw), &candidates); err != nil {
		return nil, errs.Newf(errs.Validation, "topic response is not a JSON array: %v", err)
	}

	valid := make([]TopicIdea, 0, len(candidates))
	for i, t := range candidates {
		if t.Title == "" || t.Description == "" || len(t.Keywords) == 0 || t.Angle == "" {
			logger.WarnWithFields("dropping incomplete topic candidate", logger.Fields{"index": i})
			continue
		}
		valid = append(valid, t)
	}
	if len(valid) == 0 {
		return nil, errs.Newf(errs.Validation, "no valid topics in response")
	}
	logger.InfoWithFields("topics generated", logger.Fields{
		"valid": len(valid),
		"total": len(candidates),
	})
	return valid, nil
}

func buildTopicPrompt(req TopicRequest) string {
	hint := req.AvoidHintSize
	if hint <= 0 {
		hint = 20
	}
	titles := req.ExistingTitles
	if len(titles) > hint {
		titles = titles[len(titles)-hint:]
	}
	avoidList := "None (first batch)"
	if len(titles) > 0 {
		var b strings.Builder
		for _, t := range titles {
			fmt.Fprintf(&b, "- %s\n", t)
		}
		avoidList = strings.TrimRight(b.String(), "\n")
	}

	newsSection := ""
	newsRule := ""
	if req.NewsContext != "" {
		newsSection = fmt.Sprintf(`

%s

Use these trending news articles as inspiration to create timely, relevant topics.
IMPORTANT: Do NOT copy headlines directly. Create unique angles and perspectives that add value beyond the news.
Consider how current trends relate to your category and what readers would want to learn.
`, req.NewsContext)
		newsRule = "\n6. Draw inspiration from trending news but create original, value-added perspectives"
	}

	return fmt.Sprintf(`You are an expert content strategist generating blog topics.

Context:
- Category: %s
- Description: %s
- Target Audience: Mixed (beginners to professionals)
- Purpose: Educational, engaging, SEO-friendly content
%s
Task:
Generate exactly %d unique, high-quality blog topics for this category.

Requirements:
1. Each topic should be specific and actionable (not generic)
2. Topics should be 8-15 words long
3. Cover different content angles: how-to, listicle, case-study, tutorial, opinion, comparison, beginner-guide
4. Make them timely and relevant to the current year
5. Include a mix of difficulty levels:
   - 2 beginner-friendly topics
   - 3 intermediate topics
   - 2 advanced topics%s

Topics to AVOID (already covered):
%s

Output Format:
Return a valid JSON array with exactly %d objects. Each object must contain:
{
  "title": "The complete topic title",
  "description": "One-sentence description of what the blog will cover",
  "keywords": ["keyword1", "keyword2", "keyword3"],
  "angle": "how-to|listicle|case-study|tutorial|opinion|comparison|beginner-guide"
}

CRITICAL REQUIREMENTS:
- Return ONLY valid JSON - no markdown, no code blocks, no additional text
- Ensure the JSON is complete - do not truncate the last item
- All %d items must be complete with all fields filled
`, req.CategoryName, req.CategoryDescription, newsSection, req.Count, newsRule, avoidList, req.Count, req.Count)
}
