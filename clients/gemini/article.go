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
	"blogpilot/validator"
)

// ArticleRequest carries the context for one article generation call.
type ArticleRequest struct {
	TopicTitle          string
	TopicDescription    string
	CategoryName        string
	CategoryDescription string
	Keywords            []string
}

var articleSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"title":               {Type: genai.TypeString},
		"seo_title":           {Type: genai.TypeString},
		"content":             {Type: genai.TypeString},
		"meta_description":    {Type: genai.TypeString},
		"tags":                {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"estimated_read_time": {Type: genai.TypeString},
	},
	Required: []string{"title", "seo_title", "content", "meta_description", "tags", "estimated_read_time"},
}

// GenerateArticle asks the model for a full article. The result is returned
// unvalidated; running it through the content validator is the caller's job.
func (c *Client) GenerateArticle(ctx context.Context, req ArticleRequest) (*validator.BlogContent, error) {
	logger.InfoWithFields("generating article", logger.Fields{"topic": req.TopicTitle})

	prompt := buildArticlePrompt(req)

	text, err := retry.DoValue(ctx, c.retry, "gemini article", func() (string, error) {
		resp, err := c.ai.Models.GenerateContent(ctx, c.cfg.Model, genai.Text(prompt), &genai.GenerateContentConfig{
			Temperature:      genai.Ptr(c.cfg.Temperature),
			MaxOutputTokens:  c.cfg.MaxTokensBlog,
			ResponseMIMEType: "application/json",
			ResponseSchema:   articleSchema,
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
		return nil, errs.Newf(errs.Validation, "article response: %v", err)
	}
	var content validator.BlogContent
	if err := json.Unmarshal([]byte(raw), &content); err != nil {
		return nil, errs.Newf(errs.Validation, "article response is not a JSON object: %v", err)
	}
	logger.InfoWithFields("article generated", logger.Fields{"chars": len(content.Content)})
	return &content, nil
}

func buildArticlePrompt(req ArticleRequest) string {
	keywords := "relevant keywords"
	if len(req.Keywords) > 0 {
		keywords = strings.Join(req.Keywords, ", ")
	}
	extra := ""
	if req.TopicDescription != "" {
		extra = fmt.Sprintf("Additional Context: %s\n", req.TopicDescription)
	}

	return fmt.Sprintf(`You are an expert technical blog writer.

Task: Write a comprehensive, engaging blog post

Topic: %s
Category: %s
Context: %s
%sTarget Keywords: %s

Requirements:

1. LENGTH: 1200-1500 words

2. STRUCTURE:
   - Compelling introduction that hooks the reader
   - 4-6 main sections with clear H2/H3 headings
   - Real-world examples or case studies
   - Actionable takeaways in each section
   - Strong conclusion with call-to-action

3. WRITING STYLE:
   - Conversational yet professional tone
   - Use "you" to address readers directly
   - Short paragraphs (3-4 sentences maximum)
   - Include bullet points for lists
   - Add relevant statistics or facts where appropriate
   - Use transitions between sections

4. SEO OPTIMIZATION:
   - Use topic keywords naturally (2-3%% density)
   - Include related keywords and variations
   - Optimize headings for search
   - Write for humans first, search engines second
   - Provide a dedicated seo_title of 40-70 characters

5. TECHNICAL ACCURACY:
   - Ensure all technical information is current
   - Cite concepts accurately
   - Avoid outdated information or deprecated practices
   - Include code examples if relevant

6. FORMATTING:
   - Use Markdown format
   - Use ## for main headings, ### for subheadings
   - Include code snippets with language tags if relevant
   - Use **bold** for emphasis
   - Use > for important callouts

Output Format (JSON):
{
  "title": "Final optimized blog title (may refine the original)",
  "seo_title": "Search-optimized title, 40-70 characters",
  "content": "Full blog content in Markdown format",
  "meta_description": "SEO meta description (120-170 characters)",
  "tags": ["tag1", "tag2", "tag3", "tag4", "tag5"],
  "estimated_read_time": "X min read"
}

IMPORTANT: Return ONLY the JSON object, no additional text or markdown formatting.
`, req.TopicTitle, req.CategoryName, req.CategoryDescription, extra, keywords)
}
