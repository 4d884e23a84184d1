package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"blogpilot/errs"
	"blogpilot/logger"
	"blogpilot/retry"
)

// GenerateCoverImage produces a 16:9 cover image for a blog post and returns
// the raw PNG bytes.
func (c *Client) GenerateCoverImage(ctx context.Context, title, description string, keywords []string) ([]byte, error) {
	logger.InfoWithFields("generating cover image", logger.Fields{"title": title})

	prompt := buildImagePrompt(title, description, keywords)

	return retry.DoValue(ctx, c.retry, "gemini cover image", func() ([]byte, error) {
		resp, err := c.ai.Models.GenerateImages(ctx, c.cfg.ImageModel, prompt, &genai.GenerateImagesConfig{
			NumberOfImages: 1,
			AspectRatio:    "16:9",
		})
		if err != nil {
			return nil, classify(err)
		}
		if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil || len(resp.GeneratedImages[0].Image.ImageBytes) == 0 {
			return nil, errs.Newf(errs.Transient, "no image in response")
		}
		return resp.GeneratedImages[0].Image.ImageBytes, nil
	})
}

func buildImagePrompt(title, description string, keywords []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a professional, eye-catching blog cover image for:\n\nTitle: %s\n", title)
	if description != "" {
		fmt.Fprintf(&b, "Description: %s\n", description)
	}
	if len(keywords) > 0 {
		fmt.Fprintf(&b, "Keywords: %s\n", strings.Join(keywords, ", "))
	}
	b.WriteString(`
Requirements:
- Modern and professional design
- Tech/digital theme with clean aesthetics
- Suitable for a technology blog post
- Abstract or conceptual representation (no text or specific people)
- Vibrant but professional color scheme
- High quality, suitable for web publishing
- 16:9 aspect ratio (landscape orientation)

Style: Modern, professional, tech-forward, visually appealing`)
	return b.String()
}
