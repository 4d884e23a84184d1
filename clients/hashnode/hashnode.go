package hashnode

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"blogpilot/config"
	"blogpilot/errs"
	"blogpilot/logger"
	"blogpilot/retry"
)

const publishMutation = `mutation PublishPost($input: PublishPostInput!) {
  publishPost(input: $input) {
    post {
      id
      slug
      url
    }
  }
}`

// PublishRequest is the content of one post to publish.
type PublishRequest struct {
	Title           string
	ContentMarkdown string
	Tags            []string
	MetaDescription string
	CoverImageURL   string
}

// PublishResult identifies the post on the remote platform.
type PublishResult struct {
	PostID string
	Slug   string
	URL    string
}

// Client publishes posts through the Hashnode GraphQL API.
type Client struct {
	cfg   config.HashnodeConfig
	http  *http.Client
	retry retry.Policy
}

func New(cfg config.HashnodeConfig, policy retry.Policy) *Client {
	return &Client{
		cfg:   cfg,
		http:  &http.Client{Timeout: 60 * time.Second},
		retry: policy,
	}
}

type tagInput struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLResponse struct {
	Data struct {
		PublishPost struct {
			Post struct {
				ID   string `json:"id"`
				Slug string `json:"slug"`
				URL  string `json:"url"`
			} `json:"post"`
		} `json:"publishPost"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Publish sends the post to the configured publication. Auth failures abort
// immediately, 429 responses honor the Retry-After header, everything else
// retries on the progressive schedule.
func (c *Client) Publish(ctx context.Context, req PublishRequest) (*PublishResult, error) {
	logger.InfoWithFields("publishing post", logger.Fields{"title": req.Title})

	tags := make([]tagInput, 0, len(req.Tags))
	for _, t := range req.Tags {
		tags = append(tags, tagInput{Slug: Slugify(t), Name: t})
	}
	input := map[string]any{
		"publicationId":   c.cfg.PublicationID,
		"title":           req.Title,
		"contentMarkdown": req.ContentMarkdown,
		"tags":            tags,
	}
	if req.MetaDescription != "" {
		input["metaTags"] = map[string]any{"description": req.MetaDescription}
	}
	if req.CoverImageURL != "" {
		input["coverImageOptions"] = map[string]any{"coverImageURL": req.CoverImageURL}
	}

	body, err := json.Marshal(graphQLRequest{
		Query:     publishMutation,
		Variables: map[string]any{"input": input},
	})
	if err != nil {
		return nil, err
	}

	result, err := retry.DoValue(ctx, c.retry, "hashnode publish", func() (*PublishResult, error) {
		return c.post(ctx, body)
	})
	if err != nil {
		return nil, err
	}
	logger.InfoWithFields("post published", logger.Fields{"url": result.URL})
	return result, nil
}

func (c *Client) post(ctx context.Context, body []byte) (*PublishResult, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", c.cfg.Token)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp); err != nil {
		return nil, err
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var gql graphQLResponse
	if err := json.Unmarshal(respBody, &gql); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if len(gql.Errors) > 0 {
		return nil, fmt.Errorf("graphql error: %s", gql.Errors[0].Message)
	}

	post := gql.Data.PublishPost.Post
	if post.ID == "" || post.URL == "" {
		return nil, fmt.Errorf("response missing post identity")
	}
	return &PublishResult{PostID: post.ID, Slug: post.Slug, URL: post.URL}, nil
}

func classifyStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return errs.Newf(errs.Auth, "hashnode: HTTP %d", resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		wait := 60 * time.Second
		if v := resp.Header.Get("Retry-After"); v != "" {
			if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
				wait = time.Duration(secs) * time.Second
			}
		}
		return errs.RateLimit(fmt.Errorf("hashnode: HTTP 429"), wait)
	case resp.StatusCode >= 400:
		return errs.Newf(errs.Transient, "hashnode: HTTP %d", resp.StatusCode)
	}
	return nil
}
