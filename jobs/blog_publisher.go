package jobs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"blogpilot/clients/gemini"
	"blogpilot/clients/hashnode"
	"blogpilot/logger"
	"blogpilot/models"
	"blogpilot/validator"
)

// BlogPublisher is the daily job that writes and publishes the article for
// today's scheduled topic.
type BlogPublisher struct {
	Categories CategoryStore
	Topics     TopicStore
	Blogs      BlogStore
	RunLogs    RunLogStore
	Gen        ArticleGen
	Images     ImageGen // optional
	Upload     Uploader // optional
	Publish    Publisher
	ImagesOn   bool
	Now        func() time.Time
}

func (j *BlogPublisher) now() time.Time {
	if j.Now != nil {
		return j.Now()
	}
	return time.Now()
}

// Run executes one publishing cycle. A day with no scheduled topic is a
// normal, successful run.
func (j *BlogPublisher) Run(ctx context.Context) error {
	start := j.now()
	logger.Log.Info("blog publishing started")
	recordRun(ctx, j.RunLogs, models.JobBlogPublishing, models.JobStarted, nil)

	details, err := j.run(ctx)
	if err != nil {
		logger.ErrorWithFields("blog publishing failed", logger.Fields{"error": err.Error()})
		recordRun(ctx, j.RunLogs, models.JobBlogPublishing, models.JobFailed, map[string]any{
			"error": err.Error(),
		})
		return err
	}

	details["execution_time_seconds"] = j.now().Sub(start).Seconds()
	recordRun(ctx, j.RunLogs, models.JobBlogPublishing, models.JobCompleted, details)
	logger.Log.Info("blog publishing completed")
	return nil
}

func (j *BlogPublisher) run(ctx context.Context) (map[string]any, error) {
	topic, err := j.Topics.FindScheduledPending(ctx, j.now())
	if errors.Is(err, mongo.ErrNoDocuments) {
		logger.Log.Info("no topic scheduled for today")
		return map[string]any{"message": "no topic scheduled"}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching today's topic: %w", err)
	}
	logger.InfoWithFields("topic found", logger.Fields{
		"title": topic.Title,
		"id":    topic.ID.Hex(),
	})

	if err := j.Topics.UpdateStatus(ctx, topic.ID, models.TopicInProgress); err != nil {
		return nil, fmt.Errorf("claiming topic: %w", err)
	}

	category, err := j.Categories.FindByID(ctx, topic.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("loading category: %w", err)
	}

	blog, err := j.existingDraft(ctx, topic.ID)
	if err != nil {
		return nil, err
	}
	if blog == nil {
		// A generation or validation failure leaves the topic in progress so
		// an operator can inspect and manually retrigger.
		content, err := j.generateValidated(ctx, topic, category)
		if err != nil {
			return nil, err
		}

		blog = &models.Blog{
			TopicID:         topic.ID,
			Title:           content.Title,
			SEOTitle:        content.SEOTitle,
			Content:         content.Content,
			MetaDescription: content.MetaDescription,
			Tags:            content.Tags,
			WordCount:       content.WordCount,
			Status:          models.BlogDraft,
		}
		if _, err := j.Blogs.Insert(ctx, blog); err != nil {
			return nil, fmt.Errorf("storing blog: %w", err)
		}
		logger.InfoWithFields("blog stored as draft", logger.Fields{"id": blog.ID.Hex()})
	}

	if blog.CoverImageURL == "" {
		if url := j.attachCoverImage(ctx, blog); url != "" {
			blog.CoverImageURL = url
		}
	}

	result, err := j.Publish.Publish(ctx, hashnode.PublishRequest{
		Title:           blog.Title,
		ContentMarkdown: blog.Content,
		Tags:            blog.Tags,
		MetaDescription: blog.MetaDescription,
		CoverImageURL:   blog.CoverImageURL,
	})
	if err != nil {
		// Keep the draft for a manual retry; the topic is failed so the next
		// run does not pick it up again.
		if dbErr := j.Blogs.RevertToDraft(ctx, blog.ID); dbErr != nil {
			logger.WarnWithFields("reverting blog to draft failed", logger.Fields{"error": dbErr.Error()})
		}
		if dbErr := j.Topics.UpdateStatus(ctx, topic.ID, models.TopicFailed); dbErr != nil {
			logger.WarnWithFields("failing topic failed", logger.Fields{"error": dbErr.Error()})
		}
		return nil, fmt.Errorf("publishing: %w", err)
	}

	publishedAt := j.now()
	if err := j.Blogs.MarkPublished(ctx, blog.ID, result.PostID, result.URL, publishedAt); err != nil {
		return nil, fmt.Errorf("recording publication: %w", err)
	}
	if err := j.Topics.UpdateStatus(ctx, topic.ID, models.TopicCompleted); err != nil {
		return nil, fmt.Errorf("completing topic: %w", err)
	}
	logger.InfoWithFields("blog published", logger.Fields{
		"title": blog.Title,
		"url":   result.URL,
		"words": blog.WordCount,
	})

	return map[string]any{
		"topic_id":   topic.ID.Hex(),
		"blog_id":    blog.ID.Hex(),
		"category":   category.Name,
		"word_count": blog.WordCount,
		"remote_url": result.URL,
	}, nil
}

// existingDraft returns the draft left behind by an earlier run whose publish
// step failed, so a manually rescheduled topic reuses it instead of paying
// for a second generation. A published blog on a supposedly pending topic is
// an inconsistency worth failing loudly on.
func (j *BlogPublisher) existingDraft(ctx context.Context, topicID primitive.ObjectID) (*models.Blog, error) {
	blog, err := j.Blogs.FindByTopic(ctx, topicID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("checking for existing blog: %w", err)
	}
	if blog.Status != models.BlogDraft {
		return nil, fmt.Errorf("topic %s already has a %s blog %s", topicID.Hex(), blog.Status, blog.ID.Hex())
	}
	logger.InfoWithFields("reusing existing draft", logger.Fields{"id": blog.ID.Hex()})
	return blog, nil
}

func (j *BlogPublisher) generateValidated(ctx context.Context, topic *models.Topic, category *models.Category) (*validator.BlogContent, error) {
	var keywords []string
	if topic.Keywords != "" {
		keywords = strings.Split(topic.Keywords, ", ")
	}

	content, err := j.Gen.GenerateArticle(ctx, gemini.ArticleRequest{
		TopicTitle:          topic.Title,
		TopicDescription:    topic.Description,
		CategoryName:        category.Name,
		CategoryDescription: category.Description,
		Keywords:            keywords,
	})
	if err != nil {
		return nil, fmt.Errorf("generating article: %w", err)
	}
	if err := validator.Validate(content); err != nil {
		return nil, fmt.Errorf("validating article: %w", err)
	}
	logger.InfoWithFields("article validated", logger.Fields{"words": content.WordCount})
	return content, nil
}

// attachCoverImage generates and uploads a cover image. Everything in here
// is best effort; a blog without a cover still publishes.
func (j *BlogPublisher) attachCoverImage(ctx context.Context, blog *models.Blog) string {
	if !j.ImagesOn || j.Images == nil || j.Upload == nil {
		return ""
	}

	data, err := j.Images.GenerateCoverImage(ctx, blog.Title, blog.MetaDescription, blog.Tags)
	if err != nil {
		logger.WarnWithFields("cover image generation failed, continuing without", logger.Fields{
			"error": err.Error(),
		})
		return ""
	}

	key := fmt.Sprintf("covers/%s.png", uuid.NewString())
	url, err := j.Upload.Upload(ctx, key, data, "image/png")
	if err != nil {
		logger.WarnWithFields("cover image upload failed, continuing without", logger.Fields{
			"error": err.Error(),
		})
		return ""
	}

	if err := j.Blogs.UpdateCoverImage(ctx, blog.ID, url); err != nil {
		logger.WarnWithFields("storing cover image url failed, removing upload", logger.Fields{
			"error": err.Error(),
		})
		if delErr := j.Upload.Delete(ctx, key); delErr != nil {
			logger.WarnWithFields("removing orphaned cover failed", logger.Fields{
				"key":   key,
				"error": delErr.Error(),
			})
		}
		return ""
	}
	logger.InfoWithFields("cover image attached", logger.Fields{"url": url})
	return url
}
