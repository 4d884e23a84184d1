package jobs

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"blogpilot/clients/gemini"
	"blogpilot/clients/hashnode"
	"blogpilot/clients/news"
	"blogpilot/models"
	"blogpilot/validator"
)

// Store interfaces cover just the repository methods each job touches so
// tests can swap in fakes.

type CategoryStore interface {
	CountActive(ctx context.Context) (int64, error)
	PickLeastRecentlyUsed(ctx context.Context) (*models.Category, error)
	MarkUsed(ctx context.Context, id primitive.ObjectID, usedAt time.Time) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error)
}

type TopicStore interface {
	InsertMany(ctx context.Context, topics []models.Topic) error
	FindScheduledPending(ctx context.Context, day time.Time) (*models.Topic, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.TopicStatus) error
	TitlesSince(ctx context.Context, categoryID primitive.ObjectID, cutoff time.Time, limit int64) ([]string, error)
}

type HistoryStore interface {
	InsertMany(ctx context.Context, entries []models.GenerationHistory) error
	TitlesSince(ctx context.Context, categoryID primitive.ObjectID, cutoff time.Time) ([]string, error)
	FingerprintExists(ctx context.Context, fingerprint string) (bool, error)
}

type BlogStore interface {
	Insert(ctx context.Context, b *models.Blog) (*mongo.InsertOneResult, error)
	FindByTopic(ctx context.Context, topicID primitive.ObjectID) (*models.Blog, error)
	UpdateCoverImage(ctx context.Context, id primitive.ObjectID, url string) error
	MarkPublished(ctx context.Context, id primitive.ObjectID, remotePostID, remoteURL string, publishedAt time.Time) error
	RevertToDraft(ctx context.Context, id primitive.ObjectID) error
}

type Uploader interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

type RunLogStore interface {
	Insert(ctx context.Context, log *models.RunLog) (*mongo.InsertOneResult, error)
}

// Client interfaces mirror the concrete clients.

type TopicGen interface {
	GenerateTopics(ctx context.Context, req gemini.TopicRequest) ([]gemini.TopicIdea, error)
}

type ArticleGen interface {
	GenerateArticle(ctx context.Context, req gemini.ArticleRequest) (*validator.BlogContent, error)
}

type ImageGen interface {
	GenerateCoverImage(ctx context.Context, title, description string, keywords []string) ([]byte, error)
}

type NewsFetcher interface {
	FetchHeadlines(ctx context.Context, category string) ([]news.Headline, error)
}

type Publisher interface {
	Publish(ctx context.Context, req hashnode.PublishRequest) (*hashnode.PublishResult, error)
}

// recordRun writes the audit record for a run transition. Audit failures are
// swallowed so they can never take a healthy pipeline down.
func recordRun(ctx context.Context, store RunLogStore, jobType models.JobType, status models.JobStatus, details map[string]any) {
	if details == nil {
		details = map[string]any{}
	}
	_, _ = store.Insert(ctx, &models.RunLog{
		JobType:   jobType,
		Status:    status,
		Details:   details,
		CreatedAt: time.Now(),
	})
}
