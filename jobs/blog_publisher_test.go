package jobs

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"blogpilot/clients/hashnode"
	"blogpilot/models"
	"blogpilot/validator"
)

// validContent builds article content that clears every validation rule.
func validContent() *validator.BlogContent {
	para := strings.Repeat("Every service eventually meets real traffic and real failure modes. ", 15)
	var b strings.Builder
	b.WriteString("This guide walks through the moving pieces step by step so you can apply them to your own stack today. ")
	b.WriteString(para)
	for i := 1; i <= 4; i++ {
		fmt.Fprintf(&b, "\n\n## Section %d\n\n%s", i, para)
	}
	b.WriteString("\n\n## Wrapping Up\n\nYou now have a checklist to take into production. ")
	b.WriteString(para)
	b.WriteString("Start small, measure, and iterate.")

	return &validator.BlogContent{
		Title:             "Shipping Resilient Services Without Losing Sleep",
		SEOTitle:          "Shipping Resilient Services: A Practical Production Guide",
		Content:           b.String(),
		MetaDescription:   "A practical walkthrough of the patterns that keep services healthy under load, from timeouts and retries to rollout strategy and observability.",
		Tags:              []string{"reliability", "devops", "backend"},
		EstimatedReadTime: "8 min read",
	}
}

type publisherFixture struct {
	job     *BlogPublisher
	topics  *fakeTopics
	blogs   *fakeBlogs
	runLogs *fakeRunLogs
	pub     *fakePublisher
	topic   models.Topic
}

func newPublisherFixture(t *testing.T, now time.Time) *publisherFixture {
	t.Helper()
	cat := activeCategory("Backend")
	topic := models.Topic{
		ID:            primitive.NewObjectID(),
		CategoryID:    cat.ID,
		Title:         "Shipping Resilient Services Without Losing Sleep",
		Description:   "Production reliability patterns",
		Keywords:      "reliability, retries, timeouts",
		Status:        models.TopicPending,
		ScheduledDate: models.Midnight(now),
	}

	topics := &fakeTopics{topics: []models.Topic{topic}}
	blogs := &fakeBlogs{}
	runLogs := &fakeRunLogs{}
	pub := &fakePublisher{result: &hashnode.PublishResult{
		PostID: "remote-123",
		Slug:   "shipping-resilient-services",
		URL:    "https://example.hashnode.dev/shipping-resilient-services",
	}}

	job := &BlogPublisher{
		Categories: &fakeCategories{categories: []models.Category{cat}},
		Topics:     topics,
		Blogs:      blogs,
		RunLogs:    runLogs,
		Gen:        &fakeArticleGen{content: validContent()},
		Publish:    pub,
		Now:        func() time.Time { return now },
	}
	return &publisherFixture{job: job, topics: topics, blogs: blogs, runLogs: runLogs, pub: pub, topic: topic}
}

func TestBlogPublisherHappyPath(t *testing.T) {
	now := time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC)
	f := newPublisherFixture(t, now)

	require.NoError(t, f.job.Run(context.Background()))

	require.Len(t, f.blogs.blogs, 1)
	blog := f.blogs.blogs[0]
	assert.Equal(t, models.BlogPublished, blog.Status)
	assert.Equal(t, f.topic.ID, blog.TopicID)
	assert.Equal(t, "remote-123", blog.RemotePostID)
	assert.Equal(t, "https://example.hashnode.dev/shipping-resilient-services", blog.RemoteURL)
	require.NotNil(t, blog.PublishedAt)
	assert.True(t, blog.PublishedAt.Equal(now))
	assert.Greater(t, blog.WordCount, 800)

	assert.Equal(t, models.TopicCompleted, f.topics.topics[0].Status)

	last := f.runLogs.last()
	require.NotNil(t, last)
	assert.Equal(t, models.JobCompleted, last.Status)
	assert.Equal(t, blog.ID.Hex(), last.Details["blog_id"])
}

func TestBlogPublisherNoTopicIsSuccess(t *testing.T) {
	now := time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC)
	f := newPublisherFixture(t, now)
	f.topics.topics = nil

	require.NoError(t, f.job.Run(context.Background()))

	assert.Empty(t, f.blogs.blogs)
	assert.Empty(t, f.pub.reqs)
	last := f.runLogs.last()
	require.NotNil(t, last)
	assert.Equal(t, models.JobCompleted, last.Status)
	assert.Equal(t, "no topic scheduled", last.Details["message"])
}

func TestBlogPublisherPublishFailure(t *testing.T) {
	now := time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC)
	f := newPublisherFixture(t, now)
	f.pub.err = assert.AnError

	err := f.job.Run(context.Background())
	require.Error(t, err)

	// Content survives as a draft; the topic is failed so tomorrow's run
	// does not pick it up again.
	require.Len(t, f.blogs.blogs, 1)
	assert.Equal(t, models.BlogDraft, f.blogs.blogs[0].Status)
	assert.Nil(t, f.blogs.blogs[0].PublishedAt)
	assert.Equal(t, models.TopicFailed, f.topics.topics[0].Status)

	last := f.runLogs.last()
	require.NotNil(t, last)
	assert.Equal(t, models.JobFailed, last.Status)
}

func TestBlogPublisherGenerationFailureLeavesTopicInProgress(t *testing.T) {
	now := time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC)
	f := newPublisherFixture(t, now)
	f.job.Gen = &fakeArticleGen{err: assert.AnError}

	err := f.job.Run(context.Background())
	require.Error(t, err)

	assert.Empty(t, f.blogs.blogs)
	assert.Equal(t, models.TopicInProgress, f.topics.topics[0].Status)
	assert.Equal(t, models.JobFailed, f.runLogs.last().Status)
}

func TestBlogPublisherValidationFailureLeavesTopicInProgress(t *testing.T) {
	now := time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC)
	f := newPublisherFixture(t, now)
	bad := validContent()
	bad.Content = "## Only Section\n\nFar too short to publish."
	f.job.Gen = &fakeArticleGen{content: bad}

	err := f.job.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validating article")

	assert.Empty(t, f.blogs.blogs)
	assert.Equal(t, models.TopicInProgress, f.topics.topics[0].Status)
}

func TestBlogPublisherReusesDraftFromEarlierRun(t *testing.T) {
	now := time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC)
	f := newPublisherFixture(t, now)
	gen := &fakeArticleGen{content: validContent()}
	f.job.Gen = gen

	// The draft a failed publish left behind; the operator set the topic back
	// to pending for a retry.
	draft := models.Blog{
		ID:              primitive.NewObjectID(),
		TopicID:         f.topic.ID,
		Title:           "Shipping Resilient Services Without Losing Sleep",
		Content:         validContent().Content,
		MetaDescription: validContent().MetaDescription,
		Tags:            []string{"reliability"},
		WordCount:       900,
		Status:          models.BlogDraft,
	}
	f.blogs.blogs = []models.Blog{draft}

	require.NoError(t, f.job.Run(context.Background()))

	assert.Equal(t, 0, gen.calls, "existing draft must not be regenerated")
	require.Len(t, f.blogs.blogs, 1)
	assert.Equal(t, draft.ID, f.blogs.blogs[0].ID)
	assert.Equal(t, models.BlogPublished, f.blogs.blogs[0].Status)
	assert.Equal(t, models.TopicCompleted, f.topics.topics[0].Status)
}

func TestBlogPublisherRefusesAlreadyPublishedTopic(t *testing.T) {
	now := time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC)
	f := newPublisherFixture(t, now)
	f.blogs.blogs = []models.Blog{{
		ID:      primitive.NewObjectID(),
		TopicID: f.topic.ID,
		Status:  models.BlogPublished,
	}}

	err := f.job.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already has a published blog")
	assert.Empty(t, f.pub.reqs)
	assert.Equal(t, models.JobFailed, f.runLogs.last().Status)
}

func TestBlogPublisherCoverImageSuccess(t *testing.T) {
	now := time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC)
	f := newPublisherFixture(t, now)
	uploader := &fakeUploader{url: "https://cdn.example.com/covers/x.png"}
	f.job.ImagesOn = true
	f.job.Images = &fakeImageGen{data: []byte{0x89, 0x50, 0x4e, 0x47}}
	f.job.Upload = uploader

	require.NoError(t, f.job.Run(context.Background()))

	require.Len(t, f.blogs.blogs, 1)
	assert.Equal(t, "https://cdn.example.com/covers/x.png", f.blogs.blogs[0].CoverImageURL)
	require.Len(t, f.pub.reqs, 1)
	assert.Equal(t, "https://cdn.example.com/covers/x.png", f.pub.reqs[0].CoverImageURL)
	require.Len(t, uploader.keys, 1)
	assert.True(t, strings.HasPrefix(uploader.keys[0], "covers/"))
}

func TestBlogPublisherRemovesCoverWhenStoringURLFails(t *testing.T) {
	now := time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC)
	f := newPublisherFixture(t, now)
	uploader := &fakeUploader{url: "https://cdn.example.com/covers/x.png"}
	f.job.ImagesOn = true
	f.job.Images = &fakeImageGen{data: []byte{0x89, 0x50, 0x4e, 0x47}}
	f.job.Upload = uploader
	f.blogs.coverErr = assert.AnError

	require.NoError(t, f.job.Run(context.Background()))

	// The orphaned object is removed and the blog publishes without a cover.
	require.Len(t, uploader.deleted, 1)
	assert.Equal(t, uploader.keys[0], uploader.deleted[0])
	require.Len(t, f.pub.reqs, 1)
	assert.Empty(t, f.pub.reqs[0].CoverImageURL)
}

func TestBlogPublisherCoverImageFailureIsBestEffort(t *testing.T) {
	now := time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC)
	f := newPublisherFixture(t, now)
	f.job.ImagesOn = true
	f.job.Images = &fakeImageGen{err: assert.AnError}
	f.job.Upload = &fakeUploader{}

	require.NoError(t, f.job.Run(context.Background()))

	require.Len(t, f.blogs.blogs, 1)
	assert.Equal(t, models.BlogPublished, f.blogs.blogs[0].Status)
	assert.Empty(t, f.blogs.blogs[0].CoverImageURL)
	require.Len(t, f.pub.reqs, 1)
	assert.Empty(t, f.pub.reqs[0].CoverImageURL)
}
