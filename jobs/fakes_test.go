package jobs

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"blogpilot/clients/gemini"
	"blogpilot/clients/hashnode"
	"blogpilot/clients/news"
	"blogpilot/models"
	"blogpilot/validator"
)

type fakeCategories struct {
	categories []models.Category
	markedUsed []primitive.ObjectID
}

func (f *fakeCategories) CountActive(ctx context.Context) (int64, error) {
	var n int64
	for _, c := range f.categories {
		if c.IsActive {
			n++
		}
	}
	return n, nil
}

func (f *fakeCategories) PickLeastRecentlyUsed(ctx context.Context) (*models.Category, error) {
	var best *models.Category
	for i := range f.categories {
		c := &f.categories[i]
		if !c.IsActive {
			continue
		}
		if best == nil {
			best = c
			continue
		}
		if earlier(c, best) {
			best = c
		}
	}
	if best == nil {
		return nil, mongo.ErrNoDocuments
	}
	return best, nil
}

// earlier mirrors the selection sort: never-used first, then oldest
// last_used_date, then lowest usage_count.
func earlier(a, b *models.Category) bool {
	switch {
	case a.LastUsedDate == nil && b.LastUsedDate != nil:
		return true
	case a.LastUsedDate != nil && b.LastUsedDate == nil:
		return false
	case a.LastUsedDate != nil && b.LastUsedDate != nil && !a.LastUsedDate.Equal(*b.LastUsedDate):
		return a.LastUsedDate.Before(*b.LastUsedDate)
	default:
		return a.UsageCount < b.UsageCount
	}
}

func (f *fakeCategories) MarkUsed(ctx context.Context, id primitive.ObjectID, usedAt time.Time) error {
	f.markedUsed = append(f.markedUsed, id)
	for i := range f.categories {
		if f.categories[i].ID == id {
			t := usedAt
			f.categories[i].LastUsedDate = &t
			f.categories[i].UsageCount++
		}
	}
	return nil
}

func (f *fakeCategories) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	for i := range f.categories {
		if f.categories[i].ID == id {
			return &f.categories[i], nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

type fakeTopics struct {
	topics []models.Topic
}

func (f *fakeTopics) InsertMany(ctx context.Context, topics []models.Topic) error {
	for i := range topics {
		if topics[i].ID.IsZero() {
			topics[i].ID = primitive.NewObjectID()
		}
	}
	f.topics = append(f.topics, topics...)
	return nil
}

func (f *fakeTopics) FindScheduledPending(ctx context.Context, day time.Time) (*models.Topic, error) {
	want := models.Midnight(day)
	for i := range f.topics {
		t := &f.topics[i]
		if t.Status == models.TopicPending && models.Midnight(t.ScheduledDate).Equal(want) {
			return t, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeTopics) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.TopicStatus) error {
	for i := range f.topics {
		if f.topics[i].ID == id {
			f.topics[i].Status = status
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (f *fakeTopics) TitlesSince(ctx context.Context, categoryID primitive.ObjectID, cutoff time.Time, limit int64) ([]string, error) {
	var titles []string
	for _, t := range f.topics {
		if t.CategoryID == categoryID && !t.CreatedAt.Before(cutoff) {
			titles = append(titles, t.Title)
		}
		if int64(len(titles)) >= limit {
			break
		}
	}
	return titles, nil
}

type fakeHistory struct {
	entries        []models.GenerationHistory
	fingerprintErr error
}

func (f *fakeHistory) InsertMany(ctx context.Context, entries []models.GenerationHistory) error {
	f.entries = append(f.entries, entries...)
	return nil
}

func (f *fakeHistory) TitlesSince(ctx context.Context, categoryID primitive.ObjectID, cutoff time.Time) ([]string, error) {
	var titles []string
	for _, e := range f.entries {
		if e.CategoryID == categoryID && !e.GeneratedAt.Before(cutoff) {
			titles = append(titles, e.TopicTitle)
		}
	}
	return titles, nil
}

func (f *fakeHistory) FingerprintExists(ctx context.Context, fingerprint string) (bool, error) {
	if f.fingerprintErr != nil {
		return false, f.fingerprintErr
	}
	for _, e := range f.entries {
		if e.Fingerprint == fingerprint {
			return true, nil
		}
	}
	return false, nil
}

type fakeBlogs struct {
	blogs    []models.Blog
	coverErr error
}

func (f *fakeBlogs) Insert(ctx context.Context, b *models.Blog) (*mongo.InsertOneResult, error) {
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	f.blogs = append(f.blogs, *b)
	return &mongo.InsertOneResult{InsertedID: b.ID}, nil
}

func (f *fakeBlogs) get(id primitive.ObjectID) *models.Blog {
	for i := range f.blogs {
		if f.blogs[i].ID == id {
			return &f.blogs[i]
		}
	}
	return nil
}

func (f *fakeBlogs) FindByTopic(ctx context.Context, topicID primitive.ObjectID) (*models.Blog, error) {
	for i := range f.blogs {
		if f.blogs[i].TopicID == topicID {
			return &f.blogs[i], nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeBlogs) UpdateCoverImage(ctx context.Context, id primitive.ObjectID, url string) error {
	if f.coverErr != nil {
		return f.coverErr
	}
	if b := f.get(id); b != nil {
		b.CoverImageURL = url
		return nil
	}
	return mongo.ErrNoDocuments
}

func (f *fakeBlogs) MarkPublished(ctx context.Context, id primitive.ObjectID, remotePostID, remoteURL string, publishedAt time.Time) error {
	b := f.get(id)
	if b == nil {
		return mongo.ErrNoDocuments
	}
	b.Status = models.BlogPublished
	b.RemotePostID = remotePostID
	b.RemoteURL = remoteURL
	t := publishedAt
	b.PublishedAt = &t
	return nil
}

func (f *fakeBlogs) RevertToDraft(ctx context.Context, id primitive.ObjectID) error {
	if b := f.get(id); b != nil {
		b.Status = models.BlogDraft
		return nil
	}
	return mongo.ErrNoDocuments
}

type fakeRunLogs struct {
	logs []models.RunLog
}

func (f *fakeRunLogs) Insert(ctx context.Context, log *models.RunLog) (*mongo.InsertOneResult, error) {
	f.logs = append(f.logs, *log)
	return &mongo.InsertOneResult{}, nil
}

func (f *fakeRunLogs) last() *models.RunLog {
	if len(f.logs) == 0 {
		return nil
	}
	return &f.logs[len(f.logs)-1]
}

type fakeTopicGen struct {
	batches [][]gemini.TopicIdea
	calls   int
	err     error
	reqs    []gemini.TopicRequest
}

func (f *fakeTopicGen) GenerateTopics(ctx context.Context, req gemini.TopicRequest) ([]gemini.TopicIdea, error) {
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return nil, f.err
	}
	if f.calls >= len(f.batches) {
		return nil, errors.New("no more batches")
	}
	batch := f.batches[f.calls]
	f.calls++
	return batch, nil
}

type fakeArticleGen struct {
	content *validator.BlogContent
	err     error
	calls   int
}

func (f *fakeArticleGen) GenerateArticle(ctx context.Context, req gemini.ArticleRequest) (*validator.BlogContent, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	c := *f.content
	return &c, nil
}

type fakeImageGen struct {
	data []byte
	err  error
}

func (f *fakeImageGen) GenerateCoverImage(ctx context.Context, title, description string, keywords []string) ([]byte, error) {
	return f.data, f.err
}

type fakeNews struct {
	headlines []news.Headline
	err       error
}

func (f *fakeNews) FetchHeadlines(ctx context.Context, category string) ([]news.Headline, error) {
	return f.headlines, f.err
}

type fakePublisher struct {
	result *hashnode.PublishResult
	err    error
	reqs   []hashnode.PublishRequest
}

func (f *fakePublisher) Publish(ctx context.Context, req hashnode.PublishRequest) (*hashnode.PublishResult, error) {
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeUploader struct {
	url     string
	err     error
	keys    []string
	deleted []string
}

func (f *fakeUploader) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	f.keys = append(f.keys, key)
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

func (f *fakeUploader) Delete(ctx context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}
