package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"blogpilot/clients/gemini"
	"blogpilot/config"
	"blogpilot/models"
	"blogpilot/similarity"
)

var topicsCfg = config.TopicsConfig{
	PerBatch:            7,
	MaxAttempts:         3,
	SimilarityThreshold: 0.7,
	LookbackDays:        180,
	AvoidHintSize:       20,
}

func idea(title string, keywords ...string) gemini.TopicIdea {
	return gemini.TopicIdea{
		Title:       title,
		Description: "covers " + title,
		Keywords:    keywords,
		Angle:       "tutorial",
	}
}

func fullBatch() []gemini.TopicIdea {
	return []gemini.TopicIdea{
		idea("Debugging Memory Leaks In Long Running Node Services", "node", "memory"),
		idea("Postgres Partitioning Strategies For Billion Row Tables", "postgres", "partitioning"),
		idea("Hands On Introduction To eBPF Network Observability", "ebpf", "networking"),
		idea("Designing Idempotent Payment Webhooks That Survive Retries", "webhooks", "payments"),
		idea("Comparing Message Brokers For Event Driven Microservices", "kafka", "rabbitmq"),
		idea("Zero Downtime Schema Migrations With Online DDL Tools", "migrations", "ddl"),
		idea("Profiling Go Applications With pprof And Flame Graphs", "go", "pprof"),
	}
}

func newGenerator(gen *fakeTopicGen, cats *fakeCategories, now time.Time) (*TopicGenerator, *fakeTopics, *fakeHistory, *fakeRunLogs) {
	topics := &fakeTopics{}
	history := &fakeHistory{}
	runLogs := &fakeRunLogs{}
	j := &TopicGenerator{
		Categories: cats,
		Topics:     topics,
		History:    history,
		RunLogs:    runLogs,
		Gen:        gen,
		Cfg:        topicsCfg,
		Now:        func() time.Time { return now },
	}
	return j, topics, history, runLogs
}

func activeCategory(name string) models.Category {
	return models.Category{
		ID:       primitive.NewObjectID(),
		Name:     name,
		IsActive: true,
	}
}

func TestTopicGeneratorFullBatch(t *testing.T) {
	now := time.Date(2025, 6, 2, 6, 0, 0, 0, time.UTC) // a Monday
	cat := activeCategory("Databases")
	cats := &fakeCategories{categories: []models.Category{cat}}
	gen := &fakeTopicGen{batches: [][]gemini.TopicIdea{fullBatch()}}

	j, topics, history, runLogs := newGenerator(gen, cats, now)
	require.NoError(t, j.Run(context.Background()))

	require.Len(t, topics.topics, 7)
	for i, topic := range topics.topics {
		assert.Equal(t, models.TopicPending, topic.Status)
		assert.Equal(t, cat.ID, topic.CategoryID)
		want := time.Date(2025, 6, 3+i, 0, 0, 0, 0, time.UTC)
		assert.True(t, topic.ScheduledDate.Equal(want), "topic %d scheduled %v, want %v", i, topic.ScheduledDate, want)
	}

	require.Len(t, history.entries, 7)
	for _, e := range history.entries {
		assert.Equal(t, cat.ID, e.CategoryID)
		assert.Len(t, e.Fingerprint, 64)
	}

	require.Len(t, cats.markedUsed, 1)
	assert.Equal(t, cat.ID, cats.markedUsed[0])

	last := runLogs.last()
	require.NotNil(t, last)
	assert.Equal(t, models.JobCompleted, last.Status)
	assert.Equal(t, 7, last.Details["topics_generated"])
}

func TestTopicGeneratorRejectsDuplicatesAndRetries(t *testing.T) {
	now := time.Date(2025, 6, 2, 6, 0, 0, 0, time.UTC)
	cat := activeCategory("Containers")
	cats := &fakeCategories{categories: []models.Category{cat}}

	history := &fakeHistory{entries: []models.GenerationHistory{{
		CategoryID:  cat.ID,
		TopicTitle:  "Getting Started With Docker Containers",
		GeneratedAt: now.AddDate(0, 0, -30),
	}}}

	gen := &fakeTopicGen{batches: [][]gemini.TopicIdea{
		{
			idea("Getting Started With Docker Containers", "docker"),
			idea("Advanced PostgreSQL Indexing Strategies Explained", "postgres"),
		},
		{
			idea("Building Realtime APIs With WebSockets In Go", "websockets"),
		},
	}}

	cfg := topicsCfg
	cfg.PerBatch = 2
	topics := &fakeTopics{}
	runLogs := &fakeRunLogs{}
	j := &TopicGenerator{
		Categories: cats,
		Topics:     topics,
		History:    history,
		RunLogs:    runLogs,
		Gen:        gen,
		Cfg:        cfg,
		Now:        func() time.Time { return now },
	}

	require.NoError(t, j.Run(context.Background()))

	assert.Equal(t, 2, gen.calls)
	require.Len(t, topics.topics, 2)
	assert.Equal(t, "Advanced PostgreSQL Indexing Strategies Explained", topics.topics[0].Title)
	assert.Equal(t, "Building Realtime APIs With WebSockets In Go", topics.topics[1].Title)

	// The second request asks only for what is still missing and carries the
	// already-accepted title in its corpus.
	require.Len(t, gen.reqs, 2)
	assert.Equal(t, 1, gen.reqs[1].Count)
	assert.Contains(t, gen.reqs[1].ExistingTitles, "Advanced PostgreSQL Indexing Strategies Explained")
}

func TestTopicGeneratorTopicWithoutHistoryRowStillRejected(t *testing.T) {
	now := time.Date(2025, 6, 2, 6, 0, 0, 0, time.UTC)
	cat := activeCategory("Containers")
	cats := &fakeCategories{categories: []models.Category{cat}}

	// Seeded directly into the topic collection, the way a manual scheduling
	// script would, so no generation history row exists for it.
	seeded := models.Topic{
		ID:         primitive.NewObjectID(),
		CategoryID: cat.ID,
		Title:      "Getting Started With Docker Containers",
		Status:     models.TopicCompleted,
		CreatedAt:  now.AddDate(0, 0, -30),
	}
	topics := &fakeTopics{topics: []models.Topic{seeded}}

	gen := &fakeTopicGen{batches: [][]gemini.TopicIdea{
		{idea("Getting Started With Docker Containers", "docker")},
		{idea("Debugging Container Networking With nsenter", "networking")},
	}}

	cfg := topicsCfg
	cfg.PerBatch = 1
	j := &TopicGenerator{
		Categories: cats,
		Topics:     topics,
		History:    &fakeHistory{},
		RunLogs:    &fakeRunLogs{},
		Gen:        gen,
		Cfg:        cfg,
		Now:        func() time.Time { return now },
	}

	require.NoError(t, j.Run(context.Background()))

	assert.Contains(t, gen.reqs[0].ExistingTitles, seeded.Title)
	require.Len(t, topics.topics, 2)
	assert.Equal(t, "Debugging Container Networking With nsenter", topics.topics[1].Title)
}

func TestTopicGeneratorFingerprintShortCircuits(t *testing.T) {
	now := time.Date(2025, 6, 2, 6, 0, 0, 0, time.UTC)
	cat := activeCategory("Containers")
	cats := &fakeCategories{categories: []models.Category{cat}}

	// The entry is older than the lookback window so it never reaches the
	// similarity corpus; only the fingerprint lookup can catch the rehash.
	history := &fakeHistory{entries: []models.GenerationHistory{{
		CategoryID:  cat.ID,
		TopicTitle:  "Getting Started With Docker Containers",
		Fingerprint: similarity.Fingerprint("Getting Started With Docker Containers"),
		GeneratedAt: now.AddDate(0, 0, -300),
	}}}

	gen := &fakeTopicGen{batches: [][]gemini.TopicIdea{
		{idea("Getting Started With Docker Containers", "docker")},
		{idea("Observability For Containerized Batch Workloads", "observability")},
	}}

	cfg := topicsCfg
	cfg.PerBatch = 1
	topics := &fakeTopics{}
	j := &TopicGenerator{
		Categories: cats,
		Topics:     topics,
		History:    history,
		RunLogs:    &fakeRunLogs{},
		Gen:        gen,
		Cfg:        cfg,
		Now:        func() time.Time { return now },
	}

	require.NoError(t, j.Run(context.Background()))

	require.Len(t, topics.topics, 1)
	assert.Equal(t, "Observability For Containerized Batch Workloads", topics.topics[0].Title)
}

func TestTopicGeneratorFingerprintLookupFailureFallsBack(t *testing.T) {
	now := time.Date(2025, 6, 2, 6, 0, 0, 0, time.UTC)
	cat := activeCategory("Databases")
	cats := &fakeCategories{categories: []models.Category{cat}}
	gen := &fakeTopicGen{batches: [][]gemini.TopicIdea{fullBatch()}}

	j, topics, history, runLogs := newGenerator(gen, cats, now)
	history.fingerprintErr = assert.AnError

	require.NoError(t, j.Run(context.Background()))
	assert.Len(t, topics.topics, 7)
	assert.Equal(t, models.JobCompleted, runLogs.last().Status)
}

func TestTopicGeneratorKeywordFallback(t *testing.T) {
	now := time.Date(2025, 6, 2, 6, 0, 0, 0, time.UTC)
	cat := activeCategory("Go")
	cats := &fakeCategories{categories: []models.Category{cat}}

	cfg := topicsCfg
	cfg.PerBatch = 1
	gen := &fakeTopicGen{batches: [][]gemini.TopicIdea{
		{idea("Understanding Goroutine Scheduling Internals")},
	}}
	topics := &fakeTopics{}
	j := &TopicGenerator{
		Categories: cats,
		Topics:     topics,
		History:    &fakeHistory{},
		RunLogs:    &fakeRunLogs{},
		Gen:        gen,
		Cfg:        cfg,
		Now:        func() time.Time { return now },
	}

	require.NoError(t, j.Run(context.Background()))
	require.Len(t, topics.topics, 1)
	assert.Equal(t, "goroutine, internals, scheduling, understanding", topics.topics[0].Keywords)
}

func TestTopicGeneratorNoActiveCategories(t *testing.T) {
	cats := &fakeCategories{categories: []models.Category{{
		ID:       primitive.NewObjectID(),
		Name:     "Dormant",
		IsActive: false,
	}}}
	gen := &fakeTopicGen{}
	j, _, _, runLogs := newGenerator(gen, cats, time.Now())

	err := j.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no active categories")

	last := runLogs.last()
	require.NotNil(t, last)
	assert.Equal(t, models.JobFailed, last.Status)
}

func TestTopicGeneratorNewsFailureIsBestEffort(t *testing.T) {
	now := time.Date(2025, 6, 2, 6, 0, 0, 0, time.UTC)
	cat := activeCategory("Cloud")
	cats := &fakeCategories{categories: []models.Category{cat}}
	gen := &fakeTopicGen{batches: [][]gemini.TopicIdea{fullBatch()}}

	j, topics, _, runLogs := newGenerator(gen, cats, now)
	j.News = &fakeNews{err: assert.AnError}

	require.NoError(t, j.Run(context.Background()))
	assert.Len(t, topics.topics, 7)
	assert.Equal(t, models.JobCompleted, runLogs.last().Status)
	assert.Equal(t, "", gen.reqs[0].NewsContext)
}

func TestTopicGeneratorPicksNeverUsedCategoryFirst(t *testing.T) {
	now := time.Date(2025, 6, 2, 6, 0, 0, 0, time.UTC)
	lastWeek := now.AddDate(0, 0, -7)

	used := activeCategory("Used Recently")
	used.LastUsedDate = &lastWeek
	used.UsageCount = 3
	fresh := activeCategory("Never Used")

	cats := &fakeCategories{categories: []models.Category{used, fresh}}
	gen := &fakeTopicGen{batches: [][]gemini.TopicIdea{fullBatch()}}

	j, topics, _, _ := newGenerator(gen, cats, now)
	require.NoError(t, j.Run(context.Background()))

	require.NotEmpty(t, topics.topics)
	assert.Equal(t, fresh.ID, topics.topics[0].CategoryID)
}

func TestTopicGeneratorIncompleteBatchStillCompletes(t *testing.T) {
	now := time.Date(2025, 6, 2, 6, 0, 0, 0, time.UTC)
	cat := activeCategory("Security")
	cats := &fakeCategories{categories: []models.Category{cat}}

	// Every attempt returns the same two ideas, so after the first attempt
	// everything is a duplicate of an accepted title.
	same := []gemini.TopicIdea{
		idea("Threat Modeling Web Applications Step By Step", "threat-modeling"),
		idea("Hardening Kubernetes Clusters Against Container Escapes", "kubernetes"),
	}
	gen := &fakeTopicGen{batches: [][]gemini.TopicIdea{same, same, same}}

	j, topics, _, runLogs := newGenerator(gen, cats, now)
	require.NoError(t, j.Run(context.Background()))

	assert.Equal(t, 3, gen.calls)
	assert.Len(t, topics.topics, 2)
	last := runLogs.last()
	assert.Equal(t, models.JobCompleted, last.Status)
	assert.Equal(t, 2, last.Details["topics_generated"])
}
