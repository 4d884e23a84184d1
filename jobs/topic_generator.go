package jobs

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"blogpilot/clients/gemini"
	"blogpilot/clients/news"
	"blogpilot/config"
	"blogpilot/logger"
	"blogpilot/models"
	"blogpilot/similarity"
)

// TopicGenerator is the weekly job that produces the next batch of unique,
// pre-scheduled topics for the least recently used category.
type TopicGenerator struct {
	Categories CategoryStore
	Topics     TopicStore
	History    HistoryStore
	RunLogs    RunLogStore
	Gen        TopicGen
	News       NewsFetcher // optional
	Cfg        config.TopicsConfig
	Now        func() time.Time
}

func (j *TopicGenerator) now() time.Time {
	if j.Now != nil {
		return j.Now()
	}
	return time.Now()
}

// Run executes one topic generation cycle.
func (j *TopicGenerator) Run(ctx context.Context) error {
	start := j.now()
	logger.Log.Info("topic generation started")
	recordRun(ctx, j.RunLogs, models.JobTopicGeneration, models.JobStarted, nil)

	category, accepted, err := j.run(ctx)
	if err != nil {
		logger.ErrorWithFields("topic generation failed", logger.Fields{"error": err.Error()})
		recordRun(ctx, j.RunLogs, models.JobTopicGeneration, models.JobFailed, map[string]any{
			"error": err.Error(),
		})
		return err
	}

	details := map[string]any{
		"topics_generated":       len(accepted),
		"execution_time_seconds": j.now().Sub(start).Seconds(),
	}
	if category != nil {
		details["category_id"] = category.ID.Hex()
		details["category_name"] = category.Name
	}
	recordRun(ctx, j.RunLogs, models.JobTopicGeneration, models.JobCompleted, details)
	logger.InfoWithFields("topic generation completed", logger.Fields{"topics": len(accepted)})
	return nil
}

func (j *TopicGenerator) run(ctx context.Context) (*models.Category, []gemini.TopicIdea, error) {
	active, err := j.Categories.CountActive(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("counting categories: %w", err)
	}
	if active == 0 {
		return nil, nil, fmt.Errorf("no active categories")
	}

	category, err := j.Categories.PickLeastRecentlyUsed(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("selecting category: %w", err)
	}
	logger.InfoWithFields("category selected", logger.Fields{
		"category": category.Name,
		"id":       category.ID.Hex(),
	})

	newsContext := j.fetchNewsContext(ctx, category.Name)

	cutoff := j.now().AddDate(0, 0, -j.Cfg.LookbackDays)
	existing, err := j.loadCorpus(ctx, category.ID, cutoff)
	if err != nil {
		return category, nil, err
	}
	logger.InfoWithFields("corpus loaded", logger.Fields{"titles": len(existing)})

	accepted, err := j.generateUnique(ctx, category, existing, newsContext)
	if err != nil {
		return category, nil, err
	}
	if len(accepted) < j.Cfg.PerBatch {
		logger.WarnWithFields("batch incomplete", logger.Fields{
			"accepted": len(accepted),
			"wanted":   j.Cfg.PerBatch,
		})
	}

	if err := j.persist(ctx, category, accepted); err != nil {
		return category, nil, err
	}
	if err := j.Categories.MarkUsed(ctx, category.ID, j.now()); err != nil {
		return category, nil, fmt.Errorf("marking category used: %w", err)
	}
	return category, accepted, nil
}

// fetchNewsContext is best effort. A dead feed means topics are generated
// without a trending-news block, never a failed run.
func (j *TopicGenerator) fetchNewsContext(ctx context.Context, category string) string {
	if j.News == nil {
		return ""
	}
	headlines, err := j.News.FetchHeadlines(ctx, category)
	if err != nil {
		logger.WarnWithFields("news fetch failed, proceeding without context", logger.Fields{
			"error": err.Error(),
		})
		return ""
	}
	return news.FormatContext(headlines)
}

// corpusTopicLimit caps how many stored topic titles join the corpus on top
// of the generation history.
const corpusTopicLimit = 500

// loadCorpus merges the generation history with stored topic titles for the
// category. Topics inserted outside the generator (seeds, manually scheduled
// entries) have no history row and are only visible through the topic
// collection, so both feed the duplicate corpus.
func (j *TopicGenerator) loadCorpus(ctx context.Context, categoryID primitive.ObjectID, cutoff time.Time) ([]string, error) {
	fromHistory, err := j.History.TitlesSince(ctx, categoryID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("fetching history: %w", err)
	}
	fromTopics, err := j.Topics.TitlesSince(ctx, categoryID, cutoff, corpusTopicLimit)
	if err != nil {
		return nil, fmt.Errorf("fetching stored topics: %w", err)
	}

	seen := make(map[string]struct{}, len(fromHistory)+len(fromTopics))
	corpus := make([]string, 0, len(fromHistory)+len(fromTopics))
	for _, title := range append(fromHistory, fromTopics...) {
		key := strings.ToLower(strings.TrimSpace(title))
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		corpus = append(corpus, title)
	}
	return corpus, nil
}

// generateUnique loops generation attempts until the batch is full or the
// attempt budget runs out. Titles accepted in earlier attempts join the
// comparison corpus so later attempts cannot reintroduce them.
func (j *TopicGenerator) generateUnique(ctx context.Context, category *models.Category, existing []string, newsContext string) ([]gemini.TopicIdea, error) {
	var accepted []gemini.TopicIdea

	for attempt := 1; attempt <= j.Cfg.MaxAttempts; attempt++ {
		needed := j.Cfg.PerBatch - len(accepted)
		logger.InfoWithFields("generating topics", logger.Fields{
			"attempt": attempt,
			"needed":  needed,
		})

		corpus := make([]string, 0, len(existing)+len(accepted))
		corpus = append(corpus, existing...)
		for _, t := range accepted {
			corpus = append(corpus, t.Title)
		}

		ideas, err := j.Gen.GenerateTopics(ctx, gemini.TopicRequest{
			CategoryName:        category.Name,
			CategoryDescription: category.Description,
			ExistingTitles:      corpus,
			Count:               needed,
			NewsContext:         newsContext,
			AvoidHintSize:       j.Cfg.AvoidHintSize,
		})
		if err != nil {
			return nil, fmt.Errorf("generating topics: %w", err)
		}

		candidates := j.filterByFingerprint(ctx, ideas)

		titles := make([]string, len(candidates))
		for i, idea := range candidates {
			titles[i] = idea.Title
		}
		results := similarity.ValidateBatch(titles, corpus, j.Cfg.SimilarityThreshold)

		for i, res := range results {
			if res.IsUnique {
				accepted = append(accepted, candidates[i])
				continue
			}
			logger.WarnWithFields("duplicate topic rejected", logger.Fields{
				"title":      res.Title,
				"similar_to": res.SimilarTo,
				"score":      res.Score,
			})
		}

		if len(accepted) >= j.Cfg.PerBatch {
			accepted = accepted[:j.Cfg.PerBatch]
			break
		}
	}
	return accepted, nil
}

// filterByFingerprint drops candidates whose keyword-set fingerprint was
// already recorded, skipping the pairwise similarity scan for exact rehashes.
// A failed lookup falls through to full scoring rather than failing the run.
func (j *TopicGenerator) filterByFingerprint(ctx context.Context, ideas []gemini.TopicIdea) []gemini.TopicIdea {
	candidates := make([]gemini.TopicIdea, 0, len(ideas))
	for _, idea := range ideas {
		exists, err := j.History.FingerprintExists(ctx, similarity.Fingerprint(idea.Title))
		if err != nil {
			logger.WarnWithFields("fingerprint lookup failed, scoring instead", logger.Fields{
				"title": idea.Title,
				"error": err.Error(),
			})
		} else if exists {
			logger.WarnWithFields("duplicate topic rejected", logger.Fields{
				"title":  idea.Title,
				"reason": "fingerprint already recorded",
			})
			continue
		}
		candidates = append(candidates, idea)
	}
	return candidates
}

// persist schedules the accepted topics on consecutive days starting
// tomorrow and records each title in the duplicate corpus.
func (j *TopicGenerator) persist(ctx context.Context, category *models.Category, accepted []gemini.TopicIdea) error {
	if len(accepted) == 0 {
		return nil
	}
	startDate := models.Midnight(j.now()).AddDate(0, 0, 1)
	now := j.now()

	topics := make([]models.Topic, 0, len(accepted))
	history := make([]models.GenerationHistory, 0, len(accepted))
	for i, idea := range accepted {
		keywords := joinKeywords(idea)
		scheduled := startDate.AddDate(0, 0, i)
		topics = append(topics, models.Topic{
			CategoryID:    category.ID,
			Title:         idea.Title,
			Description:   idea.Description,
			Keywords:      keywords,
			Status:        models.TopicPending,
			ScheduledDate: scheduled,
		})
		history = append(history, models.GenerationHistory{
			CategoryID:  category.ID,
			TopicTitle:  idea.Title,
			Keywords:    keywords,
			Fingerprint: similarity.Fingerprint(idea.Title),
			GeneratedAt: now,
		})
		logger.InfoWithFields("topic scheduled", logger.Fields{
			"date":  scheduled.Format("2006-01-02"),
			"title": idea.Title,
		})
	}

	if err := j.Topics.InsertMany(ctx, topics); err != nil {
		return fmt.Errorf("storing topics: %w", err)
	}
	if err := j.History.InsertMany(ctx, history); err != nil {
		return fmt.Errorf("storing history: %w", err)
	}
	return nil
}

// joinKeywords flattens the keyword list, falling back to keywords derived
// from the title when the generator returned none.
func joinKeywords(idea gemini.TopicIdea) string {
	if len(idea.Keywords) > 0 {
		return strings.Join(idea.Keywords, ", ")
	}
	set := similarity.ExtractKeywords(idea.Title)
	derived := make([]string, 0, len(set))
	for kw := range set {
		derived = append(derived, kw)
	}
	sort.Strings(derived)
	return strings.Join(derived, ", ")
}
