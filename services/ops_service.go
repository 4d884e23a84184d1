package services

import (
	"context"
	"fmt"

	"blogpilot/dto"
	"blogpilot/models"
	"blogpilot/repositories"
)

// OpsService serves the monitoring surface: stats and run logs.
type OpsService struct {
	categories *repositories.CategoryRepository
	topics     *repositories.TopicRepository
	blogs      *repositories.BlogRepository
	runLogs    *repositories.RunLogRepository
}

func NewOpsService(
	categories *repositories.CategoryRepository,
	topics *repositories.TopicRepository,
	blogs *repositories.BlogRepository,
	runLogs *repositories.RunLogRepository,
) *OpsService {
	return &OpsService{categories: categories, topics: topics, blogs: blogs, runLogs: runLogs}
}

func (s *OpsService) Stats(ctx context.Context) (*dto.StatsDTO, error) {
	all, err := s.categories.List(ctx, false)
	if err != nil {
		return nil, err
	}
	active, err := s.categories.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	topicCounts, err := s.topics.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	blogCounts, err := s.blogs.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.StatsDTO{
		TotalCategories:  int64(len(all)),
		ActiveCategories: active,
		PendingTopics:    topicCounts[models.TopicPending],
		FailedTopics:     topicCounts[models.TopicFailed],
		PublishedBlogs:   blogCounts[models.BlogPublished],
		DraftBlogs:       blogCounts[models.BlogDraft],
	}, nil
}

type ListLogsInput struct {
	Page     int
	PageSize int
	JobType  string
}

var validJobTypes = map[models.JobType]struct{}{
	models.JobTopicGeneration: {},
	models.JobBlogPublishing:  {},
}

func (s *OpsService) Logs(ctx context.Context, in ListLogsInput) (*dto.PaginationRunLogDTO, error) {
	var jobType models.JobType
	if in.JobType != "" {
		jobType = models.JobType(in.JobType)
		if _, ok := validJobTypes[jobType]; !ok {
			return nil, fmt.Errorf("invalid job type: %s", in.JobType)
		}
	}

	items, total, err := s.runLogs.List(ctx, repositories.ListRunLogsOptions{
		Page:     in.Page,
		PageSize: in.PageSize,
		JobType:  jobType,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.RunLogDTO, 0, len(items))
	for _, l := range items {
		out = append(out, dto.NewRunLogDTO(l))
	}
	return &dto.PaginationRunLogDTO{Data: out, Page: in.Page, PageSize: in.PageSize, Total: total}, nil
}
