package services

import (
	"context"
	"fmt"
	"time"

	"blogpilot/dto"
	"blogpilot/models"
	"blogpilot/repositories"
)

// TopicService encapsulates topic queries and DTO mapping.
type TopicService struct {
	repo *repositories.TopicRepository
}

func NewTopicService(repo *repositories.TopicRepository) *TopicService {
	return &TopicService{repo: repo}
}

type ListTopicsInput struct {
	Page     int
	PageSize int
	Status   string
}

var validTopicStatuses = map[models.TopicStatus]struct{}{
	models.TopicPending:    {},
	models.TopicInProgress: {},
	models.TopicCompleted:  {},
	models.TopicFailed:     {},
}

func (s *TopicService) List(ctx context.Context, in ListTopicsInput) (*dto.PaginationTopicDTO, error) {
	var status models.TopicStatus
	if in.Status != "" {
		status = models.TopicStatus(in.Status)
		if _, ok := validTopicStatuses[status]; !ok {
			return nil, fmt.Errorf("invalid status: %s", in.Status)
		}
	}

	items, total, err := s.repo.List(ctx, repositories.ListTopicsOptions{
		Page:     in.Page,
		PageSize: in.PageSize,
		Status:   status,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.TopicDTO, 0, len(items))
	for _, t := range items {
		out = append(out, dto.NewTopicDTO(t))
	}
	return &dto.PaginationTopicDTO{Data: out, Page: in.Page, PageSize: in.PageSize, Total: total}, nil
}

// Upcoming returns pending topics scheduled within the next days.
func (s *TopicService) Upcoming(ctx context.Context, days int) ([]dto.TopicDTO, error) {
	if days <= 0 {
		days = 7
	}
	items, err := s.repo.ListUpcoming(ctx, time.Now(), days)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TopicDTO, 0, len(items))
	for _, t := range items {
		out = append(out, dto.NewTopicDTO(t))
	}
	return out, nil
}
