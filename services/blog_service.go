package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"blogpilot/dto"
	"blogpilot/models"
	"blogpilot/repositories"
)

// BlogService encapsulates blog queries and DTO mapping.
type BlogService struct {
	blogs      *repositories.BlogRepository
	topics     *repositories.TopicRepository
	categories *repositories.CategoryRepository
}

func NewBlogService(blogs *repositories.BlogRepository, topics *repositories.TopicRepository, categories *repositories.CategoryRepository) *BlogService {
	return &BlogService{blogs: blogs, topics: topics, categories: categories}
}

type ListBlogsInput struct {
	Page     int
	PageSize int
	Status   string
}

var validBlogStatuses = map[models.BlogStatus]struct{}{
	models.BlogDraft:     {},
	models.BlogPublished: {},
	models.BlogFailed:    {},
}

func (s *BlogService) List(ctx context.Context, in ListBlogsInput) (*dto.PaginationBlogDTO, error) {
	var status models.BlogStatus
	if in.Status != "" {
		status = models.BlogStatus(in.Status)
		if _, ok := validBlogStatuses[status]; !ok {
			return nil, fmt.Errorf("invalid status: %s", in.Status)
		}
	}

	items, total, err := s.blogs.List(ctx, repositories.ListBlogsOptions{
		Page:     in.Page,
		PageSize: in.PageSize,
		Status:   status,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.BlogDTO, 0, len(items))
	for _, b := range items {
		out = append(out, dto.NewBlogDTO(b))
	}
	return &dto.PaginationBlogDTO{Data: out, Page: in.Page, PageSize: in.PageSize, Total: total}, nil
}

// GetByID loads one blog with full content plus its topic and category.
// Missing references degrade to a partial detail view rather than an error.
func (s *BlogService) GetByID(ctx context.Context, hexID string) (*dto.BlogDetailDTO, error) {
	id, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return nil, ErrNotFound
	}
	blog, err := s.blogs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var topic *models.Topic
	var category *models.Category
	if t, err := s.topics.FindByID(ctx, blog.TopicID); err == nil {
		topic = t
		if c, err := s.categories.FindByID(ctx, t.CategoryID); err == nil {
			category = c
		}
	}

	d := dto.NewBlogDetailDTO(*blog, topic, category)
	return &d, nil
}
