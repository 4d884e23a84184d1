package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"blogpilot/dto"
	"blogpilot/models"
	"blogpilot/repositories"
)

// ErrNotFound marks lookups whose subject does not exist.
var ErrNotFound = errors.New("not found")

// ErrCategoryExists marks create calls colliding with an existing name.
var ErrCategoryExists = errors.New("category already exists")

// CategoryService encapsulates category management and DTO mapping.
type CategoryService struct {
	repo *repositories.CategoryRepository
}

func NewCategoryService(repo *repositories.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

func (s *CategoryService) List(ctx context.Context, activeOnly bool) ([]dto.CategoryDTO, error) {
	items, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryDTO, 0, len(items))
	for _, c := range items {
		out = append(out, dto.NewCategoryDTO(c))
	}
	return out, nil
}

type CreateCategoryInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
}

func (s *CategoryService) Create(ctx context.Context, in CreateCategoryInput) (*dto.CategoryDTO, error) {
	_, err := s.repo.FindByName(ctx, in.Name)
	switch {
	case err == nil:
		return nil, ErrCategoryExists
	case !errors.Is(err, mongo.ErrNoDocuments):
		return nil, err
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	c := &models.Category{
		Name:        in.Name,
		Description: in.Description,
		IsActive:    active,
	}
	if _, err := s.repo.Insert(ctx, c); err != nil {
		return nil, err
	}
	d := dto.NewCategoryDTO(*c)
	return &d, nil
}

type UpdateCategoryInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

func (s *CategoryService) Update(ctx context.Context, hexID string, in UpdateCategoryInput) error {
	id, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return ErrNotFound
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}
	if len(updates) == 0 {
		return nil
	}
	return s.repo.UpdateFields(ctx, id, updates)
}
