// Package dto holds the transport representations of stored documents.
// ObjectIDs travel as hex strings, internal bookkeeping fields stay hidden.
package dto

import (
	"time"

	"blogpilot/models"
)

type CategoryDTO struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	IsActive     bool       `json:"is_active"`
	LastUsedDate *time.Time `json:"last_used_date"`
	UsageCount   int64      `json:"usage_count"`
	CreatedAt    time.Time  `json:"created_at"`
}

func NewCategoryDTO(c models.Category) CategoryDTO {
	return CategoryDTO{
		ID:           c.ID.Hex(),
		Name:         c.Name,
		Description:  c.Description,
		IsActive:     c.IsActive,
		LastUsedDate: c.LastUsedDate,
		UsageCount:   c.UsageCount,
		CreatedAt:    c.CreatedAt,
	}
}

type TopicDTO struct {
	ID            string    `json:"id"`
	CategoryID    string    `json:"category_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Keywords      string    `json:"keywords"`
	Status        string    `json:"status"`
	ScheduledDate time.Time `json:"scheduled_date"`
	CreatedAt     time.Time `json:"created_at"`
}

func NewTopicDTO(t models.Topic) TopicDTO {
	return TopicDTO{
		ID:            t.ID.Hex(),
		CategoryID:    t.CategoryID.Hex(),
		Title:         t.Title,
		Description:   t.Description,
		Keywords:      t.Keywords,
		Status:        string(t.Status),
		ScheduledDate: t.ScheduledDate,
		CreatedAt:     t.CreatedAt,
	}
}

// BlogDTO is the list representation; Content is omitted to keep list
// responses small.
type BlogDTO struct {
	ID            string     `json:"id"`
	TopicID       string     `json:"topic_id"`
	Title         string     `json:"title"`
	SEOTitle      string     `json:"seo_title"`
	Tags          []string   `json:"tags"`
	WordCount     int        `json:"word_count"`
	Status        string     `json:"status"`
	CoverImageURL string     `json:"cover_image_url,omitempty"`
	RemoteURL     string     `json:"remote_url,omitempty"`
	PublishedAt   *time.Time `json:"published_at"`
	CreatedAt     time.Time  `json:"created_at"`
}

func NewBlogDTO(b models.Blog) BlogDTO {
	return BlogDTO{
		ID:            b.ID.Hex(),
		TopicID:       b.TopicID.Hex(),
		Title:         b.Title,
		SEOTitle:      b.SEOTitle,
		Tags:          b.Tags,
		WordCount:     b.WordCount,
		Status:        string(b.Status),
		CoverImageURL: b.CoverImageURL,
		RemoteURL:     b.RemoteURL,
		PublishedAt:   b.PublishedAt,
		CreatedAt:     b.CreatedAt,
	}
}

// BlogDetailDTO is the single-blog representation with full content and the
// originating topic and category.
type BlogDetailDTO struct {
	BlogDTO
	Content         string          `json:"content"`
	MetaDescription string          `json:"meta_description"`
	Topic           *TopicRefDTO    `json:"topic,omitempty"`
	Category        *CategoryRefDTO `json:"category,omitempty"`
}

type TopicRefDTO struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	ScheduledDate time.Time `json:"scheduled_date"`
}

type CategoryRefDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func NewBlogDetailDTO(b models.Blog, topic *models.Topic, category *models.Category) BlogDetailDTO {
	d := BlogDetailDTO{
		BlogDTO:         NewBlogDTO(b),
		Content:         b.Content,
		MetaDescription: b.MetaDescription,
	}
	if topic != nil {
		d.Topic = &TopicRefDTO{
			ID:            topic.ID.Hex(),
			Title:         topic.Title,
			ScheduledDate: topic.ScheduledDate,
		}
	}
	if category != nil {
		d.Category = &CategoryRefDTO{ID: category.ID.Hex(), Name: category.Name}
	}
	return d
}

type RunLogDTO struct {
	ID        string         `json:"id"`
	JobType   string         `json:"job_type"`
	Status    string         `json:"status"`
	Details   map[string]any `json:"details"`
	CreatedAt time.Time      `json:"created_at"`
}

func NewRunLogDTO(l models.RunLog) RunLogDTO {
	return RunLogDTO{
		ID:        l.ID.Hex(),
		JobType:   string(l.JobType),
		Status:    string(l.Status),
		Details:   l.Details,
		CreatedAt: l.CreatedAt,
	}
}

type StatsDTO struct {
	TotalCategories  int64 `json:"total_categories"`
	ActiveCategories int64 `json:"active_categories"`
	PendingTopics    int64 `json:"pending_topics"`
	FailedTopics     int64 `json:"failed_topics"`
	PublishedBlogs   int64 `json:"published_blogs"`
	DraftBlogs       int64 `json:"draft_blogs"`
}

// PaginationTopicDTO is a concrete swagger-friendly type for paginated topics.
// swagger:model PaginationTopicDTO
type PaginationTopicDTO struct {
	Data     []TopicDTO `json:"data"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
	Total    int64      `json:"total"`
}

// PaginationBlogDTO is a concrete swagger-friendly type for paginated blogs.
// swagger:model PaginationBlogDTO
type PaginationBlogDTO struct {
	Data     []BlogDTO `json:"data"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
	Total    int64     `json:"total"`
}

// PaginationRunLogDTO is a concrete swagger-friendly type for paginated logs.
// swagger:model PaginationRunLogDTO
type PaginationRunLogDTO struct {
	Data     []RunLogDTO `json:"data"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	Total    int64       `json:"total"`
}
