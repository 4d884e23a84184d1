package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BlogStatus tracks an article through publication.
type BlogStatus string

const (
	BlogDraft     BlogStatus = "draft"
	BlogPublished BlogStatus = "published"
	BlogFailed    BlogStatus = "failed"
)

// Blog is the generated long-form article tied 1:1 to a Topic. WordCount is
// recomputed from Content at validation time, never taken from the
// generative API.
// Collection: blogs
type Blog struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
	TopicID         primitive.ObjectID `bson:"topic_id" json:"topic_id"`
	Title           string             `bson:"title" json:"title"`
	SEOTitle        string             `bson:"seo_title" json:"seo_title"`
	Content         string             `bson:"content" json:"content"`
	MetaDescription string             `bson:"meta_description" json:"meta_description"`
	Tags            []string           `bson:"tags" json:"tags"`
	WordCount       int                `bson:"word_count" json:"word_count"`
	Status          BlogStatus         `bson:"status" json:"status"`
	CoverImageURL   string             `bson:"cover_image_url,omitempty" json:"cover_image_url,omitempty"`
	RemotePostID    string             `bson:"remote_post_id,omitempty" json:"remote_post_id,omitempty"`
	RemoteURL       string             `bson:"remote_url,omitempty" json:"remote_url,omitempty"`
	PublishedAt     *time.Time         `bson:"published_at" json:"published_at"`
}
