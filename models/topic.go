package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TopicStatus tracks a topic through the publication pipeline.
type TopicStatus string

const (
	TopicPending    TopicStatus = "pending"
	TopicInProgress TopicStatus = "in_progress"
	TopicCompleted  TopicStatus = "completed"
	TopicFailed     TopicStatus = "failed"
)

// Topic is one candidate article subject. ScheduledDate is a calendar date
// stored as a midnight-normalized timestamp.
// Collection: topics
type Topic struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
	CategoryID    primitive.ObjectID `bson:"category_id" json:"category_id"`
	Title         string             `bson:"title" json:"title"`
	Description   string             `bson:"description" json:"description"`
	Keywords      string             `bson:"keywords" json:"keywords"` // comma-separated
	Status        TopicStatus        `bson:"status" json:"status"`
	ScheduledDate time.Time          `bson:"scheduled_date" json:"scheduled_date"`
}

// Midnight normalizes t to 00:00:00 UTC of its calendar day.
func Midnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
