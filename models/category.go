package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category is a content subject area.
// Collection: categories
type Category struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
	Name         string             `bson:"name" json:"name"`
	Description  string             `bson:"description" json:"description"`
	IsActive     bool               `bson:"is_active" json:"is_active"`
	LastUsedDate *time.Time         `bson:"last_used_date" json:"last_used_date"`
	UsageCount   int64              `bson:"usage_count" json:"usage_count"`
}
