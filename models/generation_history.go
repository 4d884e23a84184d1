package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GenerationHistory is an append-only record of every accepted topic title,
// kept as an expanding duplicate-detection corpus. Never updated or deleted.
// Collection: generation_history
type GenerationHistory struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CategoryID  primitive.ObjectID `bson:"category_id" json:"category_id"`
	TopicTitle  string             `bson:"topic_title" json:"topic_title"`
	Keywords    string             `bson:"keywords" json:"keywords"`
	Fingerprint string             `bson:"fingerprint" json:"fingerprint"`
	GeneratedAt time.Time          `bson:"generated_at" json:"generated_at"`
}
