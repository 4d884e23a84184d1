package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// JobType names the two pipeline jobs.
type JobType string

const (
	JobTopicGeneration JobType = "topic_generation"
	JobBlogPublishing  JobType = "blog_publishing"
)

// JobStatus is the lifecycle of one job run.
type JobStatus string

const (
	JobStarted   JobStatus = "started"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// RunLog is the operational audit record of a pipeline run. Append-only.
// Collection: logs
type RunLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	JobType   JobType            `bson:"job_type" json:"job_type"`
	Status    JobStatus          `bson:"status" json:"status"`
	Details   map[string]any     `bson:"details" json:"details"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
