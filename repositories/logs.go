package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"blogpilot/models"
)

type RunLogRepository struct {
	col *mongo.Collection
}

func NewRunLogRepository(db *mongo.Database) *RunLogRepository {
	return &RunLogRepository{col: db.Collection("logs")}
}

// Insert records one job run outcome.
func (r *RunLogRepository) Insert(ctx context.Context, log *models.RunLog) (*mongo.InsertOneResult, error) {
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	return r.col.InsertOne(ctx, log)
}

type ListRunLogsOptions struct {
	Page     int
	PageSize int
	JobType  models.JobType
}

// List returns run logs newest first, optionally filtered by job type.
func (r *RunLogRepository) List(ctx context.Context, opt ListRunLogsOptions) ([]models.RunLog, int64, error) {
	filter := bson.M{}
	if opt.JobType != "" {
		filter["job_type"] = opt.JobType
	}
	if opt.Page <= 0 {
		opt.Page = 1
	}
	if opt.PageSize <= 0 || opt.PageSize > 100 {
		opt.PageSize = 20
	}
	skip := int64((opt.Page - 1) * opt.PageSize)
	limit := int64(opt.PageSize)

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	findOpts := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{
		{Key: "created_at", Value: -1},
		{Key: "_id", Value: -1},
	})
	cur, err := r.col.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var results []models.RunLog
	for cur.Next(ctx) {
		var l models.RunLog
		if err := cur.Decode(&l); err != nil {
			return nil, 0, err
		}
		results = append(results, l)
	}
	if err := cur.Err(); err != nil {
		return nil, 0, err
	}
	return results, total, nil
}
