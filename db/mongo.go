package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"blogpilot/config"
	"blogpilot/logger"
)

// Connect opens the Mongo client, verifies the connection and ensures the
// index set for all collections.
func Connect(ctx context.Context, cfg config.MongoConfig) (*mongo.Database, error) {
	cl, err := mongo.NewClient(options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := cl.Connect(connectCtx); err != nil {
		return nil, err
	}
	if err := cl.Ping(connectCtx, readpref.Primary()); err != nil {
		return nil, err
	}

	d := cl.Database(cfg.Database)
	if err := ensureIndexes(ctx, d); err != nil {
		return nil, err
	}
	logger.Log.Info("MongoDB connected and indexes ensured")
	return d, nil
}

// Ping verifies storage connectivity for the health probe.
func Ping(ctx context.Context, d *mongo.Database) error {
	return d.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}

func ensureIndexes(ctx context.Context, d *mongo.Database) error {
	// categories: unique name, selection order
	{
		if _, err := d.Collection("categories").Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetName("uniq_name").SetUnique(true),
		}); err != nil {
			return err
		}
		if _, err := d.Collection("categories").Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "is_active", Value: 1}, {Key: "last_used_date", Value: 1}, {Key: "usage_count", Value: 1}},
			Options: options.Index().SetName("idx_selection_order"),
		}); err != nil {
			return err
		}
	}

	// topics: scheduled-date + status lookups, category back-reference
	{
		if _, err := d.Collection("topics").Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "scheduled_date", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_scheduled_status"),
		}); err != nil {
			return err
		}
		if _, err := d.Collection("topics").Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "category_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_category_created"),
		}); err != nil {
			return err
		}
	}

	// blogs: status lookups, topic back-reference
	{
		if _, err := d.Collection("blogs").Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_status_created"),
		}); err != nil {
			return err
		}
		if _, err := d.Collection("blogs").Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "topic_id", Value: 1}},
			Options: options.Index().SetName("idx_topic_id"),
		}); err != nil {
			return err
		}
	}

	// generation_history: duplicate-corpus lookups by category and recency,
	// fingerprint pre-checks
	{
		if _, err := d.Collection("generation_history").Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "category_id", Value: 1}, {Key: "generated_at", Value: -1}},
			Options: options.Index().SetName("idx_category_generated"),
		}); err != nil {
			return err
		}
		if _, err := d.Collection("generation_history").Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "fingerprint", Value: 1}},
			Options: options.Index().SetName("idx_fingerprint"),
		}); err != nil {
			return err
		}
	}

	// logs: chronological retrieval, optionally filtered by job type
	{
		if _, err := d.Collection("logs").Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "job_type", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_jobtype_created"),
		}); err != nil {
			return err
		}
	}
	return nil
}
