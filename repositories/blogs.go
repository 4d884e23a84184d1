package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"blogpilot/models"
)

type BlogRepository struct {
	col *mongo.Collection
}

func NewBlogRepository(db *mongo.Database) *BlogRepository {
	return &BlogRepository{col: db.Collection("blogs")}
}

// Insert inserts a new blog document, assigning an ID when the caller did
// not set one.
func (r *BlogRepository) Insert(ctx context.Context, b *models.Blog) (*mongo.InsertOneResult, error) {
	now := time.Now()
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
	return r.col.InsertOne(ctx, b)
}

// FindByID returns a blog by its ObjectID.
func (r *BlogRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Blog, error) {
	var b models.Blog
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&b); err != nil {
		return nil, err
	}
	return &b, nil
}

// FindByTopic returns the blog produced from the given topic, if any.
func (r *BlogRepository) FindByTopic(ctx context.Context, topicID primitive.ObjectID) (*models.Blog, error) {
	var b models.Blog
	if err := r.col.FindOne(ctx, bson.M{"topic_id": topicID}).Decode(&b); err != nil {
		return nil, err
	}
	return &b, nil
}

// UpdateCoverImage sets the cover image URL.
func (r *BlogRepository) UpdateCoverImage(ctx context.Context, id primitive.ObjectID, url string) error {
	_, err := r.col.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"cover_image_url": url, "updated_at": time.Now()},
	})
	return err
}

// MarkPublished records the remote post identity and flips the blog to
// published.
func (r *BlogRepository) MarkPublished(ctx context.Context, id primitive.ObjectID, remotePostID, remoteURL string, publishedAt time.Time) error {
	_, err := r.col.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{
			"status":         models.BlogPublished,
			"remote_post_id": remotePostID,
			"remote_url":     remoteURL,
			"published_at":   publishedAt,
			"updated_at":     time.Now(),
		},
	})
	return err
}

// RevertToDraft returns a blog to draft after a failed publication so the
// generated content is kept for a retry.
func (r *BlogRepository) RevertToDraft(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.col.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"status": models.BlogDraft, "updated_at": time.Now()},
	})
	return err
}

type ListBlogsOptions struct {
	Page     int
	PageSize int
	Status   models.BlogStatus
}

// List returns blogs with optional status filter and pagination, newest first.
func (r *BlogRepository) List(ctx context.Context, opt ListBlogsOptions) ([]models.Blog, int64, error) {
	filter := bson.M{}
	if opt.Status != "" {
		filter["status"] = opt.Status
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

	var results []models.Blog
	for cur.Next(ctx) {
		var b models.Blog
		if err := cur.Decode(&b); err != nil {
			return nil, 0, err
		}
		results = append(results, b)
	}
	if err := cur.Err(); err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

// CountByStatus returns blog counts grouped by lifecycle status.
func (r *BlogRepository) CountByStatus(ctx context.Context) (map[models.BlogStatus]int64, error) {
	cur, err := r.col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	counts := make(map[models.BlogStatus]int64)
	for cur.Next(ctx) {
		var row struct {
			Status models.BlogStatus `bson:"_id"`
			Count  int64             `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		counts[row.Status] = row.Count
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}
