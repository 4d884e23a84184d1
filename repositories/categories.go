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

type CategoryRepository struct {
	col *mongo.Collection
}

func NewCategoryRepository(db *mongo.Database) *CategoryRepository {
	return &CategoryRepository{col: db.Collection("categories")}
}

// Insert inserts a new category document, assigning an ID when the caller
// did not set one.
func (r *CategoryRepository) Insert(ctx context.Context, c *models.Category) (*mongo.InsertOneResult, error) {
	now := time.Now()
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	return r.col.InsertOne(ctx, c)
}

// FindByID returns a category by its ObjectID.
func (r *CategoryRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	var c models.Category
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// FindByName returns a category by its exact name.
func (r *CategoryRepository) FindByName(ctx context.Context, name string) (*models.Category, error) {
	var c models.Category
	if err := r.col.FindOne(ctx, bson.M{"name": name}).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all categories sorted by name. When activeOnly is set only
// active categories are returned.
func (r *CategoryRepository) List(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	filter := bson.M{}
	if activeOnly {
		filter["is_active"] = true
	}
	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var results []models.Category
	for cur.Next(ctx) {
		var c models.Category
		if err := cur.Decode(&c); err != nil {
			return nil, err
		}
		results = append(results, c)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// CountActive returns the number of active categories.
func (r *CategoryRepository) CountActive(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{"is_active": true})
}

// PickLeastRecentlyUsed returns the active category that has waited longest
// for its turn. Categories never used sort first (missing last_used_date),
// ties break on the lower usage_count.
func (r *CategoryRepository) PickLeastRecentlyUsed(ctx context.Context) (*models.Category, error) {
	opts := options.FindOne().SetSort(bson.D{
		{Key: "last_used_date", Value: 1},
		{Key: "usage_count", Value: 1},
	})
	var c models.Category
	if err := r.col.FindOne(ctx, bson.M{"is_active": true}, opts).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// MarkUsed stamps the category as just used and bumps its usage count.
func (r *CategoryRepository) MarkUsed(ctx context.Context, id primitive.ObjectID, usedAt time.Time) error {
	_, err := r.col.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"last_used_date": usedAt, "updated_at": time.Now()},
		"$inc": bson.M{"usage_count": 1},
	})
	return err
}

// UpdateFields updates specific fields of a category.
func (r *CategoryRepository) UpdateFields(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	set := bson.M{"updated_at": time.Now()}
	for k, v := range updates {
		set[k] = v
	}
	_, err := r.col.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}
