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

type TopicRepository struct {
	col *mongo.Collection
}

func NewTopicRepository(db *mongo.Database) *TopicRepository {
	return &TopicRepository{col: db.Collection("topics")}
}

// InsertMany inserts a batch of topics in one call.
func (r *TopicRepository) InsertMany(ctx context.Context, topics []models.Topic) error {
	if len(topics) == 0 {
		return nil
	}
	now := time.Now()
	docs := make([]interface{}, 0, len(topics))
	for i := range topics {
		if topics[i].CreatedAt.IsZero() {
			topics[i].CreatedAt = now
		}
		topics[i].UpdatedAt = now
		docs = append(docs, topics[i])
	}
	_, err := r.col.InsertMany(ctx, docs)
	return err
}

// FindByID returns a topic by its ObjectID.
func (r *TopicRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Topic, error) {
	var t models.Topic
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		return nil, err
	}
	return &t, nil
}

// FindScheduledPending returns the pending topic scheduled for the given day,
// or mongo.ErrNoDocuments when the day has none.
func (r *TopicRepository) FindScheduledPending(ctx context.Context, day time.Time) (*models.Topic, error) {
	start := models.Midnight(day)
	end := start.AddDate(0, 0, 1)
	filter := bson.M{
		"status":         models.TopicPending,
		"scheduled_date": bson.M{"$gte": start, "$lt": end},
	}
	var t models.Topic
	if err := r.col.FindOne(ctx, filter, options.FindOne().SetSort(bson.D{{Key: "scheduled_date", Value: 1}})).Decode(&t); err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateStatus moves a topic to the given lifecycle status.
func (r *TopicRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.TopicStatus) error {
	_, err := r.col.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"status": status, "updated_at": time.Now()},
	})
	return err
}

type ListTopicsOptions struct {
	Page     int
	PageSize int
	Status   models.TopicStatus
}

// List returns topics with optional status filter and pagination, newest first.
func (r *TopicRepository) List(ctx context.Context, opt ListTopicsOptions) ([]models.Topic, int64, error) {
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

	var results []models.Topic
	for cur.Next(ctx) {
		var t models.Topic
		if err := cur.Decode(&t); err != nil {
			return nil, 0, err
		}
		results = append(results, t)
	}
	if err := cur.Err(); err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

// ListUpcoming returns pending topics scheduled within the next days
// starting at from, soonest first.
func (r *TopicRepository) ListUpcoming(ctx context.Context, from time.Time, days int) ([]models.Topic, error) {
	start := models.Midnight(from)
	end := start.AddDate(0, 0, days+1)
	filter := bson.M{
		"status":         models.TopicPending,
		"scheduled_date": bson.M{"$gte": start, "$lt": end},
	}
	findOpts := options.Find().SetSort(bson.D{{Key: "scheduled_date", Value: 1}})
	cur, err := r.col.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var results []models.Topic
	for cur.Next(ctx) {
		var t models.Topic
		if err := cur.Decode(&t); err != nil {
			return nil, err
		}
		results = append(results, t)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// CountByStatus returns topic counts grouped by lifecycle status.
func (r *TopicRepository) CountByStatus(ctx context.Context) (map[models.TopicStatus]int64, error) {
	cur, err := r.col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	counts := make(map[models.TopicStatus]int64)
	for cur.Next(ctx) {
		var row struct {
			Status models.TopicStatus `bson:"_id"`
			Count  int64              `bson:"count"`
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

// TitlesSince returns titles of the category's topics created after the
// cutoff, newest first, capped at limit. Together with the generation history
// this forms the duplicate corpus; topics inserted outside the generator have
// no history row and are only visible here.
func (r *TopicRepository) TitlesSince(ctx context.Context, categoryID primitive.ObjectID, cutoff time.Time, limit int64) ([]string, error) {
	findOpts := options.Find().
		SetLimit(limit).
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetProjection(bson.M{"title": 1})
	filter := bson.M{
		"category_id": categoryID,
		"created_at":  bson.M{"$gte": cutoff},
	}
	cur, err := r.col.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var titles []string
	for cur.Next(ctx) {
		var row struct {
			Title string `bson:"title"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		titles = append(titles, row.Title)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return titles, nil
}
