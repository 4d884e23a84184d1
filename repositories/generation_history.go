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

type GenerationHistoryRepository struct {
	col *mongo.Collection
}

func NewGenerationHistoryRepository(db *mongo.Database) *GenerationHistoryRepository {
	return &GenerationHistoryRepository{col: db.Collection("generation_history")}
}

// InsertMany records a batch of accepted topics in the duplicate corpus.
func (r *GenerationHistoryRepository) InsertMany(ctx context.Context, entries []models.GenerationHistory) error {
	if len(entries) == 0 {
		return nil
	}
	now := time.Now()
	docs := make([]interface{}, 0, len(entries))
	for i := range entries {
		if entries[i].GeneratedAt.IsZero() {
			entries[i].GeneratedAt = now
		}
		docs = append(docs, entries[i])
	}
	_, err := r.col.InsertMany(ctx, docs)
	return err
}

// TitlesSince returns every recorded title for the category generated after
// the cutoff. The result is the comparison corpus for uniqueness checks, so
// no limit is applied beyond the time window.
func (r *GenerationHistoryRepository) TitlesSince(ctx context.Context, categoryID primitive.ObjectID, cutoff time.Time) ([]string, error) {
	findOpts := options.Find().
		SetSort(bson.D{{Key: "generated_at", Value: -1}}).
		SetProjection(bson.M{"topic_title": 1})
	filter := bson.M{
		"category_id":  categoryID,
		"generated_at": bson.M{"$gte": cutoff},
	}
	cur, err := r.col.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var titles []string
	for cur.Next(ctx) {
		var row struct {
			TopicTitle string `bson:"topic_title"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		titles = append(titles, row.TopicTitle)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return titles, nil
}

// FingerprintExists checks whether an identical keyword set was already
// recorded, which short-circuits the pairwise similarity scan.
func (r *GenerationHistoryRepository) FingerprintExists(ctx context.Context, fingerprint string) (bool, error) {
	err := r.col.FindOne(ctx, bson.M{"fingerprint": fingerprint}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	return err == nil, err
}
