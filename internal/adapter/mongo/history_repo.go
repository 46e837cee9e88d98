package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/content-service/internal/entity"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/port/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const historyCollectionName = "reading_history"

type HistoryMongoRepository struct {
	db *mongo.Database
}

func NewHistoryMongoRepository(client *mongo.Client, dbName string) *HistoryMongoRepository {
	return &HistoryMongoRepository{
		db: client.Database(dbName),
	}
}

var _ repository.HistoryRepository = (*HistoryMongoRepository)(nil)

type historyDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	ContentID string             `bson:"content_id"`
	ReadAt    primitive.DateTime `bson:"read_at"`
}

// Record upserts the entry so that re-reading only bumps read_at.
func (r *HistoryMongoRepository) Record(ctx context.Context, userID, contentID string) error {
	filter := bson.M{
		"user_id":    userID,
		"content_id": contentID,
	}
	update := bson.M{"$set": bson.M{"read_at": primitive.NewDateTimeFromTime(time.Now())}}

	opts := options.Update().SetUpsert(true)
	if _, err := r.db.Collection(historyCollectionName).UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to record history in mongo: %w", classify(err))
	}
	return nil
}

func (r *HistoryMongoRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*entity.HistoryEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "read_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := r.db.Collection(historyCollectionName).Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list history from mongo: %w", classify(err))
	}
	defer cursor.Close(ctx)

	var docs []historyDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode history: %w", classify(err))
	}

	entries := make([]*entity.HistoryEntry, 0, len(docs))
	for _, d := range docs {
		entries = append(entries, &entity.HistoryEntry{
			ID:        d.ID.Hex(),
			UserID:    d.UserID,
			ContentID: d.ContentID,
			ReadAt:    d.ReadAt.Time(),
		})
	}
	return entries, nil
}

func (r *HistoryMongoRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	count, err := r.db.Collection(historyCollectionName).CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("failed to count history in mongo: %w", classify(err))
	}
	return count, nil
}
