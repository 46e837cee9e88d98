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

const bookmarksCollectionName = "bookmarks"

type BookmarkMongoRepository struct {
	db *mongo.Database
}

func NewBookmarkMongoRepository(client *mongo.Client, dbName string) *BookmarkMongoRepository {
	return &BookmarkMongoRepository{
		db: client.Database(dbName),
	}
}

var _ repository.BookmarkRepository = (*BookmarkMongoRepository)(nil)

type bookmarkDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	ContentID string             `bson:"content_id"`
	CreatedAt primitive.DateTime `bson:"created_at"`
}

// Add is idempotent: bookmarking the same content twice keeps the first timestamp.
func (r *BookmarkMongoRepository) Add(ctx context.Context, userID, contentID string) error {
	filter := bson.M{
		"user_id":    userID,
		"content_id": contentID,
	}
	doc := bson.M{
		"user_id":    userID,
		"content_id": contentID,
		"created_at": primitive.NewDateTimeFromTime(time.Now()),
	}

	opts := options.Update().SetUpsert(true)
	_, err := r.db.Collection(bookmarksCollectionName).UpdateOne(ctx, filter, bson.M{"$setOnInsert": doc}, opts)
	if err != nil {
		return fmt.Errorf("failed to add bookmark in mongo: %w", classify(err))
	}
	return nil
}

func (r *BookmarkMongoRepository) Remove(ctx context.Context, userID, contentID string) error {
	filter := bson.M{
		"user_id":    userID,
		"content_id": contentID,
	}
	res, err := r.db.Collection(bookmarksCollectionName).DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to remove bookmark from mongo: %w", classify(err))
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *BookmarkMongoRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Bookmark, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.db.Collection(bookmarksCollectionName).Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks from mongo: %w", classify(err))
	}
	defer cursor.Close(ctx)

	var docs []bookmarkDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode bookmarks: %w", classify(err))
	}

	bookmarks := make([]*entity.Bookmark, 0, len(docs))
	for _, d := range docs {
		bookmarks = append(bookmarks, &entity.Bookmark{
			ID:        d.ID.Hex(),
			UserID:    d.UserID,
			ContentID: d.ContentID,
			CreatedAt: d.CreatedAt.Time(),
		})
	}
	return bookmarks, nil
}

func (r *BookmarkMongoRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	count, err := r.db.Collection(bookmarksCollectionName).CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("failed to count bookmarks in mongo: %w", classify(err))
	}
	return count, nil
}

func (r *BookmarkMongoRepository) CountByContent(ctx context.Context, contentIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(contentIDs))
	if len(contentIDs) == 0 {
		return counts, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"content_id": bson.M{"$in": contentIDs}}}},
		{{Key: "$group", Value: bson.M{"_id": "$content_id", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := r.db.Collection(bookmarksCollectionName).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate bookmark counts in mongo: %w", classify(err))
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ContentID string `bson:"_id"`
		Count     int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode bookmark counts: %w", classify(err))
	}
	for _, row := range rows {
		counts[row.ContentID] = row.Count
	}
	return counts, nil
}
