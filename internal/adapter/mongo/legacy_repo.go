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

const legacyCollectionName = "articles"

type LegacyArticleMongoRepository struct {
	db  *mongo.Database
	now func() time.Time
}

func NewLegacyArticleMongoRepository(client *mongo.Client, dbName string) *LegacyArticleMongoRepository {
	return &LegacyArticleMongoRepository{
		db:  client.Database(dbName),
		now: time.Now,
	}
}

var _ repository.LegacyArticleRepository = (*LegacyArticleMongoRepository)(nil)

func (r *LegacyArticleMongoRepository) ListLatest(ctx context.Context, limit int) ([]*entity.FeedItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := r.db.Collection(legacyCollectionName).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles from mongo: %w", classify(err))
	}
	defer cursor.Close(ctx)

	now := r.now()
	var items []*entity.FeedItem
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode article document: %w", err)
		}
		items = append(items, toLegacyItem(doc, now))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error while listing articles: %w", classify(err))
	}
	return items, nil
}

// GetByID accepts both hex ObjectIDs and plain string ids.
func (r *LegacyArticleMongoRepository) GetByID(ctx context.Context, id string) (*entity.FeedItem, error) {
	filter := bson.M{"_id": id}
	if objID, err := primitive.ObjectIDFromHex(id); err == nil {
		filter = bson.M{"_id": bson.M{"$in": bson.A{objID, id}}}
	}

	var doc bson.M
	if err := r.db.Collection(legacyCollectionName).FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to get article by id from mongo: %w", classify(err))
	}
	return toLegacyItem(doc, r.now()), nil
}
