package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/content-service/internal/entity"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/port/repository"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	generatedCollectionName = "generated_content"
	// MaxBatchSize is the largest number of write operations sent in one BulkWrite.
	MaxBatchSize = 500
)

type ContentMongoRepository struct {
	db  *mongo.Database
	now func() time.Time
}

func NewContentMongoRepository(client *mongo.Client, dbName string) *ContentMongoRepository {
	return &ContentMongoRepository{
		db:  client.Database(dbName),
		now: time.Now,
	}
}

var _ repository.ContentRepository = (*ContentMongoRepository)(nil)

type generatedDocument struct {
	ID               string          `bson:"_id"`
	OriginalHeadline string          `bson:"original_headline"`
	Content          string          `bson:"content"`
	Category         string          `bson:"category"`
	User             string          `bson:"user"`
	ImageURL         string          `bson:"image_url,omitempty"`
	Time             string          `bson:"time"`
	Features         map[string]bool `bson:"features"`
	Tags             []string        `bson:"tags,omitempty"`
	ContentType      string          `bson:"content_type,omitempty"`
}

func toGeneratedDocument(c *entity.NewContent) *generatedDocument {
	features := c.Features
	if features == nil {
		features = map[string]bool{}
	}
	return &generatedDocument{
		ID:               c.ID,
		OriginalHeadline: c.Headline,
		Content:          c.Content,
		Category:         c.Category,
		User:             c.User,
		ImageURL:         c.ImageURL,
		Time:             entity.FormatTimestamp(c.Time),
		Features:         features,
		Tags:             c.Tags,
		ContentType:      "article",
	}
}

func (r *ContentMongoRepository) collection() *mongo.Collection {
	return r.db.Collection(generatedCollectionName)
}

func (r *ContentMongoRepository) find(ctx context.Context, filter bson.M, limit int) ([]*entity.FeedItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "time", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := r.collection().Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list generated content from mongo: %w", classify(err))
	}
	defer cursor.Close(ctx)

	now := r.now()
	var items []*entity.FeedItem
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode generated content document: %w", err)
		}
		items = append(items, toGeneratedItem(doc, now))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error while listing generated content: %w", classify(err))
	}
	return items, nil
}

func (r *ContentMongoRepository) ListLatest(ctx context.Context, limit int) ([]*entity.FeedItem, error) {
	return r.find(ctx, bson.M{}, limit)
}

// ListSince returns documents whose time is not older than since.
func (r *ContentMongoRepository) ListSince(ctx context.Context, since time.Time, limit int) ([]*entity.FeedItem, error) {
	return r.find(ctx, sinceFilter(since), limit)
}

// sinceFilter matches every stored time encoding. Range operators only compare
// values of the same BSON type, so each encoding needs its own branch.
func sinceFilter(since time.Time) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"time": bson.M{"$gte": entity.FormatTimestamp(since)}},
		bson.M{"time": bson.M{"$gte": primitive.NewDateTimeFromTime(since)}},
		bson.M{"time._seconds": bson.M{"$gte": since.Unix()}},
	}}
}

func (r *ContentMongoRepository) GetByID(ctx context.Context, id string) (*entity.FeedItem, error) {
	var doc bson.M
	err := r.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("failed to get generated content by id from mongo: %w", classify(err))
	}
	return toGeneratedItem(doc, r.now()), nil
}

func (r *ContentMongoRepository) ExistsByHeadline(ctx context.Context, headline string) (bool, error) {
	count, err := r.collection().CountDocuments(ctx, bson.M{"original_headline": headline}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check headline in mongo: %w", classify(err))
	}
	return count > 0, nil
}

func (r *ContentMongoRepository) Create(ctx context.Context, content *entity.NewContent) (string, error) {
	if content.ID == "" {
		content.ID = uuid.NewString()
	}
	if content.Time.IsZero() {
		content.Time = r.now()
	}
	if _, err := r.collection().InsertOne(ctx, toGeneratedDocument(content)); err != nil {
		return "", fmt.Errorf("failed to create generated content in mongo: %w", classify(err))
	}
	return content.ID, nil
}

// SetFeatures upserts the given flags one key at a time, leaving other flags untouched.
func (r *ContentMongoRepository) SetFeatures(ctx context.Context, id string, features map[string]bool) error {
	if len(features) == 0 {
		return nil
	}
	opts := options.Update().SetUpsert(true)
	_, err := r.collection().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": featureSet(features)}, opts)
	if err != nil {
		return fmt.Errorf("failed to set features in mongo: %w", classify(err))
	}
	return nil
}

func featureSet(features map[string]bool) bson.M {
	set := bson.M{}
	for k, v := range features {
		set["features."+k] = v
	}
	return set
}

func (r *ContentMongoRepository) ApplyFeatureUpdates(ctx context.Context, updates []entity.FeatureUpdate, batchSize int) (int, error) {
	if batchSize <= 0 || batchSize > MaxBatchSize {
		batchSize = MaxBatchSize
	}

	modified := 0
	for start := 0; start < len(updates); start += batchSize {
		end := start + batchSize
		if end > len(updates) {
			end = len(updates)
		}

		models := make([]mongo.WriteModel, 0, end-start)
		for _, u := range updates[start:end] {
			var update bson.M
			if u.Replace {
				update = bson.M{"$set": bson.M{"features": u.Features}}
			} else {
				update = bson.M{"$set": featureSet(u.Features)}
			}
			models = append(models, mongo.NewUpdateOneModel().SetFilter(bson.M{"_id": u.ID}).SetUpdate(update))
		}

		res, err := r.collection().BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true))
		if res != nil {
			modified += int(res.ModifiedCount)
		}
		if err != nil {
			return modified, fmt.Errorf("failed to apply feature batch %d-%d in mongo: %w", start, end, classify(err))
		}
	}
	return modified, nil
}

func (r *ContentMongoRepository) ScanFeatures(ctx context.Context, fn func(id string, features map[string]interface{}) error) error {
	opts := options.Find().SetProjection(bson.M{"features": 1})
	cursor, err := r.collection().Find(ctx, bson.M{}, opts)
	if err != nil {
		return fmt.Errorf("failed to scan features in mongo: %w", classify(err))
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return fmt.Errorf("failed to decode features document: %w", err)
		}
		raw := asMap(doc["features"])
		if raw == nil {
			raw = map[string]interface{}{}
		}
		if err := fn(documentID(doc["_id"]), raw); err != nil {
			return err
		}
	}
	if err := cursor.Err(); err != nil {
		return fmt.Errorf("cursor error while scanning features: %w", classify(err))
	}
	return nil
}

func (r *ContentMongoRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.collection().CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count generated content in mongo: %w", classify(err))
	}
	return count, nil
}

// ListRaw returns documents as stored, for debug dumps.
func (r *ContentMongoRepository) ListRaw(ctx context.Context, limit int) ([]entity.RawDocument, error) {
	opts := options.Find().SetSort(bson.D{{Key: "time", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := r.collection().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list raw documents from mongo: %w", classify(err))
	}
	defer cursor.Close(ctx)

	var docs []entity.RawDocument
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode raw document: %w", err)
		}
		doc["_id"] = documentID(doc["_id"])
		if features := asMap(doc["features"]); features != nil {
			doc["features"] = features
		}
		docs = append(docs, entity.RawDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error while listing raw documents: %w", classify(err))
	}
	return docs, nil
}
