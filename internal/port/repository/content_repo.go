package repository

import (
	"context"
	"time"

	"github.com/Abdurahmanit/GroupProject/content-service/internal/entity"
)

// ContentRepository reads and writes the primary generated content collection.
type ContentRepository interface {
	// ListLatest returns up to limit items ordered by publish time, newest first.
	ListLatest(ctx context.Context, limit int) ([]*entity.FeedItem, error)
	ListSince(ctx context.Context, since time.Time, limit int) ([]*entity.FeedItem, error)
	GetByID(ctx context.Context, id string) (*entity.FeedItem, error)
	ExistsByHeadline(ctx context.Context, headline string) (bool, error)
	Create(ctx context.Context, content *entity.NewContent) (string, error)
	SetFeatures(ctx context.Context, id string, features map[string]bool) error
	// ApplyFeatureUpdates writes updates in batches of at most batchSize operations
	// and returns the number of documents modified.
	ApplyFeatureUpdates(ctx context.Context, updates []entity.FeatureUpdate, batchSize int) (int, error)
	// ScanFeatures calls fn with the raw flag bag of every document.
	ScanFeatures(ctx context.Context, fn func(id string, features map[string]interface{}) error) error
	Count(ctx context.Context) (int64, error)
	ListRaw(ctx context.Context, limit int) ([]entity.RawDocument, error)
}

// LegacyArticleRepository reads the older articles collection.
type LegacyArticleRepository interface {
	ListLatest(ctx context.Context, limit int) ([]*entity.FeedItem, error)
	GetByID(ctx context.Context, id string) (*entity.FeedItem, error)
}
