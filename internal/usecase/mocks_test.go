package usecase

import (
	"context"
	"time"

	"github.com/Abdurahmanit/GroupProject/content-service/internal/entity"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/port/events"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/port/ingest"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/port/storage"
	"github.com/stretchr/testify/mock"
)

type MockContentRepository struct{ mock.Mock }

func (m *MockContentRepository) ListLatest(ctx context.Context, limit int) ([]*entity.FeedItem, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.FeedItem), args.Error(1)
}
func (m *MockContentRepository) ListSince(ctx context.Context, since time.Time, limit int) ([]*entity.FeedItem, error) {
	args := m.Called(ctx, since, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.FeedItem), args.Error(1)
}
func (m *MockContentRepository) GetByID(ctx context.Context, id string) (*entity.FeedItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.FeedItem), args.Error(1)
}
func (m *MockContentRepository) ExistsByHeadline(ctx context.Context, headline string) (bool, error) {
	args := m.Called(ctx, headline)
	return args.Bool(0), args.Error(1)
}
func (m *MockContentRepository) Create(ctx context.Context, content *entity.NewContent) (string, error) {
	args := m.Called(ctx, content)
	return args.String(0), args.Error(1)
}
func (m *MockContentRepository) SetFeatures(ctx context.Context, id string, features map[string]bool) error {
	args := m.Called(ctx, id, features)
	return args.Error(0)
}
func (m *MockContentRepository) ApplyFeatureUpdates(ctx context.Context, updates []entity.FeatureUpdate, batchSize int) (int, error) {
	// Copy so later reuse of the caller's slice does not alter recorded calls.
	recorded := append([]entity.FeatureUpdate(nil), updates...)
	args := m.Called(ctx, recorded, batchSize)
	return args.Int(0), args.Error(1)
}
func (m *MockContentRepository) ScanFeatures(ctx context.Context, fn func(id string, features map[string]interface{}) error) error {
	args := m.Called(ctx, fn)
	return args.Error(0)
}
func (m *MockContentRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockContentRepository) ListRaw(ctx context.Context, limit int) ([]entity.RawDocument, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.RawDocument), args.Error(1)
}

type MockLegacyRepository struct{ mock.Mock }

func (m *MockLegacyRepository) ListLatest(ctx context.Context, limit int) ([]*entity.FeedItem, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.FeedItem), args.Error(1)
}
func (m *MockLegacyRepository) GetByID(ctx context.Context, id string) (*entity.FeedItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.FeedItem), args.Error(1)
}

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}
func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}
func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}
func (m *MockUserRepository) Update(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type MockBookmarkRepository struct{ mock.Mock }

func (m *MockBookmarkRepository) Add(ctx context.Context, userID, contentID string) error {
	args := m.Called(ctx, userID, contentID)
	return args.Error(0)
}
func (m *MockBookmarkRepository) Remove(ctx context.Context, userID, contentID string) error {
	args := m.Called(ctx, userID, contentID)
	return args.Error(0)
}
func (m *MockBookmarkRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Bookmark, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Bookmark), args.Error(1)
}
func (m *MockBookmarkRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockBookmarkRepository) CountByContent(ctx context.Context, contentIDs []string) (map[string]int64, error) {
	args := m.Called(ctx, contentIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

type MockHistoryRepository struct{ mock.Mock }

func (m *MockHistoryRepository) Record(ctx context.Context, userID, contentID string) error {
	args := m.Called(ctx, userID, contentID)
	return args.Error(0)
}
func (m *MockHistoryRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*entity.HistoryEntry, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.HistoryEntry), args.Error(1)
}
func (m *MockHistoryRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type MockCacheRepository struct{ mock.Mock }

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}
func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
func (m *MockCacheRepository) DeletePrefix(ctx context.Context, prefix string) error {
	args := m.Called(ctx, prefix)
	return args.Error(0)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) PublishContentCreated(ctx context.Context, evt events.ContentCreated) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}
func (m *MockPublisher) PublishFeaturesUpdated(ctx context.Context, evt events.FeaturesUpdated) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}
func (m *MockPublisher) PublishFeaturesMigrated(ctx context.Context, evt events.FeaturesMigrated) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}
func (m *MockPublisher) PublishBookmarkAdded(ctx context.Context, evt events.BookmarkChanged) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}
func (m *MockPublisher) PublishBookmarkRemoved(ctx context.Context, evt events.BookmarkChanged) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}
func (m *MockPublisher) PublishUserRegistered(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type MockFetcher struct{ mock.Mock }

func (m *MockFetcher) FetchFeed(ctx context.Context, feedURL string) ([]ingest.Item, error) {
	args := m.Called(ctx, feedURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ingest.Item), args.Error(1)
}
func (m *MockFetcher) ExtractArticle(ctx context.Context, pageURL string) (string, error) {
	args := m.Called(ctx, pageURL)
	return args.String(0), args.Error(1)
}
func (m *MockFetcher) ToMarkdown(html string) (string, error) {
	args := m.Called(html)
	return args.String(0), args.Error(1)
}

type MockObjectStore struct{ mock.Mock }

func (m *MockObjectStore) Get(ctx context.Context, key string) (*storage.Object, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Object), args.Error(1)
}
func (m *MockObjectStore) Put(ctx context.Context, key string, obj *storage.Object) error {
	args := m.Called(ctx, key, obj)
	return args.Error(0)
}
