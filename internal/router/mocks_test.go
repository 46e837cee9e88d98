package router

import (
	"context"
	"time"

	"github.com/Abdurahmanit/GroupProject/content-service/internal/entity"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/port/events"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/usecase"
	"github.com/stretchr/testify/mock"
)

type MockFeedService struct{ mock.Mock }

func (m *MockFeedService) items(args mock.Arguments) []*entity.FeedItem {
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]*entity.FeedItem)
}
func (m *MockFeedService) FetchAllContent(ctx context.Context, limit int) ([]*entity.FeedItem, error) {
	args := m.Called(ctx, limit)
	return m.items(args), args.Error(1)
}
func (m *MockFeedService) FetchBreakingNews(ctx context.Context, limit int) []*entity.FeedItem {
	return m.items(m.Called(ctx, limit))
}
func (m *MockFeedService) FetchTrendingNews(ctx context.Context, limit int) []*entity.FeedItem {
	return m.items(m.Called(ctx, limit))
}
func (m *MockFeedService) FetchHomeFeed(ctx context.Context, limit int) []*entity.FeedItem {
	return m.items(m.Called(ctx, limit))
}
func (m *MockFeedService) FetchBestOfWeek(ctx context.Context, limit int) []*entity.FeedItem {
	return m.items(m.Called(ctx, limit))
}
func (m *MockFeedService) FetchSingleArticle(ctx context.Context, id string) (*entity.FeedItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.FeedItem), args.Error(1)
}
func (m *MockFeedService) FetchByCategory(ctx context.Context, category string, limit int) ([]*entity.FeedItem, error) {
	args := m.Called(ctx, category, limit)
	return m.items(args), args.Error(1)
}
func (m *MockFeedService) FetchByCategories(ctx context.Context, categories []string, limit int) []*entity.FeedItem {
	return m.items(m.Called(ctx, categories, limit))
}
func (m *MockFeedService) SearchArticles(ctx context.Context, term string, limit int) ([]*entity.FeedItem, error) {
	args := m.Called(ctx, term, limit)
	return m.items(args), args.Error(1)
}
func (m *MockFeedService) RelatedArticles(ctx context.Context, item *entity.FeedItem, limit int) []*entity.FeedItem {
	return m.items(m.Called(ctx, item, limit))
}

type MockPostService struct{ mock.Mock }

func (m *MockPostService) CreatePost(ctx context.Context, input usecase.CreatePostInput) (*entity.FeedItem, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.FeedItem), args.Error(1)
}

// MockUserService also stands in as the token parser for JWT routes.
type MockUserService struct{ mock.Mock }

func (m *MockUserService) ParseToken(ctx context.Context, token string) (*usecase.Claims, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.Claims), args.Error(1)
}
func (m *MockUserService) Register(ctx context.Context, input usecase.RegisterInput) (*usecase.AuthResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.AuthResult), args.Error(1)
}
func (m *MockUserService) Login(ctx context.Context, email, password string) (*usecase.AuthResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.AuthResult), args.Error(1)
}
func (m *MockUserService) Logout(ctx context.Context, claims *usecase.Claims) error {
	return m.Called(ctx, claims).Error(0)
}
func (m *MockUserService) GetProfile(ctx context.Context, userID string) (*usecase.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.Profile), args.Error(1)
}
func (m *MockUserService) UpdateProfile(ctx context.Context, userID, displayName string) (*entity.User, error) {
	args := m.Called(ctx, userID, displayName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}
func (m *MockUserService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	return m.Called(ctx, userID, oldPassword, newPassword).Error(0)
}

type MockBookmarkService struct{ mock.Mock }

func (m *MockBookmarkService) AddBookmark(ctx context.Context, userID, contentID string) error {
	return m.Called(ctx, userID, contentID).Error(0)
}
func (m *MockBookmarkService) RemoveBookmark(ctx context.Context, userID, contentID string) error {
	return m.Called(ctx, userID, contentID).Error(0)
}
func (m *MockBookmarkService) ListBookmarks(ctx context.Context, userID string) ([]*entity.FeedItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.FeedItem), args.Error(1)
}

type MockHistoryService struct{ mock.Mock }

func (m *MockHistoryService) RecordRead(ctx context.Context, userID, contentID string) error {
	return m.Called(ctx, userID, contentID).Error(0)
}
func (m *MockHistoryService) ListHistory(ctx context.Context, userID string, limit int) ([]*entity.FeedItem, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.FeedItem), args.Error(1)
}

type MockFeatureService struct{ mock.Mock }

func (m *MockFeatureService) Refresh(ctx context.Context, now time.Time) (*events.FeaturesUpdated, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*events.FeaturesUpdated), args.Error(1)
}
func (m *MockFeatureService) SetFeatures(ctx context.Context, id string, flags map[string]bool) (map[string]bool, error) {
	args := m.Called(ctx, id, flags)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]bool), args.Error(1)
}
func (m *MockFeatureService) Migrate(ctx context.Context, input usecase.MigrateInput) (*events.FeaturesMigrated, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*events.FeaturesMigrated), args.Error(1)
}

type MockIngestService struct{ mock.Mock }

func (m *MockIngestService) Run(ctx context.Context) (*usecase.IngestResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.IngestResult), args.Error(1)
}

type MockImageProxy struct{ mock.Mock }

func (m *MockImageProxy) Fetch(ctx context.Context, imageURL string) *usecase.ProxyResult {
	return m.Called(ctx, imageURL).Get(0).(*usecase.ProxyResult)
}

type MockDebugService struct{ mock.Mock }

func (m *MockDebugService) Dump(ctx context.Context, limit int) (*usecase.DebugDump, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.DebugDump), args.Error(1)
}
func (m *MockDebugService) Content(ctx context.Context, limit int) (*usecase.DebugContent, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.DebugContent), args.Error(1)
}
