package handler

import (
	"context"
	"time"

	"github.com/Abdurahmanit/GroupProject/content-service/internal/entity"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/port/events"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/usecase"
)

// The interfaces below are the use case methods each handler calls.

type FeedService interface {
	FetchAllContent(ctx context.Context, limit int) ([]*entity.FeedItem, error)
	FetchBreakingNews(ctx context.Context, limit int) []*entity.FeedItem
	FetchTrendingNews(ctx context.Context, limit int) []*entity.FeedItem
	FetchHomeFeed(ctx context.Context, limit int) []*entity.FeedItem
	FetchBestOfWeek(ctx context.Context, limit int) []*entity.FeedItem
	FetchSingleArticle(ctx context.Context, id string) (*entity.FeedItem, error)
	FetchByCategory(ctx context.Context, category string, limit int) ([]*entity.FeedItem, error)
	FetchByCategories(ctx context.Context, categories []string, limit int) []*entity.FeedItem
	SearchArticles(ctx context.Context, term string, limit int) ([]*entity.FeedItem, error)
	RelatedArticles(ctx context.Context, item *entity.FeedItem, limit int) []*entity.FeedItem
}

type PostService interface {
	CreatePost(ctx context.Context, input usecase.CreatePostInput) (*entity.FeedItem, error)
}

type UserService interface {
	Register(ctx context.Context, input usecase.RegisterInput) (*usecase.AuthResult, error)
	Login(ctx context.Context, email, password string) (*usecase.AuthResult, error)
	Logout(ctx context.Context, claims *usecase.Claims) error
	GetProfile(ctx context.Context, userID string) (*usecase.Profile, error)
	UpdateProfile(ctx context.Context, userID, displayName string) (*entity.User, error)
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
}

type BookmarkService interface {
	AddBookmark(ctx context.Context, userID, contentID string) error
	RemoveBookmark(ctx context.Context, userID, contentID string) error
	ListBookmarks(ctx context.Context, userID string) ([]*entity.FeedItem, error)
}

type HistoryService interface {
	RecordRead(ctx context.Context, userID, contentID string) error
	ListHistory(ctx context.Context, userID string, limit int) ([]*entity.FeedItem, error)
}

type FeatureService interface {
	Refresh(ctx context.Context, now time.Time) (*events.FeaturesUpdated, error)
	SetFeatures(ctx context.Context, id string, flags map[string]bool) (map[string]bool, error)
	Migrate(ctx context.Context, input usecase.MigrateInput) (*events.FeaturesMigrated, error)
}

type IngestService interface {
	Run(ctx context.Context) (*usecase.IngestResult, error)
}

type ImageProxy interface {
	Fetch(ctx context.Context, imageURL string) *usecase.ProxyResult
}

type DebugService interface {
	Dump(ctx context.Context, limit int) (*usecase.DebugDump, error)
	Content(ctx context.Context, limit int) (*usecase.DebugContent, error)
}
