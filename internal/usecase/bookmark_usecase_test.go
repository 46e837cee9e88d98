package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/Abdurahmanit/GroupProject/content-service/internal/entity"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/port/events"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/port/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockContentResolver struct{ mock.Mock }

func (m *MockContentResolver) FetchSingleArticle(ctx context.Context, id string) (*entity.FeedItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.FeedItem), args.Error(1)
}

func TestBookmarkUseCase_AddBookmark(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		br, resolver, np := new(MockBookmarkRepository), new(MockContentResolver), new(MockPublisher)
		uc := NewBookmarkUseCase(br, resolver, np, zap.NewNop())
		resolver.On("FetchSingleArticle", ctx, "c1").Return(&entity.FeedItem{ID: "c1"}, nil).Once()
		br.On("Add", ctx, "u1", "c1").Return(nil).Once()
		np.On("PublishBookmarkAdded", ctx, events.BookmarkChanged{UserID: "u1", ContentID: "c1"}).Return(nil).Once()

		require.NoError(t, uc.AddBookmark(ctx, "u1", "c1"))
		br.AssertExpectations(t)
		np.AssertExpectations(t)
	})

	t.Run("unknown content", func(t *testing.T) {
		br, resolver := new(MockBookmarkRepository), new(MockContentResolver)
		uc := NewBookmarkUseCase(br, resolver, nil, zap.NewNop())
		resolver.On("FetchSingleArticle", ctx, "nope").Return(nil, repository.ErrNotFound).Once()

		err := uc.AddBookmark(ctx, "u1", "nope")
		assert.ErrorIs(t, err, repository.ErrNotFound)
		br.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing id", func(t *testing.T) {
		uc := NewBookmarkUseCase(new(MockBookmarkRepository), new(MockContentResolver), nil, zap.NewNop())
		assert.ErrorIs(t, uc.AddBookmark(ctx, "u1", ""), ErrValidation)
	})
}

func TestBookmarkUseCase_RemoveBookmark(t *testing.T) {
	ctx := context.Background()

	t.Run("success publishes", func(t *testing.T) {
		br, np := new(MockBookmarkRepository), new(MockPublisher)
		uc := NewBookmarkUseCase(br, nil, np, zap.NewNop())
		br.On("Remove", ctx, "u1", "c1").Return(nil).Once()
		np.On("PublishBookmarkRemoved", ctx, events.BookmarkChanged{UserID: "u1", ContentID: "c1"}).Return(errors.New("nats down")).Once()

		require.NoError(t, uc.RemoveBookmark(ctx, "u1", "c1"))
		np.AssertExpectations(t)
	})

	t.Run("not bookmarked", func(t *testing.T) {
		br, np := new(MockBookmarkRepository), new(MockPublisher)
		uc := NewBookmarkUseCase(br, nil, np, zap.NewNop())
		br.On("Remove", ctx, "u1", "c1").Return(repository.ErrNotFound).Once()

		assert.ErrorIs(t, uc.RemoveBookmark(ctx, "u1", "c1"), repository.ErrNotFound)
		np.AssertNotCalled(t, "PublishBookmarkRemoved", mock.Anything, mock.Anything)
	})
}

func TestBookmarkUseCase_ListBookmarks(t *testing.T) {
	ctx := context.Background()

	t.Run("skips deleted content", func(t *testing.T) {
		br, resolver := new(MockBookmarkRepository), new(MockContentResolver)
		uc := NewBookmarkUseCase(br, resolver, nil, zap.NewNop())
		br.On("ListByUser", ctx, "u1").Return([]*entity.Bookmark{{ContentID: "c2"}, {ContentID: "gone"}, {ContentID: "c1"}}, nil).Once()
		resolver.On("FetchSingleArticle", ctx, "c2").Return(&entity.FeedItem{ID: "c2"}, nil).Once()
		resolver.On("FetchSingleArticle", ctx, "gone").Return(nil, repository.ErrNotFound).Once()
		resolver.On("FetchSingleArticle", ctx, "c1").Return(&entity.FeedItem{ID: "c1"}, nil).Once()

		items, err := uc.ListBookmarks(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, []string{"c2", "c1"}, ids(items))
	})

	t.Run("resolver failure", func(t *testing.T) {
		br, resolver := new(MockBookmarkRepository), new(MockContentResolver)
		uc := NewBookmarkUseCase(br, resolver, nil, zap.NewNop())
		br.On("ListByUser", ctx, "u1").Return([]*entity.Bookmark{{ContentID: "c1"}}, nil).Once()
		resolver.On("FetchSingleArticle", ctx, "c1").Return(nil, repository.ErrPermissionDenied).Once()

		_, err := uc.ListBookmarks(ctx, "u1")
		assert.ErrorIs(t, err, repository.ErrPermissionDenied)
	})

	t.Run("empty", func(t *testing.T) {
		br := new(MockBookmarkRepository)
		uc := NewBookmarkUseCase(br, new(MockContentResolver), nil, zap.NewNop())
		br.On("ListByUser", ctx, "u1").Return([]*entity.Bookmark{}, nil).Once()

		items, err := uc.ListBookmarks(ctx, "u1")
		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})
}

func TestHistoryUseCase(t *testing.T) {
	ctx := context.Background()

	t.Run("record read", func(t *testing.T) {
		hr, resolver := new(MockHistoryRepository), new(MockContentResolver)
		uc := NewHistoryUseCase(hr, resolver, zap.NewNop())
		resolver.On("FetchSingleArticle", ctx, "c1").Return(&entity.FeedItem{ID: "c1"}, nil).Once()
		hr.On("Record", ctx, "u1", "c1").Return(nil).Once()

		require.NoError(t, uc.RecordRead(ctx, "u1", "c1"))
		hr.AssertExpectations(t)
	})

	t.Run("list uses default limit", func(t *testing.T) {
		hr, resolver := new(MockHistoryRepository), new(MockContentResolver)
		uc := NewHistoryUseCase(hr, resolver, zap.NewNop())
		hr.On("ListByUser", ctx, "u1", DefaultHistoryLimit).Return([]*entity.HistoryEntry{{ContentID: "c1"}}, nil).Once()
		resolver.On("FetchSingleArticle", ctx, "c1").Return(&entity.FeedItem{ID: "c1"}, nil).Once()

		items, err := uc.ListHistory(ctx, "u1", 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"c1"}, ids(items))
	})

	t.Run("repository failure", func(t *testing.T) {
		hr := new(MockHistoryRepository)
		uc := NewHistoryUseCase(hr, new(MockContentResolver), zap.NewNop())
		hr.On("ListByUser", ctx, "u1", 5).Return(nil, errors.New("timeout")).Once()

		_, err := uc.ListHistory(ctx, "u1", 5)
		assert.ErrorContains(t, err, "HistoryUseCase.ListHistory")
	})
}
