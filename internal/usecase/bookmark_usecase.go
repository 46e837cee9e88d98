package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/Abdurahmanit/GroupProject/content-service/internal/entity"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/port/events"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/port/repository"
	"go.uber.org/zap"
)

const DefaultHistoryLimit = 50

// ContentResolver turns a content id into its display record.
type ContentResolver interface {
	FetchSingleArticle(ctx context.Context, id string) (*entity.FeedItem, error)
}

type BookmarkUseCase struct {
	bookmarkRepo  repository.BookmarkRepository
	resolver      ContentResolver
	natsPublisher events.Publisher
	logger        *zap.Logger
}

func NewBookmarkUseCase(br repository.BookmarkRepository, resolver ContentResolver, np events.Publisher, log *zap.Logger) *BookmarkUseCase {
	return &BookmarkUseCase{
		bookmarkRepo:  br,
		resolver:      resolver,
		natsPublisher: np,
		logger:        log,
	}
}

func (uc *BookmarkUseCase) AddBookmark(ctx context.Context, userID, contentID string) error {
	if contentID == "" {
		return fmt.Errorf("BookmarkUseCase.AddBookmark: %w", validationFailed("article_id is required"))
	}
	if _, err := uc.resolver.FetchSingleArticle(ctx, contentID); err != nil {
		return fmt.Errorf("BookmarkUseCase.AddBookmark: failed to resolve content: %w", err)
	}
	if err := uc.bookmarkRepo.Add(ctx, userID, contentID); err != nil {
		uc.logger.Error("Failed to add bookmark", zap.Error(err), zap.String("user_id", userID), zap.String("content_id", contentID))
		return fmt.Errorf("BookmarkUseCase.AddBookmark: %w", err)
	}

	if uc.natsPublisher != nil {
		if errPub := uc.natsPublisher.PublishBookmarkAdded(ctx, events.BookmarkChanged{UserID: userID, ContentID: contentID}); errPub != nil {
			uc.logger.Warn("Failed to publish NATS event for bookmark added", zap.Error(errPub), zap.String("content_id", contentID))
		}
	}
	return nil
}

func (uc *BookmarkUseCase) RemoveBookmark(ctx context.Context, userID, contentID string) error {
	if err := uc.bookmarkRepo.Remove(ctx, userID, contentID); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			uc.logger.Error("Failed to remove bookmark", zap.Error(err), zap.String("user_id", userID), zap.String("content_id", contentID))
		}
		return fmt.Errorf("BookmarkUseCase.RemoveBookmark: %w", err)
	}

	if uc.natsPublisher != nil {
		if errPub := uc.natsPublisher.PublishBookmarkRemoved(ctx, events.BookmarkChanged{UserID: userID, ContentID: contentID}); errPub != nil {
			uc.logger.Warn("Failed to publish NATS event for bookmark removed", zap.Error(errPub), zap.String("content_id", contentID))
		}
	}
	return nil
}

// ListBookmarks resolves the user's bookmarks newest first, skipping content that no longer exists.
func (uc *BookmarkUseCase) ListBookmarks(ctx context.Context, userID string) ([]*entity.FeedItem, error) {
	bookmarks, err := uc.bookmarkRepo.ListByUser(ctx, userID)
	if err != nil {
		uc.logger.Error("Failed to list bookmarks", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("BookmarkUseCase.ListBookmarks: %w", err)
	}
	ids := make([]string, 0, len(bookmarks))
	for _, b := range bookmarks {
		ids = append(ids, b.ContentID)
	}
	items, err := resolveAll(ctx, uc.resolver, ids, uc.logger)
	if err != nil {
		return nil, fmt.Errorf("BookmarkUseCase.ListBookmarks: %w", err)
	}
	return items, nil
}

func resolveAll(ctx context.Context, resolver ContentResolver, ids []string, logger *zap.Logger) ([]*entity.FeedItem, error) {
	items := make([]*entity.FeedItem, 0, len(ids))
	for _, id := range ids {
		item, err := resolver.FetchSingleArticle(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				logger.Debug("Skipping missing content", zap.String("content_id", id))
				continue
			}
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

type HistoryUseCase struct {
	historyRepo repository.HistoryRepository
	resolver    ContentResolver
	logger      *zap.Logger
}

func NewHistoryUseCase(hr repository.HistoryRepository, resolver ContentResolver, log *zap.Logger) *HistoryUseCase {
	return &HistoryUseCase{
		historyRepo: hr,
		resolver:    resolver,
		logger:      log,
	}
}

func (uc *HistoryUseCase) RecordRead(ctx context.Context, userID, contentID string) error {
	if contentID == "" {
		return fmt.Errorf("HistoryUseCase.RecordRead: %w", validationFailed("article_id is required"))
	}
	if _, err := uc.resolver.FetchSingleArticle(ctx, contentID); err != nil {
		return fmt.Errorf("HistoryUseCase.RecordRead: failed to resolve content: %w", err)
	}
	if err := uc.historyRepo.Record(ctx, userID, contentID); err != nil {
		uc.logger.Error("Failed to record reading history", zap.Error(err), zap.String("user_id", userID))
		return fmt.Errorf("HistoryUseCase.RecordRead: %w", err)
	}
	return nil
}

func (uc *HistoryUseCase) ListHistory(ctx context.Context, userID string, limit int) ([]*entity.FeedItem, error) {
	limit = orDefaultLimit(limit, DefaultHistoryLimit)
	entries, err := uc.historyRepo.ListByUser(ctx, userID, limit)
	if err != nil {
		uc.logger.Error("Failed to list reading history", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("HistoryUseCase.ListHistory: %w", err)
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ContentID)
	}
	items, err := resolveAll(ctx, uc.resolver, ids, uc.logger)
	if err != nil {
		return nil, fmt.Errorf("HistoryUseCase.ListHistory: %w", err)
	}
	return items, nil
}
