package repository

import (
	"context"

	"github.com/Abdurahmanit/GroupProject/content-service/internal/entity"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) (string, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
}

type BookmarkRepository interface {
	Add(ctx context.Context, userID, contentID string) error
	Remove(ctx context.Context, userID, contentID string) error
	ListByUser(ctx context.Context, userID string) ([]*entity.Bookmark, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	// CountByContent returns bookmark totals for the given content ids.
	CountByContent(ctx context.Context, contentIDs []string) (map[string]int64, error)
}

type HistoryRepository interface {
	Record(ctx context.Context, userID, contentID string) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*entity.HistoryEntry, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
}
