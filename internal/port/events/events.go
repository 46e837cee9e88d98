package events

import (
	"context"

	"github.com/Abdurahmanit/GroupProject/content-service/internal/entity"
)

type FeaturesUpdated struct {
	Scanned         int `json:"scanned"`
	Updated         int `json:"updated"`
	BestOfWeekSet   int `json:"best_of_week_set"`
	BreakingSet     int `json:"breaking_set"`
	BreakingCleared int `json:"breaking_cleared"`
}

type FeaturesMigrated struct {
	Scanned  int  `json:"scanned"`
	Migrated int  `json:"migrated"`
	DryRun   bool `json:"dry_run"`
}

type BookmarkChanged struct {
	UserID    string `json:"user_id"`
	ContentID string `json:"content_id"`
}

type ContentCreated struct {
	ID       string `json:"id"`
	Headline string `json:"headline"`
	Category string `json:"category"`
	Source   string `json:"source"`
}

type UserRegistered struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Publisher announces domain changes to other services.
type Publisher interface {
	PublishContentCreated(ctx context.Context, evt ContentCreated) error
	PublishFeaturesUpdated(ctx context.Context, evt FeaturesUpdated) error
	PublishFeaturesMigrated(ctx context.Context, evt FeaturesMigrated) error
	PublishBookmarkAdded(ctx context.Context, evt BookmarkChanged) error
	PublishBookmarkRemoved(ctx context.Context, evt BookmarkChanged) error
	PublishUserRegistered(ctx context.Context, user *entity.User) error
}
