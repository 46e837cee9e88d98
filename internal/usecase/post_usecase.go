package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Abdurahmanit/GroupProject/content-service/internal/entity"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/feature"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/port/cache"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/port/events"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/port/repository"
	"go.uber.org/zap"
)

type PostUseCase struct {
	contentRepo   repository.ContentRepository
	userRepo      repository.UserRepository
	cacheRepo     cache.CacheRepository
	natsPublisher events.Publisher
	criteria      entity.ContentCriteria
	logger        *zap.Logger
	now           func() time.Time
}

func NewPostUseCase(
	cr repository.ContentRepository,
	ur repository.UserRepository,
	cacheRepo cache.CacheRepository,
	np events.Publisher,
	log *zap.Logger,
) *PostUseCase {
	return &PostUseCase{
		contentRepo:   cr,
		userRepo:      ur,
		cacheRepo:     cacheRepo,
		natsPublisher: np,
		criteria:      entity.DefaultCriteria,
		logger:        log,
		now:           time.Now,
	}
}

type CreatePostInput struct {
	UserID   string
	Title    string
	Content  string
	Category string
	ImageURL string
	Tags     []string
}

// ValidateContent checks a submission against the content criteria.
func (uc *PostUseCase) ValidateContent(title, content, category string) error {
	err := uc.criteria.Validate(title, content, category)
	var verr *entity.ValidationError
	if errors.As(err, &verr) {
		return validationFailed(verr.Problems...)
	}
	return err
}

func (uc *PostUseCase) CreatePost(ctx context.Context, input CreatePostInput) (*entity.FeedItem, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Content = strings.TrimSpace(input.Content)
	input.Category = strings.TrimSpace(input.Category)
	if err := uc.ValidateContent(input.Title, input.Content, input.Category); err != nil {
		return nil, fmt.Errorf("PostUseCase.CreatePost: %w", err)
	}

	user, err := uc.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		uc.logger.Error("Failed to load author for post", zap.String("user_id", input.UserID), zap.Error(err))
		return nil, fmt.Errorf("PostUseCase.CreatePost: failed to load author: %w", err)
	}

	content := &entity.NewContent{
		Headline: input.Title,
		Content:  input.Content,
		Category: input.Category,
		User:     user.DisplayName,
		ImageURL: input.ImageURL,
		Time:     uc.now(),
		Features: map[string]bool{feature.Home: true, feature.Articles: true},
		Tags:     input.Tags,
	}
	id, err := uc.contentRepo.Create(ctx, content)
	if err != nil {
		uc.logger.Error("Failed to create post in repository", zap.Error(err), zap.String("user_id", input.UserID))
		return nil, fmt.Errorf("PostUseCase.CreatePost: failed to create post in repo: %w", err)
	}
	content.ID = id

	invalidateCache(ctx, uc.cacheRepo, uc.logger)

	if uc.natsPublisher != nil {
		evt := events.ContentCreated{ID: id, Headline: content.Headline, Category: content.Category, Source: entity.SourceGenerated}
		if errPub := uc.natsPublisher.PublishContentCreated(ctx, evt); errPub != nil {
			uc.logger.Warn("Failed to publish NATS event for content created", zap.Error(errPub), zap.String("content_id", id))
		}
	}

	return &entity.FeedItem{
		ID:        id,
		Title:     content.Headline,
		Content:   content.Content,
		Author:    entity.Author{Name: user.DisplayName},
		Category:  content.Category,
		Timestamp: entity.FormatTimestamp(content.Time),
		Image:     content.ImageURL,
		Tags:      content.Tags,
		Features:  content.Features,
		Source:    entity.SourceGenerated,
	}, nil
}
