package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Abdurahmanit/GroupProject/content-service/internal/entity"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/feature"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/platform/metrics"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/port/cache"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/port/events"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/port/ingest"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/port/repository"
	"go.uber.org/zap"
)

const DefaultItemsPerSource = 5

type IngestSource struct {
	Name     string
	URL      string
	Category string
}

type IngestConfig struct {
	Sources           []IngestSource
	MaxItemsPerSource int
}

// IngestResult summarises one ingest run.
type IngestResult struct {
	Processed int `json:"processed"`
	Created   int `json:"created"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

type IngestUseCase struct {
	fetcher       ingest.Fetcher
	contentRepo   repository.ContentRepository
	cacheRepo     cache.CacheRepository
	natsPublisher events.Publisher
	metrics       *metrics.MetricsManager
	cfg           IngestConfig
	logger        *zap.Logger
	now           func() time.Time
}

func NewIngestUseCase(
	f ingest.Fetcher,
	cr repository.ContentRepository,
	cacheRepo cache.CacheRepository,
	np events.Publisher,
	m *metrics.MetricsManager,
	cfg IngestConfig,
	log *zap.Logger,
) *IngestUseCase {
	if cfg.MaxItemsPerSource <= 0 {
		cfg.MaxItemsPerSource = DefaultItemsPerSource
	}
	return &IngestUseCase{
		fetcher:       f,
		contentRepo:   cr,
		cacheRepo:     cacheRepo,
		natsPublisher: np,
		metrics:       m,
		cfg:           cfg,
		logger:        log,
		now:           time.Now,
	}
}

// Run pulls every configured source once. A failing source is logged and skipped.
func (uc *IngestUseCase) Run(ctx context.Context) (*IngestResult, error) {
	result := &IngestResult{}
	for _, src := range uc.cfg.Sources {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("IngestUseCase.Run: %w", err)
		}
		if err := uc.runSource(ctx, src, result); err != nil {
			result.Failed++
			uc.logger.Error("Failed to ingest source", zap.String("source", src.Name), zap.String("url", src.URL), zap.Error(err))
		}
	}
	if result.Created > 0 {
		invalidateCache(ctx, uc.cacheRepo, uc.logger)
	}
	uc.logger.Info("Ingest run finished",
		zap.Int("processed", result.Processed),
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed_sources", result.Failed),
	)
	return result, nil
}

func (uc *IngestUseCase) runSource(ctx context.Context, src IngestSource, result *IngestResult) error {
	items, err := uc.fetcher.FetchFeed(ctx, src.URL)
	if err != nil {
		return err
	}
	if len(items) > uc.cfg.MaxItemsPerSource {
		items = items[:uc.cfg.MaxItemsPerSource]
	}

	category := src.Category
	if category == "" {
		category = "General"
	}

	for _, item := range items {
		result.Processed++
		if item.Title == "" {
			result.Skipped++
			continue
		}
		exists, err := uc.contentRepo.ExistsByHeadline(ctx, item.Title)
		if err != nil {
			return fmt.Errorf("checking headline: %w", err)
		}
		if exists {
			result.Skipped++
			continue
		}

		body := uc.bodyOf(ctx, item)
		published := item.Published
		if published.IsZero() {
			published = uc.now()
		}
		content := &entity.NewContent{
			Headline: item.Title,
			Content:  body,
			Category: category,
			User:     src.Name,
			ImageURL: item.ImageURL,
			Time:     published,
			Features: map[string]bool{feature.TrendingNews: true, feature.Home: true, feature.Articles: true},
			Tags:     item.Categories,
		}
		id, err := uc.contentRepo.Create(ctx, content)
		if err != nil {
			return fmt.Errorf("creating content: %w", err)
		}
		result.Created++
		if uc.metrics != nil {
			uc.metrics.IngestCreatedTotal.WithLabelValues(src.Name).Inc()
		}

		if uc.natsPublisher != nil {
			evt := events.ContentCreated{ID: id, Headline: item.Title, Category: category, Source: src.Name}
			if errPub := uc.natsPublisher.PublishContentCreated(ctx, evt); errPub != nil {
				uc.logger.Warn("Failed to publish NATS event for content created", zap.Error(errPub), zap.String("content_id", id))
			}
		}
	}
	return nil
}

// bodyOf converts the item's HTML to markdown. Teasers shorter than a real
// article are replaced by the linked page's main text when it can be read.
func (uc *IngestUseCase) bodyOf(ctx context.Context, item ingest.Item) string {
	html := item.Content
	if strings.TrimSpace(html) == "" {
		html = item.Description
	}
	body, err := uc.fetcher.ToMarkdown(html)
	if err != nil {
		uc.logger.Warn("Failed to convert item to markdown", zap.String("title", item.Title), zap.Error(err))
		body = strings.TrimSpace(html)
	}
	if len(body) >= minRealContent || item.Link == "" {
		return body
	}

	extracted, err := uc.fetcher.ExtractArticle(ctx, item.Link)
	if err != nil {
		uc.logger.Debug("Failed to extract linked article", zap.String("link", item.Link), zap.Error(err))
		return body
	}
	if len(extracted) > len(body) {
		return extracted
	}
	return body
}
