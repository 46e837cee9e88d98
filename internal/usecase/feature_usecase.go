package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Abdurahmanit/GroupProject/content-service/internal/entity"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/feature"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/platform/metrics"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/port/cache"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/port/events"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/port/repository"
	"go.uber.org/zap"
)

const (
	// MaxBatchSize caps the operations sent in one bulk write.
	MaxBatchSize = 500
	// refreshWindowLimit bounds how many recent documents a refresh considers.
	refreshWindowLimit = 500
)

type FeatureConfig struct {
	BreakingWindow   time.Duration
	BestOfWeekWindow time.Duration
	BestOfWeekSize   int
	MigrationBatch   int
}

type FeatureUseCase struct {
	contentRepo   repository.ContentRepository
	bookmarkRepo  repository.BookmarkRepository
	cacheRepo     cache.CacheRepository
	natsPublisher events.Publisher
	metrics       *metrics.MetricsManager
	logger        *zap.Logger
	cfg           FeatureConfig
}

func NewFeatureUseCase(
	cr repository.ContentRepository,
	br repository.BookmarkRepository,
	cacheRepo cache.CacheRepository,
	np events.Publisher,
	m *metrics.MetricsManager,
	cfg FeatureConfig,
	log *zap.Logger,
) *FeatureUseCase {
	if cfg.BreakingWindow <= 0 {
		cfg.BreakingWindow = 6 * time.Hour
	}
	if cfg.BestOfWeekWindow <= 0 {
		cfg.BestOfWeekWindow = 7 * 24 * time.Hour
	}
	if cfg.BestOfWeekSize <= 0 {
		cfg.BestOfWeekSize = 10
	}
	cfg.MigrationBatch = ClampBatchSize(cfg.MigrationBatch)
	return &FeatureUseCase{
		contentRepo:   cr,
		bookmarkRepo:  br,
		cacheRepo:     cacheRepo,
		natsPublisher: np,
		metrics:       m,
		logger:        log,
		cfg:           cfg,
	}
}

// ClampBatchSize keeps n within 1..MaxBatchSize, treating non-positive values as the maximum.
func ClampBatchSize(n int) int {
	if n <= 0 || n > MaxBatchSize {
		return MaxBatchSize
	}
	return n
}

// Refresh recomputes best_of_week and breaking_news over the recent window and
// writes only the documents whose flags change.
func (uc *FeatureUseCase) Refresh(ctx context.Context, now time.Time) (*events.FeaturesUpdated, error) {
	items, err := uc.contentRepo.ListSince(ctx, now.Add(-uc.cfg.BestOfWeekWindow), refreshWindowLimit)
	if err != nil {
		uc.logger.Error("Failed to load recent content for feature refresh", zap.Error(err))
		return nil, fmt.Errorf("FeatureUseCase.Refresh: failed to load recent content: %w", err)
	}

	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	counts, err := uc.bookmarkRepo.CountByContent(ctx, ids)
	if err != nil {
		uc.logger.Error("Failed to count bookmarks for feature refresh", zap.Error(err))
		return nil, fmt.Errorf("FeatureUseCase.Refresh: failed to count bookmarks: %w", err)
	}

	ranked := make([]*entity.FeedItem, len(items))
	copy(ranked, items)
	sort.SliceStable(ranked, func(i, j int) bool {
		ci, cj := counts[ranked[i].ID], counts[ranked[j].ID]
		if ci != cj {
			return ci > cj
		}
		return ranked[i].PublishedAt().After(ranked[j].PublishedAt())
	})
	best := make(map[string]bool, uc.cfg.BestOfWeekSize)
	for i := 0; i < len(ranked) && i < uc.cfg.BestOfWeekSize; i++ {
		best[ranked[i].ID] = true
	}

	result := &events.FeaturesUpdated{Scanned: len(items)}
	var updates []entity.FeatureUpdate
	for _, it := range items {
		flags, renamed := feature.Normalize(it.Features)
		changed := false

		wantBest := best[it.ID]
		if flags[feature.BestOfWeek] != wantBest {
			flags[feature.BestOfWeek] = wantBest
			changed = true
			if wantBest {
				result.BestOfWeekSet++
			}
		}

		published := it.PublishedAt()
		wantBreaking := !published.IsZero() && now.Sub(published) < uc.cfg.BreakingWindow
		if flags[feature.BreakingNews] != wantBreaking {
			flags[feature.BreakingNews] = wantBreaking
			changed = true
			if wantBreaking {
				result.BreakingSet++
			} else {
				result.BreakingCleared++
			}
		}

		// Replacing the whole bag also drops legacy spellings that would shadow the new values.
		if changed {
			updates = append(updates, entity.FeatureUpdate{ID: it.ID, Features: flags, Replace: renamed})
		}
	}

	if len(updates) > 0 {
		written, err := uc.contentRepo.ApplyFeatureUpdates(ctx, updates, MaxBatchSize)
		result.Updated = written
		if err != nil {
			uc.logger.Error("Failed to write feature refresh", zap.Error(err), zap.Int("written", written))
			return result, fmt.Errorf("FeatureUseCase.Refresh: failed to write updates: %w", err)
		}
		invalidateCache(ctx, uc.cacheRepo, uc.logger)
	}
	if uc.metrics != nil {
		uc.metrics.FeaturesRefreshed.Add(float64(result.Updated))
	}

	uc.logger.Info("Feature refresh finished",
		zap.Int("scanned", result.Scanned),
		zap.Int("updated", result.Updated),
		zap.Int("best_of_week_set", result.BestOfWeekSet),
		zap.Int("breaking_set", result.BreakingSet),
		zap.Int("breaking_cleared", result.BreakingCleared),
	)

	if uc.natsPublisher != nil {
		if errPub := uc.natsPublisher.PublishFeaturesUpdated(ctx, *result); errPub != nil {
			uc.logger.Warn("Failed to publish NATS event for features updated", zap.Error(errPub))
		}
	}
	return result, nil
}

// SetFeatures canonicalizes the flag names and upserts them on one document.
func (uc *FeatureUseCase) SetFeatures(ctx context.Context, id string, flags map[string]bool) (map[string]bool, error) {
	if id == "" || len(flags) == 0 {
		return nil, fmt.Errorf("FeatureUseCase.SetFeatures: %w", validationFailed("id and features are required"))
	}
	canonical, _ := feature.Normalize(flags)

	if err := uc.contentRepo.SetFeatures(ctx, id, canonical); err != nil {
		uc.logger.Error("Failed to set features", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("FeatureUseCase.SetFeatures: %w", err)
	}
	invalidateCache(ctx, uc.cacheRepo, uc.logger)

	if uc.natsPublisher != nil {
		evt := events.FeaturesUpdated{Scanned: 1, Updated: 1}
		if errPub := uc.natsPublisher.PublishFeaturesUpdated(ctx, evt); errPub != nil {
			uc.logger.Warn("Failed to publish NATS event for features updated", zap.Error(errPub), zap.String("id", id))
		}
	}
	return canonical, nil
}

type MigrateInput struct {
	DryRun    bool
	BatchSize int
}

var errStopScan = errors.New("stop scan")

// Migrate rewrites every flag bag onto canonical keys. Documents already in
// canonical form are left alone. Updates are flushed while scanning.
func (uc *FeatureUseCase) Migrate(ctx context.Context, input MigrateInput) (*events.FeaturesMigrated, error) {
	batchSize := uc.cfg.MigrationBatch
	if input.BatchSize != 0 {
		batchSize = ClampBatchSize(input.BatchSize)
	}

	result := &events.FeaturesMigrated{DryRun: input.DryRun}
	pending := make([]entity.FeatureUpdate, 0, batchSize)
	var flushErr error

	flush := func() error {
		if len(pending) == 0 {
			return nil
		}
		if _, err := uc.contentRepo.ApplyFeatureUpdates(ctx, pending, batchSize); err != nil {
			return err
		}
		result.Migrated += len(pending)
		pending = pending[:0]
		return nil
	}

	scanErr := uc.contentRepo.ScanFeatures(ctx, func(id string, raw map[string]interface{}) error {
		result.Scanned++
		flags, allBool := feature.FromRaw(raw)
		normalized, changed := feature.Normalize(flags)
		if !changed && allBool {
			return nil
		}
		if input.DryRun {
			result.Migrated++
			return nil
		}
		pending = append(pending, entity.FeatureUpdate{ID: id, Features: normalized, Replace: true})
		if len(pending) >= batchSize {
			if err := flush(); err != nil {
				flushErr = err
				return errStopScan
			}
		}
		return nil
	})
	if scanErr != nil && !errors.Is(scanErr, errStopScan) {
		uc.logger.Error("Failed to scan features for migration", zap.Error(scanErr))
		return result, fmt.Errorf("FeatureUseCase.Migrate: failed to scan: %w", scanErr)
	}
	if flushErr == nil && !input.DryRun {
		flushErr = flush()
	}
	if flushErr != nil {
		uc.logger.Error("Failed to write feature migration batch", zap.Error(flushErr), zap.Int("migrated", result.Migrated))
		return result, fmt.Errorf("FeatureUseCase.Migrate: failed to write batch: %w", flushErr)
	}

	if uc.metrics != nil && !input.DryRun {
		uc.metrics.FeaturesMigrated.Add(float64(result.Migrated))
	}
	uc.logger.Info("Feature migration finished",
		zap.Int("scanned", result.Scanned),
		zap.Int("migrated", result.Migrated),
		zap.Bool("dry_run", input.DryRun),
	)

	if !input.DryRun && result.Migrated > 0 {
		invalidateCache(ctx, uc.cacheRepo, uc.logger)
	}
	if uc.natsPublisher != nil {
		if errPub := uc.natsPublisher.PublishFeaturesMigrated(ctx, *result); errPub != nil {
			uc.logger.Warn("Failed to publish NATS event for features migrated", zap.Error(errPub))
		}
	}
	return result, nil
}
