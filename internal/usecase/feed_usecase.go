package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Abdurahmanit/GroupProject/content-service/internal/entity"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/feature"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/platform/metrics"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/port/cache"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/port/repository"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/retry"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultAllContentLimit = 50
	DefaultBreakingLimit   = 15
	DefaultTrendingLimit   = 15
	DefaultHomeLimit       = 30
	DefaultBestOfWeekLimit = 10
	DefaultCategoryLimit   = 20
	DefaultSearchLimit     = 20
	DefaultRelatedLimit    = 3

	searchPoolSize  = 100
	relatedPoolSize = 100
	minRealContent  = 100
)

var testDataPatterns = []string{
	"test article",
	"major tech announcement",
	"surprise album",
	"earthquake hits pacific",
	"ai breakthrough",
	"tech reporter",
	"music critic",
	"emergency reporter",
	"system test",
}

// IsTestData reports seeded demo items that should not surface in fallback feeds.
func IsTestData(item *entity.FeedItem) bool {
	title := strings.ToLower(item.Title)
	author := strings.ToLower(item.Author.Name)
	content := strings.ToLower(item.Content)
	for _, p := range testDataPatterns {
		if strings.Contains(title, p) || strings.Contains(author, p) || strings.Contains(content, p) {
			return true
		}
	}
	return len(item.Content) < minRealContent
}

type FeedConfig struct {
	Retry            RetryConfig
	FeedTTL          time.Duration
	ContentTTL       time.Duration
	BestOfWeekWindow time.Duration
}

type FeedUseCase struct {
	contentRepo repository.ContentRepository
	legacyRepo  repository.LegacyArticleRepository
	cacheRepo   cache.CacheRepository
	catalogue   *entity.Catalogue
	metrics     *metrics.MetricsManager
	logger      *zap.Logger
	cfg         FeedConfig
	now         func() time.Time
}

func NewFeedUseCase(
	cr repository.ContentRepository,
	lr repository.LegacyArticleRepository,
	cacheRepo cache.CacheRepository,
	catalogue *entity.Catalogue,
	m *metrics.MetricsManager,
	cfg FeedConfig,
	log *zap.Logger,
) *FeedUseCase {
	if catalogue == nil {
		catalogue = entity.Categories()
	}
	if cfg.BestOfWeekWindow <= 0 {
		cfg.BestOfWeekWindow = 7 * 24 * time.Hour
	}
	return &FeedUseCase{
		contentRepo: cr,
		legacyRepo:  lr,
		cacheRepo:   cacheRepo,
		catalogue:   catalogue,
		metrics:     m,
		logger:      log,
		cfg:         cfg,
		now:         time.Now,
	}
}

func orDefaultLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	return limit
}

func (uc *FeedUseCase) opts(op string) []retry.Option {
	return retryOptions(uc.cfg.Retry, op, uc.logger, uc.metrics)
}

// FetchAllContent returns the newest items of the primary collection, or of the
// legacy collection when the primary one has nothing.
func (uc *FeedUseCase) FetchAllContent(ctx context.Context, limit int) ([]*entity.FeedItem, error) {
	limit = orDefaultLimit(limit, DefaultAllContentLimit)

	items, err := retry.DoValue(ctx, func(ctx context.Context) ([]*entity.FeedItem, error) {
		generated, genErr := uc.contentRepo.ListLatest(ctx, limit)
		if genErr != nil {
			uc.logger.Error("Failed to read generated content", zap.Error(genErr))
		} else if len(generated) > 0 {
			return generated, nil
		}

		legacy, legErr := uc.legacyRepo.ListLatest(ctx, limit)
		if legErr != nil {
			uc.logger.Error("Failed to read legacy articles", zap.Error(legErr))
		} else if len(legacy) > 0 {
			return legacy, nil
		}

		if genErr != nil && legErr != nil {
			return nil, errors.Join(genErr, legErr)
		}
		return []*entity.FeedItem{}, nil
	}, uc.opts("content.all")...)
	if err != nil {
		return nil, fmt.Errorf("FeedUseCase.FetchAllContent: %w", err)
	}
	return items, nil
}

func (uc *FeedUseCase) FetchBreakingNews(ctx context.Context, limit int) []*entity.FeedItem {
	limit = orDefaultLimit(limit, DefaultBreakingLimit)
	return uc.flaggedFeed(ctx, "breaking", feature.BreakingNews, limit, uc.latestFallback)
}

func (uc *FeedUseCase) FetchTrendingNews(ctx context.Context, limit int) []*entity.FeedItem {
	limit = orDefaultLimit(limit, DefaultTrendingLimit)
	return uc.flaggedFeed(ctx, "trending", feature.TrendingNews, limit, uc.latestFallback)
}

func (uc *FeedUseCase) FetchHomeFeed(ctx context.Context, limit int) []*entity.FeedItem {
	limit = orDefaultLimit(limit, DefaultHomeLimit)
	return uc.flaggedFeed(ctx, "home", feature.Home, limit, uc.latestFallback)
}

// FetchBestOfWeek falls back to recent items when nothing is flagged.
func (uc *FeedUseCase) FetchBestOfWeek(ctx context.Context, limit int) []*entity.FeedItem {
	limit = orDefaultLimit(limit, DefaultBestOfWeekLimit)
	return uc.flaggedFeed(ctx, "best-of-week", feature.BestOfWeek, limit, uc.recentFallback)
}

type fallbackFunc func(ctx context.Context, limit int) ([]*entity.FeedItem, error)

// flaggedFeed serves items carrying flag, newest first. When none carry it the
// fallback decides what to show. Failures produce an empty feed.
func (uc *FeedUseCase) flaggedFeed(ctx context.Context, name, flag string, limit int, fallback fallbackFunc) []*entity.FeedItem {
	key := cache.FeedKey(name, limit)
	if cached, ok := uc.cachedItems(ctx, key); ok {
		return cached
	}

	items, err := retry.DoValue(ctx, func(ctx context.Context) ([]*entity.FeedItem, error) {
		latest, err := uc.contentRepo.ListLatest(ctx, limit*2)
		if err != nil {
			return nil, err
		}
		flagged := make([]*entity.FeedItem, 0, limit)
		for _, it := range latest {
			if feature.HasFeature(it.Features, flag) {
				flagged = append(flagged, it)
				if len(flagged) == limit {
					break
				}
			}
		}
		if len(flagged) > 0 {
			return flagged, nil
		}

		uc.logger.Info("No flagged items, using fallback", zap.String("feed", name), zap.String("flag", flag))
		if uc.metrics != nil {
			uc.metrics.FeedFallbacksTotal.WithLabelValues(name).Inc()
		}
		return fallback(ctx, limit)
	}, uc.opts("feed."+name)...)
	if err != nil {
		uc.logger.Error("Failed to build feed", zap.String("feed", name), zap.Error(err))
		return []*entity.FeedItem{}
	}

	uc.storeItems(ctx, key, items, uc.cfg.FeedTTL)
	return items
}

// latestFallback returns the newest content without seeded demo items. If
// filtering would leave nothing, the unfiltered list is kept.
func (uc *FeedUseCase) latestFallback(ctx context.Context, limit int) ([]*entity.FeedItem, error) {
	all, err := uc.FetchAllContent(ctx, limit)
	if err != nil {
		return nil, err
	}
	kept := make([]*entity.FeedItem, 0, len(all))
	for _, it := range all {
		if !IsTestData(it) {
			kept = append(kept, it)
		}
	}
	if len(kept) == 0 {
		return all, nil
	}
	return kept, nil
}

func (uc *FeedUseCase) recentFallback(ctx context.Context, limit int) ([]*entity.FeedItem, error) {
	latest, err := uc.latestFallback(ctx, limit)
	if err != nil {
		return nil, err
	}
	cutoff := uc.now().Add(-uc.cfg.BestOfWeekWindow)
	recent := make([]*entity.FeedItem, 0, len(latest))
	for _, it := range latest {
		if it.PublishedAt().After(cutoff) {
			recent = append(recent, it)
		}
	}
	if len(recent) == 0 {
		return latest, nil
	}
	return recent, nil
}

// FetchSingleArticle looks the id up in the primary collection, then in the legacy one.
func (uc *FeedUseCase) FetchSingleArticle(ctx context.Context, id string) (*entity.FeedItem, error) {
	key := cache.ContentKey(id)
	if uc.cacheRepo != nil {
		cachedBytes, err := uc.cacheRepo.Get(ctx, key)
		if err == nil {
			var item entity.FeedItem
			unmarshalErr := json.Unmarshal(cachedBytes, &item)
			if unmarshalErr == nil {
				uc.countCache("hit")
				return &item, nil
			}
			uc.logger.Error("Failed to unmarshal content from cache", zap.Error(unmarshalErr), zap.String("key", key))
			if delErr := uc.cacheRepo.Delete(ctx, key); delErr != nil {
				uc.logger.Warn("Failed to delete corrupted data from cache", zap.String("key", key), zap.Error(delErr))
			}
		} else if !errors.Is(err, cache.ErrNotFound) {
			uc.logger.Warn("Failed to get content from cache (not a cache miss)", zap.Error(err), zap.String("key", key))
		}
		uc.countCache("miss")
	}

	opts := append(uc.opts("content.single"), retry.WithPermanent(notFoundIsFinal))
	item, err := retry.DoValue(ctx, func(ctx context.Context) (*entity.FeedItem, error) {
		item, genErr := uc.contentRepo.GetByID(ctx, id)
		if genErr == nil {
			return item, nil
		}
		if !errors.Is(genErr, repository.ErrNotFound) {
			uc.logger.Warn("Failed to read generated content by id", zap.String("id", id), zap.Error(genErr))
		}

		item, legErr := uc.legacyRepo.GetByID(ctx, id)
		if legErr == nil {
			return item, nil
		}
		if errors.Is(genErr, repository.ErrNotFound) && errors.Is(legErr, repository.ErrNotFound) {
			return nil, repository.ErrNotFound
		}
		if !errors.Is(genErr, repository.ErrNotFound) {
			return nil, genErr
		}
		return nil, legErr
	}, opts...)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			uc.logger.Error("Failed to fetch article", zap.String("id", id), zap.Error(err))
		}
		return nil, fmt.Errorf("FeedUseCase.FetchSingleArticle: %w", err)
	}

	if uc.cacheRepo != nil {
		if itemBytes, marshalErr := json.Marshal(item); marshalErr == nil {
			if setErr := uc.cacheRepo.Set(ctx, key, itemBytes, uc.cfg.ContentTTL); setErr != nil {
				uc.logger.Warn("Failed to set content in cache", zap.Error(setErr), zap.String("key", key))
			}
		}
	}
	return item, nil
}

// FetchByCategory filters the latest content by category name, ignoring case.
func (uc *FeedUseCase) FetchByCategory(ctx context.Context, category string, limit int) ([]*entity.FeedItem, error) {
	limit = orDefaultLimit(limit, DefaultCategoryLimit)

	all, err := uc.FetchAllContent(ctx, limit*2)
	if err != nil {
		return nil, fmt.Errorf("FeedUseCase.FetchByCategory: %w", err)
	}
	out := make([]*entity.FeedItem, 0, limit)
	for _, it := range all {
		if uc.catalogue.SameCategory(it.Category, category) {
			out = append(out, it)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

// FetchByCategories merges per-category results newest first. A failing
// category contributes nothing.
func (uc *FeedUseCase) FetchByCategories(ctx context.Context, categories []string, limit int) []*entity.FeedItem {
	limit = orDefaultLimit(limit, DefaultCategoryLimit)
	if len(categories) == 0 {
		return []*entity.FeedItem{}
	}
	perCategory := (limit + len(categories) - 1) / len(categories)

	var (
		mu     sync.Mutex
		merged []*entity.FeedItem
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, cat := range categories {
		g.Go(func() error {
			items, err := uc.FetchByCategory(gctx, cat, perCategory)
			if err != nil {
				uc.logger.Warn("Failed to fetch category", zap.String("category", cat), zap.Error(err))
				return nil
			}
			mu.Lock()
			merged = append(merged, items...)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].PublishedAt().After(merged[j].PublishedAt())
	})

	seen := make(map[string]bool, len(merged))
	out := make([]*entity.FeedItem, 0, limit)
	for _, it := range merged {
		if seen[it.ID] {
			continue
		}
		seen[it.ID] = true
		out = append(out, it)
		if len(out) == limit {
			break
		}
	}
	return out
}

// SearchArticles matches term against title, content, category and tags.
func (uc *FeedUseCase) SearchArticles(ctx context.Context, term string, limit int) ([]*entity.FeedItem, error) {
	limit = orDefaultLimit(limit, DefaultSearchLimit)
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return []*entity.FeedItem{}, nil
	}

	pool, err := uc.FetchAllContent(ctx, searchPoolSize)
	if err != nil {
		return nil, fmt.Errorf("FeedUseCase.SearchArticles: %w", err)
	}
	out := make([]*entity.FeedItem, 0, limit)
	for _, it := range pool {
		if matches(it, term) {
			out = append(out, it)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func matches(it *entity.FeedItem, term string) bool {
	if strings.Contains(strings.ToLower(it.Title), term) ||
		strings.Contains(strings.ToLower(it.Content), term) ||
		strings.Contains(strings.ToLower(it.Category), term) {
		return true
	}
	for _, tag := range it.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}

// RelatedArticles returns other recent items of the same category.
func (uc *FeedUseCase) RelatedArticles(ctx context.Context, item *entity.FeedItem, limit int) []*entity.FeedItem {
	limit = orDefaultLimit(limit, DefaultRelatedLimit)

	pool, err := retry.DoValue(ctx, func(ctx context.Context) ([]*entity.FeedItem, error) {
		return uc.contentRepo.ListLatest(ctx, relatedPoolSize)
	}, uc.opts("content.related")...)
	if err != nil {
		uc.logger.Error("Failed to fetch related articles", zap.String("id", item.ID), zap.Error(err))
		return []*entity.FeedItem{}
	}

	out := make([]*entity.FeedItem, 0, limit)
	for _, it := range pool {
		if it.ID != item.ID && uc.catalogue.SameCategory(it.Category, item.Category) {
			out = append(out, it)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

// InvalidateFeeds drops cached feeds and documents after flags change.
func (uc *FeedUseCase) InvalidateFeeds(ctx context.Context) {
	invalidateCache(ctx, uc.cacheRepo, uc.logger)
}

func invalidateCache(ctx context.Context, cacheRepo cache.CacheRepository, logger *zap.Logger) {
	if cacheRepo == nil {
		return
	}
	for _, prefix := range []string{cache.FeedPrefix, cache.ContentPrefix} {
		if err := cacheRepo.DeletePrefix(ctx, prefix); err != nil {
			logger.Warn("Failed to invalidate cache", zap.String("prefix", prefix), zap.Error(err))
		}
	}
}

func (uc *FeedUseCase) cachedItems(ctx context.Context, key string) ([]*entity.FeedItem, bool) {
	if uc.cacheRepo == nil {
		return nil, false
	}
	cachedBytes, err := uc.cacheRepo.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			uc.logger.Warn("Failed to get feed from cache (not a cache miss)", zap.Error(err), zap.String("key", key))
		}
		uc.countCache("miss")
		return nil, false
	}
	var items []*entity.FeedItem
	if err := json.Unmarshal(cachedBytes, &items); err != nil {
		uc.logger.Error("Failed to unmarshal feed from cache", zap.Error(err), zap.String("key", key))
		uc.countCache("miss")
		return nil, false
	}
	uc.countCache("hit")
	return items, true
}

func (uc *FeedUseCase) storeItems(ctx context.Context, key string, items []*entity.FeedItem, ttl time.Duration) {
	if uc.cacheRepo == nil || ttl <= 0 || len(items) == 0 {
		return
	}
	itemBytes, err := json.Marshal(items)
	if err != nil {
		uc.logger.Warn("Failed to marshal feed for caching", zap.Error(err), zap.String("key", key))
		return
	}
	if err := uc.cacheRepo.Set(ctx, key, itemBytes, ttl); err != nil {
		uc.logger.Warn("Failed to set feed in cache", zap.Error(err), zap.String("key", key))
	}
}

func (uc *FeedUseCase) countCache(result string) {
	if uc.metrics != nil {
		uc.metrics.CacheLookupsTotal.WithLabelValues(result).Inc()
	}
}
