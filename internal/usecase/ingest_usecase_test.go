package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Abdurahmanit/GroupProject/content-service/internal/entity"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/port/events"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/port/ingest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestIngestUseCase_Run(t *testing.T) {
	ctx := context.Background()
	longMarkdown := strings.Repeat("Body text of a proper article. ", 5)
	published := time.Date(2024, 5, 9, 8, 0, 0, 0, time.UTC)

	sources := []IngestSource{
		{Name: "Wire", URL: "https://wire.example/rss", Category: "World"},
		{Name: "Broken", URL: "https://broken.example/rss"},
	}

	fetcher, cr := new(MockFetcher), new(MockContentRepository)
	cacheRepo, np := new(MockCacheRepository), new(MockPublisher)
	uc := NewIngestUseCase(fetcher, cr, cacheRepo, np, nil, IngestConfig{Sources: sources, MaxItemsPerSource: 3}, zap.NewNop())
	uc.now = func() time.Time { return testNow }

	fetcher.On("FetchFeed", ctx, "https://wire.example/rss").Return([]ingest.Item{
		{Title: "Fresh story", Content: "<p>full</p>", Published: published, Categories: []string{"economy"}},
		{Title: "Known story", Content: "<p>dup</p>"},
		{Title: "", Content: "<p>untitled</p>"},
		{Title: "Over the cap", Content: "<p>ignored</p>"},
	}, nil).Once()
	fetcher.On("FetchFeed", ctx, "https://broken.example/rss").Return(nil, errors.New("feed down")).Once()

	cr.On("ExistsByHeadline", ctx, "Fresh story").Return(false, nil).Once()
	cr.On("ExistsByHeadline", ctx, "Known story").Return(true, nil).Once()
	fetcher.On("ToMarkdown", "<p>full</p>").Return(longMarkdown, nil).Once()
	cr.On("Create", ctx, mock.MatchedBy(func(c *entity.NewContent) bool {
		return c.Headline == "Fresh story" && c.Category == "World" && c.User == "Wire" &&
			c.Time.Equal(published) && c.Features["trending_news"] && c.Content == longMarkdown
	})).Return("n1", nil).Once()
	np.On("PublishContentCreated", ctx, events.ContentCreated{ID: "n1", Headline: "Fresh story", Category: "World", Source: "Wire"}).Return(nil).Once()
	expectInvalidation(ctx, cacheRepo)

	res, err := uc.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, IngestResult{Processed: 3, Created: 1, Skipped: 2, Failed: 1}, *res)
	fetcher.AssertExpectations(t)
	cr.AssertExpectations(t)
	np.AssertExpectations(t)
	cacheRepo.AssertExpectations(t)
}

func TestIngestUseCase_BodyOf(t *testing.T) {
	ctx := context.Background()
	long := strings.Repeat("Extracted article paragraph. ", 8)

	tests := []struct {
		name  string
		item  ingest.Item
		setup func(f *MockFetcher)
		want  string
	}{
		{
			name: "description when content is empty",
			item: ingest.Item{Title: "t", Description: "<b>teaser</b>"},
			setup: func(f *MockFetcher) {
				f.On("ToMarkdown", "<b>teaser</b>").Return("**teaser**", nil).Once()
			},
			want: "**teaser**",
		},
		{
			name: "short teaser replaced by linked page",
			item: ingest.Item{Title: "t", Link: "https://site/a", Content: "<p>short</p>"},
			setup: func(f *MockFetcher) {
				f.On("ToMarkdown", "<p>short</p>").Return("short", nil).Once()
				f.On("ExtractArticle", ctx, "https://site/a").Return(long, nil).Once()
			},
			want: long,
		},
		{
			name: "extraction failure keeps teaser",
			item: ingest.Item{Title: "t", Link: "https://site/a", Content: "<p>short</p>"},
			setup: func(f *MockFetcher) {
				f.On("ToMarkdown", "<p>short</p>").Return("short", nil).Once()
				f.On("ExtractArticle", ctx, "https://site/a").Return("", errors.New("403")).Once()
			},
			want: "short",
		},
		{
			name: "conversion failure falls back to raw text",
			item: ingest.Item{Title: "t", Content: "  <p>raw</p> "},
			setup: func(f *MockFetcher) {
				f.On("ToMarkdown", "  <p>raw</p> ").Return("", errors.New("bad html")).Once()
			},
			want: "<p>raw</p>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := new(MockFetcher)
			tt.setup(f)
			uc := NewIngestUseCase(f, nil, nil, nil, nil, IngestConfig{}, zap.NewNop())

			assert.Equal(t, tt.want, uc.bodyOf(ctx, tt.item))
			f.AssertExpectations(t)
		})
	}
}
