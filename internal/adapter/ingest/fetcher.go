package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Abdurahmanit/GroupProject/content-service/internal/port/ingest"
	md "github.com/JohannesKaufmann/html-to-markdown"
	readability "github.com/go-shiori/go-readability"
	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"
)

const (
	userAgent    = "Mozilla/5.0 (compatible; content-service/1.0; +https://omnisphere.news)"
	maxPageBytes = 5 << 20
)

type Fetcher struct {
	parser     *gofeed.Parser
	converter  *md.Converter
	httpClient *http.Client
	logger     *zap.Logger
}

var _ ingest.Fetcher = (*Fetcher)(nil)

func NewFetcher(timeout time.Duration, logger *zap.Logger) *Fetcher {
	client := &http.Client{Timeout: timeout}
	parser := gofeed.NewParser()
	parser.UserAgent = userAgent
	parser.Client = client
	return &Fetcher{
		parser:     parser,
		converter:  md.NewConverter("", true, nil),
		httpClient: client,
		logger:     logger,
	}
}

func (f *Fetcher) FetchFeed(ctx context.Context, feedURL string) ([]ingest.Item, error) {
	feed, err := f.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parsing feed %s: %w", feedURL, err)
	}
	items := make([]ingest.Item, 0, len(feed.Items))
	for _, it := range feed.Items {
		if it == nil {
			continue
		}
		items = append(items, toItem(it))
	}
	f.logger.Debug("Feed parsed", zap.String("url", feedURL), zap.Int("items", len(items)))
	return items, nil
}

func toItem(it *gofeed.Item) ingest.Item {
	item := ingest.Item{
		Title:       strings.TrimSpace(it.Title),
		Link:        it.Link,
		Content:     it.Content,
		Description: it.Description,
		Categories:  it.Categories,
		ImageURL:    imageOf(it),
	}
	switch {
	case it.PublishedParsed != nil:
		item.Published = *it.PublishedParsed
	case it.UpdatedParsed != nil:
		item.Published = *it.UpdatedParsed
	}
	return item
}

func imageOf(it *gofeed.Item) string {
	if it.Image != nil && it.Image.URL != "" {
		return it.Image.URL
	}
	for _, enc := range it.Enclosures {
		if enc != nil && enc.URL != "" && strings.HasPrefix(enc.Type, "image/") {
			return enc.URL
		}
	}
	return ""
}

func (f *Fetcher) ExtractArticle(ctx context.Context, pageURL string) (string, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("invalid article url %q: %w", pageURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("building request for %s: %w", pageURL, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching %s: unexpected status %d", pageURL, resp.StatusCode)
	}

	article, err := readability.FromReader(io.LimitReader(resp.Body, maxPageBytes), parsed)
	if err != nil {
		return "", fmt.Errorf("failed to extract content from %s: %w", pageURL, err)
	}
	if article.Content == "" {
		return strings.TrimSpace(article.TextContent), nil
	}
	return f.ToMarkdown(article.Content)
}

func (f *Fetcher) ToMarkdown(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", nil
	}
	out, err := f.converter.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("converting html to markdown: %w", err)
	}
	return strings.TrimSpace(out), nil
}
