package ingest

import (
	"context"
	"time"
)

// Item is one entry read from a syndication feed.
type Item struct {
	Title       string
	Link        string
	Content     string
	Description string
	ImageURL    string
	Categories  []string
	Published   time.Time
}

// Fetcher reads feeds and turns article HTML into markdown.
type Fetcher interface {
	FetchFeed(ctx context.Context, feedURL string) ([]Item, error)
	// ExtractArticle downloads pageURL and returns its main text as markdown.
	ExtractArticle(ctx context.Context, pageURL string) (string, error)
	ToMarkdown(html string) (string, error)
}
