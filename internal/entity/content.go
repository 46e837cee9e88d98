package entity

import "time"

// Collection names of the two content sources.
const (
	SourceGenerated = "generated_content"
	SourceLegacy    = "articles"
)

type Author struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// FeedItem is the display-ready shape of a stored content document.
type FeedItem struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Content   string          `json:"content"`
	Author    Author          `json:"author"`
	Category  string          `json:"category"`
	Timestamp string          `json:"timestamp"`
	Image     string          `json:"image"`
	Tags      []string        `json:"tags,omitempty"`
	Features  map[string]bool `json:"features"`
	Source    string          `json:"source,omitempty"`
}

// PublishedAt parses Timestamp. Unparseable values yield the zero time.
func (f *FeedItem) PublishedAt() time.Time {
	t, err := ParseTimestamp(f.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return t
}

// TimestampLayout is the ISO-8601 form used for every emitted timestamp.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp accepts the ISO-8601 variants found in stored documents.
func ParseTimestamp(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// NewContent is a document to be written to the generated content collection.
type NewContent struct {
	ID       string
	Headline string
	Content  string
	Category string
	User     string
	ImageURL string
	Time     time.Time
	Features map[string]bool
	Tags     []string
}

// FeatureUpdate replaces or patches the flag bag of one document.
type FeatureUpdate struct {
	ID       string
	Features map[string]bool
	// Replace swaps the whole bag; otherwise each key is $set individually.
	Replace bool
}

// RawDocument is an untyped stored document used by debug dumps and migrations.
type RawDocument map[string]interface{}
