package mongo

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Abdurahmanit/GroupProject/content-service/internal/entity"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/feature"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	defaultTitle    = "Untitled"
	defaultAuthor   = "Anonymous"
	defaultCategory = "General"
	defaultImage    = "/placeholder.jpg"
	avatarBaseURL   = "https://api.dicebear.com/7.x/avataaars/svg?seed="
)

var markdownMarkers = strings.NewReplacer("**", "", "##", "")

func avatarURL(seed string) string {
	if seed == "" {
		seed = "anonymous"
	}
	return avatarBaseURL + url.QueryEscape(seed)
}

// toGeneratedItem maps a generated_content document. It never fails: every
// missing or malformed field falls back to its default.
func toGeneratedItem(doc bson.M, now time.Time) *entity.FeedItem {
	user := firstString(doc, "user")
	authorName := user
	avatar := ""
	if author := asMap(doc["author"]); author != nil {
		if authorName == "" {
			authorName = firstString(author, "name")
		}
		avatar = firstString(author, "avatar")
	}
	if authorName == "" {
		authorName = defaultAuthor
	}
	if avatar == "" {
		avatar = avatarURL(user)
	}

	var features map[string]bool
	if raw := asMap(doc["features"]); raw != nil {
		features, _ = feature.FromRaw(raw)
	}
	if features == nil {
		features = map[string]bool{}
	}

	return &entity.FeedItem{
		ID:        documentID(doc["_id"]),
		Title:     orDefault(markdownMarkers.Replace(firstString(doc, "original_headline", "headline", "title")), defaultTitle),
		Content:   markdownMarkers.Replace(firstString(doc, "content")),
		Author:    entity.Author{Name: authorName, Avatar: avatar},
		Category:  orDefault(firstString(doc, "category"), defaultCategory),
		Timestamp: toTimestamp(firstPresent(doc, "time", "timestamp"), now),
		Image:     orDefault(firstString(doc, "image_url", "image"), defaultImage),
		Tags:      toStrings(doc["tags"]),
		Features:  features,
		Source:    entity.SourceGenerated,
	}
}

// toLegacyItem maps a document from the older articles collection.
func toLegacyItem(doc bson.M, now time.Time) *entity.FeedItem {
	authorName := firstString(doc, "authorName")
	title := firstString(doc, "title")
	return &entity.FeedItem{
		ID:        documentID(doc["_id"]),
		Title:     orDefault(markdownMarkers.Replace(title), defaultTitle),
		Content:   markdownMarkers.Replace(firstString(doc, "content", "excerpt")),
		Author:    entity.Author{Name: orDefault(authorName, defaultAuthor), Avatar: avatarURL(authorName)},
		Category:  orDefault(firstString(doc, "categoryName", "categoryId"), defaultCategory),
		Timestamp: toTimestamp(firstPresent(doc, "createdAt", "updatedAt"), now),
		Image:     orDefault(firstString(doc, "image", "coverImage"), defaultImage),
		Tags:      toStrings(doc["tags"]),
		Features:  map[string]bool{},
		Source:    entity.SourceLegacy,
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// firstString returns the first key holding a non-empty string.
func firstString(doc map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if s, ok := doc[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// firstPresent returns the first truthy value among keys.
func firstPresent(doc map[string]interface{}, keys ...string) interface{} {
	for _, k := range keys {
		if v, ok := doc[k]; ok && feature.Truthy(v) {
			return v
		}
	}
	return nil
}

func asMap(v interface{}) map[string]interface{} {
	switch m := v.(type) {
	case bson.M:
		return m
	case map[string]interface{}:
		return m
	case bson.D:
		return m.Map()
	}
	return nil
}

func documentID(v interface{}) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	case primitive.ObjectID:
		return id.Hex()
	default:
		return fmt.Sprint(id)
	}
}

func toStrings(v interface{}) []string {
	var items []interface{}
	switch a := v.(type) {
	case bson.A:
		items = a
	case []interface{}:
		items = a
	case []string:
		return a
	default:
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

// toTimestamp renders any stored time representation as ISO-8601, using now
// for values that cannot be interpreted.
func toTimestamp(v interface{}, now time.Time) string {
	switch t := v.(type) {
	case primitive.DateTime:
		return entity.FormatTimestamp(t.Time())
	case time.Time:
		return entity.FormatTimestamp(t)
	case primitive.Timestamp:
		return entity.FormatTimestamp(time.Unix(int64(t.T), 0))
	case string:
		if parsed, err := entity.ParseTimestamp(t); err == nil {
			return entity.FormatTimestamp(parsed)
		}
	default:
		// Exported timestamps are stored as {_seconds, _nanoseconds}.
		if m := asMap(v); m != nil {
			if secs, ok := toInt64(m["_seconds"]); ok {
				nanos, _ := toInt64(m["_nanoseconds"])
				return entity.FormatTimestamp(time.Unix(secs, nanos))
			}
		}
	}
	return entity.FormatTimestamp(now)
}

func toInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	}
	return 0, false
}
