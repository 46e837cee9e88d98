package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Key namespaces. Any write to stored content drops FeedPrefix and ContentPrefix.
const (
	FeedPrefix    = "feed:"
	ContentPrefix = "content:"
	RevokedPrefix = "revoked:"
)

// ErrNotFound is returned by Get for a missing or expired key.
var ErrNotFound = errors.New("cache: key not found")

// CacheRepository stores opaque payloads with a TTL.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// DeletePrefix removes every key starting with prefix.
	DeletePrefix(ctx context.Context, prefix string) error
}

// FeedKey names one rendered feed, e.g. "feed:breaking:15".
func FeedKey(feed string, limit int) string {
	return fmt.Sprintf("%s%s:%d", FeedPrefix, feed, limit)
}

func ContentKey(id string) string {
	return ContentPrefix + id
}

// RevokedKey marks a logged-out token by its jti until the token would have expired.
func RevokedKey(tokenID string) string {
	return RevokedPrefix + tokenID
}
