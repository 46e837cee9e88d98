package storage

import (
	"context"
	"errors"
)

var ErrObjectNotFound = errors.New("object not found")

type Object struct {
	ContentType string
	Data        []byte
}

// ObjectStore keeps proxied images keyed by an opaque string.
type ObjectStore interface {
	Get(ctx context.Context, key string) (*Object, error)
	Put(ctx context.Context, key string, obj *Object) error
}
