// Package objectstore writes and reads image bytes in blob storage and
// derives their public URLs.
package objectstore

import (
	"context"
	"errors"
	"net/url"
	"strings"
)

var (
	ErrObjectNotFound = errors.New("object not found")
	ErrInvalidKey     = errors.New("invalid object key")
)

// Store is a blob store addressed by key.
type Store interface {
	// Put writes body under key and returns the retrieval URL.
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
	URL(key string) string
	// Bucket names the container objects are written to. Empty for stores
	// without buckets.
	Bucket() string
}

// escapeKey escapes each path segment of key for use in a URL.
func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
