// Package storage keeps CSV exports in S3 compatible object storage.
package storage

import (
	"context"
	"io"
	"time"
)

// Provider is the object store used for exports.
type Provider interface {
	// Put stores size bytes from r under key.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error

	// PresignedURL returns a temporary download link for key.
	PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)

	// CheckBucket makes sure the bucket exists, creating it if needed.
	CheckBucket(ctx context.Context) error
}
