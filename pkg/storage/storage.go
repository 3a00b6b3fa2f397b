// Package storage defines the object-storage contract consumed by the
// document services. The Supabase implementation lives in infra/supabase.
package storage

import (
	"context"

	"github.com/osuhe/remesas/pkg/domain"
)

// UploadOptions control a single object upload.
type UploadOptions struct {
	ContentType string
	// Overwrite allows replacing an existing object under the same key.
	// Fresh uploads use unique keys and leave this off; explicit replace
	// flows turn it on.
	Overwrite bool
}

// Client is the object-storage backend. Implementations must treat
// "bucket already exists" during EnsureBucket as success so concurrent
// callers racing to provision the same bucket never fail.
type Client interface {
	// EnsureBucket guarantees the named public bucket exists before any
	// upload. Failures other than "already exists" are
	// domain.ErrStorageUnavailable.
	EnsureBucket(ctx context.Context, name string) error
	// Upload stores data under bucket/key and returns the backend path.
	Upload(ctx context.Context, bucket, key string, data []byte, opts UploadOptions) (string, error)
	// PublicURL resolves the stable publicly readable URL of an object.
	PublicURL(bucket, key string) string
	// ListObjects returns objects under the prefix, newest first.
	ListObjects(ctx context.Context, bucket, prefix string, limit, offset int) ([]domain.StoredObject, error)
	// RemoveObjects deletes the given keys and reports which were removed.
	RemoveObjects(ctx context.Context, bucket string, keys []string) ([]string, error)
}
