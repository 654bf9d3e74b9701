// Package storage provides object storage for media files such as village
// photos and product images, backed by MinIO or AWS S3.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotFound is returned when the requested object does not exist.
var ErrNotFound = errors.New("storage: object not found")

// Object describes a stored object.
type Object struct {
	Key         string
	Size        int64
	ContentType string
	ETag        string
	UpdatedAt   time.Time
}

// Blob is the object storage surface the application uses. Each client is
// bound to a single bucket at construction.
type Blob interface {
	io.Closer

	// Upload stores the content under key and returns its metadata.
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (Object, error)

	// Download opens the object for reading. The caller closes the reader.
	Download(ctx context.Context, key string) (io.ReadCloser, Object, error)

	// Delete removes the object. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error

	// List returns objects under the given key prefix.
	List(ctx context.Context, prefix string, limit int) ([]Object, error)

	// PresignGet returns a time-limited URL for downloading the object.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)

	// PresignPut returns a time-limited URL for uploading to the key.
	PresignPut(ctx context.Context, key string, expiry time.Duration) (string, error)
}
