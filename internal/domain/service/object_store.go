package service

import (
	"context"
	"io"
)

// ObjectHandle identifies an object after a successful upload.
type ObjectHandle struct {
	Key         string
	ContentType string
	Size        int64
}

// ObjectStore is the slice of a hosted object store the application needs.
// Keys are bucket-relative paths.
type ObjectStore interface {
	Upload(ctx context.Context, key, contentType string, r io.Reader, size int64) (ObjectHandle, error)
	// ResolveURL returns a durable URL that can be embedded in a listing.
	ResolveURL(ctx context.Context, handle ObjectHandle) (string, error)
	Open(ctx context.Context, key string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, key string) error
	Close() error
}
