package upload

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by ObjectStorage when a key does not exist.
var ErrNotFound = errors.New("object not found")

// Config bounds accepted uploads.
type Config struct {
	MaxBytes int64
}

// ObjectStorage persists uploaded blobs.
type ObjectStorage interface {
	Put(ctx context.Context, key string, data []byte, mimeType string) (StoredObject, error)
	Get(ctx context.Context, key string) (Object, error)
	Delete(ctx context.Context, key string) error
}

// StoredObject captures persisted blob metadata.
type StoredObject struct {
	Key      string `json:"key"`
	Size     int64  `json:"size"`
	MimeType string `json:"mimeType"`
	ETag     string `json:"etag"`
}

// Object is an open blob. Callers must close Body.
type Object struct {
	Body     io.ReadCloser
	Size     int64
	MimeType string
}
