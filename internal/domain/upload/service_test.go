package upload

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/faq-system/pkg/errors"
)

type fakeStorage struct {
	blobs map[string][]byte
}

func (f *fakeStorage) Put(_ context.Context, key string, data []byte, mimeType string) (StoredObject, error) {
	f.blobs[key] = data
	return StoredObject{Key: key, Size: int64(len(data)), MimeType: mimeType}, nil
}

func (f *fakeStorage) Get(_ context.Context, key string) (Object, error) {
	data, ok := f.blobs[key]
	if !ok {
		return Object{}, ErrNotFound
	}
	return Object{Body: io.NopCloser(bytes.NewReader(data)), Size: int64(len(data))}, nil
}

func (f *fakeStorage) Delete(_ context.Context, key string) error {
	delete(f.blobs, key)
	return nil
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func newTestService(maxBytes int64) (Service, *fakeStorage) {
	store := &fakeStorage{blobs: map[string][]byte{}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(Config{MaxBytes: maxBytes}, store, logger), store
}

func TestSaveImageStoresUnderUploads(t *testing.T) {
	svc, store := newTestService(1024)

	obj, err := svc.SaveImage(context.Background(), bytes.NewReader(pngHeader))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(obj.Key, KeyPrefix))
	require.True(t, strings.HasSuffix(obj.Key, ".png"))
	require.Equal(t, "image/png", obj.MimeType)
	require.Contains(t, store.blobs, obj.Key)

	opened, err := svc.Open(context.Background(), obj.Key)
	require.NoError(t, err)
	defer opened.Body.Close()
	require.Equal(t, int64(len(pngHeader)), opened.Size)
}

func TestSaveImageRejections(t *testing.T) {
	svc, store := newTestService(16)

	_, err := svc.SaveImage(context.Background(), strings.NewReader("just some text"))
	require.True(t, apperrors.IsCode(err, "invalid_input"))

	_, err = svc.SaveImage(context.Background(), bytes.NewReader(nil))
	require.True(t, apperrors.IsCode(err, "invalid_input"))

	_, err = svc.SaveImage(context.Background(), bytes.NewReader(pngHeader))
	require.True(t, apperrors.IsCode(err, "file_too_large"))

	require.Empty(t, store.blobs)
}

func TestOpenRejectsKeysOutsideUploads(t *testing.T) {
	svc, store := newTestService(1024)
	store.blobs["secrets/config"] = []byte("x")

	for _, key := range []string{"secrets/config", "uploads/../secrets/config", "uploads/missing.png", ""} {
		_, err := svc.Open(context.Background(), key)
		require.True(t, apperrors.IsCode(err, "not_found"), key)
	}
}
