package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	apperrors "github.com/yanqian/faq-system/pkg/errors"
)

// KeyPrefix is the namespace every editor upload lives under.
const KeyPrefix = "uploads/"

const defaultMaxBytes = 5 << 20

var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
}

// Service stores and serves images embedded in FAQ answers.
type Service interface {
	SaveImage(ctx context.Context, r io.Reader) (StoredObject, error)
	Open(ctx context.Context, key string) (Object, error)
}

type service struct {
	cfg     Config
	storage ObjectStorage
	logger  *slog.Logger
}

// NewService constructs the upload service.
func NewService(cfg Config, storage ObjectStorage, logger *slog.Logger) Service {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = defaultMaxBytes
	}
	return &service{
		cfg:     cfg,
		storage: storage,
		logger:  logger.With("component", "upload.service"),
	}
}

func (s *service) SaveImage(ctx context.Context, r io.Reader) (StoredObject, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.cfg.MaxBytes+1))
	if err != nil {
		return StoredObject{}, apperrors.Wrap("upload_error", "failed to read upload", err)
	}
	if len(data) == 0 {
		return StoredObject{}, apperrors.Wrap("invalid_input", "upload is empty", nil)
	}
	if int64(len(data)) > s.cfg.MaxBytes {
		return StoredObject{}, apperrors.Wrap("file_too_large", fmt.Sprintf("upload exceeds %d bytes", s.cfg.MaxBytes), nil)
	}

	detected := mimetype.Detect(data)
	mimeType := detected.String()
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = mimeType[:i]
	}
	if _, ok := allowedImageTypes[mimeType]; !ok {
		return StoredObject{}, apperrors.Wrap("invalid_input", "only jpeg, png, gif and webp images are accepted", nil)
	}

	key := KeyPrefix + uuid.NewString() + detected.Extension()
	obj, err := s.storage.Put(ctx, key, data, mimeType)
	if err != nil {
		return StoredObject{}, apperrors.Wrap("upload_error", "failed to store upload", err)
	}
	s.logger.Info("image uploaded", "key", obj.Key, "size", obj.Size, "mime", mimeType)
	return obj, nil
}

func (s *service) Open(ctx context.Context, key string) (Object, error) {
	clean := path.Clean("/" + key)[1:]
	if !strings.HasPrefix(clean, KeyPrefix) || clean != key {
		return Object{}, apperrors.Wrap("not_found", "file not found", nil)
	}
	obj, err := s.storage.Get(ctx, clean)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Object{}, apperrors.Wrap("not_found", "file not found", nil)
		}
		return Object{}, apperrors.Wrap("upload_error", "failed to open file", err)
	}
	return obj, nil
}
