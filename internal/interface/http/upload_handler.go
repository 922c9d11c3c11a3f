package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/faq-system/internal/domain/upload"
)

const mediaPrefix = "/media/"

// multipart framing on top of the file itself
const uploadOverheadBytes = 1 << 20

// UploadHandler accepts editor image uploads and serves them back.
type UploadHandler struct {
	svc      upload.Service
	maxBytes int64
	logger   *slog.Logger
}

// NewUploadHandler constructs the handler.
func NewUploadHandler(svc upload.Service, cfg upload.Config, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{svc: svc, maxBytes: cfg.MaxBytes, logger: logger.With("component", "http.upload")}
}

// ImageUpload stores the multipart field "upload" and answers with the URL the editor embeds.
func (h *UploadHandler) ImageUpload(c *gin.Context) {
	if h.maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+uploadOverheadBytes)
	}
	fileHeader, err := c.FormFile("upload")
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		abortWithError(c, NewHTTPError(http.StatusRequestEntityTooLarge, "file_too_large", "upload exceeds the size limit", err))
		return
	}
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_input", "upload file is required", err))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_input", "failed to read upload", err))
		return
	}
	defer file.Close()

	obj, err := h.svc.SaveImage(c.Request.Context(), file)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": mediaPrefix + obj.Key})
}

// Media streams a stored upload.
func (h *UploadHandler) Media(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	obj, err := h.svc.Open(c.Request.Context(), key)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	defer obj.Body.Close()
	mimeType := obj.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, obj.Size, mimeType, obj.Body, map[string]string{
		"Cache-Control":          "public, max-age=86400",
		"X-Content-Type-Options": "nosniff",
	})
}
