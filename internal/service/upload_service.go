package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"time"

	"blogify/internal/models"
	"blogify/internal/observability"
	"blogify/internal/storage"

	_ "golang.org/x/image/webp"
)

// DefaultMaxUploadBytes is the image size ceiling when none is configured.
const DefaultMaxUploadBytes int64 = 2 << 20

var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type UploadService struct {
	store    storage.Store
	maxBytes int64
	now      func() time.Time
}

func NewUploadService(store storage.Store, maxBytes int64) *UploadService {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &UploadService{store: store, maxBytes: maxBytes, now: time.Now}
}

// MaxBytes is the largest accepted upload.
func (s *UploadService) MaxBytes() int64 {
	return s.maxBytes
}

// UploadImage checks that r holds a decodable PNG, JPEG, GIF or WebP image
// within the size limit and stores it, returning its public URL.
func (s *UploadService) UploadImage(ctx context.Context, r io.Reader) (url string, err error) {
	ctx, span := observability.StartSpan(ctx, "UploadService.UploadImage")
	defer func() { observability.EndSpan(span, err) }()

	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return "", models.NewValidationError("Could not read the uploaded file")
	}
	if int64(len(data)) > s.maxBytes {
		return "", models.NewPayloadTooLargeError(
			fmt.Sprintf("Image must be smaller than %d MB", s.maxBytes>>20))
	}
	if len(data) == 0 {
		return "", models.NewFieldError("image", "Please upload an image")
	}

	contentType := http.DetectContentType(data)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", models.NewFieldError("image", "Only PNG, JPEG, GIF and WebP images are allowed")
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return "", models.NewFieldError("image", "The uploaded file is not a valid image")
	}

	if s.store == nil {
		return "", models.NewUpstreamError("Image storage is not configured", nil)
	}
	key := storage.ObjectKey(s.now(), ext)
	url, err = s.store.Put(ctx, key, contentType, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", models.NewUpstreamError("Image upload failed", err)
	}

	observability.UploadBytes.Observe(float64(len(data)))
	return url, nil
}
