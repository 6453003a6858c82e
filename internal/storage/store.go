// Package storage persists uploaded images and returns their public URLs.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"blogify/internal/config"

	"github.com/google/uuid"
)

// Store writes an object and reports the URL it is served from.
type Store interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
}

// ObjectKey builds a collision-free key such as "uploads/2026/10/18/<uuid>.png".
func ObjectKey(now time.Time, ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return fmt.Sprintf("uploads/%s/%s%s", now.UTC().Format("2006/01/02"), uuid.NewString(), strings.ToLower(ext))
}

// New selects the backend named by STORAGE_DRIVER.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.StorageDriver {
	case "s3":
		return NewS3Store(ctx, S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
	case "", "disk":
		return NewDiskStore(cfg.UploadDir, cfg.UploadPublicURL)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}
