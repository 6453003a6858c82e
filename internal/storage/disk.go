package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DiskStore keeps uploads on the local filesystem. The server exposes Dir
// under the path component of PublicURL.
type DiskStore struct {
	Dir       string
	PublicURL string
}

// NewDiskStore creates dir if needed.
func NewDiskStore(dir, publicURL string) (*DiskStore, error) {
	if dir == "" {
		dir = "./uploads"
	}
	if publicURL == "" {
		publicURL = "/static"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{Dir: dir, PublicURL: publicURL}, nil
}

func (s *DiskStore) Put(ctx context.Context, key, _ string, body io.Reader, _ int64) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid object key %q", key)
	}

	path := filepath.Join(s.Dir, clean)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create object dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create object: %w", err)
	}
	if _, err := io.Copy(f, body); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write object: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("close object: %w", err)
	}
	if err := ctx.Err(); err != nil {
		_ = os.Remove(path)
		return "", err
	}

	return joinURL(s.PublicURL, filepath.ToSlash(clean)), nil
}
