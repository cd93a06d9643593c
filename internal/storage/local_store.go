package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
)

// LocalStore 将对象写入本地目录，由 gin 的静态文件路由对外提供。
type LocalStore struct {
	dir     string
	baseURL string
}

// NewLocalStore creates a store rooted at dir, served under baseURL.
func NewLocalStore(dir, baseURL string) *LocalStore {
	return &LocalStore{dir: dir, baseURL: baseURL}
}

// Put writes body atomically so readers never see a partial file.
func (s *LocalStore) Put(ctx context.Context, key string, body []byte, _ string) (Object, error) {
	if err := ctx.Err(); err != nil {
		return Object{}, err
	}

	cleaned, err := cleanKey(key)
	if err != nil {
		return Object{}, err
	}

	path := filepath.Join(s.dir, filepath.FromSlash(cleaned))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Object{}, fmt.Errorf("create upload directory: %w", err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(body)); err != nil {
		return Object{}, fmt.Errorf("write %s: %w", cleaned, err)
	}

	return Object{Key: cleaned, URL: joinURL(s.baseURL, cleaned), Size: len(body)}, nil
}
