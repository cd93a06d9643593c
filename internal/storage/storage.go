// Package storage provides object stores for transcoded media.
package storage

import (
	"fmt"
	"strings"
)

// Object 描述写入存储后的对象。
type Object struct {
	Key  string
	URL  string
	Size int
}

func cleanKey(key string) (string, error) {
	trimmed := strings.Trim(strings.TrimSpace(key), "/")
	if trimmed == "" || strings.Contains(trimmed, "..") {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return trimmed, nil
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}
