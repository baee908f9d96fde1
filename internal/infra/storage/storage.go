// Package storage keeps uploaded branding images either on local disk
// or in a Supabase Storage bucket.
package storage

import (
	"context"
	"errors"
	"path"
	"strings"
)

var ErrNotFound = errors.New("storage: object not found")

type Store interface {
	Put(ctx context.Context, name, contentType string, data []byte) (string, error)
	Get(ctx context.Context, name string) ([]byte, string, error)
	Delete(ctx context.Context, name string) error
}

// cleanName rejects names that would escape the bucket or directory.
func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsAny(name, `/\`) || name != path.Base(name) || strings.HasPrefix(name, ".") {
		return "", errors.New("storage: invalid object name")
	}
	return name, nil
}
