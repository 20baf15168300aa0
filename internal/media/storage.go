// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package media binds uploaded files to content rows: it stores objects
// under per-entity bucket prefixes, returns their public URLs, and removes
// them again when the owning row goes away.
package media

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

// ErrInvalidKey is returned for keys that are empty or escape the storage root.
var ErrInvalidKey = errors.New("invalid object key")

// Storage is a flat object store addressed by slash-separated keys.
type Storage interface {
	// Put writes the object, replacing any existing object with the same key.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// Delete removes the object. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error
	// URL returns the public URL the object is served from.
	URL(key string) string
}

// cleanKey normalizes a key and rejects traversal outside the store.
func cleanKey(key string) (string, error) {
	key = strings.ReplaceAll(key, "\\", "/")
	cleaned := path.Clean("/" + key)
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "" || cleaned == "." || strings.HasPrefix(cleaned, "..") {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}

// joinURL appends a key to a base URL without doubling slashes.
func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
