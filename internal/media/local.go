// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage keeps objects as files under a root directory. The files
// are served by the HTTP server under BaseURL.
type LocalStorage struct {
	root    string
	baseURL string
}

// NewLocalStorage creates the root directory if needed.
func NewLocalStorage(root, baseURL string) (*LocalStorage, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving uploads directory: %w", err)
	}
	if err := os.MkdirAll(absRoot, 0755); err != nil {
		return nil, fmt.Errorf("creating uploads directory: %w", err)
	}
	if baseURL == "" {
		baseURL = "/uploads"
	}
	return &LocalStorage{root: absRoot, baseURL: baseURL}, nil
}

// Root returns the absolute directory objects are stored in.
func (s *LocalStorage) Root() string {
	return s.root
}

// Put writes the object to a temporary file and renames it into place so
// readers never see a partial file.
func (s *LocalStorage) Put(ctx context.Context, key string, r io.Reader, _ int64, _ string) error {
	target, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("closing file: %w", err)
	}
	if err := ctx.Err(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("moving file into place: %w", err)
	}
	return nil
}

// Delete removes the file. A missing file is not an error.
func (s *LocalStorage) Delete(_ context.Context, key string) error {
	target, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing file: %w", err)
	}
	return nil
}

// URL returns the public path of the object.
func (s *LocalStorage) URL(key string) string {
	return joinURL(s.baseURL, key)
}

// Open returns the stored object for reading.
func (s *LocalStorage) Open(key string) (*os.File, error) {
	target, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	return os.Open(target)
}

// Exists reports whether an object is stored under key.
func (s *LocalStorage) Exists(key string) bool {
	target, err := s.resolve(key)
	if err != nil {
		return false
	}
	_, err = os.Stat(target)
	return err == nil
}

// resolve maps a key to a file path, verifying it stays inside the root.
func (s *LocalStorage) resolve(key string) (string, error) {
	cleaned, err := cleanKey(key)
	if err != nil {
		return "", err
	}

	target := filepath.Join(s.root, filepath.FromSlash(cleaned))
	rel, err := filepath.Rel(s.root, target)
	if err != nil || strings.HasPrefix(rel, "..") || filepath.IsAbs(rel) {
		return "", ErrInvalidKey
	}
	return target, nil
}
