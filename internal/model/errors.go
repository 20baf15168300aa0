// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotFound is returned when a row addressed by id does not exist.
var ErrNotFound = errors.New("not found")

// FetchError reports a failed read from a table.
type FetchError struct {
	Table string
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("loading %s: %v", e.Table, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ValidationError reports required input that is missing or malformed.
// It is raised before any storage or database call is made.
type ValidationError struct {
	// Fields maps a form field name to a human readable problem.
	Fields map[string]string
}

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, problem string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: problem}}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid input"
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+" "+e.Fields[name])
	}
	return strings.Join(parts, "; ")
}

// UploadError reports a media write that failed or was rejected.
type UploadError struct {
	File string
	Err  error
}

func (e *UploadError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("upload failed: %v", e.Err)
	}
	return fmt.Sprintf("uploading %s: %v", e.File, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// WriteError reports a failed insert, update or delete.
type WriteError struct {
	Table string
	Op    string
	Err   error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Table, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Upload rejection reasons, wrapped in UploadError.
var (
	ErrFileTooLarge    = errors.New("file exceeds the maximum upload size")
	ErrFileEmpty       = errors.New("file is empty")
	ErrUnsupportedType = errors.New("file type is not allowed here")
)
