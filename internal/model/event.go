// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"time"
)

// Log entry levels
const (
	LogLevelInfo    = "info"
	LogLevelWarning = "warning"
	LogLevelError   = "error"
)

// Log entry categories
const (
	LogCategoryAuth    = "auth"
	LogCategoryContent = "content"
	LogCategoryMedia   = "media"
	LogCategoryVisitor = "visitor"
	LogCategorySystem  = "system"
)

// LogEntry represents a persisted warning or error from the application log.
type LogEntry struct {
	ID        int64
	Level     string
	Category  string
	Message   string
	Metadata  string // JSON string
	CreatedAt time.Time
}
