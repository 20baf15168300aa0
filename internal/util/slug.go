// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides slug generation for names shown in URLs and
// stored object keys.
package util

import (
	"path"
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

// MaxSlugLength caps slugs derived from user supplied names.
const MaxSlugLength = 48

var (
	// slugRegex matches non-alphanumeric characters (except hyphens)
	slugRegex = regexp.MustCompile(`[^a-z0-9-]+`)
	// multipleHyphens matches multiple consecutive hyphens
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Slugify converts a string to a URL-friendly slug.
// Non-Latin scripts are transliterated to ASCII first, so Korean or
// Cyrillic titles still produce a readable slug.
func Slugify(s string) string {
	result := strings.ToLower(unidecode.Unidecode(s))

	result = strings.Join(strings.Fields(result), "-")
	result = slugRegex.ReplaceAllString(result, "")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")

	if len(result) > MaxSlugLength {
		result = strings.TrimRight(result[:MaxSlugLength], "-")
	}
	return result
}

// FileStem slugifies an uploaded filename without its directory or
// extension. "My Photo (1).JPG" becomes "my-photo-1".
func FileStem(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	return Slugify(strings.TrimSuffix(base, path.Ext(base)))
}
