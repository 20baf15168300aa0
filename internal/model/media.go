// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Supported MIME types
const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
	MimeTypeWebP = "image/webp"
	MimeTypePDF  = "application/pdf"
)

// MediaKind restricts what an upload slot accepts.
type MediaKind string

// Media kinds
const (
	KindImage MediaKind = "image"
	KindPDF   MediaKind = "pdf"
)

// Accepts reports whether the sniffed MIME type is allowed for this kind.
func (k MediaKind) Accepts(mimeType string) bool {
	switch k {
	case KindImage:
		return IsImageMimeType(mimeType)
	case KindPDF:
		return mimeType == MimeTypePDF
	default:
		return false
	}
}

// IsImageMimeType checks if the MIME type is a decodable image.
func IsImageMimeType(mimeType string) bool {
	switch mimeType {
	case MimeTypeJPEG, MimeTypePNG, MimeTypeGIF, MimeTypeWebP:
		return true
	default:
		return false
	}
}

// MediaRef points at one stored object. The key is what storage deletes by;
// the URL is only ever used for display.
type MediaRef struct {
	Key string
	URL string
}

// IsZero reports whether the reference points at nothing.
func (r MediaRef) IsZero() bool {
	return r.Key == ""
}

// refs collects the non-empty references from a row's key/url pairs.
func refs(pairs ...MediaRef) []MediaRef {
	out := make([]MediaRef, 0, len(pairs))
	for _, p := range pairs {
		if !p.IsZero() {
			out = append(out, p)
		}
	}
	return out
}
