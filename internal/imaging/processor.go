// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging validates uploaded images and renders preview thumbnails.
// Originals are never re-encoded; only the thumbnail is derived from them.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/olegiv/mvs-cms/internal/model"
)

// ErrUnsupportedFormat is returned for data that is not a JPEG, PNG, GIF or WebP image.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Info describes a decoded image.
type Info struct {
	Width    int
	Height   int
	MimeType string
}

// ThumbnailConfig bounds the generated preview.
type ThumbnailConfig struct {
	Width   int
	Height  int
	Quality int
}

// DefaultThumbnailConfig fits previews within 480x360 at JPEG quality 80.
func DefaultThumbnailConfig() ThumbnailConfig {
	return ThumbnailConfig{Width: 480, Height: 360, Quality: 80}
}

// Processor decodes images using pure Go libraries.
type Processor struct {
	thumb ThumbnailConfig
}

// NewProcessor creates a new image processor.
func NewProcessor(cfg ThumbnailConfig) *Processor {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg = DefaultThumbnailConfig()
	}
	if cfg.Quality <= 0 || cfg.Quality > 100 {
		cfg.Quality = 80
	}
	return &Processor{thumb: cfg}
}

// Thumbnail decodes the image, applies its EXIF orientation and returns a
// JPEG scaled to fit the configured bounds. A decode failure means the
// upload is not a usable image.
func (p *Processor) Thumbnail(data []byte) ([]byte, Info, error) {
	format := detectFormat(data)
	if format == "" {
		return nil, Info{}, ErrUnsupportedFormat
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, Info{}, fmt.Errorf("decoding image: %w", err)
	}

	img = applyOrientation(img, readExifOrientation(bytes.NewReader(data)))
	bounds := img.Bounds()
	info := Info{Width: bounds.Dx(), Height: bounds.Dy(), MimeType: formatToMimeType(format)}

	// Small images are only re-encoded, never upscaled.
	if info.Width > p.thumb.Width || info.Height > p.thumb.Height {
		img = imaging.Fit(img, p.thumb.Width, p.thumb.Height, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.thumb.Quality}); err != nil {
		return nil, Info{}, fmt.Errorf("encoding thumbnail: %w", err)
	}

	return buf.Bytes(), info, nil
}

// DetectMimeType sniffs the MIME type of arbitrary data, without parameters.
func DetectMimeType(data []byte) string {
	contentType := http.DetectContentType(data)
	// http.DetectContentType returns types like "text/plain; charset=utf-8"
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}
	return contentType
}

// readExifOrientation reads the EXIF orientation tag from image data.
// Returns 1 (normal) if orientation cannot be determined.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}

	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}

	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}

	return orientation
}

// applyOrientation undoes the camera rotation recorded in EXIF.
// 2 and 4 are mirrors, 3 is 180°, 6 and 8 are quarter turns, 5 and 7 are
// quarter turns combined with a mirror.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// detectFormat detects the image format from raw bytes.
func detectFormat(data []byte) string {
	contentType := http.DetectContentType(data)
	// Explicitly reject TIFF (CVE-2023-36308 in disintegration/imaging)
	if strings.Contains(contentType, "tiff") {
		return ""
	}
	switch {
	case strings.Contains(contentType, "jpeg"):
		return "jpeg"
	case strings.Contains(contentType, "png"):
		return "png"
	case strings.Contains(contentType, "gif"):
		return "gif"
	case strings.Contains(contentType, "webp"):
		return "webp"
	default:
		return ""
	}
}

// formatToMimeType converts format string to MIME type.
func formatToMimeType(format string) string {
	switch format {
	case "jpeg":
		return model.MimeTypeJPEG
	case "png":
		return model.MimeTypePNG
	case "gif":
		return model.MimeTypeGIF
	case "webp":
		return model.MimeTypeWebP
	default:
		return "application/octet-stream"
	}
}
