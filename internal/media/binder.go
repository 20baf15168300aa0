// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/olegiv/mvs-cms/internal/imaging"
	"github.com/olegiv/mvs-cms/internal/model"
	"github.com/olegiv/mvs-cms/internal/util"
)

// DefaultMaxSize is the upload limit used when a policy does not set one.
const DefaultMaxSize int64 = 20 << 20

// thumbDir is the sub-prefix thumbnails are written under.
const thumbDir = "thumbs"

// Policy describes where an upload slot stores its objects and what it accepts.
type Policy struct {
	Bucket  string
	Prefix  string
	Kind    model.MediaKind
	MaxSize int64
}

func (p Policy) maxSize() int64 {
	if p.MaxSize <= 0 {
		return DefaultMaxSize
	}
	return p.MaxSize
}

func (p Policy) dir() string {
	return path.Join(p.Bucket, p.Prefix)
}

// File is an upload source. Open may be called more than once.
type File struct {
	Name        string
	Size        int64
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// FromMultipart adapts a parsed multipart file header.
func FromMultipart(fh *multipart.FileHeader) File {
	return File{
		Name:        fh.Filename,
		Size:        fh.Size,
		ContentType: fh.Header.Get("Content-Type"),
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// BytesFile wraps in-memory data as an upload source.
func BytesFile(name string, data []byte) File {
	return File{
		Name: name,
		Size: int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// Binder writes uploads to storage and removes them again.
type Binder struct {
	storage   Storage
	processor *imaging.Processor
	logger    *slog.Logger
}

// NewBinder creates a binder on top of storage.
func NewBinder(storage Storage, processor *imaging.Processor, logger *slog.Logger) *Binder {
	if processor == nil {
		processor = imaging.NewProcessor(imaging.DefaultThumbnailConfig())
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Binder{storage: storage, processor: processor, logger: logger}
}

// Upload validates a single file against the policy and stores it.
// Images also get a JPEG thumbnail; failing to store it only logs.
func (b *Binder) Upload(ctx context.Context, file File, policy Policy) (model.MediaRef, error) {
	data, err := b.read(file, policy)
	if err != nil {
		return model.MediaRef{}, &model.UploadError{File: file.Name, Err: err}
	}

	mimeType := imaging.DetectMimeType(data)
	if !policy.Kind.Accepts(mimeType) {
		return model.MediaRef{}, &model.UploadError{
			File: file.Name,
			Err:  fmt.Errorf("%w: %s", model.ErrUnsupportedType, mimeType),
		}
	}

	// Images must decode; the thumbnail doubles as that check.
	var thumb []byte
	if policy.Kind == model.KindImage {
		thumb, _, err = b.processor.Thumbnail(data)
		if err != nil {
			return model.MediaRef{}, &model.UploadError{File: file.Name, Err: err}
		}
	}

	name := objectName(file.Name, mimeType)
	key := path.Join(policy.dir(), name)

	if err := b.storage.Put(ctx, key, bytes.NewReader(data), int64(len(data)), mimeType); err != nil {
		return model.MediaRef{}, &model.UploadError{File: file.Name, Err: err}
	}

	if thumb != nil {
		tk := ThumbKey(key)
		if err := b.storage.Put(ctx, tk, bytes.NewReader(thumb), int64(len(thumb)), model.MimeTypeJPEG); err != nil {
			b.logger.Warn("storing thumbnail failed", "key", tk, "error", err)
		}
	}

	return model.MediaRef{Key: key, URL: b.storage.URL(key)}, nil
}

// UploadMany stores all files concurrently. If any file fails, the group
// context is cancelled and every object already stored is deleted again.
func (b *Binder) UploadMany(ctx context.Context, files []File, policy Policy) ([]model.MediaRef, error) {
	refs := make([]model.MediaRef, len(files))

	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(func() error {
			ref, err := b.Upload(gctx, f, policy)
			if err != nil {
				return err
			}
			refs[i] = ref
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		// The request context may be the reason for failure.
		cleanupCtx := context.WithoutCancel(ctx)
		for _, ref := range refs {
			if ref.IsZero() {
				continue
			}
			if delErr := b.DeleteObject(cleanupCtx, ref); delErr != nil {
				b.logger.Warn("removing partial upload failed", "key", ref.Key, "error", delErr)
			}
		}
		return nil, err
	}

	return refs, nil
}

// DeleteObject removes the object and its thumbnail by key.
func (b *Binder) DeleteObject(ctx context.Context, ref model.MediaRef) error {
	if ref.IsZero() {
		return nil
	}
	if err := b.storage.Delete(ctx, ref.Key); err != nil {
		return err
	}
	if err := b.storage.Delete(ctx, ThumbKey(ref.Key)); err != nil {
		b.logger.Warn("removing thumbnail failed", "key", ref.Key, "error", err)
	}
	return nil
}

// ThumbURL returns the thumbnail URL for a stored image.
func (b *Binder) ThumbURL(ref model.MediaRef) string {
	if ref.IsZero() {
		return ""
	}
	return b.storage.URL(ThumbKey(ref.Key))
}

// ThumbKey returns the key the thumbnail of key is stored under.
func ThumbKey(key string) string {
	dir, name := path.Split(key)
	base := strings.TrimSuffix(name, path.Ext(name))
	return path.Join(dir, thumbDir, base+".jpg")
}

// read loads the file into memory, enforcing the size limit even when
// the declared size is wrong.
func (b *Binder) read(file File, policy Policy) ([]byte, error) {
	limit := policy.maxSize()
	if file.Size > limit {
		return nil, model.ErrFileTooLarge
	}
	if file.Open == nil {
		return nil, errors.New("no file content")
	}

	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(io.LimitReader(rc, limit+1))
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, model.ErrFileTooLarge
	}
	if len(data) == 0 {
		return nil, model.ErrFileEmpty
	}
	return data, nil
}

// objectName builds a collision free name keeping a readable form of
// the original name and its extension.
func objectName(filename, mimeType string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" || len(ext) > 6 {
		ext = extensionFor(mimeType)
	}
	name := uuid.New().String()
	if stem := util.FileStem(filename); stem != "" {
		name += "-" + stem
	}
	return name + ext
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case model.MimeTypeJPEG:
		return ".jpg"
	case model.MimeTypePNG:
		return ".png"
	case model.MimeTypeGIF:
		return ".gif"
	case model.MimeTypeWebP:
		return ".webp"
	case model.MimeTypePDF:
		return ".pdf"
	default:
		return ""
	}
}
