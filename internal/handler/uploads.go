// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"io/fs"
	"net/http"
	"strings"
)

// Uploads serves the local storage root under urlPrefix. Directory
// listings are not served.
func Uploads(urlPrefix, root string) http.Handler {
	files := http.FileServer(noListingFS{http.Dir(root)})
	return http.StripPrefix(strings.TrimSuffix(urlPrefix, "/"), files)
}

// noListingFS hides directories from http.FileServer.
type noListingFS struct {
	inner http.FileSystem
}

func (n noListingFS) Open(name string) (http.File, error) {
	f, err := n.inner.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, fs.ErrNotExist
	}
	return f, nil
}
