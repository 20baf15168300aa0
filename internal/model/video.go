// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

// ErrInvalidVideoURL is returned when a YouTube video id cannot be found in a URL.
var ErrInvalidVideoURL = errors.New("please enter a valid YouTube URL")

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{6,32}$`)

// Video is an embedded YouTube video.
type Video struct {
	Meta
	VideoID string `validate:"required,max=32"`
}

func (v *Video) Columns() []string { return []string{"video_id"} }
func (v *Video) Fields() []any     { return []any{&v.VideoID} }

// EmbedURL returns the player URL of the video.
func (v *Video) EmbedURL() string { return youTubeEmbedURL(v.VideoID) }

// ExtractVideoID returns the video id from a youtu.be short link or a
// youtube.com link carrying a v query parameter.
func ExtractVideoID(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return "", ErrInvalidVideoURL
	}

	var id string
	switch strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.") {
	case "youtu.be":
		id = strings.TrimPrefix(u.Path, "/")
	case "youtube.com", "m.youtube.com":
		id = u.Query().Get("v")
	default:
		return "", ErrInvalidVideoURL
	}

	if !videoIDPattern.MatchString(id) {
		return "", ErrInvalidVideoURL
	}
	return id, nil
}

func youTubeEmbedURL(id string) string {
	return "https://www.youtube.com/embed/" + url.PathEscape(id)
}
