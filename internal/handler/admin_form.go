// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/olegiv/mvs-cms/internal/media"
	"github.com/olegiv/mvs-cms/internal/model"
)

// FieldType selects the input rendered for a form field.
type FieldType string

// Field types
const (
	FieldText     FieldType = "text"
	FieldTextarea FieldType = "textarea"
	FieldDate     FieldType = "date"
	FieldNumber   FieldType = "number"
	FieldURL      FieldType = "url"
	FieldSelect   FieldType = "select"
	FieldFile     FieldType = "file"
	FieldFiles    FieldType = "files"
)

// Option is one choice of a select field.
type Option struct {
	Value string
	Label string
}

// Field describes one input of an admin form.
type Field struct {
	Name     string
	Label    string
	Type     FieldType
	Required bool
	Accept   string
	Options  []Option
	// Value pre-fills the input; Current links the stored file of a file input.
	Value   string
	Current string
	Help    string
}

// Accept values for file inputs.
const (
	acceptImage = "image/*"
	acceptPDF   = "application/pdf"
)

func textField(name, label string, required bool) Field {
	return Field{Name: name, Label: label, Type: FieldText, Required: required}
}

func textareaField(name, label string, required bool) Field {
	return Field{Name: name, Label: label, Type: FieldTextarea, Required: required}
}

func imageField(name, label string, required bool) Field {
	return Field{Name: name, Label: label, Type: FieldFile, Required: required, Accept: acceptImage}
}

func pdfField(name, label string, required bool) Field {
	return Field{Name: name, Label: label, Type: FieldFile, Required: required, Accept: acceptPDF}
}

// mediaSlot binds a file input to a media policy and to the ref it fills in.
type mediaSlot[T any] struct {
	field    string
	policy   media.Policy
	required bool
	set      func(*T, model.MediaRef)
	get      func(*T) model.MediaRef
}

// formString returns the trimmed value of a form field.
func formString(form url.Values, name string) string {
	return strings.TrimSpace(form.Get(name))
}

// formInt parses an integer form field. Blank input yields zero so that
// required checks are left to validation.
func formInt(form url.Values, name string) (int, error) {
	raw := formString(form, name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, model.NewValidationError(name, "must be a whole number")
	}
	return n, nil
}

// formFiles returns the uploads sent for a file input.
func formFiles(r *http.Request, name string) []media.File {
	if r.MultipartForm == nil {
		return nil
	}
	headers := r.MultipartForm.File[name]
	files := make([]media.File, 0, len(headers))
	for _, fh := range headers {
		if fh.Size == 0 && fh.Filename == "" {
			continue
		}
		files = append(files, media.FromMultipart(fh))
	}
	return files
}

// isJSON reports whether the request body is JSON.
func isJSON(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}
