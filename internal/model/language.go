// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Language is the language of a newsletter issue.
type Language string

// Newsletter languages
const (
	LanguageEnglish   Language = "english"
	LanguageNorwegian Language = "norwegian"
)

// Languages lists the supported newsletter languages in display order.
var Languages = []Language{LanguageEnglish, LanguageNorwegian}

// ParseLanguage returns the language for a route segment or form value.
func ParseLanguage(s string) (Language, bool) {
	for _, l := range Languages {
		if string(l) == s {
			return l, true
		}
	}
	return "", false
}

// Tag returns the BCP 47 tag of the language.
func (l Language) Tag() language.Tag {
	switch l {
	case LanguageNorwegian:
		return language.Norwegian
	default:
		return language.English
	}
}

// Label returns the English name of the language, e.g. "Norwegian".
func (l Language) Label() string {
	return display.English.Languages().Name(l.Tag())
}

// NativeLabel returns the language's own name for itself, e.g. "norsk".
func (l Language) NativeLabel() string {
	return display.Self.Name(l.Tag())
}
