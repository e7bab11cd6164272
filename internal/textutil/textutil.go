// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textutil provides text cleanup helpers shared across stages.
// Upstream free-text fields mix display markup and irregular whitespace;
// snippet fields in particular embed highlight tags.
package textutil

import (
	"regexp"
	"strings"
)

var markupRE = regexp.MustCompile(`<[^>]+>`)

// StripMarkup removes angle-bracket markup tags, leaving the text between
// them untouched.
func StripMarkup(s string) string {
	return markupRE.ReplaceAllString(s, "")
}

// Clean strips markup and collapses all whitespace runs to single spaces,
// trimming the ends.
func Clean(s string) string {
	return strings.Join(strings.Fields(StripMarkup(s)), " ")
}

// CleanAll applies Clean to every element and drops entries that clean to
// empty.
func CleanAll(values []string) []string {
	var out []string
	for _, v := range values {
		if cleaned := Clean(v); cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}

// CountWords returns the number of whitespace-separated words in s.
func CountWords(s string) int {
	return len(strings.Fields(s))
}
