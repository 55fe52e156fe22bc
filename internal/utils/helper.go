package utils

import (
	"regexp"
	"strings"
)

var (
	nonAlnumRegex  = regexp.MustCompile(`[^a-z0-9]+`)
	multiDashRegex = regexp.MustCompile(`-+`)
)

// Slugify lower-cases input and collapses every non-alphanumeric run into one dash.
func Slugify(input string) string {
	slug := strings.ToLower(strings.TrimSpace(input))
	slug = nonAlnumRegex.ReplaceAllString(slug, "-")
	slug = multiDashRegex.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// FirstOrEmpty returns the first element of s, or "" for an empty slice.
func FirstOrEmpty(s []string) string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}
