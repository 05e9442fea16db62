package domain

import (
	"regexp"
	"strings"
)

var (
	// tagRe matches HTML tags, including unclosed trailing fragments that
	// truncated feed snippets sometimes end with.
	tagRe = regexp.MustCompile(`<[^>]*>?`)

	// whitespaceRe collapses runs of spaces, tabs, and newlines left behind
	// after tag stripping.
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// entityReplacer decodes the named entities that actually occur in the
// feeds. Feed snippets are plain prose once tags are gone, so a full HTML
// entity table is not needed.
var entityReplacer = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#039;", "'",
	"&nbsp;", " ",
)

// CleanHTML strips tags from feed-supplied text, decodes the common named
// entities, collapses whitespace runs, and trims. Missing or empty input
// yields an empty string, never an error.
func CleanHTML(s string) string {
	if s == "" {
		return ""
	}
	s = tagRe.ReplaceAllString(s, " ")
	s = entityReplacer.Replace(s)
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Truncate caps s at max bytes. Descriptions are length-capped per source
// to bound storage.
func Truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max]
}
