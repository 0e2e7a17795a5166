package core

import (
	"strings"
	"unicode/utf8"

	"github.com/amityadav/searchagg/internal/search"
)

// Display contract for snippets, in characters
const (
	SnippetMinLen   = 210
	SnippetMaxLen   = 250
	SnippetEllipsis = "..."
)

// NormalizeSnippet truncates snippets longer than SnippetMaxLen (appending
// SnippetEllipsis) and right-pads shorter than SnippetMinLen with spaces.
func NormalizeSnippet(snippet string) string {
	n := utf8.RuneCountInString(snippet)
	switch {
	case n > SnippetMaxLen:
		return string([]rune(snippet)[:SnippetMaxLen]) + SnippetEllipsis
	case n < SnippetMinLen:
		return snippet + strings.Repeat(" ", SnippetMinLen-n)
	default:
		return snippet
	}
}

// NormalizeSnippets rewrites every result's snippet in place
func NormalizeSnippets(results []search.Result) {
	for i := range results {
		results[i].Snippet = NormalizeSnippet(results[i].Snippet)
	}
}
