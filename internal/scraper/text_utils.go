// Package scraper provides text processing utilities for the page summary.
package scraper

import (
	"regexp"
	"strings"
)

// CleanWhitespace removes excessive whitespace from text content
func CleanWhitespace(text string) string {
	if text == "" {
		return ""
	}

	cleaned := strings.ReplaceAll(text, "\t", SingleSpace)
	for strings.Contains(cleaned, TripleNewline) {
		cleaned = strings.ReplaceAll(cleaned, TripleNewline, DoubleNewline)
	}
	for strings.Contains(cleaned, DoubleSpace) {
		cleaned = strings.ReplaceAll(cleaned, DoubleSpace, SingleSpace)
	}

	return strings.TrimSpace(cleaned)
}

// Truncate shortens text to at most limit runes, cutting at the last space
func Truncate(text string, limit int) string {
	runes := []rune(text)
	if limit <= 0 || len(runes) <= limit {
		return text
	}

	cut := string(runes[:limit])
	if i := strings.LastIndex(cut, SingleSpace); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut) + "..."
}

// WordPattern matches word as a whole word, case-insensitively, the same way
// the in-page locator does
func WordPattern(word string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
}

// CountMatches counts whole-word occurrences of word in text
func CountMatches(text, word string) int {
	if text == "" || word == "" {
		return 0
	}
	return len(WordPattern(word).FindAllStringIndex(text, -1))
}
