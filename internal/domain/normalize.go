package domain

import "strings"

// NormalizeWord prepares a word for blocklist storage and comparison:
// trimmed, lowercased. Hyphens and apostrophes are preserved.
func NormalizeWord(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

// Tokenize lowercases the text and splits it on any whitespace.
// Returns nil for blank input.
func Tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	if len(fields) == 0 {
		return nil
	}
	return fields
}
