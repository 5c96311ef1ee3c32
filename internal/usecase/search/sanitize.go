package search

import "strings"

// strippedRunes are characters with query-syntax meaning in the text engine.
// They are replaced with spaces rather than escaped: icon queries are plain
// words, and a stray "(" should not flip the whole request into an error.
const strippedRunes = "'\"*(){}[]:^~!@#$%&\\|<>+=;,./?"

// sanitizeQuery normalizes free text into a safe token sequence for the
// lexical ranker. Returns "" when nothing searchable remains, which the
// caller must distinguish from a query that simply matched nothing.
func sanitizeQuery(q string) string {
	mapped := strings.Map(func(r rune) rune {
		if strings.ContainsRune(strippedRunes, r) {
			return ' '
		}
		return r
	}, q)
	return strings.Join(strings.Fields(mapped), " ")
}
