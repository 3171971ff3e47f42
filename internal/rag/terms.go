package rag

import (
	"regexp"
	"strings"
)

// Stop words excluded from search terms: English plus common romanized
// Hindi/Tamil filler, and generic scheme vocabulary that matches
// everything in this corpus.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "in": {}, "on": {}, "at": {}, "for": {},
	"to": {}, "of": {}, "and": {}, "with": {}, "about": {}, "is": {},
	"are": {}, "was": {}, "were": {}, "scheme": {}, "yojana": {},
	"program": {}, "portal": {}, "ka": {}, "ki": {}, "ke": {}, "aur": {},
	"hai": {}, "oru": {}, "ipadi": {},
}

// Strip everything except unicode letters, numbers, and whitespace so
// Tamil and Devanagari query words survive intact.
var nonWordChars = regexp.MustCompile(`[^\p{L}\p{N}\s]`)

// ExtractSearchTerms derives the retrieval term set from a query:
// lowercased tokens with punctuation stripped, stop words removed, and
// anything of two characters or fewer dropped. Terms are recomputed
// per query and never persisted.
func ExtractSearchTerms(query string) []string {
	cleaned := nonWordChars.ReplaceAllString(strings.ToLower(query), "")

	var terms []string
	for _, word := range strings.Fields(cleaned) {
		if len([]rune(word)) <= 2 {
			continue
		}
		if _, stop := stopWords[word]; stop {
			continue
		}
		terms = append(terms, word)
	}
	return terms
}
