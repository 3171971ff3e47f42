package indexer

import (
	"strings"
	"unicode"
)

// Exact-match boilerplate lines (compared after trimming + lowercasing).
var boilerplateLines = map[string]struct{}{
	"home":                 {},
	"login":                {},
	"register":             {},
	"search":               {},
	"menu":                 {},
	"skip to main content": {},
	"navigation":           {},
	"sidebar":              {},
	"submit":               {},
	"cancel":               {},
	"close":                {},
	"facebook":             {},
	"twitter":              {},
	"youtube":              {},
	"instagram":            {},
	"terms of use":         {},
	"privacy policy":       {},
	"disclaimer":           {},
	"help":                 {},
	"contact us":           {},
	"feedback":             {},
	"sitemap":              {},
	"screen reader access": {},
	"font size":            {},
	"theme":                {},
	"language":             {},
	"english":              {},
	"hindi":                {},
	"tamil":                {},
}

// Prefix and substring junk seen on government portals.
var boilerplatePrefixes = []string{
	"copyright",
	"all rights reserved",
	"loading.",
}

var boilerplateSubstrings = []string{
	"isl chatbot",
	"translation feedback",
	"cpgrams",
}

// CleanContent strips navigation and UI boilerplate lines from raw
// extracted text. It is deterministic and idempotent: cleaning cleaned
// text is a no-op.
func CleanContent(text string) string {
	if text == "" {
		return ""
	}

	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))

	for _, line := range lines {
		l := strings.ToLower(strings.TrimSpace(line))
		if l == "" {
			continue
		}
		if isBoilerplate(l) {
			continue
		}
		// Drop lines that are just symbols or very short, but keep bare
		// numbers (section references, scheme amounts).
		if len([]rune(l)) < 3 && !isNumeric(l) {
			continue
		}
		cleaned = append(cleaned, line)
	}

	return strings.Join(cleaned, "\n")
}

func isBoilerplate(l string) bool {
	if _, ok := boilerplateLines[l]; ok {
		return true
	}
	for _, prefix := range boilerplatePrefixes {
		if strings.HasPrefix(l, prefix) {
			return true
		}
	}
	for _, sub := range boilerplateSubstrings {
		if strings.Contains(l, sub) {
			return true
		}
	}
	return false
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
