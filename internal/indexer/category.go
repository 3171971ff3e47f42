package indexer

import "strings"

// CategoryGeneral is assigned to documents that match no welfare domain.
// Queries get an empty string instead so the retrieval fallback can
// distinguish "no category" from a real match.
const CategoryGeneral = "General"

// categoryRule pairs a category with its trigger keywords. Rules are
// evaluated in order and the first match wins, so text containing
// keywords from several domains always classifies the same way.
type categoryRule struct {
	category string
	keywords []string
}

var categoryRules = []categoryRule{
	{"Agriculture", []string{"agriculture", "farmer", "kisan"}},
	{"Education", []string{"scholarship", "education", "student"}},
	{"Housing", []string{"housing", "home", "awas"}},
	{"Health", []string{"health", "medical", "ayushman", "maruthuvam"}},
	{"Employment", []string{"job", "employment", "skill", "velai"}},
	{"Women & Child", []string{"women", "girl", "mahila", "pengal"}},
}

// DetectCategory classifies text into one of the six welfare domains by
// keyword containment. Returns "" when nothing matches; callers dealing
// with documents substitute CategoryGeneral. This is a rule table, not
// ML classification.
func DetectCategory(text string) string {
	t := strings.ToLower(text)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(t, kw) {
				return rule.category
			}
		}
	}
	return ""
}

// DetectDocumentCategory is DetectCategory with the document default.
func DetectDocumentCategory(text string) string {
	if c := DetectCategory(text); c != "" {
		return c
	}
	return CategoryGeneral
}
