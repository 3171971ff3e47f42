package indexer

import "testing"

func TestDetectCategory(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"agriculture keyword", "income support for every farmer family", "Agriculture"},
		{"hindi transliteration", "kisan samman nidhi details", "Agriculture"},
		{"education keyword", "post matric scholarship amounts", "Education"},
		{"housing keyword", "awas yojana subsidy", "Housing"},
		{"health keyword", "ayushman bharat coverage", "Health"},
		{"tamil transliteration", "maruthuvam scheme details", "Health"},
		{"employment keyword", "skill development program", "Employment"},
		{"women and child keyword", "mahila samman savings", "Women & Child"},
		{"case insensitive", "FARMER registration", "Agriculture"},
		{"no match", "quarterly budget review", ""},
		{"first rule wins on overlap", "scholarship for farmer children", "Agriculture"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectCategory(tt.text); got != tt.want {
				t.Errorf("DetectCategory(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestDetectDocumentCategory_Default(t *testing.T) {
	if got := DetectDocumentCategory("quarterly budget review"); got != CategoryGeneral {
		t.Errorf("DetectDocumentCategory() = %q, want %q", got, CategoryGeneral)
	}
	if got := DetectDocumentCategory("kisan portal"); got != "Agriculture" {
		t.Errorf("DetectDocumentCategory() = %q, want Agriculture", got)
	}
}
