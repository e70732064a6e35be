package assessment

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// normalizeBlank trims, then lowercases, according to the blank's flags.
func normalizeBlank(b Blank, s string) string {
	if b.Trim() {
		s = strings.TrimSpace(s)
	}
	if !b.CaseSensitive {
		// Casers keep state; one per call.
		s = cases.Lower(language.Und).String(s)
	}
	return s
}

func blankMatches(b Blank, input string) bool {
	got := normalizeBlank(b, input)
	for _, acc := range b.Accepted {
		if normalizeBlank(b, acc) == got {
			return true
		}
	}
	return false
}
