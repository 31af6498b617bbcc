// Package slugs provides the identifier helpers shared by the parsers.
//
// Two conventions exist in a corpus:
//   - Ledger slugs: ids for SOURCES.md entries, derived from the entry heading.
//     Only ASCII letters and digits survive; every other run becomes one dash.
//   - Pattern ids: filename stems, which are already slugs. TitleFromID turns
//     one back into a display name when a document has no H1.
package slugs

import (
	"strings"
	"unicode"
)

// SourceID converts a ledger entry title to its id.
func SourceID(title string) string {
	var result strings.Builder
	prevDash := false

	for _, r := range strings.ToLower(title) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			result.WriteRune(r)
			prevDash = false
			continue
		}
		if !prevDash {
			result.WriteRune('-')
			prevDash = true
		}
	}

	return strings.Trim(result.String(), "-")
}

// TitleFromID converts "context-engineering" to "Context Engineering".
// A letter is capitalized when it does not follow another letter, so
// "a2a-protocol" becomes "A2A Protocol".
func TitleFromID(id string) string {
	var result strings.Builder
	prevLetter := false

	for _, r := range strings.ReplaceAll(id, "-", " ") {
		if unicode.IsLetter(r) {
			if prevLetter {
				result.WriteRune(unicode.ToLower(r))
			} else {
				result.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		result.WriteRune(r)
		prevLetter = false
	}

	return result.String()
}
