package parser

import (
	"strings"
)

// fence tracks whether a line scanner is inside a fenced code block.
type fence struct {
	open bool
	ch   byte
	size int
}

// update feeds one line to the scanner and reports whether the line opened
// or closed a fence. A closing marker must use the same character and be at
// least as long as the opener.
func (f *fence) update(line string) bool {
	ch, n, ok := fenceMarker(stripBlockPrefixes(line))
	if !ok {
		return false
	}

	switch {
	case !f.open:
		*f = fence{open: true, ch: ch, size: n}
		return true
	case ch == f.ch && n >= f.size:
		*f = fence{}
		return true
	default:
		return false
	}
}

// stripBlockPrefixes removes indentation, blockquote markers and list
// markers (bullets and "1." or "2)" items) so fences nested in quotes and
// list items are recognised.
func stripBlockPrefixes(line string) string {
	s := strings.TrimLeft(line, " \t")
	for {
		switch {
		case strings.HasPrefix(s, ">"):
			s = strings.TrimLeft(s[1:], " \t")
		case len(s) > 1 && strings.IndexByte("-*+", s[0]) >= 0 && (s[1] == ' ' || s[1] == '\t'):
			s = strings.TrimLeft(s[1:], " \t")
		case orderedMarkerLen(s) > 0:
			s = strings.TrimLeft(s[orderedMarkerLen(s):], " \t")
		default:
			return s
		}
	}
}

// orderedMarkerLen returns the length of a leading ordered-list marker
// ("12." or "3)") followed by a space or tab, or 0 when there is none.
func orderedMarkerLen(s string) int {
	i := 0
	for i < len(s) && i < 9 && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 || i+1 >= len(s) || (s[i] != '.' && s[i] != ')') {
		return 0
	}
	if s[i+1] != ' ' && s[i+1] != '\t' {
		return 0
	}
	return i + 1
}

// fenceMarker reports whether s starts with three or more backticks or
// tildes, returning the character and run length.
func fenceMarker(s string) (byte, int, bool) {
	if len(s) < 3 || (s[0] != '`' && s[0] != '~') {
		return 0, 0, false
	}
	n := 1
	for n < len(s) && s[n] == s[0] {
		n++
	}
	if n < 3 {
		return 0, 0, false
	}
	return s[0], n, true
}

// StripCode returns a copy of content with fenced code blocks and inline
// code spans removed. Link extraction runs on the result so that bracket
// sequences inside code samples are not mistaken for links.
//
// An unclosed fence swallows the rest of the document, as in CommonMark.
func StripCode(content string) string {
	var f fence
	var kept []string

	for _, line := range strings.Split(content, "\n") {
		if f.update(line) || f.open {
			continue
		}
		kept = append(kept, line)
	}

	return blankInlineCode(strings.Join(kept, "\n"))
}

// blankInlineCode overwrites inline code spans with spaces so byte offsets
// are unchanged. A span closes at the next backtick run of the same length;
// unmatched openers are left alone.
func blankInlineCode(s string) string {
	b := []byte(s)

	for i := 0; i < len(b); {
		if b[i] != '`' {
			i++
			continue
		}

		start := i
		for i < len(b) && b[i] == '`' {
			i++
		}
		width := i - start

		for j := i; j < len(b); {
			if b[j] != '`' {
				j++
				continue
			}
			run := j
			for j < len(b) && b[j] == '`' {
				j++
			}
			if j-run == width {
				for k := start; k < j; k++ {
					b[k] = ' '
				}
				i = j
				break
			}
		}
	}

	return string(b)
}
