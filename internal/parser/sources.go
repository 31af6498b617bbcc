package parser

import (
	"regexp"
	"strings"

	"github.com/aidanlsb/corpuscheck/internal/model"
)

var (
	// linkPattern matches [title](target).
	linkPattern = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)

	sourcesHeadingPattern = regexp.MustCompile(`(?m)^##\s+Sources?\s*\n((?:[-*]\s+.+\n?)+)`)
	inlineSourcesLabel    = regexp.MustCompile(`\*\*Sources?\*\*:`)
	tierSourcesPattern    = regexp.MustCompile(`\*\*Tier ([A-D]) Sources?\*\*:\s*\n((?:[-*]\s+.+\n?)+)`)
	furtherReadingHeading = regexp.MustCompile(`(?m)^##\s+Further Reading[ \t]*$`)
	headerSourcePattern   = regexp.MustCompile(`(?m)^\*\*Source\*\*:[ \t]*(.+?)[ \t]*$`)
)

// sourceStrategy is one of the conventions authors use to list sources.
// Each strategy is independent; results are merged by URL.
type sourceStrategy struct {
	name    string
	extract func(content string) []model.SourceRef
}

var sourceStrategies = []sourceStrategy{
	{name: "sources-heading", extract: sourcesFromHeadingList},
	{name: "inline-label", extract: sourcesFromInlineLabel},
	{name: "tier-label", extract: sourcesFromTierLabels},
	{name: "further-reading", extract: sourcesFromFurtherReading},
}

// ExtractSources returns the sources cited in a pattern document.
//
// The single-line "**Source**:" header is only consulted when no other
// convention produced anything.
func ExtractSources(content string) []model.SourceRef {
	sources := []model.SourceRef{}
	seen := make(map[string]struct{})

	for _, strategy := range sourceStrategies {
		sources = mergeSources(sources, seen, strategy.extract(content))
	}

	if len(sources) == 0 {
		sources = mergeSources(sources, seen, sourcesFromHeaderLine(content))
	}

	return sources
}

// mergeSources appends candidates whose URL has not been seen yet.
// Entries without a URL are always kept.
func mergeSources(sources []model.SourceRef, seen map[string]struct{}, candidates []model.SourceRef) []model.SourceRef {
	for _, c := range candidates {
		if c.URL != nil {
			if _, dup := seen[*c.URL]; dup {
				continue
			}
			seen[*c.URL] = struct{}{}
		}
		sources = append(sources, c)
	}
	return sources
}

// sourcesFromHeadingList handles "## Sources" followed by a bullet list.
func sourcesFromHeadingList(content string) []model.SourceRef {
	m := sourcesHeadingPattern.FindStringSubmatch(content)
	if m == nil {
		return nil
	}

	var out []model.SourceRef
	for _, line := range bulletLines(m[1]) {
		if link := linkPattern.FindStringSubmatch(line); link != nil {
			var tier *string
			if t, ok := matchEvidenceTier(line); ok {
				tier = model.StringPtr(t)
			}
			out = append(out, model.SourceRef{
				Title: link[1],
				URL:   model.StringPtr(link[2]),
				Tier:  tier,
			})
			continue
		}
		out = append(out, model.SourceRef{Title: line})
	}
	return out
}

// sourcesFromInlineLabel handles "**Sources**: ..." running up to the next
// blank line or heading.
func sourcesFromInlineLabel(content string) []model.SourceRef {
	loc := inlineSourcesLabel.FindStringIndex(content)
	if loc == nil {
		return nil
	}

	text := strings.TrimLeft(content[loc[1]:], " \t\r\n")
	for _, stop := range []string{"\n\n", "\n##"} {
		if i := strings.Index(text, stop); i >= 0 {
			text = text[:i]
		}
	}

	return httpLinks(text)
}

// sourcesFromTierLabels handles every "**Tier X Sources**:" bullet block.
func sourcesFromTierLabels(content string) []model.SourceRef {
	var out []model.SourceRef
	for _, m := range tierSourcesPattern.FindAllStringSubmatch(content, -1) {
		tier := m[1]
		for _, line := range bulletLines(m[2]) {
			if link := linkPattern.FindStringSubmatch(line); link != nil {
				out = append(out, model.SourceRef{
					Title: link[1],
					URL:   model.StringPtr(link[2]),
					Tier:  model.StringPtr(tier),
				})
				continue
			}
			// Plain "Author: Title" citation.
			if strings.Contains(line, ":") {
				out = append(out, model.SourceRef{
					Title: line,
					Tier:  model.StringPtr(tier),
				})
			}
		}
	}
	return out
}

// sourcesFromFurtherReading takes every http link under "## Further Reading"
// up to the next "##" line.
func sourcesFromFurtherReading(content string) []model.SourceRef {
	loc := furtherReadingHeading.FindStringIndex(content)
	if loc == nil {
		return nil
	}

	body := content[loc[1]:]
	if i := strings.Index(body, "\n##"); i >= 0 {
		body = body[:i]
	}

	return httpLinks(body)
}

// sourcesFromHeaderLine handles a single "**Source**: ..." line.
func sourcesFromHeaderLine(content string) []model.SourceRef {
	m := headerSourcePattern.FindStringSubmatch(content)
	if m == nil {
		return nil
	}

	description := m[1]
	if link := linkPattern.FindStringSubmatch(description); link != nil {
		return []model.SourceRef{{Title: link[1], URL: model.StringPtr(link[2])}}
	}
	return []model.SourceRef{{Title: description}}
}

// httpLinks returns every markdown link in text whose target starts with http.
func httpLinks(text string) []model.SourceRef {
	var out []model.SourceRef
	for _, link := range linkPattern.FindAllStringSubmatch(text, -1) {
		if !strings.HasPrefix(link[2], "http") {
			continue
		}
		out = append(out, model.SourceRef{Title: link[1], URL: model.StringPtr(link[2])})
	}
	return out
}

// bulletLines returns the non-empty bullet lines of a list block with the
// bullet marker removed.
func bulletLines(block string) []string {
	var lines []string
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "-")
		if !strings.HasPrefix(line, "**") {
			line = strings.TrimPrefix(line, "*")
		}
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
