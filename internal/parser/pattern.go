package parser

import (
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/aidanlsb/corpuscheck/internal/model"
	"github.com/aidanlsb/corpuscheck/internal/slugs"
)

var (
	// evidenceTierPattern matches "(Evidence Tier A)" or "**Evidence Tier**: A".
	evidenceTierPattern = regexp.MustCompile(`(?i)\(Evidence Tier ([A-D])\)|\*\*Evidence Tier\*\*:\s*([A-D])\b`)

	// phasePattern matches "**SDD Phase**: Specify" and hyphenated tags such
	// as "Cross-Phase".
	phasePattern = regexp.MustCompile(`(?i)\*\*SDD Phase\*\*:\s*(\w+(?:-\w+)*)`)

	// relatedPattern matches patterns/<slug>.md, ./<slug>.md and /<slug>.md.
	relatedPattern = regexp.MustCompile(`(?:patterns/|\./|/)([a-z0-9-]+)\.md`)
)

// ParseOptions controls optional parser behavior.
type ParseOptions struct {
	// OnWarning receives recoverable problems, such as malformed frontmatter.
	// The parser carries on regardless.
	OnWarning func(error)
}

// ParsePattern parses one pattern document. relPath is the document's path
// relative to the corpus root; its stem becomes the pattern id.
//
// Parsing never fails: every field is optional and defaults to empty.
func ParsePattern(content, relPath string) *model.PatternRecord {
	return ParsePatternWithOptions(content, relPath, nil)
}

// ParsePatternWithOptions parses a pattern document with custom options.
func ParsePatternWithOptions(content, relPath string, opts *ParseOptions) *model.PatternRecord {
	content = normalizeNewlines(content)
	relPath = strings.ReplaceAll(relPath, "\\", "/")
	id := strings.TrimSuffix(path.Base(relPath), path.Ext(relPath))

	fm, body, err := SplitFrontmatter(content)
	if err != nil && opts != nil && opts.OnWarning != nil {
		opts.OnWarning(err)
	}

	headings := ExtractHeadings(body)
	name, ok := Title(headings)
	if !ok {
		name = slugs.TitleFromID(id)
	}

	record := &model.PatternRecord{
		ID:       id,
		Name:     name,
		HasTitle: ok,
		Path:     relPath,
		Sources:  ExtractSources(content),
		Sections: SectionTitles(headings),
	}

	if tier, ok := matchEvidenceTier(content); ok {
		record.EvidenceTier = model.StringPtr(tier)
	} else if tier, ok := model.NormalizeTier(fm.String("evidence_tier")); ok {
		record.EvidenceTier = model.StringPtr(tier)
	}

	if m := phasePattern.FindStringSubmatch(content); m != nil {
		record.Phase = model.StringPtr(strings.ToLower(m[1]))
	} else if phase := fm.String("sdd_phase"); phase != "" {
		record.Phase = model.StringPtr(strings.ToLower(phase))
	}

	// Links and cross-references come from a copy without code samples.
	stripped := StripCode(content)
	record.InternalLinks, record.ExternalLinks = partitionLinks(stripped)
	record.Related = relatedIDs(stripped, id)

	return record
}

// matchEvidenceTier returns the first evidence tier label in text.
func matchEvidenceTier(text string) (string, bool) {
	m := evidenceTierPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	tier := m[1]
	if tier == "" {
		tier = m[2]
	}
	return strings.ToUpper(tier), true
}

// partitionLinks splits markdown link targets by scheme.
func partitionLinks(text string) (internal, external []string) {
	internal = []string{}
	external = []string{}
	for _, link := range linkPattern.FindAllStringSubmatch(text, -1) {
		target := link[2]
		if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
			external = append(external, target)
		} else {
			internal = append(internal, target)
		}
	}
	return internal, external
}

// relatedIDs collects distinct pattern ids referenced in text, sorted, with
// selfID removed.
func relatedIDs(text, selfID string) []string {
	set := make(map[string]struct{})
	for _, m := range relatedPattern.FindAllStringSubmatch(text, -1) {
		if m[1] != selfID {
			set[m[1]] = struct{}{}
		}
	}
	return sortedKeys(set)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
