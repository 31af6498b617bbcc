package parser

import (
	"regexp"
	"strings"

	"github.com/aidanlsb/corpuscheck/internal/model"
	"github.com/aidanlsb/corpuscheck/internal/slugs"
)

var (
	// ledgerSectionPattern matches "## Primary Sources (Tier A)"; the tier
	// suffix is optional.
	ledgerSectionPattern       = regexp.MustCompile(`(?m)^##[ \t]+(.+?)(?:[ \t]+\(Tier ([A-D])\))?[ \t]*$`)
	ledgerSubsectionPattern    = regexp.MustCompile(`(?m)^###[ \t]+(.+)$`)
	ledgerSubsubsectionPattern = regexp.MustCompile(`(?m)^####[ \t]+(.+)$`)

	ledgerURLPattern    = regexp.MustCompile(`\*\*(?:URL|Source)\*\*:\s*(https?://\S+)`)
	ledgerLinkPattern   = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^)]+)\)`)
	ledgerTierPattern   = regexp.MustCompile(`\*\*Evidence Tier\*\*:\s*([A-D])`)
	ledgerInsightsBlock = regexp.MustCompile(`\*\*Key Insights?\*\*:[ \t]*\n((?:[ \t]*[-*][ \t]+.+\n?)+)`)
	ledgerPatternRefs   = regexp.MustCompile(`patterns/([a-z0-9-]+)\.md`)
)

// ledgerNode is a heading and the text up to the next heading of the same level.
type ledgerNode struct {
	title string
	tier  string
	body  string
}

// ParseLedger parses the source ledger into one record per leaf entry.
//
// The ledger is a three-level tree: "##" sections (optionally carrying a
// default tier), "###" subsections, and optional "####" entries. A
// subsection with "####" children yields one record per child; otherwise
// the subsection itself is the entry.
func ParseLedger(content string) []model.SourceRecord {
	content = normalizeNewlines(content)
	records := []model.SourceRecord{}

	for _, section := range splitSections(content) {
		for _, sub := range splitByHeading(section.body, ledgerSubsectionPattern) {
			entries := splitByHeading(sub.body, ledgerSubsubsectionPattern)
			if len(entries) == 0 {
				entries = []ledgerNode{sub}
			}
			for _, entry := range entries {
				records = append(records, parseLedgerEntry(entry, section))
			}
		}
	}

	return records
}

func splitSections(content string) []ledgerNode {
	matches := ledgerSectionPattern.FindAllStringSubmatchIndex(content, -1)
	nodes := make([]ledgerNode, 0, len(matches))

	for i, m := range matches {
		end := len(content)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		node := ledgerNode{
			title: strings.TrimSpace(content[m[2]:m[3]]),
			body:  content[m[1]:end],
		}
		if m[4] >= 0 {
			node.tier = content[m[4]:m[5]]
		}
		nodes = append(nodes, node)
	}

	return nodes
}

// splitByHeading slices text between consecutive matches of pattern.
// Text before the first heading is dropped.
func splitByHeading(text string, pattern *regexp.Regexp) []ledgerNode {
	matches := pattern.FindAllStringSubmatchIndex(text, -1)
	nodes := make([]ledgerNode, 0, len(matches))

	for i, m := range matches {
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		nodes = append(nodes, ledgerNode{
			title: strings.TrimSpace(text[m[2]:m[3]]),
			body:  text[m[1]:end],
		})
	}

	return nodes
}

func parseLedgerEntry(entry, section ledgerNode) model.SourceRecord {
	record := model.SourceRecord{
		ID:          slugs.SourceID(entry.title),
		Title:       entry.title,
		SourceType:  InferSourceType(section.title),
		Section:     section.title,
		KeyInsights: []string{},
	}

	if m := ledgerURLPattern.FindStringSubmatch(entry.body); m != nil {
		record.URL = model.StringPtr(m[1])
	} else if m := ledgerLinkPattern.FindStringSubmatch(entry.body); m != nil {
		record.URL = model.StringPtr(m[2])
	}

	if m := ledgerTierPattern.FindStringSubmatch(entry.body); m != nil {
		record.Tier = model.StringPtr(m[1])
	} else if section.tier != "" {
		record.Tier = model.StringPtr(section.tier)
	}

	if m := ledgerInsightsBlock.FindStringSubmatch(entry.body); m != nil {
		record.KeyInsights = bulletLines(m[1])
	}

	refs := make(map[string]struct{})
	for _, m := range ledgerPatternRefs.FindAllStringSubmatch(entry.body, -1) {
		refs[m[1]] = struct{}{}
	}
	record.PatternRefs = sortedKeys(refs)

	return record
}

// InferSourceType classifies a ledger section by keywords in its title.
func InferSourceType(sectionTitle string) model.SourceType {
	title := strings.ToLower(sectionTitle)
	switch {
	case strings.Contains(title, "primary"):
		return model.SourceTypePrimary
	case strings.Contains(title, "secondary"), strings.Contains(title, "peer"):
		return model.SourceTypePeerReviewed
	case strings.Contains(title, "industry"), strings.Contains(title, "community"):
		return model.SourceTypeIndustry
	case strings.Contains(title, "opinion"), strings.Contains(title, "speculation"):
		return model.SourceTypeOpinion
	default:
		return model.SourceTypeUnknown
	}
}
