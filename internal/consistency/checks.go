package consistency

import (
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strings"
)

var indexPatternRefs = regexp.MustCompile(`patterns/([a-z0-9-]+)\.md`)

// Inconsistency is a disagreement between a file and the corpus.
type Inconsistency struct {
	File         string `json:"file"`
	Issue        string `json:"issue"`
	Expected     string `json:"expected"`
	Found        string `json:"found"`
	SuggestedFix string `json:"suggested_fix"`
}

// MissingCrossRef says Pattern should link to ShouldReference.
type MissingCrossRef struct {
	Pattern         string `json:"pattern"`
	ShouldReference string `json:"should_reference"`
	Reason          string `json:"reason"`
}

// Index update types.
const (
	UpdateAdd    = "add"
	UpdateRemove = "remove"
)

// IndexUpdate is one change the index needs.
type IndexUpdate struct {
	IndexFile  string `json:"index_file"`
	UpdateType string `json:"update_type"`
	Entry      string `json:"entry"`
}

// CheckConsistency compares CLAUDE.md and the ledger with the patterns.
//
// For the patterns scope, foundational and cross-phase patterns must be
// mentioned by id or name in CLAUDE.md when that file exists. For the
// sources scope, every URL a pattern cites must appear in the ledger.
func (c *Checker) CheckConsistency(scope Scope) (*Result, error) {
	if scope == "" {
		scope = ScopeAll
	}
	if scope != ScopePatterns && scope != ScopeSources && scope != ScopeAll {
		return nil, fmt.Errorf("%w: %s", ErrUnknownScope, scope)
	}

	res := newResult(ActionCheckConsistency)
	patterns := c.patterns.All()

	if scope == ScopePatterns || scope == ScopeAll {
		res.FilesChecked += len(patterns)

		claudeFile := c.tree.Layout().ClaudeFile
		content, ok, err := c.tree.ReadOptional(claudeFile)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", claudeFile, err)
		}
		if ok {
			res.FilesChecked++
			for _, p := range patterns {
				if phase := p.PhaseName(); phase != "foundational" && phase != "cross-phase" {
					continue
				}
				if strings.Contains(content, p.ID) || strings.Contains(content, p.Name) {
					continue
				}
				res.Inconsistencies = append(res.Inconsistencies, Inconsistency{
					File:         claudeFile,
					Issue:        "Missing pattern reference",
					Expected:     fmt.Sprintf("Reference to %s", p.ID),
					Found:        "Not mentioned",
					SuggestedFix: fmt.Sprintf("Add %s to Patterns Directory section", p.ID),
				})
			}
		} else {
			c.logger.Debug("No CLAUDE.md to check", slog.String("path", claudeFile))
		}
	}

	if scope == ScopeSources || scope == ScopeAll {
		ledgerFile := c.tree.Layout().SourcesFile
		for _, p := range patterns {
			for _, url := range p.SourceURLs() {
				if _, ok := c.sources.ByURL(url); ok {
					continue
				}
				res.Inconsistencies = append(res.Inconsistencies, Inconsistency{
					File:         p.Path,
					Issue:        fmt.Sprintf("Source not in %s", ledgerFile),
					Expected:     fmt.Sprintf("Entry in %s for %s", ledgerFile, url),
					Found:        "Not found",
					SuggestedFix: fmt.Sprintf("Add source to %s", ledgerFile),
				})
			}
		}
	}

	return res, nil
}

// IndexUpdates lists the entries the index is missing and the entries that
// point at patterns which no longer exist.
func (c *Checker) IndexUpdates() (*Result, error) {
	res := newResult(ActionUpdateIndex)
	indexFile := c.tree.Layout().IndexFile

	content, ok, err := c.tree.ReadOptional(indexFile)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", indexFile, err)
	}
	if !ok {
		res.IndexUpdatesNeeded = append(res.IndexUpdatesNeeded, IndexUpdate{
			IndexFile:  indexFile,
			UpdateType: UpdateAdd,
			Entry:      fmt.Sprintf("%s file does not exist", indexFile),
		})
		return res, nil
	}

	patterns := c.patterns.All()
	res.FilesChecked = len(patterns) + 1

	for _, p := range patterns {
		if strings.Contains(content, p.ID) || strings.Contains(content, p.Name) {
			continue
		}
		res.IndexUpdatesNeeded = append(res.IndexUpdatesNeeded, IndexUpdate{
			IndexFile:  indexFile,
			UpdateType: UpdateAdd,
			Entry:      c.tree.PatternPath(p.ID),
		})
	}

	seen := make(map[string]struct{})
	for _, m := range indexPatternRefs.FindAllStringSubmatch(content, -1) {
		id := m[1]
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := c.patterns.ByID(id); ok {
			continue
		}
		res.IndexUpdatesNeeded = append(res.IndexUpdatesNeeded, IndexUpdate{
			IndexFile:  indexFile,
			UpdateType: UpdateRemove,
			Entry:      fmt.Sprintf("patterns/%s.md (file no longer exists)", id),
		})
	}

	return res, nil
}

// VerifyCrossRefs finds references that should exist but do not.
//
// Two rules apply. A related link should be returned: when A links to an
// existing pattern B, B should link back to A. And patterns sharing a phase
// and at least one cited URL should link to each other.
func (c *Checker) VerifyCrossRefs() *Result {
	res := newResult(ActionVerifyCrossRefs)
	patterns := c.patterns.All()
	res.FilesChecked = len(patterns)

	type pair struct{ from, to string }
	reported := make(map[pair]struct{})
	add := func(from, to, reason string) {
		key := pair{from, to}
		if _, dup := reported[key]; dup {
			return
		}
		reported[key] = struct{}{}
		res.MissingCrossRefs = append(res.MissingCrossRefs, MissingCrossRef{
			Pattern:         from,
			ShouldReference: to,
			Reason:          reason,
		})
	}

	for i := range patterns {
		p := &patterns[i]

		if phase := p.PhaseName(); phase != "" {
			urls := p.SourceURLs()
			for j := range patterns {
				other := &patterns[j]
				if i == j || other.PhaseName() != phase || p.References(other.ID) {
					continue
				}
				if shared := countShared(urls, other.SourceURLs()); shared > 0 {
					add(p.ID, other.ID, fmt.Sprintf("Patterns share %d source(s) and same SDD phase", shared))
				}
			}
		}

		for _, ref := range p.Related {
			target, ok := c.patterns.ByID(ref)
			if !ok || target.References(p.ID) {
				continue
			}
			add(ref, p.ID, fmt.Sprintf("%s references %s, but not vice versa", p.ID, ref))
		}
	}

	return res
}

func countShared(a, b []string) int {
	set := make(map[string]struct{}, len(a))
	for _, u := range a {
		set[u] = struct{}{}
	}
	shared := make(map[string]struct{})
	for _, u := range b {
		if _, ok := set[u]; ok {
			shared[u] = struct{}{}
		}
	}
	return len(shared)
}

// StatusReport summarizes the state of the corpus.
type StatusReport struct {
	TotalPatterns          int                 `json:"total_patterns"`
	TotalSources           int                 `json:"total_sources"`
	PatternsByTier         map[string]int      `json:"patterns_by_tier"`
	PatternsByPhase        map[string]int      `json:"patterns_by_phase"`
	PatternsWithoutSources []string            `json:"patterns_without_sources"`
	CrossReferenceStats    CrossReferenceStats `json:"cross_reference_stats"`
}

// CrossReferenceStats counts related-pattern links.
type CrossReferenceStats struct {
	Total             int     `json:"total"`
	AveragePerPattern float64 `json:"average_per_pattern"`
}

// Report generates a status report over both registries.
func (c *Checker) Report() *Result {
	patterns := c.patterns.All()
	sources := c.sources.All()

	report := &StatusReport{
		TotalPatterns:          len(patterns),
		TotalSources:           len(sources),
		PatternsByTier:         map[string]int{"A": 0, "B": 0, "C": 0, "D": 0, "None": 0},
		PatternsByPhase:        map[string]int{},
		PatternsWithoutSources: []string{},
	}

	for _, p := range patterns {
		tier := p.Tier()
		if tier == "" {
			tier = "None"
		}
		report.PatternsByTier[tier]++

		phase := p.PhaseName()
		if phase == "" {
			phase = "unspecified"
		}
		report.PatternsByPhase[phase]++

		if len(p.Sources) == 0 {
			report.PatternsWithoutSources = append(report.PatternsWithoutSources, p.ID)
		}
		report.CrossReferenceStats.Total += len(p.Related)
	}

	if len(patterns) > 0 {
		avg := float64(report.CrossReferenceStats.Total) / float64(len(patterns))
		report.CrossReferenceStats.AveragePerPattern = math.Round(avg*100) / 100
	}

	res := newResult(ActionGenerateReport)
	res.FilesChecked = len(patterns) + len(sources)
	res.Report = report
	return res
}
