package ui

import (
	"strings"
	"testing"

	"github.com/aidanlsb/corpuscheck/internal/check"
	"github.com/aidanlsb/corpuscheck/internal/consistency"
	"github.com/aidanlsb/corpuscheck/internal/model"
	"github.com/aidanlsb/corpuscheck/internal/registry"
)

func sampleReport() *check.Report {
	return &check.Report{
		Action:          check.ActionValidateAll,
		PatternsChecked: 3,
		Results: []check.Result{
			{ID: "alpha", Status: check.StatusValid, Issues: []check.Issue{
				{Type: check.IssueMissingSDDPhase, Description: "Pattern missing SDD phase declaration", Severity: check.SeverityInfo},
			}},
			{ID: "beta", Status: check.StatusNeedsUpdate, Issues: []check.Issue{
				{Type: check.IssueTierMismatch, Description: "Tier A pattern has no documented sources", Severity: check.SeverityWarning},
			}},
			{ID: "gamma", Status: check.StatusBroken, Issues: []check.Issue{
				{Type: check.IssueBrokenInternalLink, Description: "Internal link not found: ./gone.md", Severity: check.SeverityError},
			}},
		},
		Summary: check.Summary{Valid: 1, NeedsUpdate: 1, Broken: 1},
	}
}

func TestRenderValidation(t *testing.T) {
	t.Run("default hides info and valid documents", func(t *testing.T) {
		out := RenderValidation(sampleReport(), RenderOptions{})
		for _, want := range []string{"beta", "tier_mismatch", "gamma", "broken_internal_link", "3 patterns checked: 1 valid, 1 needs update, 1 broken"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
		for _, hidden := range []string{"alpha", "missing_sdd_phase"} {
			if strings.Contains(out, hidden) {
				t.Errorf("output should not contain %q:\n%s", hidden, out)
			}
		}
	})

	t.Run("verbose shows everything", func(t *testing.T) {
		out := RenderValidation(sampleReport(), RenderOptions{ShowInfo: true})
		for _, want := range []string{"alpha", "missing_sdd_phase"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("singular count", func(t *testing.T) {
		out := RenderValidation(&check.Report{PatternsChecked: 1, Summary: check.Summary{Valid: 1}}, RenderOptions{})
		if !strings.HasPrefix(out, "1 pattern checked") {
			t.Errorf("output = %q", out)
		}
	})
}

func TestRenderSummaries(t *testing.T) {
	tier := "A"
	url := "https://example.com/x"
	ps := registry.PatternSummary{
		TotalPatterns: 1,
		Patterns:      []model.PatternRecord{{ID: "context-engineering", EvidenceTier: &tier}},
		ByTier:        map[string]int{"A": 1, "B": 0},
		ByPhase:       map[string]int{"plan": 0},
	}
	out := RenderPatternSummary(ps)
	for _, want := range []string{"1 pattern", "context-engineering", "TIER", "A=1 B=0", "plan=0"} {
		if !strings.Contains(out, want) {
			t.Errorf("pattern summary missing %q:\n%s", want, out)
		}
	}

	ss := registry.SourceSummary{
		TotalSources: 1,
		Sources:      []model.SourceRecord{{ID: "blog", URL: &url, SourceType: model.SourceTypePrimary}},
		ByTier:       map[string]int{"A": 0},
		ByType:       map[string]int{"primary": 1},
	}
	out = RenderSourceSummary(ss)
	for _, want := range []string{"1 source", "blog", url, "primary=1"} {
		if !strings.Contains(out, want) {
			t.Errorf("source summary missing %q:\n%s", want, out)
		}
	}
}

func TestRenderConsistency(t *testing.T) {
	res := &consistency.Result{
		Action: consistency.ActionVerifyCrossRefs,
		MissingCrossRefs: []consistency.MissingCrossRef{
			{Pattern: "beta", ShouldReference: "alpha", Reason: "alpha references beta, but not vice versa"},
		},
	}
	out := RenderConsistency(res)
	if !strings.Contains(out, "beta should reference alpha") || !strings.Contains(out, "not vice versa") {
		t.Errorf("output = %q", out)
	}

	clean := RenderConsistency(&consistency.Result{Action: consistency.ActionUpdateIndex, FilesChecked: 2})
	if !strings.Contains(clean, "No findings (2 files checked)") {
		t.Errorf("output = %q", clean)
	}

	report := RenderConsistency(&consistency.Result{
		Action: consistency.ActionGenerateReport,
		Report: &consistency.StatusReport{
			TotalPatterns:       3,
			PatternsByTier:      map[string]int{"A": 1},
			PatternsByPhase:     map[string]int{"unspecified": 3},
			CrossReferenceStats: consistency.CrossReferenceStats{Total: 2, AveragePerPattern: 0.67},
		},
	})
	if !strings.Contains(report, "3 patterns, 0 sources") || !strings.Contains(report, "0.67 per pattern") {
		t.Errorf("output = %q", report)
	}
}
