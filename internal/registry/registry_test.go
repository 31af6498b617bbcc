package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aidanlsb/corpuscheck/internal/corpus"
	"github.com/aidanlsb/corpuscheck/internal/model"
	"github.com/aidanlsb/corpuscheck/internal/testutil"
)

const testLedger = `# Sources

## Primary Sources (Tier A)

### Anthropic Engineering Blog
**URL**: https://example.com/x
Cited by patterns/context-engineering.md.

## Industry Reports

### Vendor Survey
**URL**: https://vendor.example/survey
**Evidence Tier**: C
`

func buildTree(t *testing.T, c *testutil.TestCorpus) (*corpus.Tree, string) {
	t.Helper()
	c.Build()
	tree, err := corpus.New(c.Path, corpus.DefaultLayout())
	if err != nil {
		t.Fatalf("corpus.New() error = %v", err)
	}
	return tree, c.Path
}

func TestPatternRegistryLookups(t *testing.T) {
	tree, _ := buildTree(t, testutil.NewTestCorpus(t).
		WithPattern("context-engineering", testutil.PatternDoc("Context Engineering", "A", "Foundational")).
		WithPattern("task-breakdown", testutil.PatternDoc("Task Breakdown", "b", "tasks")).
		WithPattern("untagged", "# Untagged\n"))

	reg := NewPatternRegistry(tree, nil)

	all := reg.All()
	if len(all) != 3 {
		t.Fatalf("All() returned %d patterns, want 3", len(all))
	}
	if all[0].ID != "context-engineering" || all[2].ID != "untagged" {
		t.Errorf("All() order = %s, %s, %s", all[0].ID, all[1].ID, all[2].ID)
	}

	p, ok := reg.ByID("task-breakdown")
	if !ok || p.Name != "Task Breakdown" {
		t.Errorf("ByID(task-breakdown) = %+v, %v", p, ok)
	}
	if p, ok := reg.ByID("ghost"); ok || p != nil {
		t.Errorf("ByID(ghost) = %+v, %v; want nil, false", p, ok)
	}

	if got := reg.ByTier("a"); len(got) != 1 || got[0].ID != "context-engineering" {
		t.Errorf("ByTier(a) = %+v", got)
	}
	if got := reg.ByTier("B"); len(got) != 1 || got[0].ID != "task-breakdown" {
		t.Errorf("ByTier(B) = %+v", got)
	}
	if got := reg.ByPhase("FOUNDATIONAL"); len(got) != 1 {
		t.Errorf("ByPhase(FOUNDATIONAL) returned %d, want 1", len(got))
	}
	if got := reg.ByPhase("plan"); got == nil || len(got) != 0 {
		t.Errorf("ByPhase(plan) = %v, want empty slice", got)
	}
}

func TestPatternRegistrySummary(t *testing.T) {
	tree, _ := buildTree(t, testutil.NewTestCorpus(t).
		WithPattern("a", testutil.PatternDoc("A", "A", "specify")).
		WithPattern("b", testutil.PatternDoc("B", "A", "cross-phase")).
		WithPattern("c", testutil.PatternDoc("C", "D", "")))

	s := NewPatternRegistry(tree, nil).Summary()

	if s.TotalPatterns != 3 || len(s.Patterns) != 3 {
		t.Errorf("TotalPatterns = %d, len(Patterns) = %d; want 3", s.TotalPatterns, len(s.Patterns))
	}
	wantTier := map[string]int{"A": 2, "B": 0, "C": 0, "D": 1}
	for k, v := range wantTier {
		if s.ByTier[k] != v {
			t.Errorf("ByTier[%s] = %d, want %d", k, s.ByTier[k], v)
		}
	}
	if len(s.ByPhase) != len(model.Phases) {
		t.Errorf("ByPhase has %d keys, want %d", len(s.ByPhase), len(model.Phases))
	}
	if s.ByPhase["specify"] != 1 || s.ByPhase["cross-phase"] != 1 || s.ByPhase["plan"] != 0 {
		t.Errorf("ByPhase = %v", s.ByPhase)
	}
}

func TestPatternRegistryRefresh(t *testing.T) {
	tree, root := buildTree(t, testutil.NewTestCorpus(t).
		WithPattern("first", "# First\n"))

	reg := NewPatternRegistry(tree, nil)
	if n := len(reg.All()); n != 1 {
		t.Fatalf("All() = %d patterns, want 1", n)
	}

	if err := os.WriteFile(filepath.Join(root, "patterns", "second.md"), []byte("# Second\n"), 0644); err != nil {
		t.Fatal(err)
	}

	// Snapshot is cached until Refresh.
	if n := len(reg.All()); n != 1 {
		t.Errorf("All() before Refresh = %d patterns, want 1", n)
	}
	if err := reg.Refresh(); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if n := len(reg.All()); n != 2 {
		t.Errorf("All() after Refresh = %d patterns, want 2", n)
	}
}

func TestPatternRegistryEmptyCorpus(t *testing.T) {
	tree, _ := buildTree(t, testutil.NewTestCorpus(t))

	reg := NewPatternRegistry(tree, nil)
	if got := reg.All(); got == nil || len(got) != 0 {
		t.Errorf("All() = %v, want empty slice", got)
	}
}

func TestSourceRegistryLookups(t *testing.T) {
	tree, _ := buildTree(t, testutil.NewTestCorpus(t).WithLedger(testLedger))

	reg := NewSourceRegistry(tree, nil)

	if n := len(reg.All()); n != 2 {
		t.Fatalf("All() = %d entries, want 2", n)
	}

	s, ok := reg.ByURL("https://example.com/x")
	if !ok || s.ID != "anthropic-engineering-blog" {
		t.Errorf("ByURL() = %+v, %v", s, ok)
	}
	if _, ok := reg.ByURL("https://example.com/x/"); ok {
		t.Error("ByURL() should match exactly")
	}

	if s, ok := reg.ByID("vendor-survey"); !ok || s.TierName() != "C" {
		t.Errorf("ByID(vendor-survey) = %+v, %v", s, ok)
	}
	if _, ok := reg.ByID("ghost"); ok {
		t.Error("ByID(ghost) should miss")
	}

	if got := reg.ByTier("a"); len(got) != 1 {
		t.Errorf("ByTier(a) returned %d, want 1", len(got))
	}
	if got := reg.ForPattern("context-engineering"); len(got) != 1 || got[0].ID != "anthropic-engineering-blog" {
		t.Errorf("ForPattern() = %+v", got)
	}
	if got := reg.ForPattern("unknown"); len(got) != 0 {
		t.Errorf("ForPattern(unknown) = %+v, want none", got)
	}
}

func TestSourceRegistrySummary(t *testing.T) {
	tree, _ := buildTree(t, testutil.NewTestCorpus(t).WithLedger(testLedger))

	s := NewSourceRegistry(tree, nil).Summary()

	if s.TotalSources != 2 {
		t.Errorf("TotalSources = %d, want 2", s.TotalSources)
	}
	if s.ByTier["A"] != 1 || s.ByTier["C"] != 1 || s.ByTier["B"] != 0 {
		t.Errorf("ByTier = %v", s.ByTier)
	}
	if s.ByType["primary"] != 1 || s.ByType["industry"] != 1 || s.ByType["opinion"] != 0 {
		t.Errorf("ByType = %v", s.ByType)
	}
	if len(s.ByType) != len(model.SourceTypes) {
		t.Errorf("ByType has %d keys, want %d", len(s.ByType), len(model.SourceTypes))
	}
}

func TestSourceRegistryMissingLedger(t *testing.T) {
	tree, _ := buildTree(t, testutil.NewTestCorpus(t))

	reg := NewSourceRegistry(tree, nil)
	if err := reg.Refresh(); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if n := len(reg.All()); n != 0 {
		t.Errorf("All() = %d entries, want 0", n)
	}
}
