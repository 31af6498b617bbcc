package parser

import (
	"reflect"
	"testing"

	"github.com/aidanlsb/corpuscheck/internal/model"
)

const ledgerFixture = `# Sources

Intro text is ignored.

## Primary Sources (Tier A)

### Anthropic Engineering Blog

**URL**: https://example.com/x

**Key Insights**:
- Context is finite
- Curate aggressively

Used by [Context](patterns/context-engineering.md) and patterns/memory-management.md.

### Vendor Docs

**Evidence Tier**: B
See [docs](https://docs.vendor.example/guide).

## Industry and Community

### Conference Talks

#### Agents at Scale (2024)
**Source**: https://talks.example/agents
  - not an insight block

#### Hallway Track
No link here.
`

func findRecord(t *testing.T, records []model.SourceRecord, id string) model.SourceRecord {
	t.Helper()
	for _, r := range records {
		if r.ID == id {
			return r
		}
	}
	t.Fatalf("record %q not found in %+v", id, records)
	return model.SourceRecord{}
}

func TestParseLedger(t *testing.T) {
	records := ParseLedger(ledgerFixture)

	var ids []string
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	wantIDs := []string{"anthropic-engineering-blog", "vendor-docs", "agents-at-scale-2024", "hallway-track"}
	if !reflect.DeepEqual(ids, wantIDs) {
		t.Fatalf("ids = %v, want %v", ids, wantIDs)
	}

	t.Run("section tier and url", func(t *testing.T) {
		r := findRecord(t, records, "anthropic-engineering-blog")
		if r.Title != "Anthropic Engineering Blog" {
			t.Errorf("Title = %q", r.Title)
		}
		if r.URL == nil || *r.URL != "https://example.com/x" {
			t.Errorf("URL = %v, want https://example.com/x", r.URL)
		}
		if r.TierName() != "A" {
			t.Errorf("tier = %q, want A", r.TierName())
		}
		if r.SourceType != model.SourceTypePrimary {
			t.Errorf("SourceType = %q, want primary", r.SourceType)
		}
		if r.Section != "Primary Sources" {
			t.Errorf("Section = %q, want Primary Sources", r.Section)
		}
		if want := []string{"Context is finite", "Curate aggressively"}; !reflect.DeepEqual(r.KeyInsights, want) {
			t.Errorf("KeyInsights = %v, want %v", r.KeyInsights, want)
		}
		if want := []string{"context-engineering", "memory-management"}; !reflect.DeepEqual(r.PatternRefs, want) {
			t.Errorf("PatternRefs = %v, want %v", r.PatternRefs, want)
		}
	})

	t.Run("entry tier overrides section", func(t *testing.T) {
		r := findRecord(t, records, "vendor-docs")
		if r.TierName() != "B" {
			t.Errorf("tier = %q, want B", r.TierName())
		}
		if r.URL == nil || *r.URL != "https://docs.vendor.example/guide" {
			t.Errorf("URL = %v, want link target", r.URL)
		}
		if r.KeyInsights == nil || len(r.KeyInsights) != 0 {
			t.Errorf("KeyInsights = %v, want empty", r.KeyInsights)
		}
	})

	t.Run("fourth level entries", func(t *testing.T) {
		r := findRecord(t, records, "agents-at-scale-2024")
		if r.Title != "Agents at Scale (2024)" {
			t.Errorf("Title = %q", r.Title)
		}
		if r.URL == nil || *r.URL != "https://talks.example/agents" {
			t.Errorf("URL = %v", r.URL)
		}
		if r.Tier != nil {
			t.Errorf("Tier = %q, want nil", *r.Tier)
		}
		if r.SourceType != model.SourceTypeIndustry {
			t.Errorf("SourceType = %q, want industry", r.SourceType)
		}

		h := findRecord(t, records, "hallway-track")
		if h.URL != nil {
			t.Errorf("URL = %q, want nil", *h.URL)
		}
		if h.PatternRefs == nil {
			t.Error("PatternRefs should be empty, not nil")
		}
	})
}

func TestParseLedgerEmpty(t *testing.T) {
	for _, content := range []string{"", "# Sources\n\nNothing yet.\n", "## Section only\n"} {
		got := ParseLedger(content)
		if got == nil || len(got) != 0 {
			t.Errorf("ParseLedger(%q) = %v, want empty slice", content, got)
		}
	}
}

func TestInferSourceType(t *testing.T) {
	tests := []struct {
		title string
		want  model.SourceType
	}{
		{"Primary Sources", model.SourceTypePrimary},
		{"Secondary Research", model.SourceTypePeerReviewed},
		{"Peer-Reviewed Papers", model.SourceTypePeerReviewed},
		{"Industry Reports", model.SourceTypeIndustry},
		{"Community Posts", model.SourceTypeIndustry},
		{"Opinion Pieces", model.SourceTypeOpinion},
		{"Speculation", model.SourceTypeOpinion},
		{"Miscellaneous", model.SourceTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			if got := InferSourceType(tt.title); got != tt.want {
				t.Errorf("InferSourceType(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}
