package model

// SourceType classifies a ledger entry by the section it appears in.
type SourceType string

const (
	SourceTypePrimary      SourceType = "primary"
	SourceTypePeerReviewed SourceType = "peer-reviewed"
	SourceTypeIndustry     SourceType = "industry"
	SourceTypeOpinion      SourceType = "opinion"
	SourceTypeUnknown      SourceType = "unknown"
)

// SourceTypes lists every source type in report order.
var SourceTypes = []SourceType{
	SourceTypePrimary,
	SourceTypePeerReviewed,
	SourceTypeIndustry,
	SourceTypeOpinion,
	SourceTypeUnknown,
}

// SourceRecord is one leaf entry of the source ledger.
type SourceRecord struct {
	// ID is the slug of Title.
	ID    string  `json:"id"`
	Title string  `json:"title"`
	URL   *string `json:"url"`

	// Tier is the entry's own tier when it declares one, otherwise the
	// enclosing section's tier.
	Tier       *string    `json:"tier"`
	SourceType SourceType `json:"source_type"`

	// Section is the title of the enclosing top-level section.
	Section     string   `json:"section"`
	KeyInsights []string `json:"key_insights"`

	// PatternRefs are the pattern ids mentioned in the entry body, sorted.
	PatternRefs []string `json:"pattern_refs"`
}

// TierName returns the tier, or "" when none applies.
func (s *SourceRecord) TierName() string {
	if s.Tier == nil {
		return ""
	}
	return *s.Tier
}

// RefersTo reports whether the entry mentions the given pattern id.
func (s *SourceRecord) RefersTo(patternID string) bool {
	for _, ref := range s.PatternRefs {
		if ref == patternID {
			return true
		}
	}
	return false
}
