package check

// EvidenceSummary restates what a document claims about its evidence.
type EvidenceSummary struct {
	TierClaimed  *string `json:"tier_claimed"`
	SourcesCount int     `json:"sources_count"`
}

// Result is the validation outcome for one document.
type Result struct {
	ID              string          `json:"id"`
	Status          Status          `json:"status"`
	Issues          []Issue         `json:"issues"`
	EvidenceSummary EvidenceSummary `json:"evidence_summary"`
}

// Summary counts results by status.
type Summary struct {
	Valid       int `json:"valid"`
	NeedsUpdate int `json:"needs_update"`
	Broken      int `json:"broken"`
}

// Report is the outcome of one Run.
type Report struct {
	Action          Action   `json:"action"`
	PatternsChecked int      `json:"patterns_checked"`
	Results         []Result `json:"results"`
	Summary         Summary  `json:"summary"`
}

func newReport(action Action, results []Result) *Report {
	r := &Report{
		Action:          action,
		PatternsChecked: len(results),
		Results:         results,
	}
	for _, res := range results {
		switch res.Status {
		case StatusValid:
			r.Summary.Valid++
		case StatusNeedsUpdate:
			r.Summary.NeedsUpdate++
		case StatusBroken:
			r.Summary.Broken++
		}
	}
	return r
}

// HasBroken reports whether any document is broken.
func (r *Report) HasBroken() bool {
	return r.Summary.Broken > 0
}
