// Package check validates pattern documents for structure, link integrity,
// evidence sufficiency and cross-reference existence.
package check

// Severity indicates how serious an issue is.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "info"
	}
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Issue types.
const (
	IssueMissingTitle        = "missing_title"
	IssueMissingEvidenceTier = "missing_evidence_tier"
	IssueMissingSources      = "missing_sources"
	IssueMissingSDDPhase     = "missing_sdd_phase"
	IssueMissingSection      = "missing_section"
	IssueBrokenInternalLink  = "broken_internal_link"
	IssueBrokenExternalLink  = "broken_external_link"
	IssueExternalServerError = "external_link_server_error"
	IssueTierMismatch        = "tier_mismatch"
	IssueInsufficientSources = "insufficient_sources"
	IssueUndocumentedSource  = "undocumented_source"
	IssueBrokenPatternRef    = "broken_pattern_ref"
)

// Issue is one validation finding.
type Issue struct {
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
}

// Status is the overall verdict for one document.
type Status string

const (
	StatusValid       Status = "valid"
	StatusNeedsUpdate Status = "needs-update"
	StatusBroken      Status = "broken"
)

// StatusOf derives a status from the most severe issue.
func StatusOf(issues []Issue) Status {
	worst := SeverityInfo
	for _, issue := range issues {
		if issue.Severity > worst {
			worst = issue.Severity
		}
	}
	switch worst {
	case SeverityError:
		return StatusBroken
	case SeverityWarning:
		return StatusNeedsUpdate
	default:
		return StatusValid
	}
}
