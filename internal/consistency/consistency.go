// Package consistency checks that the documents surrounding the pattern
// corpus agree with it: the project CLAUDE.md, the source ledger, the index
// and the patterns' references to each other.
//
// Every check is read-only. Suggested changes are reported, never applied.
package consistency

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/aidanlsb/corpuscheck/internal/corpus"
	"github.com/aidanlsb/corpuscheck/internal/model"
)

// Action selects which check Run performs.
type Action string

const (
	ActionCheckConsistency Action = "check_consistency"
	ActionUpdateIndex      Action = "update_index"
	ActionVerifyCrossRefs  Action = "verify_cross_refs"
	ActionGenerateReport   Action = "generate_report"
)

// Scope limits CheckConsistency to part of the corpus.
type Scope string

const (
	ScopePatterns Scope = "patterns"
	ScopeSources  Scope = "sources"
	ScopeAll      Scope = "all"
)

var (
	ErrUnknownAction = errors.New("unknown action")
	ErrUnknownScope  = errors.New("unknown scope")
)

// PatternSource provides the parsed patterns.
type PatternSource interface {
	All() []model.PatternRecord
	ByID(id string) (*model.PatternRecord, bool)
}

// SourceSource provides the parsed ledger.
type SourceSource interface {
	All() []model.SourceRecord
	ByURL(url string) (*model.SourceRecord, bool)
}

// Checker runs the consistency checks.
type Checker struct {
	patterns PatternSource
	sources  SourceSource
	tree     *corpus.Tree
	logger   *slog.Logger
}

// NewChecker creates a Checker.
func NewChecker(patterns PatternSource, sources SourceSource, tree *corpus.Tree, logger *slog.Logger) *Checker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{patterns: patterns, sources: sources, tree: tree, logger: logger}
}

// Request describes one Run.
type Request struct {
	Action Action
	// Scope applies to check_consistency and defaults to all.
	Scope Scope
}

// Result is the outcome of one Run. Lists not produced by the action are
// empty.
type Result struct {
	Action             Action            `json:"action"`
	FilesChecked       int               `json:"files_checked"`
	Inconsistencies    []Inconsistency   `json:"inconsistencies"`
	MissingCrossRefs   []MissingCrossRef `json:"missing_cross_refs"`
	IndexUpdatesNeeded []IndexUpdate     `json:"index_updates_needed"`
	Report             *StatusReport     `json:"report,omitempty"`
}

// HasFindings reports whether the result lists anything to fix.
func (r *Result) HasFindings() bool {
	return len(r.Inconsistencies) > 0 || len(r.MissingCrossRefs) > 0 || len(r.IndexUpdatesNeeded) > 0
}

func newResult(action Action) *Result {
	return &Result{
		Action:             action,
		Inconsistencies:    []Inconsistency{},
		MissingCrossRefs:   []MissingCrossRef{},
		IndexUpdatesNeeded: []IndexUpdate{},
	}
}

// Run performs the requested action.
func (c *Checker) Run(req Request) (*Result, error) {
	switch req.Action {
	case ActionCheckConsistency:
		return c.CheckConsistency(req.Scope)
	case ActionUpdateIndex:
		return c.IndexUpdates()
	case ActionVerifyCrossRefs:
		return c.VerifyCrossRefs(), nil
	case ActionGenerateReport:
		return c.Report(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownAction, req.Action)
	}
}
