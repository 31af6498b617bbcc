package check

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/aidanlsb/corpuscheck/internal/model"
)

// Action selects which documents are validated and how.
type Action string

const (
	ActionValidateSingle Action = "validate_single"
	ActionValidateAll    Action = "validate_all"
	ActionCheckLinks     Action = "check_links"
	ActionCheckEvidence  Action = "check_evidence"
)

// Type selects which check families run.
type Type string

const (
	TypeStructure Type = "structure"
	TypeLinks     Type = "links"
	TypeEvidence  Type = "evidence"
	TypeCrossRefs Type = "cross-refs"
	TypeFull      Type = "full"
)

func (t Type) includes(family Type) bool {
	return t == TypeFull || t == family
}

func (t Type) valid() bool {
	switch t {
	case TypeStructure, TypeLinks, TypeEvidence, TypeCrossRefs, TypeFull:
		return true
	}
	return false
}

var (
	ErrUnknownAction     = errors.New("unknown action")
	ErrUnknownType       = errors.New("unknown validation type")
	ErrPatternIDRequired = errors.New("pattern_id required for validate_single action")
	ErrPatternNotFound   = errors.New("pattern not found")
)

// DefaultRecommendedSections are the section names every pattern should have.
var DefaultRecommendedSections = []string{"Implementation", "Example", "Related"}

const (
	DefaultMaxExternalLinks = 3
	DefaultConcurrency      = 4
)

// PatternSource provides the documents to validate.
type PatternSource interface {
	All() []model.PatternRecord
	ByID(id string) (*model.PatternRecord, bool)
}

// SourceLookup finds ledger entries by URL.
type SourceLookup interface {
	ByURL(url string) (*model.SourceRecord, bool)
}

// LinkResolver answers file-existence questions about the corpus.
type LinkResolver interface {
	ResolveLink(docPath, target string) (string, bool)
	PatternExists(id string) bool
}

// Prober returns the HTTP status of an external URL.
type Prober interface {
	Probe(ctx context.Context, url string) (int, error)
}

// Options configures a Validator.
type Options struct {
	// RecommendedSections default to DefaultRecommendedSections.
	RecommendedSections []string

	// MaxExternalLinks caps how many external links per document are probed.
	MaxExternalLinks int

	// Concurrency bounds how many documents are validated at once.
	Concurrency int

	// Prober checks external links. When nil, external links are not checked.
	Prober Prober

	Logger *slog.Logger
}

// Validator runs the check families over pattern documents.
type Validator struct {
	patterns PatternSource
	sources  SourceLookup
	tree     LinkResolver
	opts     Options
	logger   *slog.Logger
}

// NewValidator creates a Validator.
func NewValidator(patterns PatternSource, sources SourceLookup, tree LinkResolver, opts Options) *Validator {
	if opts.RecommendedSections == nil {
		opts.RecommendedSections = DefaultRecommendedSections
	}
	if opts.MaxExternalLinks <= 0 {
		opts.MaxExternalLinks = DefaultMaxExternalLinks
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Validator{
		patterns: patterns,
		sources:  sources,
		tree:     tree,
		opts:     opts,
		logger:   logger,
	}
}

// Request describes one validation run.
type Request struct {
	Action    Action
	PatternID string

	// Type defaults to TypeFull. It is ignored by check_links and
	// check_evidence.
	Type Type
}

// Run validates the documents selected by req.
//
// Findings are reported in the Report. An error is returned only for an
// invalid request or a cancelled context.
func (v *Validator) Run(ctx context.Context, req Request) (*Report, error) {
	typ := req.Type
	if typ == "" {
		typ = TypeFull
	}

	var patterns []model.PatternRecord
	switch req.Action {
	case ActionValidateSingle:
		if req.PatternID == "" {
			return nil, ErrPatternIDRequired
		}
		p, ok := v.patterns.ByID(req.PatternID)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrPatternNotFound, req.PatternID)
		}
		patterns = []model.PatternRecord{*p}
	case ActionValidateAll:
		patterns = v.patterns.All()
	case ActionCheckLinks:
		patterns = v.patterns.All()
		typ = TypeLinks
	case ActionCheckEvidence:
		patterns = v.patterns.All()
		typ = TypeEvidence
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownAction, req.Action)
	}

	if !typ.valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, typ)
	}

	results, err := v.validateAll(ctx, patterns, typ)
	if err != nil {
		return nil, err
	}
	return newReport(req.Action, results), nil
}

// validateAll validates patterns concurrently. Results keep input order.
func (v *Validator) validateAll(ctx context.Context, patterns []model.PatternRecord, typ Type) ([]Result, error) {
	results := make([]Result, len(patterns))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.opts.Concurrency)

	for i := range patterns {
		g.Go(func() error {
			res, err := v.Validate(gctx, &patterns[i], typ)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Validate runs the selected check families over one document.
func (v *Validator) Validate(ctx context.Context, p *model.PatternRecord, typ Type) (Result, error) {
	issues := []Issue{}

	if typ.includes(TypeStructure) {
		issues = append(issues, v.checkStructure(p)...)
	}
	if typ.includes(TypeLinks) {
		linkIssues, err := v.checkLinks(ctx, p)
		if err != nil {
			return Result{}, err
		}
		issues = append(issues, linkIssues...)
	}
	if typ.includes(TypeEvidence) {
		issues = append(issues, v.checkEvidence(p)...)
	}
	if typ.includes(TypeCrossRefs) {
		issues = append(issues, v.checkCrossRefs(p)...)
	}

	return Result{
		ID:     p.ID,
		Status: StatusOf(issues),
		Issues: issues,
		EvidenceSummary: EvidenceSummary{
			TierClaimed:  p.EvidenceTier,
			SourcesCount: len(p.Sources),
		},
	}, nil
}
