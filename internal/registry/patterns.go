package registry

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/aidanlsb/corpuscheck/internal/corpus"
	"github.com/aidanlsb/corpuscheck/internal/model"
	"github.com/aidanlsb/corpuscheck/internal/parser"
)

// PatternRegistry indexes the pattern documents of a corpus.
type PatternRegistry struct {
	tree   *corpus.Tree
	logger *slog.Logger
	snap   snapshot[model.PatternRecord]
}

// NewPatternRegistry creates a registry over the tree's patterns directory.
// Nothing is read until the first lookup or Refresh.
func NewPatternRegistry(tree *corpus.Tree, logger *slog.Logger) *PatternRegistry {
	r := &PatternRegistry{tree: tree, logger: defaultLogger(logger)}
	r.snap = snapshot[model.PatternRecord]{load: r.load, logger: r.logger, name: "patterns"}
	return r
}

// Refresh re-parses every pattern document.
func (r *PatternRegistry) Refresh() error {
	return r.snap.refresh()
}

// All returns every pattern, in path order.
func (r *PatternRegistry) All() []model.PatternRecord {
	return r.snap.all()
}

// ByID returns the pattern with the given id.
func (r *PatternRegistry) ByID(id string) (*model.PatternRecord, bool) {
	all := r.All()
	for i := range all {
		if all[i].ID == id {
			return &all[i], true
		}
	}
	return nil, false
}

// ByTier returns the patterns claiming the given evidence tier.
func (r *PatternRegistry) ByTier(tier string) []model.PatternRecord {
	tier = strings.ToUpper(strings.TrimSpace(tier))
	out := []model.PatternRecord{}
	for _, p := range r.All() {
		if p.Tier() == tier {
			out = append(out, p)
		}
	}
	return out
}

// ByPhase returns the patterns tagged with the given phase.
func (r *PatternRegistry) ByPhase(phase string) []model.PatternRecord {
	phase = strings.ToLower(strings.TrimSpace(phase))
	out := []model.PatternRecord{}
	for _, p := range r.All() {
		if p.PhaseName() == phase {
			out = append(out, p)
		}
	}
	return out
}

// PatternSummary is the JSON form of the pattern registry.
type PatternSummary struct {
	TotalPatterns int                   `json:"total_patterns"`
	Patterns      []model.PatternRecord `json:"patterns"`
	ByTier        map[string]int        `json:"by_tier"`
	ByPhase       map[string]int        `json:"by_phase"`
}

// Summary returns all patterns with per-tier and per-phase counts.
func (r *PatternRegistry) Summary() PatternSummary {
	all := r.All()
	s := PatternSummary{
		TotalPatterns: len(all),
		Patterns:      all,
		ByTier:        make(map[string]int, len(model.Tiers)),
		ByPhase:       make(map[string]int, len(model.Phases)),
	}
	for _, tier := range model.Tiers {
		s.ByTier[tier] = len(r.ByTier(tier))
	}
	for _, phase := range model.Phases {
		s.ByPhase[phase] = len(r.ByPhase(phase))
	}
	return s
}

func (r *PatternRegistry) load() ([]model.PatternRecord, error) {
	files, err := r.tree.PatternFiles()
	if err != nil {
		return nil, fmt.Errorf("list patterns: %w", err)
	}

	records := make([]model.PatternRecord, 0, len(files))
	for _, rel := range files {
		content, err := r.tree.ReadFile(rel)
		if err != nil {
			r.logger.Warn("Skipping unreadable pattern", slog.String("path", rel), slog.String("error", err.Error()))
			continue
		}

		opts := &parser.ParseOptions{
			OnWarning: func(err error) {
				r.logger.Debug("Ignoring malformed frontmatter", slog.String("path", rel), slog.String("error", err.Error()))
			},
		}
		records = append(records, *parser.ParsePatternWithOptions(content, rel, opts))
	}

	r.logger.Debug("Loaded patterns", slog.Int("count", len(records)))
	return records, nil
}
