package registry

import (
	"log/slog"
	"strings"

	"github.com/aidanlsb/corpuscheck/internal/corpus"
	"github.com/aidanlsb/corpuscheck/internal/model"
)

// SourceRegistry indexes the entries of the source ledger.
type SourceRegistry struct {
	tree   *corpus.Tree
	logger *slog.Logger
	snap   snapshot[model.SourceRecord]
}

// NewSourceRegistry creates a registry over the tree's ledger file.
func NewSourceRegistry(tree *corpus.Tree, logger *slog.Logger) *SourceRegistry {
	r := &SourceRegistry{tree: tree, logger: defaultLogger(logger)}
	r.snap = snapshot[model.SourceRecord]{load: r.load, logger: r.logger, name: "sources"}
	return r
}

// Refresh re-parses the ledger.
func (r *SourceRegistry) Refresh() error {
	return r.snap.refresh()
}

// All returns every ledger entry in document order.
func (r *SourceRegistry) All() []model.SourceRecord {
	return r.snap.all()
}

// ByID returns the entry with the given slug.
func (r *SourceRegistry) ByID(id string) (*model.SourceRecord, bool) {
	all := r.All()
	for i := range all {
		if all[i].ID == id {
			return &all[i], true
		}
	}
	return nil, false
}

// ByURL returns the entry whose URL matches exactly.
func (r *SourceRegistry) ByURL(url string) (*model.SourceRecord, bool) {
	all := r.All()
	for i := range all {
		if all[i].URL != nil && *all[i].URL == url {
			return &all[i], true
		}
	}
	return nil, false
}

// ByTier returns the entries with the given tier.
func (r *SourceRegistry) ByTier(tier string) []model.SourceRecord {
	tier = strings.ToUpper(strings.TrimSpace(tier))
	out := []model.SourceRecord{}
	for _, s := range r.All() {
		if s.TierName() == tier {
			out = append(out, s)
		}
	}
	return out
}

// ByType returns the entries of the given source type.
func (r *SourceRegistry) ByType(t model.SourceType) []model.SourceRecord {
	out := []model.SourceRecord{}
	for _, s := range r.All() {
		if s.SourceType == t {
			out = append(out, s)
		}
	}
	return out
}

// ForPattern returns the entries that mention the given pattern.
func (r *SourceRegistry) ForPattern(patternID string) []model.SourceRecord {
	out := []model.SourceRecord{}
	for _, s := range r.All() {
		if s.RefersTo(patternID) {
			out = append(out, s)
		}
	}
	return out
}

// SourceSummary is the JSON form of the source registry.
type SourceSummary struct {
	TotalSources int                  `json:"total_sources"`
	Sources      []model.SourceRecord `json:"sources"`
	ByTier       map[string]int       `json:"by_tier"`
	ByType       map[string]int       `json:"by_type"`
}

// Summary returns all entries with per-tier and per-type counts.
func (r *SourceRegistry) Summary() SourceSummary {
	all := r.All()
	s := SourceSummary{
		TotalSources: len(all),
		Sources:      all,
		ByTier:       make(map[string]int, len(model.Tiers)),
		ByType:       make(map[string]int, len(model.SourceTypes)),
	}
	for _, tier := range model.Tiers {
		s.ByTier[tier] = len(r.ByTier(tier))
	}
	for _, t := range model.SourceTypes {
		s.ByType[string(t)] = len(r.ByType(t))
	}
	return s
}

func (r *SourceRegistry) load() ([]model.SourceRecord, error) {
	records, err := r.tree.ReadLedger()
	if err != nil {
		return nil, err
	}
	r.logger.Debug("Loaded sources", slog.Int("count", len(records)))
	return records, nil
}
