package model

// PatternRecord is the metadata extracted from one pattern document.
type PatternRecord struct {
	// ID is the filename stem, e.g. "context-engineering".
	ID string `json:"id"`

	// Name is the first level-1 heading, or a title-cased ID when absent.
	Name string `json:"name"`

	// HasTitle reports whether Name came from a level-1 heading.
	HasTitle bool `json:"-"`

	// Path is the slash-separated path relative to the corpus root.
	Path string `json:"path"`

	// Sources are the citations found in the document, in extraction order.
	// No two entries share the same non-nil URL.
	Sources []SourceRef `json:"sources"`

	// EvidenceTier is one of A-D. Nil when the document declares none.
	EvidenceTier *string `json:"evidence_tier"`

	// Phase is the lowercased SDD phase. Nil when the document declares none.
	Phase *string `json:"phase"`

	// Related are the ids of other patterns this document links to, sorted.
	// Never contains ID.
	Related []string `json:"related"`

	// Sections are the level-2 heading texts in document order.
	Sections []string `json:"sections"`

	InternalLinks []string `json:"internal_links"`
	ExternalLinks []string `json:"external_links"`
}

// SourceRef is one citation inside a pattern document.
type SourceRef struct {
	Title string  `json:"title"`
	URL   *string `json:"url"`
	Tier  *string `json:"tier"`
}

// Tier returns the evidence tier, or "" when none is declared.
func (p *PatternRecord) Tier() string {
	if p.EvidenceTier == nil {
		return ""
	}
	return *p.EvidenceTier
}

// PhaseName returns the phase, or "" when none is declared.
func (p *PatternRecord) PhaseName() string {
	if p.Phase == nil {
		return ""
	}
	return *p.Phase
}

// SourceURLs returns the non-nil source URLs in order.
func (p *PatternRecord) SourceURLs() []string {
	var urls []string
	for _, s := range p.Sources {
		if s.URL != nil {
			urls = append(urls, *s.URL)
		}
	}
	return urls
}

// References reports whether id is among the related patterns.
func (p *PatternRecord) References(id string) bool {
	for _, r := range p.Related {
		if r == id {
			return true
		}
	}
	return false
}
