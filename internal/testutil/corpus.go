// Package testutil provides reusable test utilities for corpus tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestCorpus represents a temporary pattern corpus for testing.
type TestCorpus struct {
	Path  string
	t     *testing.T
	files map[string]string
}

// NewTestCorpus creates a new test corpus builder.
// Call Build() to create the actual corpus directory.
func NewTestCorpus(t *testing.T) *TestCorpus {
	t.Helper()
	return &TestCorpus{
		t:     t,
		files: make(map[string]string),
	}
}

// WithFile adds a file to the corpus.
// The path is relative to the corpus root.
func (c *TestCorpus) WithFile(path, content string) *TestCorpus {
	c.files[path] = content
	return c
}

// WithPattern adds patterns/<id>.md.
func (c *TestCorpus) WithPattern(id, content string) *TestCorpus {
	return c.WithFile("patterns/"+id+".md", content)
}

// WithLedger sets the SOURCES.md content.
func (c *TestCorpus) WithLedger(content string) *TestCorpus {
	return c.WithFile("SOURCES.md", content)
}

// WithConfig sets the corpuscheck.toml content.
func (c *TestCorpus) WithConfig(toml string) *TestCorpus {
	return c.WithFile("corpuscheck.toml", toml)
}

// Build creates the corpus directory and all configured files.
// Returns the TestCorpus for method chaining.
func (c *TestCorpus) Build() *TestCorpus {
	c.t.Helper()

	c.Path = c.t.TempDir()
	for path, content := range c.files {
		c.writeFile(path, content)
	}
	return c
}

func (c *TestCorpus) writeFile(relPath, content string) {
	c.t.Helper()
	fullPath := filepath.Join(c.Path, filepath.FromSlash(relPath))

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		c.t.Fatalf("failed to create directory %s: %v", dir, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		c.t.Fatalf("failed to write file %s: %v", fullPath, err)
	}
}

// ReadFile reads a file from the corpus.
func (c *TestCorpus) ReadFile(relPath string) string {
	c.t.Helper()
	content, err := os.ReadFile(filepath.Join(c.Path, filepath.FromSlash(relPath)))
	if err != nil {
		c.t.Fatalf("failed to read file %s: %v", relPath, err)
	}
	return string(content)
}

// PatternDoc renders a pattern document with the usual header labels.
// Empty arguments are omitted.
func PatternDoc(title, tier, phase string, sections ...string) string {
	var b strings.Builder
	if title != "" {
		fmt.Fprintf(&b, "# %s\n\n", title)
	}
	if tier != "" {
		fmt.Fprintf(&b, "**Evidence Tier**: %s\n", tier)
	}
	if phase != "" {
		fmt.Fprintf(&b, "**SDD Phase**: %s\n", phase)
	}
	for _, s := range sections {
		fmt.Fprintf(&b, "\n%s\n", s)
	}
	return b.String()
}

// CompletePattern returns a document that passes every structure check and
// cites url as its only source.
func CompletePattern(title, tier, phase, url string) string {
	return PatternDoc(title, tier, phase,
		"## Implementation\n\nSteps.",
		"## Example\n\nSample.",
		"## Related Patterns\n\nNone yet.",
		"## Sources\n- ["+title+" source]("+url+")",
	)
}
