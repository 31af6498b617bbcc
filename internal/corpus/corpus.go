// Package corpus provides read access to a pattern corpus on disk: pattern
// file discovery, the source ledger, and link target resolution.
//
// All paths handed out by this package are slash-separated and relative to
// the corpus root.
package corpus

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aidanlsb/corpuscheck/internal/model"
	"github.com/aidanlsb/corpuscheck/internal/parser"
)

// ErrOutsideRoot is returned when a path resolves outside the corpus root.
var ErrOutsideRoot = errors.New("path is outside the corpus root")

// Layout names the files and directories that make up a corpus.
type Layout struct {
	PatternsDir string
	PatternGlob string
	SourcesFile string
	IndexFile   string
	ClaudeFile  string
}

// DefaultLayout returns the conventional corpus layout.
func DefaultLayout() Layout {
	return Layout{
		PatternsDir: "patterns",
		PatternGlob: "*.md",
		SourcesFile: "SOURCES.md",
		IndexFile:   "INDEX.md",
		ClaudeFile:  ".claude/CLAUDE.md",
	}
}

// Tree is a corpus rooted at a directory.
type Tree struct {
	root   string
	layout Layout
}

// New returns a Tree for root. The root must be an existing directory.
func New(root string, layout Layout) (*Tree, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve corpus root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("corpus root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("corpus root %s is not a directory", abs)
	}

	if layout.PatternGlob == "" {
		layout.PatternGlob = "*.md"
	}
	return &Tree{root: abs, layout: layout}, nil
}

// Root returns the absolute corpus root.
func (t *Tree) Root() string { return t.root }

// Layout returns the corpus layout.
func (t *Tree) Layout() Layout { return t.layout }

// Abs converts a corpus-relative path to an absolute filesystem path.
func (t *Tree) Abs(rel string) string {
	return filepath.Join(t.root, filepath.FromSlash(rel))
}

// PatternFiles returns the corpus-relative paths of all pattern documents,
// sorted. A missing patterns directory yields an empty list.
func (t *Tree) PatternFiles() ([]string, error) {
	dir := t.Abs(t.layout.PatternsDir)
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}

	matches, err := doublestar.Glob(os.DirFS(dir), t.layout.PatternGlob, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob %s in %s: %w", t.layout.PatternGlob, dir, err)
	}

	files := make([]string, 0, len(matches))
	for _, m := range matches {
		if !strings.HasSuffix(m, ".md") {
			continue
		}
		files = append(files, path.Join(filepath.ToSlash(t.layout.PatternsDir), m))
	}
	sort.Strings(files)
	return files, nil
}

// ReadFile reads a corpus-relative file.
func (t *Tree) ReadFile(rel string) (string, error) {
	abs := t.Abs(rel)
	if err := t.withinRoot(abs); err != nil {
		return "", err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ReadOptional reads a corpus-relative file, reporting false when it does
// not exist.
func (t *Tree) ReadOptional(rel string) (string, bool, error) {
	content, err := t.ReadFile(rel)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return content, true, nil
}

// ReadLedger parses the source ledger. A missing ledger yields an empty list.
func (t *Tree) ReadLedger() ([]model.SourceRecord, error) {
	content, ok, err := t.ReadOptional(t.layout.SourcesFile)
	if err != nil {
		return nil, fmt.Errorf("read ledger %s: %w", t.layout.SourcesFile, err)
	}
	if !ok {
		return []model.SourceRecord{}, nil
	}
	return parser.ParseLedger(content), nil
}

// PatternPath returns the corpus-relative path a pattern id maps to.
func (t *Tree) PatternPath(id string) string {
	return path.Join(filepath.ToSlash(t.layout.PatternsDir), id+".md")
}

// PatternExists reports whether <patterns_dir>/<id>.md exists.
func (t *Tree) PatternExists(id string) bool {
	return t.isFile(t.Abs(t.PatternPath(id)))
}

// ResolveLink resolves an internal link target found in the document at
// docPath. The target is tried relative to the document's directory, then
// relative to the corpus root. Fragments and query strings are ignored.
//
// It returns the corpus-relative path of the first candidate that exists.
// Targets that escape the corpus root never resolve.
func (t *Tree) ResolveLink(docPath, target string) (string, bool) {
	target = StripFragment(target)
	if target == "" {
		return "", false
	}

	docDir := path.Dir(filepath.ToSlash(docPath))
	candidates := []string{
		path.Join(docDir, target),
		path.Clean(strings.TrimPrefix(target, "/")),
	}

	for _, rel := range candidates {
		abs := t.Abs(rel)
		if t.withinRoot(abs) != nil {
			continue
		}
		if t.exists(abs) {
			return rel, true
		}
	}
	return "", false
}

// StripFragment removes a "#fragment" and "?query" suffix from a link target.
func StripFragment(target string) string {
	if i := strings.IndexAny(target, "#?"); i >= 0 {
		target = target[:i]
	}
	return strings.TrimSpace(target)
}

// IsAnchor reports whether a link target only points within the same page.
func IsAnchor(target string) bool {
	return strings.HasPrefix(strings.TrimSpace(target), "#")
}

func (t *Tree) withinRoot(abs string) error {
	rel, err := filepath.Rel(t.root, abs)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrOutsideRoot, abs)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%w: %s", ErrOutsideRoot, abs)
	}
	return nil
}

func (t *Tree) exists(abs string) bool {
	_, err := os.Stat(abs)
	return err == nil
}

func (t *Tree) isFile(abs string) bool {
	info, err := os.Stat(abs)
	return err == nil && info.Mode().IsRegular()
}
