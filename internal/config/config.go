// Package config handles per-corpus configuration.
//
// Configuration lives in corpuscheck.toml at the corpus root. Every key is
// optional; missing keys keep their defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/aidanlsb/corpuscheck/internal/corpus"
)

// FileName is the config file looked up in the corpus root.
const FileName = "corpuscheck.toml"

// Config represents the corpus configuration.
type Config struct {
	// PatternsDir holds one markdown document per pattern.
	PatternsDir string `toml:"patterns_dir"`

	// SourcesFile is the source ledger.
	SourcesFile string `toml:"sources_file"`

	// IndexFile lists the patterns for readers.
	IndexFile string `toml:"index_file"`

	// ClaudeFile is the project instructions file checked for mentions of
	// foundational patterns.
	ClaudeFile string `toml:"claude_file"`

	// PatternGlob selects pattern documents inside PatternsDir. Supports "**".
	PatternGlob string `toml:"pattern_glob"`

	// RecommendedSections are matched case-insensitively as substrings of
	// level-2 headings.
	RecommendedSections []string `toml:"recommended_sections"`

	Links      LinksConfig    `toml:"links"`
	Validation ValidateConfig `toml:"validate"`
}

// LinksConfig controls external link probing.
type LinksConfig struct {
	// Timeout is a Go duration string, e.g. "10s".
	Timeout                string  `toml:"timeout"`
	MaxExternalPerDocument int     `toml:"max_external_per_document"`
	RequestsPerSecond      float64 `toml:"requests_per_second"`
	Burst                  int     `toml:"burst"`
	UserAgent              string  `toml:"user_agent"`
	CacheSize              int     `toml:"cache_size"`
}

// ValidateConfig controls the validation engine.
type ValidateConfig struct {
	Concurrency int `toml:"concurrency"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		PatternsDir:         "patterns",
		SourcesFile:         "SOURCES.md",
		IndexFile:           "INDEX.md",
		ClaudeFile:          ".claude/CLAUDE.md",
		PatternGlob:         "*.md",
		RecommendedSections: []string{"Implementation", "Example", "Related"},
		Links: LinksConfig{
			Timeout:                "10s",
			MaxExternalPerDocument: 3,
			RequestsPerSecond:      4.0,
			Burst:                  4,
			UserAgent:              "corpuscheck",
			CacheSize:              512,
		},
		Validation: ValidateConfig{
			Concurrency: 4,
		},
	}
}

// Path returns the config file path for a corpus root.
func Path(root string) string {
	return filepath.Join(root, FileName)
}

// Load loads the configuration for the corpus at root.
// Returns the default config if the file doesn't exist.
func Load(root string) (*Config, error) {
	path := Path(root)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return LoadFrom(path)
}

// LoadFrom loads the configuration from a specific path. Keys present in the
// file override the defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that every value is usable.
func (c *Config) Validate() error {
	var errs []error

	for key, value := range map[string]string{
		"patterns_dir": c.PatternsDir,
		"sources_file": c.SourcesFile,
		"index_file":   c.IndexFile,
		"claude_file":  c.ClaudeFile,
	} {
		if err := validateRelPath(value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
	}

	if !doublestar.ValidatePattern(c.PatternGlob) {
		errs = append(errs, fmt.Errorf("pattern_glob: invalid pattern %q", c.PatternGlob))
	}

	if _, err := c.Links.TimeoutDuration(); err != nil {
		errs = append(errs, fmt.Errorf("links.timeout: %w", err))
	}
	if c.Links.MaxExternalPerDocument < 1 {
		errs = append(errs, errors.New("links.max_external_per_document must be at least 1 (use --offline to skip external links)"))
	}
	if c.Links.RequestsPerSecond <= 0 {
		errs = append(errs, errors.New("links.requests_per_second must be positive"))
	}
	if c.Links.Burst < 1 {
		errs = append(errs, errors.New("links.burst must be at least 1"))
	}
	if c.Links.CacheSize < 1 {
		errs = append(errs, errors.New("links.cache_size must be at least 1"))
	}
	if c.Validation.Concurrency < 1 {
		errs = append(errs, errors.New("validate.concurrency must be at least 1"))
	}

	return errors.Join(errs...)
}

func validateRelPath(p string) error {
	if strings.TrimSpace(p) == "" {
		return errors.New("must not be empty")
	}
	if filepath.IsAbs(p) || strings.HasPrefix(p, "/") {
		return fmt.Errorf("%q must be relative to the corpus root", p)
	}
	clean := filepath.ToSlash(filepath.Clean(filepath.FromSlash(p)))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("%q escapes the corpus root", p)
	}
	return nil
}

// TimeoutDuration parses Timeout.
func (l LinksConfig) TimeoutDuration() (time.Duration, error) {
	d, err := time.ParseDuration(l.Timeout)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("%q must be positive", l.Timeout)
	}
	return d, nil
}

// Layout returns the corpus layout described by the config.
func (c *Config) Layout() corpus.Layout {
	return corpus.Layout{
		PatternsDir: c.PatternsDir,
		PatternGlob: c.PatternGlob,
		SourcesFile: c.SourcesFile,
		IndexFile:   c.IndexFile,
		ClaudeFile:  c.ClaudeFile,
	}
}
