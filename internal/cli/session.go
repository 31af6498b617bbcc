package cli

import (
	"fmt"
	"log/slog"

	"github.com/aidanlsb/corpuscheck/internal/check"
	"github.com/aidanlsb/corpuscheck/internal/config"
	"github.com/aidanlsb/corpuscheck/internal/consistency"
	"github.com/aidanlsb/corpuscheck/internal/corpus"
	"github.com/aidanlsb/corpuscheck/internal/linkprobe"
	"github.com/aidanlsb/corpuscheck/internal/registry"
)

// session is everything one command needs to inspect the corpus.
type session struct {
	cfg      *config.Config
	tree     *corpus.Tree
	patterns *registry.PatternRegistry
	sources  *registry.SourceRegistry

	// prober is set by validator when the command is online.
	prober *linkprobe.Prober
}

func (o *globalOptions) openSession() (*session, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	tree, err := corpus.New(o.root, cfg.Layout())
	if err != nil {
		return nil, err
	}

	o.logger.Debug("Opened corpus", slog.String("root", tree.Root()), slog.String("patterns_dir", cfg.PatternsDir))

	return &session{
		cfg:      cfg,
		tree:     tree,
		patterns: registry.NewPatternRegistry(tree, o.logger),
		sources:  registry.NewSourceRegistry(tree, o.logger),
	}, nil
}

// validator builds the validation engine. External links are only probed
// when the command is online.
func (s *session) validator(o *globalOptions) (*check.Validator, error) {
	opts := check.Options{
		RecommendedSections: s.cfg.RecommendedSections,
		MaxExternalLinks:    s.cfg.Links.MaxExternalPerDocument,
		Concurrency:         s.cfg.Validation.Concurrency,
		Logger:              o.logger,
	}
	if o.maxExternalLinks > 0 {
		opts.MaxExternalLinks = o.maxExternalLinks
	}

	if !o.offline {
		timeout, err := s.cfg.Links.TimeoutDuration()
		if err != nil {
			return nil, err
		}
		prober, err := linkprobe.New(linkprobe.Options{
			Timeout:           timeout,
			RequestsPerSecond: s.cfg.Links.RequestsPerSecond,
			Burst:             s.cfg.Links.Burst,
			UserAgent:         s.cfg.Links.UserAgent,
			CacheSize:         s.cfg.Links.CacheSize,
			Logger:            o.logger,
		})
		if err != nil {
			return nil, fmt.Errorf("create link prober: %w", err)
		}
		opts.Prober = prober
		s.prober = prober
	}

	return check.NewValidator(s.patterns, s.sources, s.tree, opts), nil
}

// logLinkStats reports how many distinct URLs were checked, for --verbose.
func (s *session) logLinkStats(o *globalOptions) {
	if s.prober == nil {
		return
	}
	o.logger.Debug("External links checked", slog.Int("distinct_urls", s.prober.Cached()))
}

func (s *session) checker(o *globalOptions) *consistency.Checker {
	return consistency.NewChecker(s.patterns, s.sources, s.tree, o.logger)
}
