package check

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aidanlsb/corpuscheck/internal/corpus"
	"github.com/aidanlsb/corpuscheck/internal/model"
)

func (v *Validator) checkStructure(p *model.PatternRecord) []Issue {
	var issues []Issue

	if !p.HasTitle {
		issues = append(issues, Issue{
			Type:        IssueMissingTitle,
			Description: "Pattern missing title (H1 header)",
			Severity:    SeverityError,
		})
	}
	if p.EvidenceTier == nil {
		issues = append(issues, Issue{
			Type:        IssueMissingEvidenceTier,
			Description: "Pattern missing evidence tier declaration",
			Severity:    SeverityWarning,
		})
	}
	if len(p.Sources) == 0 {
		issues = append(issues, Issue{
			Type:        IssueMissingSources,
			Description: "Pattern has no source references",
			Severity:    SeverityWarning,
		})
	}
	if p.Phase == nil {
		issues = append(issues, Issue{
			Type:        IssueMissingSDDPhase,
			Description: "Pattern missing SDD phase declaration",
			Severity:    SeverityInfo,
		})
	}

	for _, want := range v.opts.RecommendedSections {
		if !hasSection(p.Sections, want) {
			issues = append(issues, Issue{
				Type:        IssueMissingSection,
				Description: fmt.Sprintf("Pattern missing recommended section: %s", want),
				Severity:    SeverityInfo,
			})
		}
	}

	return issues
}

// hasSection reports whether any section title contains want, ignoring case.
func hasSection(sections []string, want string) bool {
	want = strings.ToLower(want)
	for _, s := range sections {
		if strings.Contains(strings.ToLower(s), want) {
			return true
		}
	}
	return false
}

func (v *Validator) checkLinks(ctx context.Context, p *model.PatternRecord) ([]Issue, error) {
	var issues []Issue

	for _, link := range p.InternalLinks {
		if corpus.IsAnchor(link) {
			continue
		}
		if _, ok := v.tree.ResolveLink(p.Path, link); !ok {
			issues = append(issues, Issue{
				Type:        IssueBrokenInternalLink,
				Description: fmt.Sprintf("Internal link not found: %s", link),
				Severity:    SeverityError,
			})
		}
	}

	if v.opts.Prober == nil {
		return issues, nil
	}

	external := p.ExternalLinks
	if len(external) > v.opts.MaxExternalLinks {
		external = external[:v.opts.MaxExternalLinks]
	}
	for _, url := range external {
		status, err := v.opts.Prober.Probe(ctx, url)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			v.logger.Debug("Skipping unreachable link", slog.String("pattern", p.ID), slog.String("url", url), slog.String("error", err.Error()))
			continue
		}

		switch {
		case status == http.StatusNotFound || status == http.StatusGone:
			issues = append(issues, Issue{
				Type:        IssueBrokenExternalLink,
				Description: fmt.Sprintf("External link returned %d: %s", status, url),
				Severity:    SeverityError,
			})
		case status >= http.StatusInternalServerError:
			issues = append(issues, Issue{
				Type:        IssueExternalServerError,
				Description: fmt.Sprintf("External link server error %d: %s", status, url),
				Severity:    SeverityInfo,
			})
		}
	}

	return issues, nil
}

func (v *Validator) checkEvidence(p *model.PatternRecord) []Issue {
	var issues []Issue

	if p.EvidenceTier == nil {
		return issues
	}

	switch strings.ToUpper(*p.EvidenceTier) {
	case "A":
		if len(p.Sources) == 0 {
			issues = append(issues, Issue{
				Type:        IssueTierMismatch,
				Description: "Tier A pattern has no documented sources",
				Severity:    SeverityWarning,
			})
		}
	case "B":
		if len(p.Sources) == 0 {
			issues = append(issues, Issue{
				Type:        IssueInsufficientSources,
				Description: "Tier B pattern should have expert or peer-reviewed sources",
				Severity:    SeverityWarning,
			})
		}
	}

	for _, url := range p.SourceURLs() {
		if _, ok := v.sources.ByURL(url); !ok {
			issues = append(issues, Issue{
				Type:        IssueUndocumentedSource,
				Description: fmt.Sprintf("Source not in SOURCES.md: %s", url),
				Severity:    SeverityInfo,
			})
		}
	}

	return issues
}

func (v *Validator) checkCrossRefs(p *model.PatternRecord) []Issue {
	var issues []Issue
	for _, id := range p.Related {
		if !v.tree.PatternExists(id) {
			issues = append(issues, Issue{
				Type:        IssueBrokenPatternRef,
				Description: fmt.Sprintf("Related pattern not found: %s", id),
				Severity:    SeverityError,
			})
		}
	}
	return issues
}
