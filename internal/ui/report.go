package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/aidanlsb/corpuscheck/internal/check"
	"github.com/aidanlsb/corpuscheck/internal/consistency"
	"github.com/aidanlsb/corpuscheck/internal/registry"
)

// RenderOptions controls how much detail reports include.
type RenderOptions struct {
	// ShowInfo includes info-severity issues and valid documents.
	ShowInfo bool
}

// RenderValidation renders a validation report for the terminal.
func RenderValidation(r *check.Report, opts RenderOptions) string {
	var sb strings.Builder

	for _, res := range r.Results {
		var line string
		switch res.Status {
		case check.StatusBroken:
			line = Error(AccentBold.Render(res.ID) + " " + Muted.Render(string(res.Status)))
		case check.StatusNeedsUpdate:
			line = Warning(AccentBold.Render(res.ID) + " " + Muted.Render(string(res.Status)))
		default:
			if !opts.ShowInfo {
				continue
			}
			line = Success(AccentBold.Render(res.ID))
		}
		sb.WriteString(line)
		sb.WriteString("\n")

		for _, issue := range res.Issues {
			if issue.Severity == check.SeverityInfo && !opts.ShowInfo {
				continue
			}
			fmt.Fprintf(&sb, "    %s %s %s\n", severityLabel(issue.Severity), issue.Type, Muted.Render(issue.Description))
		}
	}

	if sb.Len() > 0 {
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "%s checked: %d valid, %d needs update, %d broken\n",
		Count(r.PatternsChecked, "pattern", "patterns"),
		r.Summary.Valid, r.Summary.NeedsUpdate, r.Summary.Broken)

	return sb.String()
}

func severityLabel(s check.Severity) string {
	label := fmt.Sprintf("%-7s", s.String())
	switch s {
	case check.SeverityError:
		return ErrorStyle.Render(label)
	case check.SeverityWarning:
		return WarningStyle.Render(label)
	default:
		return Muted.Render(label)
	}
}

// RenderPatternSummary renders the pattern registry as a table followed by
// tier and phase counts.
func RenderPatternSummary(s registry.PatternSummary) string {
	rows := make([][]string, 0, len(s.Patterns))
	for _, p := range s.Patterns {
		rows = append(rows, []string{
			p.ID,
			orDash(p.Tier()),
			orDash(p.PhaseName()),
			fmt.Sprintf("%d", len(p.Sources)),
			fmt.Sprintf("%d", len(p.Related)),
		})
	}

	var sb strings.Builder
	sb.WriteString(Header(Count(s.TotalPatterns, "pattern", "patterns")))
	sb.WriteString("\n")
	if len(rows) > 0 {
		sb.WriteString(newTable([]string{"ID", "TIER", "PHASE", "SOURCES", "RELATED"}, rows))
		sb.WriteString("\n")
	}
	sb.WriteString(counts("Tier", s.ByTier))
	sb.WriteString(counts("Phase", s.ByPhase))
	return sb.String()
}

// RenderSourceSummary renders the source registry.
func RenderSourceSummary(s registry.SourceSummary) string {
	rows := make([][]string, 0, len(s.Sources))
	for _, src := range s.Sources {
		url := "-"
		if src.URL != nil {
			url = *src.URL
		}
		rows = append(rows, []string{src.ID, orDash(src.TierName()), string(src.SourceType), url})
	}

	var sb strings.Builder
	sb.WriteString(Header(Count(s.TotalSources, "source", "sources")))
	sb.WriteString("\n")
	if len(rows) > 0 {
		sb.WriteString(newTable([]string{"ID", "TIER", "TYPE", "URL"}, rows))
		sb.WriteString("\n")
	}
	sb.WriteString(counts("Tier", s.ByTier))
	sb.WriteString(counts("Type", s.ByType))
	return sb.String()
}

// RenderConsistency renders the outcome of a consistency action.
func RenderConsistency(r *consistency.Result) string {
	var sb strings.Builder

	for _, inc := range r.Inconsistencies {
		sb.WriteString(Warning(fmt.Sprintf("%s: %s", FilePath(inc.File), inc.Issue)))
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "    %s\n", Hint(inc.SuggestedFix))
	}
	for _, m := range r.MissingCrossRefs {
		sb.WriteString(Warning(fmt.Sprintf("%s should reference %s", AccentBold.Render(m.Pattern), AccentBold.Render(m.ShouldReference))))
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "    %s\n", Hint(m.Reason))
	}
	for _, u := range r.IndexUpdatesNeeded {
		sb.WriteString(Warning(fmt.Sprintf("%s: %s %s", FilePath(u.IndexFile), u.UpdateType, u.Entry)))
		sb.WriteString("\n")
	}

	if rep := r.Report; rep != nil {
		fmt.Fprintf(&sb, "%s, %s\n",
			Count(rep.TotalPatterns, "pattern", "patterns"),
			Count(rep.TotalSources, "source", "sources"))
		sb.WriteString(counts("Tier", rep.PatternsByTier))
		sb.WriteString(counts("Phase", rep.PatternsByPhase))
		if len(rep.PatternsWithoutSources) > 0 {
			fmt.Fprintf(&sb, "Without sources: %s\n", strings.Join(rep.PatternsWithoutSources, ", "))
		}
		fmt.Fprintf(&sb, "Cross-references: %d total, %.2f per pattern\n",
			rep.CrossReferenceStats.Total, rep.CrossReferenceStats.AveragePerPattern)
		return sb.String()
	}

	if !r.HasFindings() {
		sb.WriteString(Success(fmt.Sprintf("No findings (%s checked)", Count(r.FilesChecked, "file", "files"))))
		sb.WriteString("\n")
	}
	return sb.String()
}

func newTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.Border{
			Top:    "─",
			Bottom: "─",
			Left:   "",
			Right:  "",
			Middle: "─",
		}).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		BorderStyle(Muted).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle()
			switch {
			case row == table.HeaderRow:
				style = Muted
			case col == 0:
				style = Accent
			}
			if col < len(headers)-1 {
				style = style.PaddingRight(2)
			}
			return style
		}).
		Rows(rows...).
		Render()
}

// counts renders "Label: a=1 b=2" with keys sorted.
func counts(label string, m map[string]int) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, m[k]))
	}
	return fmt.Sprintf("%s: %s\n", Muted.Render(label), strings.Join(parts, " "))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
