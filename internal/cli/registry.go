package cli

import (
	"github.com/spf13/cobra"

	"github.com/aidanlsb/corpuscheck/internal/ui"
)

func newPatternsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "patterns",
		Short: "List parsed patterns with tier and phase counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.openSession()
			if err != nil {
				return err
			}
			summary := s.patterns.Summary()
			return opts.emit(cmd, summary, func() string {
				return ui.RenderPatternSummary(summary)
			})
		},
	}
}

func newSourcesCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List source ledger entries with tier and type counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.openSession()
			if err != nil {
				return err
			}
			summary := s.sources.Summary()
			return opts.emit(cmd, summary, func() string {
				return ui.RenderSourceSummary(summary)
			})
		},
	}
}
