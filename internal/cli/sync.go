package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/corpuscheck/internal/consistency"
	"github.com/aidanlsb/corpuscheck/internal/ui"
)

var syncActions = []string{
	string(consistency.ActionCheckConsistency),
	string(consistency.ActionUpdateIndex),
	string(consistency.ActionVerifyCrossRefs),
	string(consistency.ActionGenerateReport),
}

func newSyncCmd(opts *globalOptions) *cobra.Command {
	var scope string

	cmd := &cobra.Command{
		Use:   "sync <action>",
		Short: "Check that the index, ledger and CLAUDE.md agree with the patterns",
		Long: `Run a read-only consistency check over the corpus.

Actions:
  check_consistency   CLAUDE.md mentions and ledger coverage (see --scope)
  update_index        entries the index should add or remove
  verify_cross_refs   missing back-references between related patterns
  generate_report     corpus totals by tier and phase

Nothing is written; suggested changes are reported.`,
		Example: `  corpuscheck sync verify_cross_refs
  corpuscheck sync check_consistency --scope sources --json`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: syncActions,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.openSession()
			if err != nil {
				return err
			}

			// Accept update-index as well as update_index.
			action := consistency.Action(strings.ReplaceAll(args[0], "-", "_"))
			res, err := s.checker(opts).Run(consistency.Request{
				Action: action,
				Scope:  consistency.Scope(scope),
			})
			if err != nil {
				return err
			}

			return opts.emit(cmd, res, func() string {
				return ui.RenderConsistency(res)
			})
		},
	}

	cmd.Flags().StringVar(&scope, "scope", string(consistency.ScopeAll), "check_consistency scope: patterns, sources, all")
	return cmd
}
