package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/corpuscheck/internal/check"
	"github.com/aidanlsb/corpuscheck/internal/ui"
)

type validateFlags struct {
	typ      string
	showInfo bool
}

func newValidateCmd(opts *globalOptions) *cobra.Command {
	var flags validateFlags

	cmd := &cobra.Command{
		Use:   "validate [pattern-id]",
		Short: "Validate one pattern, or every pattern",
		Long: `Validate pattern documents for structure, links, evidence and
cross-references.

With a pattern id only that pattern is validated. Use --type to run a
single check family: structure, links, evidence, cross-refs or full.

Exits with status 1 when any pattern is broken.`,
		Example: `  corpuscheck validate
  corpuscheck validate context-engineering --type links
  corpuscheck validate --offline --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := check.Request{
				Action: check.ActionValidateAll,
				Type:   check.Type(flags.typ),
			}
			if len(args) == 1 {
				req.Action = check.ActionValidateSingle
				req.PatternID = args[0]
			}
			return runValidation(cmd, opts, req, flags.showInfo)
		},
	}

	cmd.Flags().StringVarP(&flags.typ, "type", "t", string(check.TypeFull), "Check family: structure, links, evidence, cross-refs, full")
	cmd.Flags().BoolVar(&flags.showInfo, "info", false, "Show info-level issues and valid patterns")
	return cmd
}

func newLinksCmd(opts *globalOptions) *cobra.Command {
	var showInfo bool
	cmd := &cobra.Command{
		Use:   "links",
		Short: "Check internal and external links in every pattern",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidation(cmd, opts, check.Request{Action: check.ActionCheckLinks}, showInfo)
		},
	}
	cmd.Flags().BoolVar(&showInfo, "info", false, "Show info-level issues and valid patterns")
	return cmd
}

func newEvidenceCmd(opts *globalOptions) *cobra.Command {
	var showInfo bool
	cmd := &cobra.Command{
		Use:   "evidence",
		Short: "Check that evidence tiers are backed by documented sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidation(cmd, opts, check.Request{Action: check.ActionCheckEvidence}, showInfo)
		},
	}
	cmd.Flags().BoolVar(&showInfo, "info", false, "Show info-level issues and valid patterns")
	return cmd
}

func runValidation(cmd *cobra.Command, opts *globalOptions, req check.Request, showInfo bool) error {
	s, err := opts.openSession()
	if err != nil {
		return err
	}
	v, err := s.validator(opts)
	if err != nil {
		return err
	}

	stop := startSpinner(cmd, opts, req)
	report, err := v.Run(cmd.Context(), req)
	stop()
	if err != nil {
		return err
	}
	s.logLinkStats(opts)

	err = opts.emit(cmd, report, func() string {
		return ui.RenderValidation(report, ui.RenderOptions{ShowInfo: showInfo})
	})
	if err != nil {
		return err
	}

	if report.HasBroken() {
		return errBroken
	}
	return nil
}

// startSpinner shows progress on a terminal while external links are
// probed. It returns the function that stops it.
func startSpinner(cmd *cobra.Command, opts *globalOptions, req check.Request) func() {
	probing := !opts.offline && req.Action != check.ActionCheckEvidence &&
		(req.Type == "" || req.Type == check.TypeFull || req.Type == check.TypeLinks)
	f, ok := cmd.ErrOrStderr().(*os.File)
	if !probing || opts.jsonOutput || !ok {
		return func() {}
	}

	sp := ui.NewSpinner(f, "Checking links...")
	sp.Start()
	return sp.Stop
}
