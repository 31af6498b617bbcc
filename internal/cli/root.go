// Package cli implements the command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/aidanlsb/corpuscheck/internal/config"
	"github.com/aidanlsb/corpuscheck/internal/ui"
)

// RootEnvVar names the corpus root when --root is not given.
const RootEnvVar = "REPO_ROOT"

// errBroken makes the process exit non-zero after a report with broken
// documents has been written. It is never printed.
var errBroken = errors.New("broken documents found")

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	root       string
	configPath string
	jsonOutput bool
	outputPath string
	verbose    bool
	offline    bool

	// maxExternalLinks overrides links.max_external_per_document when > 0.
	maxExternalLinks int

	logger *slog.Logger
}

// Execute runs the CLI.
func Execute() error {
	opts := &globalOptions{}
	return run(newRootCmd(opts), opts)
}

// run executes cmd and reports any error in the selected output mode.
func run(cmd *cobra.Command, opts *globalOptions) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := cmd.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, errBroken) {
		reportError(cmd, opts, err)
	}
	return err
}

func newRootCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "corpuscheck",
		Short: "Validate a corpus of pattern documents",
		Long: `corpuscheck validates a corpus of markdown pattern documents and its
source ledger: document structure, internal and external links, evidence
claims and cross-references between patterns.

The corpus root defaults to $REPO_ROOT, then the current directory.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts.logger = newLogger(cmd.ErrOrStderr(), opts.verbose)
			return opts.resolveRoot()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.root, "root", "", "Corpus root directory (default $REPO_ROOT or .)")
	flags.StringVar(&opts.configPath, "config", "", "Path to config file (default <root>/"+config.FileName+")")
	flags.BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format (for agent/script use)")
	flags.StringVarP(&opts.outputPath, "output", "o", "", "Write output to a file instead of stdout")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	flags.BoolVar(&opts.offline, "offline", false, "Skip external link probes")
	flags.IntVar(&opts.maxExternalLinks, "max-external-links", 0, "External links probed per pattern (default from config)")
	cmd.SetGlobalNormalizationFunc(dashedFlagNames)

	cmd.AddCommand(
		newValidateCmd(opts),
		newLinksCmd(opts),
		newEvidenceCmd(opts),
		newPatternsCmd(opts),
		newSourcesCmd(opts),
		newSyncCmd(opts),
		newInitCmd(opts),
		newVersionCmd(opts),
	)
	return cmd
}

// dashedFlagNames accepts snake_case spellings such as --max_external_links.
func dashedFlagNames(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// resolveRoot applies the root precedence: --root, $REPO_ROOT, then the
// working directory.
func (o *globalOptions) resolveRoot() error {
	root := o.root
	if root == "" {
		root = os.Getenv(RootEnvVar)
	}
	if root == "" {
		root = "."
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolve root %s: %w", root, err)
	}
	st, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("corpus root not found: %s", abs)
	}
	if !st.IsDir() {
		return fmt.Errorf("corpus root is not a directory: %s", abs)
	}

	o.root = abs
	return nil
}

func (o *globalOptions) loadConfig() (*config.Config, error) {
	if o.configPath != "" {
		return config.LoadFrom(o.configPath)
	}
	return config.Load(o.root)
}

func reportError(cmd *cobra.Command, opts *globalOptions, err error) {
	if opts.jsonOutput {
		_ = writeJSON(cmd.OutOrStdout(), errorResponse{Error: err.Error()})
		return
	}
	fmt.Fprintln(cmd.ErrOrStderr(), ui.Error(err.Error()))
}
