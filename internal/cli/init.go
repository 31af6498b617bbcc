package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/corpuscheck/internal/config"
	"github.com/aidanlsb/corpuscheck/internal/ui"
)

type initResult struct {
	Path    string `json:"path"`
	Created bool   `json:"created"`
}

func newInitCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default " + config.FileName + " into the corpus root",
		Long: `Write a ` + config.FileName + ` with every default spelled out.
An existing config file is left alone.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, created, err := config.CreateDefault(opts.root)
			if err != nil {
				return fmt.Errorf("create config: %w", err)
			}

			res := initResult{Path: path, Created: created}
			return opts.emit(cmd, res, func() string {
				if !created {
					return ui.Info("Config already exists: "+ui.FilePath(path)) + "\n"
				}
				return ui.Success("Created "+ui.FilePath(path)) + "\n"
			})
		},
	}
}
