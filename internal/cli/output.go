package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/corpuscheck/internal/atomicfile"
	"github.com/aidanlsb/corpuscheck/internal/ui"
)

// errorResponse is the JSON form of a failed invocation. It never shares a
// shape with a report.
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// emit writes data as JSON or the rendered text, to --output or stdout.
// render is only called in text mode.
func (o *globalOptions) emit(cmd *cobra.Command, data any, render func() string) error {
	write := func(w io.Writer) error {
		if o.jsonOutput {
			return writeJSON(w, data)
		}
		_, err := io.WriteString(w, render())
		return err
	}

	if o.outputPath == "" {
		return write(cmd.OutOrStdout())
	}

	if err := atomicfile.Write(o.outputPath, 0, write); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if !o.jsonOutput {
		fmt.Fprintln(cmd.ErrOrStderr(), ui.Success("Wrote "+ui.FilePath(o.outputPath)))
	}
	return nil
}
