package cli

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/corpuscheck/internal/buildinfo"
)

const defaultModulePath = "github.com/aidanlsb/corpuscheck"

type versionInfo struct {
	Version    string `json:"version"`
	ModulePath string `json:"module_path"`
	Commit     string `json:"commit,omitempty"`
	CommitTime string `json:"commit_time,omitempty"`
	Modified   bool   `json:"modified"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

var readBuildInfo = debug.ReadBuildInfo

func newVersionCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version and build information",
		Args:  cobra.NoArgs,
		// The corpus root is irrelevant here.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			info := currentVersionInfo()
			return opts.emit(cmd, info, func() string {
				var sb strings.Builder
				fmt.Fprintf(&sb, "corpuscheck %s\n", info.Version)
				if info.Commit != "" {
					fmt.Fprintf(&sb, "commit: %s", info.Commit)
					if info.Modified {
						sb.WriteString(" (modified)")
					}
					sb.WriteString("\n")
				}
				if info.CommitTime != "" {
					fmt.Fprintf(&sb, "built: %s\n", info.CommitTime)
				}
				fmt.Fprintf(&sb, "%s %s\n", info.GoVersion, info.Platform)
				return sb.String()
			})
		},
	}
}

// currentVersionInfo prefers the module build info and falls back to values
// injected with -ldflags.
func currentVersionInfo() versionInfo {
	info := versionInfo{
		Version:    "devel",
		ModulePath: defaultModulePath,
		GoVersion:  runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
	}

	if bi, ok := readBuildInfo(); ok && bi != nil {
		if bi.Main.Path != "" {
			info.ModulePath = bi.Main.Path
		}
		info.Version = normalizeVersion(bi.Main.Version)
		if bi.GoVersion != "" {
			info.GoVersion = bi.GoVersion
		}
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				info.Commit = s.Value
			case "vcs.time":
				info.CommitTime = s.Value
			case "vcs.modified":
				info.Modified = strings.EqualFold(s.Value, "true")
			}
		}
	}

	if info.Version == "devel" && buildinfo.Version != "" {
		info.Version = normalizeVersion(buildinfo.Version)
	}
	if info.Commit == "" {
		info.Commit = buildinfo.Commit
	}
	if info.CommitTime == "" {
		info.CommitTime = buildinfo.Date
	}
	return info
}

func normalizeVersion(v string) string {
	if v == "" || v == "(devel)" {
		return "devel"
	}
	return v
}
