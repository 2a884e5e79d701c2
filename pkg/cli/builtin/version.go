package builtin

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

// VersionInfo describes the derived CLI binary.
type VersionInfo struct {
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// VersionOptions configures the version command.
type VersionOptions struct {
	CLIName string
	Version string
	Output  io.Writer
}

// NewVersionCommand creates the version command.
func NewVersionCommand(opts *VersionOptions) *cobra.Command {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := VersionInfo{
				Version:   opts.Version,
				GoVersion: runtime.Version(),
				Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
			}
			if asJSON {
				enc := json.NewEncoder(opts.Output)
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}
			_, err := fmt.Fprintf(opts.Output, "%s %s (%s, %s)\n",
				opts.CLIName, info.Version, info.GoVersion, info.Platform)
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print version information as JSON")
	return cmd
}
