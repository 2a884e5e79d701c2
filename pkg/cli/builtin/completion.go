// Package builtin provides the framework-owned commands attached next to
// the derived ones: shell completion and version. Both consume the built
// command tree read-only.
package builtin

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// CompletionOptions configures the completion command.
type CompletionOptions struct {
	CLIName       string
	EnabledShells []string
	Output        io.Writer
}

// DefaultShells lists the shells enabled when none are configured.
var DefaultShells = []string{"bash", "zsh", "fish", "powershell"}

// NewCompletionCommand creates the completion command for a derived CLI.
func NewCompletionCommand(opts *CompletionOptions, rootCmd *cobra.Command) *cobra.Command {
	if len(opts.EnabledShells) == 0 {
		opts.EnabledShells = DefaultShells
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: fmt.Sprintf(`Generate shell completion scripts for %s.

Completion covers every derived command, subcommand, and flag, including
the dotted flags of nested parameters.

Bash:
  $ %s completion bash > ~/.local/share/bash-completion/completions/%s

Zsh:
  $ %s completion zsh > ~/.zsh/completion/_%s

Fish:
  $ %s completion fish > ~/.config/fish/completions/%s.fish`,
			opts.CLIName,
			opts.CLIName, opts.CLIName,
			opts.CLIName, opts.CLIName,
			opts.CLIName, opts.CLIName),
		ValidArgs:             opts.EnabledShells,
		Args:                  cobra.ExactArgs(1),
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompletion(rootCmd, args[0], opts)
		},
	}
}

func runCompletion(rootCmd *cobra.Command, shell string, opts *CompletionOptions) error {
	enabled := false
	for _, s := range opts.EnabledShells {
		if s == shell {
			enabled = true
			break
		}
	}
	if !enabled {
		return fmt.Errorf("completion for %s is not enabled", shell)
	}

	switch shell {
	case "bash":
		return rootCmd.GenBashCompletionV2(opts.Output, true)
	case "zsh":
		return rootCmd.GenZshCompletion(opts.Output)
	case "fish":
		return rootCmd.GenFishCompletion(opts.Output, true)
	case "powershell":
		return rootCmd.GenPowerShellCompletionWithDesc(opts.Output)
	default:
		return fmt.Errorf("unsupported shell: %s", shell)
	}
}
