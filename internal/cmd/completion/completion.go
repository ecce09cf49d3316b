// Package completion provides shell completion generation commands.
package completion

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// shell describes one supported completion target.
type shell struct {
	name    string
	install string
	gen     func(root *cobra.Command, w io.Writer) error
}

var shells = []shell{
	{
		name: "bash",
		install: `  source <(wtr completion bash)
  wtr completion bash > /etc/bash_completion.d/wtr`,
		gen: func(root *cobra.Command, w io.Writer) error {
			return root.GenBashCompletion(w)
		},
	},
	{
		name: "zsh",
		install: `  source <(wtr completion zsh)
  wtr completion zsh > "${fpath[1]}/_wtr"`,
		gen: func(root *cobra.Command, w io.Writer) error {
			return root.GenZshCompletion(w)
		},
	},
	{
		name: "fish",
		install: `  wtr completion fish | source
  wtr completion fish > ~/.config/fish/completions/wtr.fish`,
		gen: func(root *cobra.Command, w io.Writer) error {
			return root.GenFishCompletion(w, true)
		},
	},
	{
		name: "powershell",
		install: `  wtr completion powershell | Out-String | Invoke-Expression
  wtr completion powershell >> $PROFILE`,
		gen: func(root *cobra.Command, w io.Writer) error {
			return root.GenPowerShellCompletionWithDesc(w)
		},
	},
}

// NewCmdCompletion creates the completion command.
func NewCmdCompletion() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for wtr.

The first example line of each shell loads completions into the current
session, the second installs them for new sessions.`,
	}

	for _, sh := range shells {
		cmd.AddCommand(newShellCmd(sh))
	}

	return cmd
}

func newShellCmd(sh shell) *cobra.Command {
	return &cobra.Command{
		Use:                   sh.name,
		Short:                 fmt.Sprintf("Generate %s completion script", sh.name),
		Long:                  fmt.Sprintf("Generate %s completion script for wtr.", sh.name),
		Example:               sh.install,
		Args:                  cobra.NoArgs,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return sh.gen(cmd.Root(), cmd.OutOrStdout())
		},
	}
}
