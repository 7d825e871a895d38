package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// newCompletionCmd creates the completion command for generating shell completions.
func newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for rdep-analyzer.

To load completions:

Bash:
  $ source <(rdep-analyzer completion bash)

  # To load completions for each session, execute once:
  $ rdep-analyzer completion bash > /etc/bash_completion.d/rdep-analyzer

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ rdep-analyzer completion zsh > "${fpath[1]}/_rdep-analyzer"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ rdep-analyzer completion fish | source

  # To load completions for each session, execute once:
  $ rdep-analyzer completion fish > ~/.config/fish/completions/rdep-analyzer.fish

PowerShell:
  PS> rdep-analyzer completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> rdep-analyzer completion powershell > rdep-analyzer.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}
