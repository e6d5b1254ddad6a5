package cli

import (
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/archscope/pkg/graph"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for archscope.

Completions cover subcommands, architecture files (*.toml) and the
render flags, where --format only offers what the chosen --type produces.

  $ source <(archscope completion bash)
  $ archscope completion zsh > "${fpath[1]}/_archscope"
  $ archscope completion fish > ~/.config/fish/completions/archscope.fish
  PS> archscope completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(c.out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(c.out)
			case "fish":
				return cmd.Root().GenFishCompletion(c.out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(c.out)
			}
			return nil
		},
	}

	return cmd
}

// completeArchFile offers *.toml files for the single architecture argument.
func completeArchFile(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{"toml"}, cobra.ShellCompDirectiveFilterFileExt
}

// completeVizType completes --type.
func completeVizType(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return []string{
		graph.VizTypeGraph + "\tforce-directed diagram",
		graph.VizTypeFlow + "\ttop-to-bottom flow chart",
	}, cobra.ShellCompDirectiveNoFileComp
}

// completeFormats completes the last element of a comma-separated --format
// list with the formats the current --type can produce.
func completeFormats(cmd *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	vizType, err := cmd.Flags().GetString("type")
	if err != nil || vizType == "" {
		vizType = graph.VizTypeGraph
	}

	prefix := ""
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		prefix = toComplete[:i+1]
	}
	chosen := strings.Split(prefix, ",")

	var out []string
	for _, f := range graph.FormatsFor(vizType) {
		if !slices.Contains(chosen, f) {
			out = append(out, prefix+f)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}
