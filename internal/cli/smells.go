package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/archscope/pkg/errors"
	"github.com/matzehuels/archscope/pkg/smell"
)

// errSmellsFound is returned by `smells --fail` when at least one mutual
// dependency exists.
var errSmellsFound = errors.New(errors.ErrCodeInvalidInput, "mutual dependencies found")

// smellsCommand creates the smells command for detecting mutual dependencies.
func (c *CLI) smellsCommand() *cobra.Command {
	var asJSON, fail bool

	cmd := &cobra.Command{
		Use:   "smells <arch.toml>",
		Short: "Detect mutual dependencies between components",
		Long: `Report every pair of components that depend on each other directly.

Each pair is listed once, with the component created first on the left.
With --fail the command exits non-zero when any pair is found, which makes
it usable as a CI check.`,
		Example: `  archscope smells shop.toml
  archscope smells shop.toml --fail`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeArchFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.loadArchitecture(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			report := smell.NewReport(store.Snapshot())
			if asJSON {
				enc := json.NewEncoder(c.out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return errors.Wrap(errors.ErrCodeInternal, err, "encode smell report")
				}
			} else {
				printSmells(c.out, report.Pairs)
				if !report.Clean() {
					printNextStep(c.out, "Browse the affected components", "archscope inspect "+args[0])
				}
			}

			if fail && !report.Clean() {
				return errSmellsFound
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the smell report as JSON")
	cmd.Flags().BoolVar(&fail, "fail", false, "exit with an error when smells are found")

	return cmd
}

// printSmells lists mutual dependencies as "A ⇄ B (forward / backward)".
func printSmells(w io.Writer, pairs []smell.Pair) {
	if len(pairs) == 0 {
		printSuccess(w, "No mutual dependencies found.")
		return
	}

	printWarning(w, "Cyclic Dependencies: %d", len(pairs))
	for _, p := range pairs {
		fmt.Fprintf(w, "  %s %s %s %s\n",
			StyleSmell.Render(p.A), iconMutual, StyleSmell.Render(p.B),
			StyleDim.Render(fmt.Sprintf("(%s / %s)", p.Forward, p.Backward)))
	}
}
