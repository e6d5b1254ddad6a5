package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/archscope/pkg/arch"
	"github.com/matzehuels/archscope/pkg/graph"
	"github.com/matzehuels/archscope/pkg/smell"
)

// printCommand creates the print command for listing an architecture.
func (c *CLI) printCommand() *cobra.Command {
	var asJSON, asTable bool

	cmd := &cobra.Command{
		Use:   "print <arch.toml>",
		Short: "Print components and relationships",
		Long: `Print every component and relationship of an architecture file in insertion order.

Use --json for the machine-readable graph, or --table for a bordered view.`,
		Example: `  archscope print shop.toml
  archscope print shop.toml --json | jq '.components[].id'`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeArchFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.loadArchitecture(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			snap := store.Snapshot()
			switch {
			case asJSON:
				return graph.WriteGraph(snap, c.out)
			case asTable:
				printArchitectureTable(c.out, snap)
			default:
				printArchitecture(c.out, snap)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the graph as JSON")
	cmd.Flags().BoolVar(&asTable, "table", false, "print components and relationships as tables")
	cmd.MarkFlagsMutuallyExclusive("json", "table")

	return cmd
}

// printArchitecture writes the plain listing:
//
//	Components:
//	UI: User Interface (Metadata: react)
//
//	Relationships:
//	UI calls API
func printArchitecture(w io.Writer, snap arch.Snapshot) {
	fmt.Fprintln(w, "Components:")
	for _, comp := range snap.Components {
		fmt.Fprintf(w, "%s: %s (Metadata: %s)\n", comp.ID, comp.Name, comp.Metadata)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Relationships:")
	for _, rel := range snap.Relationships {
		fmt.Fprintf(w, "%s %s %s\n", rel.From, rel.Type, rel.To)
	}
}

// printArchitectureTable writes components and relationships as two
// lipgloss tables. Rows taking part in a mutual dependency are highlighted.
func printArchitectureTable(w io.Writer, snap arch.Snapshot) {
	pairs := smell.DetectCycles(snap)
	involved := smell.Involved(pairs)

	compRows := make([][]string, len(snap.Components))
	for i, comp := range snap.Components {
		compRows[i] = []string{comp.ID, comp.Name, comp.Metadata}
	}
	comps := newTable("ID", "Name", "Metadata").
		Rows(compRows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if row >= 0 && row < len(snap.Components) && involved[snap.Components[row].ID] {
				return StyleSmell
			}
			return StyleValue
		})

	relRows := make([][]string, len(snap.Relationships))
	for i, rel := range snap.Relationships {
		relRows[i] = []string{rel.From, rel.Type, rel.To}
	}
	rels := newTable("From", "Type", "To").
		Rows(relRows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if row >= 0 && row < len(snap.Relationships) {
				r := snap.Relationships[row]
				for _, p := range pairs {
					if p.Matches(r.From, r.To) {
						return StyleSmell
					}
				}
			}
			return StyleValue
		})

	fmt.Fprintln(w, StyleTitle.Render("Components"))
	fmt.Fprintln(w, comps.Render())
	fmt.Fprintln(w, StyleTitle.Render("Relationships"))
	fmt.Fprintln(w, rels.Render())
	printStats(w, len(snap.Components), len(snap.Relationships), len(pairs))
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...)
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
