package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/archscope/pkg/arch"
	"github.com/matzehuels/archscope/pkg/smell"
)

// inspectCommand creates the inspect command for browsing an architecture
// interactively.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <arch.toml>",
		Short: "Browse components interactively",
		Long: `Open a terminal browser over an architecture file.

Components are listed in flow order. The pane below the list shows the
selected component's metadata, its outgoing and incoming relationships,
and whether it takes part in a mutual dependency.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeArchFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.loadArchitecture(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			p := tea.NewProgram(NewInspectModel(store.Snapshot()),
				tea.WithContext(cmd.Context()),
				tea.WithInput(c.in),
				tea.WithOutput(c.out),
			)
			_, err = p.Run()
			return err
		},
	}
}

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// InspectModel - Interactive component browser
// =============================================================================

// InspectModel is the bubbletea model for the component browser.
type InspectModel struct {
	Snapshot arch.Snapshot
	Pairs    []smell.Pair
	Cursor   int
	Height   int
	Offset   int

	involved map[string]bool
}

// NewInspectModel creates a browser over snap with the first component
// selected.
func NewInspectModel(snap arch.Snapshot) InspectModel {
	pairs := smell.DetectCycles(snap)
	return InspectModel{
		Snapshot: snap,
		Pairs:    pairs,
		Height:   10,
		involved: smell.Involved(pairs),
	}
}

func (m InspectModel) Init() tea.Cmd {
	return nil
}

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	n := len(m.Snapshot.Components)
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < n-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			if n > 0 {
				m.Cursor = n - 1
				m.Offset = max(0, n-m.Height)
			}
		}
	case tea.WindowSizeMsg:
		// Leave room for the title, the table border and the detail pane.
		m.Height = msg.Height - 16
		if m.Height < 3 {
			m.Height = 3
		}
		if m.Cursor >= m.Offset+m.Height {
			m.Offset = m.Cursor - m.Height + 1
		}
	}
	return m, nil
}

// Selected returns the component under the cursor.
func (m InspectModel) Selected() (arch.Component, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.Snapshot.Components) {
		return arch.Component{}, false
	}
	return m.Snapshot.Components[m.Cursor], true
}

func (m InspectModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Inspect Architecture"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	comps := m.Snapshot.Components
	if len(comps) == 0 {
		b.WriteString(listDimStyle.Render("(empty architecture)"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(comps))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		comp := comps[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		flag := ""
		if m.involved[comp.ID] {
			flag = iconMutual
		}

		rows = append(rows, []string{
			cursor,
			fmt.Sprintf("%d", i),
			comp.ID,
			comp.Name,
			fmt.Sprintf("%d", len(m.Snapshot.Outgoing(comp.ID))),
			fmt.Sprintf("%d", len(m.Snapshot.Incoming(comp.ID))),
			flag,
		})
	}

	t := newTable("", "Slot", "ID", "Name", "Out", "In", "Smell").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}

			actualIdx := m.Offset + row
			if actualIdx >= len(comps) {
				return lipgloss.NewStyle()
			}
			isCurrent := actualIdx == m.Cursor
			isSmell := m.involved[comps[actualIdx].ID]

			base := lipgloss.NewStyle()
			switch {
			case isSmell:
				base = base.Foreground(colorRed)
			case isCurrent:
				base = base.Foreground(colorCyan)
			default:
				base = base.Foreground(colorWhite)
			}
			if isCurrent {
				base = base.Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(comps))))
	b.WriteString("\n\n")

	if comp, ok := m.Selected(); ok {
		b.WriteString(m.detailView(comp))
	}
	return b.String()
}

// detailView renders metadata and relationships of one component.
func (m InspectModel) detailView(comp arch.Component) string {
	var b strings.Builder

	b.WriteString(listSelectedStyle.Render(comp.ID))
	if comp.Name != "" {
		b.WriteString(" " + StyleValue.Render(comp.Name))
	}
	b.WriteString("\n")

	meta := comp.Metadata
	if meta == "" {
		meta = "—"
	}
	b.WriteString(listDimStyle.Render("  metadata  ") + meta + "\n")

	out := m.Snapshot.Outgoing(comp.ID)
	if len(out) == 0 {
		b.WriteString(listDimStyle.Render("  outgoing  —") + "\n")
	}
	for i, r := range out {
		label := "  outgoing  "
		if i > 0 {
			label = "            "
		}
		b.WriteString(listDimStyle.Render(label) + m.relLine(iconArrow, r.Type, r.To, r) + "\n")
	}

	in := m.Snapshot.Incoming(comp.ID)
	if len(in) == 0 {
		b.WriteString(listDimStyle.Render("  incoming  —") + "\n")
	}
	for i, r := range in {
		label := "  incoming  "
		if i > 0 {
			label = "            "
		}
		b.WriteString(listDimStyle.Render(label) + m.relLine("←", r.Type, r.From, r) + "\n")
	}

	for _, p := range m.Pairs {
		if !p.Involves(comp.ID) {
			continue
		}
		other := p.B
		if other == comp.ID {
			other = p.A
		}
		b.WriteString(StyleSmell.Render(fmt.Sprintf("  %s mutual dependency with %s", iconMutual, other)) + "\n")
	}
	return b.String()
}

func (m InspectModel) relLine(arrow, typ, other string, r arch.Relationship) string {
	line := fmt.Sprintf("%s %s %s", arrow, typ, other)
	for _, p := range m.Pairs {
		if p.Matches(r.From, r.To) {
			return StyleSmell.Render(line)
		}
	}
	return line
}
