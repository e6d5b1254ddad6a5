package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/archscope/pkg/arch"
	"github.com/matzehuels/archscope/pkg/cache"
	"github.com/matzehuels/archscope/pkg/errors"
	"github.com/matzehuels/archscope/pkg/graph"
	"github.com/matzehuels/archscope/pkg/pipeline"
	"github.com/matzehuels/archscope/pkg/render/flow"
	"github.com/matzehuels/archscope/pkg/smell"
)

const shellPrompt = "archscope> "

const shellHelp = `Commands:
  component add <id> [name] [metadata]              create a component
  component update <id> [--name N] [--metadata M]   change name and/or metadata
  component delete <id>                             delete a component and its relationships
  rel add <from> <to> <type>                        create (or retype) a relationship
  rel update <from> <to> <type>                     change a relationship's type
  rel delete <from> <to>                            delete a relationship
  print [--table]                                   print the architecture
  smells                                            list mutual dependencies
  render graph|flow [file]                          show a layout, or write it to file
  help                                              show this help
  exit                                              leave the shell

Arguments containing spaces can be quoted: component add UI "User Interface"`

// shellCommand creates the interactive shell command.
func (c *CLI) shellCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Edit an architecture interactively",
		Long: `Start an interactive shell for building an architecture in memory.

The shell creates, updates and deletes components and relationships, prints
the current architecture, detects mutual dependencies and renders layouts.
Nothing is saved when the shell exits. Use --file to start from an existing
architecture file.`,
		Example: `  archscope shell
  archscope shell --file shop.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := arch.NewStore()
			if file != "" {
				var err error
				if store, err = c.loadArchitecture(cmd.Context(), file); err != nil {
					return err
				}
			}
			return c.runShell(cmd.Context(), store)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "architecture file to load at startup")

	return cmd
}

// shell is one interactive session over a store.
type shell struct {
	cli    *CLI
	ctx    context.Context
	store  *arch.Store
	runner *pipeline.Runner
	out    io.Writer
}

// runShell reads commands from c.in until exit, EOF or cancellation.
func (c *CLI) runShell(ctx context.Context, store *arch.Store) error {
	sh := &shell{
		cli:    c,
		ctx:    ctx,
		store:  store,
		runner: pipeline.NewRunner(cache.NewMemoryCache(0), nil, loggerFromContext(ctx)),
		out:    c.out,
	}
	defer sh.runner.Close()

	fmt.Fprintln(sh.out, StyleTitle.Render("Software Architecture Visualization Tool"))
	fmt.Fprintln(sh.out, StyleDim.Render("Type help for a list of commands."))

	scanner := bufio.NewScanner(c.in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(sh.out, "\n"+shellPrompt)
		if !scanner.Scan() {
			fmt.Fprintln(sh.out)
			return scanner.Err()
		}
		if sh.exec(scanner.Text()) {
			return nil
		}
	}
}

// exec runs one input line and reports whether the shell should exit.
func (sh *shell) exec(line string) bool {
	args, err := splitArgs(line)
	if err != nil {
		printError(sh.out, "%s", errors.UserMessage(err))
		return false
	}
	if len(args) == 0 {
		return false
	}

	switch args[0] {
	case "exit", "quit":
		fmt.Fprintln(sh.out, "Exiting the tool.")
		return true
	case "help", "?":
		fmt.Fprintln(sh.out, shellHelp)
		return false
	case "component", "comp":
		err = sh.component(args[1:])
	case "rel", "relationship":
		err = sh.relationship(args[1:])
	case "print":
		err = sh.print(args[1:])
	case "smells":
		printSmells(sh.out, smell.DetectCycles(sh.store.Snapshot()))
	case "render":
		err = sh.render(args[1:])
	default:
		err = errors.New(errors.ErrCodeInvalidInput, "unknown command %q, type help for a list of commands", args[0])
	}

	if err != nil {
		loggerFromContext(sh.ctx).Debug("shell command failed", "line", line, "code", errors.GetCode(err))
		printError(sh.out, "%s", errors.UserMessage(err))
	}
	return false
}

func (sh *shell) component(args []string) error {
	if len(args) < 2 {
		return usageError("component add|update|delete <id> ...")
	}
	sub, id, rest := args[0], args[1], args[2:]

	switch sub {
	case "add", "create":
		if len(rest) > 2 {
			return usageError("component add <id> [name] [metadata]")
		}
		var name, metadata string
		if len(rest) > 0 {
			name = rest[0]
		}
		if len(rest) > 1 {
			metadata = rest[1]
		}
		if err := sh.store.CreateComponent(id, name, metadata); err != nil {
			return err
		}
		printSuccess(sh.out, "Component %s created successfully.", id)

	case "update":
		u, err := parseComponentUpdate(rest)
		if err != nil {
			return err
		}
		if err := sh.store.UpdateComponent(id, u); err != nil {
			return err
		}
		printSuccess(sh.out, "Component %s updated successfully.", id)

	case "delete", "rm":
		if len(rest) != 0 {
			return usageError("component delete <id>")
		}
		if err := sh.store.DeleteComponent(id); err != nil {
			return err
		}
		printSuccess(sh.out, "Component %s deleted successfully.", id)

	default:
		return usageError("component add|update|delete <id> ...")
	}
	return nil
}

// parseComponentUpdate reads --name and --metadata. A flag that is not
// given leaves its field nil; a flag given an empty value clears the field.
func parseComponentUpdate(args []string) (arch.ComponentUpdate, error) {
	fs := pflag.NewFlagSet("component update", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	name := fs.String("name", "", "new component name")
	metadata := fs.String("metadata", "", "new component metadata")

	if err := fs.Parse(args); err != nil {
		return arch.ComponentUpdate{}, errors.New(errors.ErrCodeInvalidInput, "component update: %v", err)
	}
	if fs.NArg() > 0 {
		return arch.ComponentUpdate{}, usageError("component update <id> [--name N] [--metadata M]")
	}

	var u arch.ComponentUpdate
	if fs.Changed("name") {
		u.Name = name
	}
	if fs.Changed("metadata") {
		u.Metadata = metadata
	}
	if u.Name == nil && u.Metadata == nil {
		return u, errors.New(errors.ErrCodeInvalidInput, "nothing to update, pass --name and/or --metadata")
	}
	return u, nil
}

func (sh *shell) relationship(args []string) error {
	if len(args) < 3 {
		return usageError("rel add|update|delete <from> <to> ...")
	}
	sub, from, to, rest := args[0], args[1], args[2], args[3:]

	switch sub {
	case "add", "create":
		if len(rest) != 1 {
			return usageError("rel add <from> <to> <type>")
		}
		if err := sh.store.CreateRelationship(from, to, rest[0]); err != nil {
			return err
		}
		printSuccess(sh.out, "Relationship between %s and %s created successfully.", from, to)

	case "update":
		if len(rest) != 1 {
			return usageError("rel update <from> <to> <type>")
		}
		if err := sh.store.UpdateRelationship(from, to, rest[0]); err != nil {
			return err
		}
		printSuccess(sh.out, "Relationship between %s and %s updated successfully.", from, to)

	case "delete", "rm":
		if len(rest) != 0 {
			return usageError("rel delete <from> <to>")
		}
		if err := sh.store.DeleteRelationship(from, to); err != nil {
			return err
		}
		printSuccess(sh.out, "Relationship between %s and %s deleted successfully.", from, to)

	default:
		return usageError("rel add|update|delete <from> <to> ...")
	}
	return nil
}

func (sh *shell) print(args []string) error {
	switch {
	case len(args) == 0:
		printArchitecture(sh.out, sh.store.Snapshot())
	case len(args) == 1 && args[0] == "--table":
		printArchitectureTable(sh.out, sh.store.Snapshot())
	default:
		return usageError("print [--table]")
	}
	return nil
}

// render shows a layout in the terminal, or writes it to a file whose
// extension picks the format (svg when there is none).
func (sh *shell) render(args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return usageError("render graph|flow [file]")
	}
	vizType := args[0]
	if err := graph.ValidateVizType(vizType); err != nil {
		return err
	}

	cfg := sh.cli.Config
	opts := pipeline.Options{
		VizType:  vizType,
		Force:    cfg.Layout.ForceOptions(),
		Detailed: cfg.Render.Detailed,
		Scale:    cfg.Render.Scale,
		PNGScale: cfg.Render.PNGScale,
	}
	snap := sh.store.Snapshot()

	if len(args) == 1 {
		l, err := sh.runner.GenerateLayout(sh.ctx, snap, opts)
		if err != nil {
			return err
		}
		if l.IsFlow() {
			text, err := flow.RenderText(l)
			if err != nil {
				return err
			}
			fmt.Fprint(sh.out, text)
			return nil
		}
		printPositions(sh.out, l)
		return nil
	}

	path := args[1]
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	if format == "" {
		format = graph.FormatSVG
		path += "." + format
	}
	opts.Formats = []string{format}
	if err := validateRenderOpts(&opts); err != nil {
		return err
	}

	base := strings.TrimSuffix(path, filepath.Ext(path))
	_, paths, err := sh.cli.renderFiles(sh.ctx, sh.runner, snap, base, opts)
	if err != nil {
		return err
	}
	printSuccess(sh.out, "Rendered %s", vizType)
	for _, p := range paths {
		printFile(sh.out, p)
	}
	return nil
}

// printPositions lists force-layout coordinates as a table.
func printPositions(w io.Writer, l graph.Layout) {
	if len(l.Nodes) == 0 {
		fmt.Fprintln(w, StyleDim.Render("(empty architecture)"))
		return
	}
	rows := make([][]string, len(l.Nodes))
	for i, n := range l.Nodes {
		rows[i] = []string{n.ID, fmt.Sprintf("%+.3f", n.X), fmt.Sprintf("%+.3f", n.Y)}
	}
	fmt.Fprintln(w, newTable("ID", "X", "Y").Rows(rows...).Render())
	printStats(w, len(l.Nodes), len(l.Edges), len(l.Smells))
}

func usageError(usage string) error {
	return errors.New(errors.ErrCodeInvalidInput, "usage: %s", usage)
}

// splitArgs splits a command line on whitespace. Single or double quotes
// group words, and "" yields an empty argument. Inside double quotes a
// backslash escapes the next character.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		inArg   bool
		quote   rune
		escaped bool
	)

	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case quote != 0:
			switch {
			case r == quote:
				quote = 0
			case r == '\\' && quote == '"':
				escaped = true
			default:
				cur.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inArg = true
		case r == ' ' || r == '\t':
			if inArg {
				args = append(args, cur.String())
				cur.Reset()
				inArg = false
			}
		default:
			cur.WriteRune(r)
			inArg = true
		}
	}

	if quote != 0 || escaped {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unterminated quote")
	}
	if inArg {
		args = append(args, cur.String())
	}
	return args, nil
}
