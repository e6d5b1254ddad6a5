package cli

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/archscope/pkg/arch"
	"github.com/matzehuels/archscope/pkg/cache"
	"github.com/matzehuels/archscope/pkg/errors"
	"github.com/matzehuels/archscope/pkg/graph"
	"github.com/matzehuels/archscope/pkg/pipeline"
	"github.com/matzehuels/archscope/pkg/render/nodelink"
)

// renderCommand creates the render command for generating visualizations.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		opts       pipeline.Options
		seed       uint64
		iterations int
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "render <arch.toml>",
		Short: "Render an architecture as a diagram",
		Long: `Compute a layout for an architecture file and write it in one or more formats.

Visualization types:
  graph   force-directed node-link diagram (svg, dot, json, png, pdf)
  flow    top-to-bottom flow chart in component order (svg, json, png, pdf, txt)

Layouts and rendered files are cached by content. Use --refresh to recompute
them or --no-cache to bypass the cache entirely.

PNG and PDF output require rsvg-convert (librsvg).`,
		Example: `  archscope render shop.toml
  archscope render shop.toml -t flow -f svg,txt -o out/shop
  archscope render shop.toml --seed 7 --iterations 200 -f svg,json`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeArchFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.Config.Render
			opts.Formats = parseFormats(formatsStr, cfg.Formats)
			if !cmd.Flags().Changed("detailed") {
				opts.Detailed = cfg.Detailed
			}
			if !cmd.Flags().Changed("scale") {
				opts.Scale = cfg.Scale
			}
			if !cmd.Flags().Changed("png-scale") {
				opts.PNGScale = cfg.PNGScale
			}
			if output == "" && cfg.Output != "" {
				output = cfg.Output
			}

			opts.Force = c.Config.Layout.ForceOptions()
			if cmd.Flags().Changed("seed") {
				opts.Force.Seed = seed
			}
			if cmd.Flags().Changed("iterations") {
				opts.Force.Iterations = iterations
			}

			if err := validateRenderOpts(&opts); err != nil {
				return err
			}

			store, err := c.loadArchitecture(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			runner := c.newRunner(cmd.Context(), noCache)
			defer runner.Close()

			base := basePath(output, args[0])
			result, paths, err := c.renderFiles(cmd.Context(), runner, store.Snapshot(), base, opts)
			if err != nil {
				return err
			}

			printSuccess(c.out, "Rendered %s", opts.VizType)
			if opts.VizType == graph.VizTypeGraph {
				printDetail(c.out, "seed %d, %d iterations", opts.Force.Seed, opts.Force.Iterations)
			}
			if result.CacheInfo.LayoutHit {
				printDetail(c.out, "layout from cache")
			}
			for _, p := range paths {
				printFile(c.out, p)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.VizType, "type", "t", graph.VizTypeGraph, "visualization type: graph, flow")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s), comma-separated (default from config: svg)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output base path (default: input file without extension)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "seed for the force-directed layout")
	cmd.Flags().IntVar(&iterations, "iterations", 0, "simulation steps for the force-directed layout")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "show component names and metadata in labels")
	cmd.Flags().Float64Var(&opts.Scale, "scale", nodelink.DefaultScale, "inches per layout unit (graph)")
	cmd.Flags().Float64Var(&opts.PNGScale, "png-scale", pipeline.DefaultPNGScale, "PNG resolution multiplier")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute layout and files even when cached")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the layout and artifact cache")

	_ = cmd.RegisterFlagCompletionFunc("type", completeVizType)
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)

	return cmd
}

// validateRenderOpts checks the visualization type, the formats it allows,
// and the numeric options.
func validateRenderOpts(opts *pipeline.Options) error {
	if err := graph.ValidateFormats(opts.VizType, opts.Formats); err != nil {
		return err
	}
	if opts.Force.Iterations <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "iterations must be positive, got %d", opts.Force.Iterations)
	}
	if opts.Scale <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive, got %g", opts.Scale)
	}
	if opts.PNGScale <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "png scale must be positive, got %g", opts.PNGScale)
	}
	return nil
}

// newRunner returns a pipeline runner backed by the on-disk cache. Caching
// is skipped when disabled in the config or by flag, and when the cache
// directory cannot be created.
func (c *CLI) newRunner(ctx context.Context, noCache bool) *pipeline.Runner {
	logger := loggerFromContext(ctx)
	if noCache || !c.Config.Cache.Enabled {
		return pipeline.NewRunner(nil, nil, logger)
	}
	fc, err := cache.NewFileCache(c.Config.Cache.Path())
	if err != nil {
		logger.Warn("cache disabled", "err", err)
		return pipeline.NewRunner(nil, nil, logger)
	}
	logger.Debugf("Using cache at %s", fc.Dir())
	return pipeline.NewRunner(fc, nil, logger)
}

// renderFiles runs the pipeline once and writes base.<format> for every
// requested format. It returns the written paths in format order.
func (c *CLI) renderFiles(ctx context.Context, runner *pipeline.Runner, snap arch.Snapshot, base string, opts pipeline.Options) (*pipeline.Result, []string, error) {
	logger := loggerFromContext(ctx)

	prog := newProgress(logger)
	var (
		result *pipeline.Result
		err    error
	)
	if needsConversion(opts.Formats) {
		sp := newSpinner(ctx, os.Stderr, "Rendering...")
		sp.Start()
		result, err = runner.Execute(ctx, snap, opts)
		sp.Stop()
	} else {
		result, err = runner.Execute(ctx, snap, opts)
	}
	if err != nil {
		return nil, nil, err
	}
	prog.done(fmt.Sprintf("Rendered %s layout for %s", result.Layout.VizType, pluralize(result.Stats.NodeCount, "component")))

	paths := make([]string, 0, len(opts.Formats))
	for _, format := range opts.Formats {
		data := result.Artifacts[format]
		path := base + "." + format
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return result, paths, errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
		}
		logger.Debugf("Wrote %s (%d bytes)", path, len(data))
		paths = append(paths, path)
	}
	return result, paths, nil
}

// needsConversion reports whether any format goes through rsvg-convert.
func needsConversion(formats []string) bool {
	return slices.Contains(formats, graph.FormatPNG) || slices.Contains(formats, graph.FormatPDF)
}
