package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/archscope/pkg/errors"
	"github.com/matzehuels/archscope/pkg/graph"
	"github.com/matzehuels/archscope/pkg/render"
	"github.com/matzehuels/archscope/pkg/render/flow"
	"github.com/matzehuels/archscope/pkg/render/nodelink"
)

// RenderFromLayout generates every format in opts.Formats from l.
// The SVG is built at most once and shared by the svg, png and pdf outputs,
// and the PNG and PDF conversions run concurrently.
// The layout's own visualization type decides which formats are allowed.
func RenderFromLayout(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	if l.VizType != "" {
		opts.VizType = l.VizType
	}
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var (
		svg      []byte
		converts []string
	)

	for _, format := range opts.Formats {
		var (
			data []byte
			err  error
		)

		switch format {
		case graph.FormatJSON:
			data, err = graph.MarshalLayout(l)
		case graph.FormatDOT:
			data = []byte(toDOT(l, opts))
		case graph.FormatText:
			var text string
			text, err = flow.RenderText(l)
			data = []byte(text)
		case graph.FormatSVG, graph.FormatPNG, graph.FormatPDF:
			if svg == nil {
				svg, err = renderSVG(ctx, l, opts)
			}
			if err == nil && format != graph.FormatSVG {
				converts = append(converts, format)
				continue
			}
			data = svg
		default:
			err = errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %q", format)
		}

		if err != nil {
			return nil, wrapRenderError(format, err)
		}
		artifacts[format] = data
	}

	// PNG and PDF each run their own rsvg-convert process.
	if len(converts) > 0 {
		converted := make([][]byte, len(converts))
		g, gctx := errgroup.WithContext(ctx)
		for i, format := range converts {
			g.Go(func() error {
				data, err := fromSVG(gctx, svg, format, opts)
				if err != nil {
					return wrapRenderError(format, err)
				}
				converted[i] = data
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		for i, format := range converts {
			artifacts[format] = converted[i]
		}
	}

	return artifacts, nil
}

func wrapRenderError(format string, err error) error {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	return errors.Wrap(code, err, "render %s: %s", format, errors.UserMessage(err))
}

func fromSVG(ctx context.Context, svg []byte, format string, opts Options) ([]byte, error) {
	switch format {
	case graph.FormatPNG:
		return render.ToPNG(ctx, svg, opts.PNGScale)
	case graph.FormatPDF:
		return render.ToPDF(ctx, svg)
	}
	return svg, nil
}

func toDOT(l graph.Layout, opts Options) string {
	return nodelink.ToDOT(l, nodelink.Options{Detailed: opts.Detailed, Scale: opts.Scale})
}

// renderSVG draws a flow layout directly and a graph layout through
// Graphviz.
func renderSVG(ctx context.Context, l graph.Layout, opts Options) ([]byte, error) {
	if l.IsFlow() {
		return flow.RenderSVG(l, flow.Options{Detailed: opts.Detailed})
	}
	return nodelink.RenderSVG(ctx, toDOT(l, opts))
}
