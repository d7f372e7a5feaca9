package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/arbor/pkg/graph"
	"github.com/matzehuels/arbor/pkg/render/branches"
	"github.com/matzehuels/arbor/pkg/render/nodelink"
	"github.com/matzehuels/arbor/pkg/render/palette"
)

// Render generates output artifacts in the requested formats.
// Options are expected to be validated.
func Render(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatJSON:
			data, err = graph.MarshalLayout(l)
		case FormatDOT:
			data = []byte(nodelink.ToDOT(l, nodelinkOptions(opts)))
		case FormatSVG:
			if opts.IsNodelink() {
				data, err = nodelink.RenderSVG(ctx, nodelink.ToDOT(l, nodelinkOptions(opts)))
			} else {
				data = branches.RenderSVG(branches.FromLayout(l), branchOptions(opts)...)
			}
		case FormatPNG:
			data, err = branches.RenderPNG(branches.FromLayout(l), branchOptions(opts)...)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

func nodelinkOptions(opts Options) nodelink.Options {
	return nodelink.Options{Scheme: opts.Scheme, Detailed: opts.Detailed}
}

func branchOptions(opts Options) []branches.Option {
	bg, _ := palette.ParseHex(opts.Background)
	return []branches.Option{
		branches.WithSize(opts.Width, opts.Height),
		branches.WithScheme(opts.Scheme),
		branches.WithBackground(bg),
		branches.WithFit(branches.DefaultPadding),
	}
}
