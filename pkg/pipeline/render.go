package pipeline

import (
	"fmt"

	"github.com/matzehuels/plotcraft/pkg/figure"
	"github.com/matzehuels/plotcraft/pkg/render"
	"github.com/matzehuels/plotcraft/pkg/render/page"
)

// Render writes fig in each of opts.Formats.
func Render(fig *figure.Figure, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := renderFormat(fig, format, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderFormat(fig *figure.Figure, format string, opts Options) ([]byte, error) {
	switch format {
	case render.FormatJSON:
		return fig.JSON()
	case render.FormatHTML:
		return page.Render(fig, page.Options{Title: opts.Title, PlotlyURL: opts.PlotlyURL})
	}
	return nil, fmt.Errorf("unsupported figure format: %s", format)
}
