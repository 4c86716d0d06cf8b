package schemagraph

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/plotcraft/pkg/errors"
	"github.com/matzehuels/plotcraft/pkg/schema"
)

// Options configures schema graph rendering.
type Options struct {
	// Detailed adds the accepted-values description to leaf labels.
	// When false, leaves show their name, kind and edit type.
	Detailed bool
}

// ToDOT converts the catalogue subtree under root to Graphviz DOT format.
// An empty root draws the whole catalogue. Containers are drawn as grey
// boxes and attributes as white rounded boxes.
//
// It fails with NOT_FOUND when no attribute lies under root.
func ToDOT(reg *schema.Registry, root string, opts Options) (string, error) {
	validators := reg.Under(root)
	if len(validators) == 0 {
		return "", errors.New(errors.ErrCodeNotFound, "no attributes under %q", root)
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.15;\n")
	buf.WriteString("\n")

	containers := containerPaths(validators, root)
	for _, c := range containers {
		fmt.Fprintf(&buf, "  %q [label=%q, style=filled, fillcolor=lightgrey];\n", c, lastSegment(c))
	}
	for _, v := range validators {
		fmt.Fprintf(&buf, "  %q [label=%q];\n", v.Path(), fmtLabel(v, opts.Detailed))
	}

	buf.WriteString("\n")
	for _, c := range containers {
		if parent := parentOf(c); parent != "" && c != root {
			fmt.Fprintf(&buf, "  %q -> %q;\n", parent, c)
		}
	}
	for _, v := range validators {
		if v.ParentPath != "" && v.Path() != root {
			fmt.Fprintf(&buf, "  %q -> %q;\n", v.ParentPath, v.Path())
		}
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

// containerPaths lists every ancestor of the validators at or below root,
// sorted.
func containerPaths(validators []*schema.Validator, root string) []string {
	seen := make(map[string]bool)
	for _, v := range validators {
		for p := v.ParentPath; p != ""; p = parentOf(p) {
			if root != "" && p != root && !strings.HasPrefix(p, root+".") {
				break
			}
			seen[p] = true
		}
	}
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

func fmtLabel(v *schema.Validator, detailed bool) string {
	label := fmt.Sprintf("%s\n%s · %s", v.Name, v.Rule.Kind(), v.EditType)
	if detailed {
		label += "\n" + v.Describe()
	}
	return label
}

func parentOf(path string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		return path[:i]
	}
	return ""
}

func lastSegment(path string) string {
	return path[strings.LastIndexByte(path, '.')+1:]
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the drawing starts at the
// origin and scales with its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
