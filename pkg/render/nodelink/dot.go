package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/blocksets/pkg/instance"
	"github.com/matzehuels/blocksets/pkg/render"
	"github.com/matzehuels/blocksets/pkg/split"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds entity ids and statement ids to node and edge labels.
	// When false, nodes show the entity label and edges the shared count.
	Detailed bool

	// Parts lists the entity ids of each output part. Each part is drawn
	// as a cluster.
	Parts [][]int

	// Deleted lists entities removed by the split.
	Deleted []int
}

// PartEntities extracts the entity ids of each part instance.
func PartEntities(parts []*instance.Instance) [][]int {
	out := make([][]int, len(parts))
	for i, p := range parts {
		out[i] = p.EntityIDs()
	}
	return out
}

// ToDOT converts the intersection graph of inst to Graphviz DOT format.
// The resulting DOT string can be rendered with [Render] or [RenderSVG].
func ToDOT(inst *instance.Instance, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=16, color=grey40];\n")
	buf.WriteString("\n")

	deleted := make(map[int]bool, len(opts.Deleted))
	for _, e := range opts.Deleted {
		deleted[e] = true
	}
	placed := make(map[int]bool, inst.NumEntities())
	for _, e := range opts.Deleted {
		placed[e] = true
	}

	for i, part := range opts.Parts {
		fmt.Fprintf(&buf, "  subgraph cluster_%d {\n", i)
		fmt.Fprintf(&buf, "    label=%q;\n", fmt.Sprintf("part %d", i+1))
		buf.WriteString("    style=\"rounded,dashed\";\n")
		buf.WriteString("    color=grey60;\n")
		for _, e := range part {
			if placed[e] {
				continue
			}
			if _, ok := inst.Entities[e]; !ok {
				continue
			}
			placed[e] = true
			writeNode(&buf, "    ", inst, e, false, opts.Detailed)
		}
		buf.WriteString("  }\n")
	}

	for _, e := range inst.EntityIDs() {
		if deleted[e] || !placed[e] {
			writeNode(&buf, "  ", inst, e, deleted[e], opts.Detailed)
		}
	}

	buf.WriteString("\n")
	for _, e := range split.NewGraph(inst).Edges() {
		fmt.Fprintf(&buf, "  %q -- %q [label=%q];\n", nodeID(e.From), nodeID(e.To), fmtEdgeLabel(e, opts.Detailed))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeNode(buf *bytes.Buffer, indent string, inst *instance.Instance, e int, deleted, detailed bool) {
	label := fmtLabel(inst, e, detailed)
	attrs := fmtAttrs(label, deleted)
	fmt.Fprintf(buf, "%s%q [%s];\n", indent, nodeID(e), strings.Join(attrs, ", "))
}

func nodeID(e int) string {
	return strconv.Itoa(e)
}

func fmtLabel(inst *instance.Instance, e int, detailed bool) string {
	name := inst.Entities[e]
	if name == "" {
		name = "e" + strconv.Itoa(e)
	}
	if !detailed {
		return name
	}
	return fmt.Sprintf("%s\nid: %d\nstatements: %s", name, e, joinInts(inst.StatementsOf(e)))
}

func fmtAttrs(label string, deleted bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if deleted {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	}
	return attrs
}

func fmtEdgeLabel(e split.Edge, detailed bool) string {
	if detailed {
		return joinInts(e.Shared)
	}
	return strconv.Itoa(len(e.Shared))
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range slices.Sorted(slices.Values(xs)) {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, ", ")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
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

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// Render produces the diagram in the given format.
func Render(dot, format string) ([]byte, error) {
	switch format {
	case render.FormatDOT:
		return []byte(dot), nil
	case render.FormatSVG:
		return RenderSVG(dot)
	default:
		return nil, render.ValidateFormat(format)
	}
}
