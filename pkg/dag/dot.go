package dag

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/goccy/go-graphviz"
)

// DOTOptions configures DOT output.
type DOTOptions struct {
	// Detailed adds node metadata to the labels.
	Detailed bool
	// Cluster groups nodes into subgraphs by the value of this metadata key
	// (for example "library"). Empty disables clustering.
	Cluster string
}

// ToDOT converts the graph to Graphviz DOT format. Edges point from a
// dependent to its dependency.
func ToDOT(g *DAG, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=BT;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	if opts.Cluster == "" {
		for _, n := range g.Nodes() {
			writeNode(&buf, "  ", n, opts.Detailed)
		}
	} else {
		groups := map[string][]*Node{}
		var keys []string
		for _, n := range g.Nodes() {
			k := fmt.Sprint(n.Meta[opts.Cluster])
			if _, ok := groups[k]; !ok {
				keys = append(keys, k)
			}
			groups[k] = append(groups[k], n)
		}
		for i, k := range keys {
			fmt.Fprintf(&buf, "  subgraph cluster_%d {\n", i)
			fmt.Fprintf(&buf, "    label=%q;\n", k)
			for _, n := range groups[k] {
				writeNode(&buf, "    ", n, opts.Detailed)
			}
			buf.WriteString("  }\n")
		}
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeNode(buf *bytes.Buffer, indent string, n *Node, detailed bool) {
	label := n.ID
	if detailed && len(n.Meta) > 0 {
		var parts []string
		for _, k := range slices.Sorted(maps.Keys(n.Meta)) {
			parts = append(parts, fmt.Sprintf("%s: %v", k, n.Meta[k]))
		}
		label += "\n" + strings.Join(parts, "\n")
	}
	fmt.Fprintf(buf, "%s%q [label=%q];\n", indent, n.ID, label)
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
	return buf.Bytes(), nil
}
