package ancestry

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
)

// ToDOT returns a Graphviz DOT representation of the tree.
//
// The root is drawn as a point, internal nodes as ellipses labeled with
// their members and thread leaves as rounded boxes. names maps thread IDs
// to display names; missing entries fall back to the numeric ID.
func (t *Tree) ToDOT(names []string) string {
	var buf bytes.Buffer
	buf.WriteString("digraph Ancestry {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontname=\"SF Mono, Menlo, monospace\", fontsize=14, style=filled, fillcolor=white];\n")
	buf.WriteString("  edge [arrowhead=none];\n\n")

	for _, n := range t.nodes {
		id := fmt.Sprintf("n%d", n.ID)
		switch n.Kind {
		case KindRoot:
			fmt.Fprintf(&buf, "  %s [label=\"\", shape=point, width=0.15];\n", id)
		case KindInternal:
			fmt.Fprintf(&buf, "  %s [label=%q, shape=ellipse];\n", id, t.Label(n.ID, names))
		case KindLeaf:
			fmt.Fprintf(&buf, "  %s [label=%q, shape=box, style=\"filled,rounded\"];\n", id, t.Label(n.ID, names))
		}
	}
	for _, n := range t.nodes {
		for _, c := range n.Children {
			fmt.Fprintf(&buf, "  n%d -> n%d;\n", n.ID, c)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders ToDOT(names) to an SVG document with Graphviz.
func (t *Tree) RenderSVG(ctx context.Context, names []string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(t.ToDOT(names)))
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
