package ancestry

import (
	"context"
	"strings"
	"testing"
)

func TestToDOT(t *testing.T) {
	tree := nestedTree(t)
	dot := tree.ToDOT([]string{"a", "b", "c", "d", "e"})

	if !strings.HasPrefix(dot, "digraph Ancestry {") {
		t.Error("ToDOT() should start with 'digraph Ancestry {'")
	}
	if !strings.HasSuffix(strings.TrimSpace(dot), "}") {
		t.Error("ToDOT() should end with '}'")
	}

	expected := []string{
		"rankdir=TB",
		"arrowhead=none",
		"n0 [label=\"\", shape=point",
		"label=\"a+b+c\", shape=ellipse",
		"label=\"d+e\", shape=ellipse",
		"label=\"a+b\", shape=ellipse",
		"label=\"e\", shape=box",
	}
	for _, exp := range expected {
		if !strings.Contains(dot, exp) {
			t.Errorf("ToDOT() missing %q", exp)
		}
	}

	// One edge per non-root node.
	if got := strings.Count(dot, " -> "); got != tree.Len()-1 {
		t.Errorf("ToDOT() has %d edges, want %d", got, tree.Len()-1)
	}
}

func TestToDOT_DefaultLabels(t *testing.T) {
	dot := NewStar(2).ToDOT(nil)
	for _, exp := range []string{`label="0"`, `label="1"`, "n0 -> n1;", "n0 -> n2;"} {
		if !strings.Contains(dot, exp) {
			t.Errorf("ToDOT(nil) missing %q", exp)
		}
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := nestedTree(t).RenderSVG(context.Background(), []string{"a", "b", "c", "d", "e"})
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output missing <svg> tag")
	}
}
