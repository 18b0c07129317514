package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/evolbioinfo/gotree/tree"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/poatree/pkg/ancestry"
	"github.com/matzehuels/poatree/pkg/errors"
)

// Output format names.
const (
	FormatText   = "text"
	FormatJSON   = "json"
	FormatYAML   = "yaml"
	FormatNewick = "newick"
	FormatDOT    = "dot"
	FormatSVG    = "svg"
)

// Formats lists every supported output format.
var Formats = []string{FormatText, FormatJSON, FormatYAML, FormatNewick, FormatDOT, FormatSVG}

// ValidateFormat reports whether format is supported.
func ValidateFormat(format string) error {
	for _, f := range Formats {
		if f == format {
			return nil
		}
	}
	return errors.New(errors.ErrCodeUnsupported, "unsupported format %q (want one of %s)",
		format, strings.Join(Formats, ", "))
}

// Write writes r to w in the given format.
func Write(ctx context.Context, w io.Writer, r *Report, format string) error {
	switch format {
	case FormatText:
		return WriteText(w, r)
	case FormatJSON:
		return WriteJSON(w, r)
	case FormatYAML:
		return WriteYAML(w, r)
	case FormatNewick:
		return WriteNewick(w, r)
	case FormatDOT:
		t, err := r.AncestryTree()
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, t.ToDOT(r.Threads))
		return err
	case FormatSVG:
		t, err := r.AncestryTree()
		if err != nil {
			return err
		}
		svg, err := t.RenderSVG(ctx, r.Threads)
		if err != nil {
			return err
		}
		_, err = w.Write(svg)
		return err
	default:
		return ValidateFormat(format)
	}
}

// WriteText writes one line per leaf group with space-separated thread
// names.
func WriteText(w io.Writer, r *Report) error {
	for _, g := range r.Groups {
		if _, err := fmt.Fprintln(w, strings.Join(g, " ")); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON writes the full report as indented JSON.
func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadJSON decodes a report written by WriteJSON.
func ReadJSON(data []byte) (*Report, error) {
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &r, nil
}

// WriteYAML writes the full report as YAML.
func WriteYAML(w io.Writer, r *Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return enc.Close()
}

// WriteNewick writes the ancestry tree in Newick format. Leaves carry
// thread names and internal nodes the "+"-joined names of their members.
func WriteNewick(w io.Writer, r *Report) error {
	t, err := r.AncestryTree()
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, Newick(t, r.Threads)+"\n")
	return err
}

// Newick converts an ancestry tree to a Newick string.
func Newick(t *ancestry.Tree, names []string) string {
	nt := tree.NewTree()
	nodes := make([]*tree.Node, t.Len())
	for i := range nodes {
		nodes[i] = nt.NewNode()
		if id := ancestry.NodeID(i); id != t.Root() {
			nodes[i].SetName(t.Label(id, names))
		}
	}
	nt.SetRoot(nodes[t.Root()])
	for i := 1; i < t.Len(); i++ {
		id := ancestry.NodeID(i)
		nt.ConnectNodes(nodes[t.Parent(id)], nodes[i])
	}
	return nt.Newick()
}
