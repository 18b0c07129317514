package pograph

import (
	"cmp"
	"slices"

	"github.com/matzehuels/poatree/pkg/errors"
)

// ThreadID identifies a thread by its 0-based declaration index.
type ThreadID int

// Thread is one input sequence traced through the graph.
type Thread struct {
	ID   ThreadID
	Name string
}

// Visit records that a thread passes through a node at the given position of
// its own traversal.
type Visit struct {
	Thread   ThreadID `json:"thread"`
	Position int      `json:"position"`
}

// Node is one aligned residue of the graph.
type Node struct {
	Index   int     // Position in Graph.Nodes
	Symbol  rune    // Aligned residue
	Visits  []Visit // Incident threads, in declaration order of the input
	Links   []int   // Structural predecessor nodes
	Aligned []int   // Nodes aligned with this one (the alignment ring)
}

// Incident reports whether thread t passes through the node.
func (n *Node) Incident(t ThreadID) bool {
	return slices.ContainsFunc(n.Visits, func(v Visit) bool { return v.Thread == t })
}

// Graph is a partial-order alignment graph.
//
// The zero value is an empty graph with no threads.
type Graph struct {
	Name    string
	Title   string
	Threads []Thread
	Nodes   []Node
}

// ThreadNames returns thread names indexed by ThreadID.
func (g *Graph) ThreadNames() []string {
	names := make([]string, len(g.Threads))
	for i, t := range g.Threads {
		names[i] = t.Name
	}
	return names
}

// VisitCount returns the total number of thread visits across all nodes.
func (g *Graph) VisitCount() int {
	n := 0
	for i := range g.Nodes {
		n += len(g.Nodes[i].Visits)
	}
	return n
}

// Paths returns, for every thread, the node indices it visits ordered by the
// thread's recorded position. The result is indexed by ThreadID.
//
// Paths assumes a validated graph; visits referencing unknown threads are
// skipped.
func (g *Graph) Paths() [][]int {
	type step struct{ pos, node int }
	steps := make([][]step, len(g.Threads))
	for i := range g.Nodes {
		for _, v := range g.Nodes[i].Visits {
			if int(v.Thread) < 0 || int(v.Thread) >= len(steps) {
				continue
			}
			steps[v.Thread] = append(steps[v.Thread], step{pos: v.Position, node: i})
		}
	}

	paths := make([][]int, len(steps))
	for t, s := range steps {
		slices.SortStableFunc(s, func(a, b step) int { return cmp.Compare(a.pos, b.pos) })
		path := make([]int, len(s))
		for i, st := range s {
			path[i] = st.node
		}
		paths[t] = path
	}
	return paths
}

// Validate checks the structural consistency of the graph and returns a
// *errors.FormatError describing the first problem found.
//
// It verifies that thread IDs are dense and names valid and unique, that
// every visit references a declared thread at most once per node, that no
// thread uses the same position twice, and that link and aligned references
// point at existing nodes.
func (g *Graph) Validate() error {
	seen := make(map[string]bool, len(g.Threads))
	for i, t := range g.Threads {
		if int(t.ID) != i {
			return errors.NewFormatError(0, "thread %q has id %d, want %d", t.Name, t.ID, i)
		}
		if err := errors.ValidateThreadName(t.Name); err != nil {
			return errors.NewFormatError(0, "thread %d: %s", i, errors.UserMessage(err))
		}
		if seen[t.Name] {
			return errors.NewFormatError(0, "duplicate thread name %q", t.Name)
		}
		seen[t.Name] = true
	}

	positions := make([]map[int]bool, len(g.Threads))
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if n.Index != i {
			return errors.NewFormatError(0, "node %d has index %d", i, n.Index)
		}
		onNode := make(map[ThreadID]bool, len(n.Visits))
		for _, v := range n.Visits {
			if v.Thread < 0 || int(v.Thread) >= len(g.Threads) {
				return errors.NewFormatError(0, "node %d references unknown thread %d", i, v.Thread)
			}
			if onNode[v.Thread] {
				return errors.NewFormatError(0, "node %d lists thread %d twice", i, v.Thread)
			}
			onNode[v.Thread] = true
			if positions[v.Thread] == nil {
				positions[v.Thread] = make(map[int]bool)
			}
			if positions[v.Thread][v.Position] {
				return errors.NewFormatError(0, "thread %q visits position %d twice", g.Threads[v.Thread].Name, v.Position)
			}
			positions[v.Thread][v.Position] = true
		}
		if err := checkRefs(i, "link", n.Links, len(g.Nodes)); err != nil {
			return err
		}
		if err := checkRefs(i, "aligned", n.Aligned, len(g.Nodes)); err != nil {
			return err
		}
	}
	return nil
}

func checkRefs(node int, kind string, refs []int, n int) error {
	for _, r := range refs {
		if r < 0 || r >= n {
			return errors.NewFormatError(0, "node %d has %s reference to unknown node %d", node, kind, r)
		}
	}
	return nil
}
