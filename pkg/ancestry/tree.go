package ancestry

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/poatree/pkg/errors"
	"github.com/matzehuels/poatree/pkg/pograph"
)

// ThreadID identifies a thread by its index in the graph.
type ThreadID = pograph.ThreadID

// NodeID indexes a node in a Tree.
type NodeID int

const (
	// RootID is the ID of the root node.
	RootID NodeID = 0

	// NoParent is the parent of the root.
	NoParent NodeID = -1
)

// Kind distinguishes the three sorts of tree nodes.
type Kind uint8

const (
	KindRoot Kind = iota
	KindLeaf
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindLeaf:
		return "leaf"
	case KindInternal:
		return "internal"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Node is a read-only view of a tree node.
type Node struct {
	ID       NodeID
	Kind     Kind
	Parent   NodeID     // NoParent for the root
	Children []NodeID   // ascending
	Members  []ThreadID // leaf: its thread; internal: the set that created it
}

// Tree is a rooted ancestry tree stored as an arena.
//
// A Tree is not safe for concurrent use.
type Tree struct {
	nodes   []Node
	threads int
}

// NewStar returns the star tree over n threads: a root whose children are the
// n thread leaves.
func NewStar(n int) *Tree {
	t := &Tree{nodes: make([]Node, 1, n+1), threads: n}
	t.nodes[RootID] = Node{ID: RootID, Kind: KindRoot, Parent: NoParent}
	for i := range n {
		id := NodeID(i + 1)
		t.nodes = append(t.nodes, Node{
			ID:      id,
			Kind:    KindLeaf,
			Parent:  RootID,
			Members: []ThreadID{ThreadID(i)},
		})
		t.nodes[RootID].Children = append(t.nodes[RootID].Children, id)
	}
	return t
}

// Root returns the root node ID.
func (t *Tree) Root() NodeID { return RootID }

// Len returns the total number of nodes, root included.
func (t *Tree) Len() int { return len(t.nodes) }

// Threads returns the number of thread leaves.
func (t *Tree) Threads() int { return t.threads }

// InternalCount returns the number of internal nodes created by assembly.
func (t *Tree) InternalCount() int { return len(t.nodes) - t.threads - 1 }

// Leaf returns the node of thread th.
func (t *Tree) Leaf(th ThreadID) NodeID { return NodeID(th) + 1 }

// Parent returns the parent of id, or NoParent for the root.
func (t *Tree) Parent(id NodeID) NodeID { return t.nodes[id].Parent }

// Children returns a copy of the children of id in ascending order.
func (t *Tree) Children(id NodeID) []NodeID { return slices.Clone(t.nodes[id].Children) }

// Node returns a copy of node id.
func (t *Tree) Node(id NodeID) Node {
	n := t.nodes[id]
	n.Children = slices.Clone(n.Children)
	n.Members = slices.Clone(n.Members)
	return n
}

// Depth returns the number of edges between id and the root.
func (t *Tree) Depth(id NodeID) int {
	d := 0
	for p := t.nodes[id].Parent; p != NoParent; p = t.nodes[p].Parent {
		d++
	}
	return d
}

// Label names node id for display. Leaves use the thread name, internal
// nodes join their member names with "+".
func (t *Tree) Label(id NodeID, names []string) string {
	n := t.nodes[id]
	if n.Kind == KindRoot {
		return "root"
	}
	parts := make([]string, len(n.Members))
	for i, m := range n.Members {
		parts[i] = threadName(m, names)
	}
	return strings.Join(parts, "+")
}

func threadName(th ThreadID, names []string) string {
	if th >= 0 && int(th) < len(names) {
		return names[th]
	}
	return fmt.Sprintf("%d", th)
}

// Validate checks the tree invariant: the root has no parent, every other
// node has exactly one parent that lists it exactly once, and every node is
// reachable from the root. It returns an *errors.InvariantViolation.
func (t *Tree) Validate() error {
	if len(t.nodes) < t.threads+1 {
		return violation("tree has %d nodes for %d threads", len(t.nodes), t.threads)
	}
	if r := t.nodes[RootID]; r.Kind != KindRoot || r.Parent != NoParent {
		return violation("node 0 is not a parentless root")
	}

	for i := 1; i < len(t.nodes); i++ {
		n := &t.nodes[i]
		want := KindInternal
		if i <= t.threads {
			want = KindLeaf
		}
		if n.Kind != want {
			return violation("node %d is %s, want %s", i, n.Kind, want)
		}
		if n.Kind == KindLeaf && len(n.Children) > 0 {
			return violation("leaf %d has children", i)
		}
		p := n.Parent
		if p < 0 || int(p) >= len(t.nodes) || p == n.ID {
			return violation("node %d has invalid parent %d", i, p)
		}
		listed := 0
		for _, c := range t.nodes[p].Children {
			if c == n.ID {
				listed++
			}
		}
		if listed != 1 {
			return violation("node %d listed %d times by parent %d", i, listed, p)
		}
	}

	for i := range t.nodes {
		for _, c := range t.nodes[i].Children {
			if c <= 0 || int(c) >= len(t.nodes) || t.nodes[c].Parent != NodeID(i) {
				return violation("node %d lists child %d that does not point back", i, c)
			}
		}
	}

	seen := make([]bool, len(t.nodes))
	queue := []NodeID{RootID}
	seen[RootID] = true
	reached := 1
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, c := range t.nodes[id].Children {
			if seen[c] {
				return violation("node %d reached twice", c)
			}
			seen[c] = true
			reached++
			queue = append(queue, c)
		}
	}
	if reached != len(t.nodes) {
		return violation("%d of %d nodes unreachable from root", len(t.nodes)-reached, len(t.nodes))
	}
	return nil
}

func violation(format string, args ...any) *errors.InvariantViolation {
	return &errors.InvariantViolation{Detail: fmt.Sprintf(format, args...)}
}
