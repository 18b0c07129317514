package ancestry

import (
	"slices"

	"github.com/matzehuels/poatree/pkg/errors"
)

// Snapshot is a serializable copy of a Tree.
//
// Parents[i] is the parent of node i (NoParent for the root). Members[k] is
// the thread-set of internal node Threads+1+k.
type Snapshot struct {
	Threads int          `json:"threads" yaml:"threads"`
	Parents []NodeID     `json:"parents" yaml:"parents"`
	Members [][]ThreadID `json:"members,omitempty" yaml:"members,omitempty"`
}

// Snapshot returns a copy of the tree structure.
func (t *Tree) Snapshot() Snapshot {
	s := Snapshot{Threads: t.threads, Parents: make([]NodeID, len(t.nodes))}
	for i, n := range t.nodes {
		s.Parents[i] = n.Parent
		if n.Kind == KindInternal {
			s.Members = append(s.Members, slices.Clone(n.Members))
		}
	}
	return s
}

// Restore rebuilds a tree from a snapshot and validates it.
func Restore(s Snapshot) (*Tree, error) {
	if s.Threads < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "snapshot: negative thread count %d", s.Threads)
	}
	n := s.Threads + 1 + len(s.Members)
	if len(s.Parents) != n {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"snapshot: %d parents for %d nodes", len(s.Parents), n)
	}

	t := &Tree{nodes: make([]Node, n), threads: s.Threads}
	for i := range t.nodes {
		id := NodeID(i)
		node := Node{ID: id, Parent: s.Parents[i]}
		switch {
		case i == 0:
			node.Kind = KindRoot
		case i <= s.Threads:
			node.Kind = KindLeaf
			node.Members = []ThreadID{ThreadID(i - 1)}
		default:
			node.Kind = KindInternal
			node.Members = slices.Clone(s.Members[i-s.Threads-1])
		}
		t.nodes[i] = node
	}
	for i := 1; i < n; i++ {
		p := s.Parents[i]
		if p < 0 || int(p) >= n {
			return nil, errors.New(errors.ErrCodeInvalidInput, "snapshot: node %d has parent %d", i, p)
		}
		t.nodes[p].Children = append(t.nodes[p].Children, NodeID(i))
	}

	if err := t.Validate(); err != nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "snapshot: %s", err.(*errors.InvariantViolation).Detail)
	}
	if err := t.checkMembers(); err != nil {
		return nil, err
	}
	return t, nil
}

// checkMembers verifies that every internal node's member set is exactly
// the ascending list of threads whose leaves lie below it. The parent
// structure must already be valid.
func (t *Tree) checkMembers() error {
	below := make([][]ThreadID, len(t.nodes))
	for th := range t.threads {
		for p := t.nodes[t.Leaf(ThreadID(th))].Parent; p != RootID; p = t.nodes[p].Parent {
			below[p] = append(below[p], ThreadID(th))
		}
	}
	for i := t.threads + 1; i < len(t.nodes); i++ {
		members := t.nodes[i].Members
		for _, m := range members {
			if m < 0 || int(m) >= t.threads {
				return errors.New(errors.ErrCodeInvalidInput, "snapshot: node %d has unknown member thread %d", i, m)
			}
		}
		if !slices.Equal(members, below[i]) {
			return errors.New(errors.ErrCodeInvalidInput,
				"snapshot: node %d members %v do not match threads below it %v", i, members, below[i])
		}
	}
	return nil
}
