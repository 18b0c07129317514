package ancestry

import (
	"fmt"

	"github.com/matzehuels/poatree/pkg/errors"
	"github.com/matzehuels/poatree/pkg/partition"
)

// Outcome describes what applying a partition did to the tree.
type Outcome uint8

const (
	// OutcomeNoop means the partition was compatible but nothing needed
	// refining.
	OutcomeNoop Outcome = iota
	// OutcomeApplied means at least one internal node was created.
	OutcomeApplied
	// OutcomeRejected means some thread-set spanned several parents.
	OutcomeRejected
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNoop:
		return "noop"
	case OutcomeApplied:
		return "applied"
	case OutcomeRejected:
		return "rejected"
	default:
		return fmt.Sprintf("Outcome(%d)", o)
	}
}

// MarshalText encodes the outcome by name.
func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// Decision records how one partition was handled.
type Decision struct {
	Partition partition.Partition
	Count     int
	Outcome   Outcome
	Created   []NodeID   // internal nodes inserted, in creation order
	Conflict  []ThreadID // first thread-set that spanned several parents
}

// Apply refines the tree with p.
//
// If any thread-set of p has threads under different parents, p is rejected
// and the tree is unchanged. Otherwise thread-sets are bucketed by their
// shared parent, and in every bucket holding two or more sets each set of at
// least two threads gets a new internal node between the parent and its
// leaves. The tree is validated after every inserted node.
//
// A thread outside the tree is an ErrCodeInvalidInput error. A broken tree is
// reported as *errors.InvariantViolation; the tree must not be used after
// that.
func (t *Tree) Apply(p partition.Partition) (Decision, error) {
	d := Decision{Partition: p}
	sets := p.Sets()

	for _, s := range sets {
		for _, th := range s {
			if int(th) >= t.threads {
				return d, errors.New(errors.ErrCodeInvalidInput,
					"partition %s names thread %d, tree has %d threads", p, th, t.threads)
			}
		}
	}

	parents := make([]NodeID, len(sets))
	for i, s := range sets {
		parents[i] = t.nodes[t.Leaf(s[0])].Parent
		for _, th := range s[1:] {
			if t.nodes[t.Leaf(th)].Parent != parents[i] {
				d.Outcome = OutcomeRejected
				d.Conflict = s
				return d, nil
			}
		}
	}

	var order []NodeID
	buckets := make(map[NodeID][][]ThreadID)
	for i, s := range sets {
		if _, ok := buckets[parents[i]]; !ok {
			order = append(order, parents[i])
		}
		buckets[parents[i]] = append(buckets[parents[i]], s)
	}

	for _, parent := range order {
		bucket := buckets[parent]
		if len(bucket) < 2 {
			continue
		}
		for _, s := range bucket {
			if len(s) < 2 {
				continue
			}
			id := t.insert(parent, s)
			d.Created = append(d.Created, id)
			if err := t.Validate(); err != nil {
				iv := err.(*errors.InvariantViolation)
				iv.Partition = p.String()
				iv.ThreadSet = partition.FormatSet(s, nil)
				return d, iv
			}
		}
	}

	if len(d.Created) > 0 {
		d.Outcome = OutcomeApplied
	}
	return d, nil
}

// insert creates an internal node under parent and moves the leaves of set
// to it.
func (t *Tree) insert(parent NodeID, set []ThreadID) NodeID {
	id := NodeID(len(t.nodes))
	n := Node{ID: id, Kind: KindInternal, Parent: parent, Members: append([]ThreadID(nil), set...)}
	for _, th := range set {
		leaf := t.Leaf(th)
		t.detach(parent, leaf)
		t.nodes[leaf].Parent = id
		n.Children = append(n.Children, leaf)
	}
	t.nodes = append(t.nodes, n)
	t.nodes[parent].Children = append(t.nodes[parent].Children, id)
	return id
}

func (t *Tree) detach(parent, child NodeID) {
	cs := t.nodes[parent].Children
	for i, c := range cs {
		if c == child {
			t.nodes[parent].Children = append(cs[:i:i], cs[i+1:]...)
			return
		}
	}
}

// Build assembles a tree over the given number of threads by applying
// ranked partitions in order to a star tree. It returns one Decision per
// partition. Assembly stops at the first error.
func Build(threads int, ranked []partition.Entry) (*Tree, []Decision, error) {
	if threads < 0 {
		return nil, nil, errors.New(errors.ErrCodeInvalidInput, "negative thread count %d", threads)
	}
	t := NewStar(threads)
	if err := t.Validate(); err != nil {
		return nil, nil, err
	}

	decisions := make([]Decision, 0, len(ranked))
	for _, e := range ranked {
		d, err := t.Apply(e.Partition)
		if err != nil {
			return nil, decisions, fmt.Errorf("apply %s: %w", e.Partition, err)
		}
		d.Count = e.Count
		decisions = append(decisions, d)
	}
	return t, decisions, nil
}
