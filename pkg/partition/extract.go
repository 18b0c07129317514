package partition

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/poatree/pkg/pograph"
)

// ExtractOptions controls partition extraction.
type ExtractOptions struct {
	// KeepTrivial keeps partitions with a single thread-set. They never
	// change the assembled tree but are useful when reporting support.
	KeepTrivial bool

	// Workers is the number of goroutines used by ExtractContext.
	// Values below 2 run sequentially.
	Workers int
}

// none marks a missing predecessor or successor.
const none = -1

// neighbor is one thread's view of a node: the nodes it arrives from and
// continues to.
type neighbor struct {
	thread ThreadID
	pred   int
	succ   int
}

// Extract computes the multiset of left and right partitions of every node
// in g. It runs sequentially regardless of opts.Workers.
func Extract(g *pograph.Graph, opts ExtractOptions) *Multiset {
	hood := neighborhoods(g)
	m := NewMultiset()
	for _, ns := range hood {
		addNode(m, ns, opts.KeepTrivial)
	}
	return m
}

// ExtractContext is like Extract but spreads nodes over opts.Workers
// goroutines and honors ctx cancellation. The result equals Extract(g, opts).
func ExtractContext(ctx context.Context, g *pograph.Graph, opts ExtractOptions) (*Multiset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.Workers < 2 || len(g.Nodes) < 2 {
		return Extract(g, opts), nil
	}

	hood := neighborhoods(g)
	workers := min(opts.Workers, len(hood))
	chunk := (len(hood) + workers - 1) / workers
	parts := make([]*Multiset, workers)

	eg, ctx := errgroup.WithContext(ctx)
	for w := range workers {
		lo, hi := w*chunk, min((w+1)*chunk, len(hood))
		eg.Go(func() error {
			m := NewMultiset()
			for i := lo; i < hi; i++ {
				if i%1024 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				addNode(m, hood[i], opts.KeepTrivial)
			}
			parts[w] = m
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	out := NewMultiset()
	for _, m := range parts {
		if m != nil {
			out.Merge(m)
		}
	}
	return out, nil
}

// neighborhoods returns, for each node, the predecessor and successor of
// every incident thread. Threads are listed in ascending ID order.
func neighborhoods(g *pograph.Graph) [][]neighbor {
	hood := make([][]neighbor, len(g.Nodes))
	for t, path := range g.Paths() {
		for i, node := range path {
			nb := neighbor{thread: ThreadID(t), pred: none, succ: none}
			if i > 0 {
				nb.pred = path[i-1]
			}
			if i < len(path)-1 {
				nb.succ = path[i+1]
			}
			hood[node] = append(hood[node], nb)
		}
	}
	return hood
}

// addNode records the left and right partitions of one node.
func addNode(m *Multiset, ns []neighbor, keepTrivial bool) {
	left := groupBy(ns, func(nb neighbor) int { return nb.pred })
	right := groupBy(ns, func(nb neighbor) int { return nb.succ })
	for _, p := range []Partition{left, right} {
		if p.Len() == 0 || (p.IsTrivial() && !keepTrivial) {
			continue
		}
		m.Add(p)
	}
}

// groupBy buckets threads by the node returned by side, skipping threads
// with no neighbor on that side.
func groupBy(ns []neighbor, side func(neighbor) int) Partition {
	var order []int
	groups := make(map[int][]ThreadID)
	for _, nb := range ns {
		key := side(nb)
		if key == none {
			continue
		}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], nb.thread)
	}
	sets := make([][]ThreadID, len(order))
	for i, key := range order {
		sets[i] = groups[key]
	}
	return canonical(sets)
}
