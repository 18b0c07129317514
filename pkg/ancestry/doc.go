// Package ancestry assembles an ancestry tree over the threads of an
// alignment graph and reads the final leaf grouping off it.
//
// # Overview
//
// Assembly starts from a star tree: a root with one leaf per thread. Ranked
// partitions are then applied one at a time with [Tree.Apply]. A partition is
// compatible with the tree when every one of its thread-sets currently hangs
// off a single parent. Compatible partitions refine the tree by inserting an
// internal node for every thread-set of two or more threads whose parent is
// shared with at least one other set of the same partition. Incompatible
// partitions are rejected and leave the tree untouched; earlier decisions are
// never revisited.
//
//	tree, decisions, err := ancestry.Build(len(g.Threads), ranked)
//	if err != nil {
//	    return err // *errors.InvariantViolation or invalid input
//	}
//	groups := ancestry.LeafGroups(tree)
//
// # Tree Layout
//
// The tree is an arena indexed by [NodeID]. Node 0 is the root, nodes 1..n
// are the leaves of threads 0..n-1 and internal nodes follow in creation
// order. Children are always kept in ascending ID order, so a [Snapshot]
// holding only the parent of every node restores an identical tree.
//
// # Invariants
//
// After every inserted node the assembler calls [Tree.Validate]. Every node
// other than the root has exactly one parent that lists it exactly once, and
// every node is reachable from the root. A failure is reported as an
// [errors.InvariantViolation] and means the assembler itself is broken.
//
// # Visualization
//
// [Tree.ToDOT] and [Tree.RenderSVG] render the tree with Graphviz.
package ancestry
