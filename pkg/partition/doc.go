// Package partition extracts candidate ancestry groupings from a
// partial-order alignment graph.
//
// # Partitions
//
// A [Partition] is a set of disjoint thread-sets. Each thread-set names
// threads that appear to share a common ancestor at some point of the
// alignment. Partitions are values: they are kept in a canonical form (each
// set sorted, sets ordered lexicographically) so that structurally equal
// partitions compare equal and share a [Partition.Key].
//
// # Extraction
//
// [Extract] walks every thread's path through the graph. At each node N it
// groups the threads passing through N by the node they came from (the left
// partition) and by the node they continue to (the right partition). Threads
// starting at N contribute nothing to its left partition, threads ending at N
// nothing to its right partition.
//
// Every partition observed anywhere in the graph is counted in a [Multiset].
// The count, or support, is the number of node sides that produced the exact
// same grouping.
//
// # Ranking
//
// [Multiset.Ranked] orders entries by descending count. Ties are broken by
// ascending canonical order ([Partition.Compare]), which depends only on the
// partitions themselves. Two extractions of the same graph therefore always
// rank identically, whatever order nodes and threads were visited in.
//
// # Trivial Partitions
//
// A partition with a single thread-set can never refine an ancestry tree, so
// extraction drops it unless [ExtractOptions.KeepTrivial] is set. Empty
// partitions (no thread has a neighbour on that side) are never recorded.
//
// # Concurrency
//
// [ExtractContext] splits the nodes across goroutines and merges their
// multisets by adding counts. Merging is commutative, so the result is
// identical to a sequential run.
package partition
