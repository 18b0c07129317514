// Package pograph provides the in-memory model of a partial-order alignment
// (POA) graph and readers for the formats it is stored in.
//
// # Overview
//
// A POA graph aligns a set of sequences, called threads, into a single
// directed graph. Each [Node] holds one aligned residue and records which
// threads pass through it, together with the position of the node in each
// thread's own traversal. Following a thread from position 0 upwards recovers
// the sequence of nodes it visits, which is what partition extraction needs.
//
// # Formats
//
// [ReadPOA] decodes the text format written by the poa aligner:
//
//	VERSION=POAGRAPH 1.0
//	NAME=example
//	LENGTH=3
//	SOURCECOUNT=2
//	SOURCENAME=seqA
//	SOURCENAME=seqB
//	A:S0S1
//	C:L0S0A2
//	G:L0S1A1
//
// Node lines carry L (link to an earlier node), S (thread passes through) and
// A (aligned ring member) labels. Threads are numbered in SOURCENAME order and
// positions are assigned in file order.
//
// [ReadJSON] decodes a JSON rendition of the same model with explicit
// positions. [Load] sniffs the input and dispatches to the right reader.
//
// # Errors
//
// Every decoding failure is reported as an [errors.FormatError] carrying the
// 1-based line number when one applies.
//
// # Concurrency
//
// A loaded [Graph] is never mutated and is safe for concurrent reads.
//
// [errors.FormatError]: github.com/matzehuels/poatree/pkg/errors.FormatError
package pograph
