// Package pkg provides the core libraries for poatree ancestry inference.
//
// # Overview
//
// poatree reads a partial order alignment (POA) graph, in which every
// aligned sequence is a thread walking through shared nodes, and infers
// which sequences group together. Each node splits the threads passing
// through it by their previous and next node; these splits are partitions.
// Partitions that recur across the graph are merged greedily, most frequent
// first, into an ancestry tree whose leaf groups are the answer.
//
// # Architecture
//
// The data flow through poatree:
//
//	POA text or JSON graph
//	         ↓
//	    [pograph] package (parse + validate)
//	         ↓
//	    [partition] package (extract + count partitions)
//	         ↓
//	    [ancestry] package (greedy tree assembly + leaf groups)
//	         ↓
//	    [report] package (text, JSON, YAML, Newick, DOT, SVG)
//
// # Quick Start
//
//	g, _ := pograph.LoadFile("globins.po")
//	m := partition.Extract(g, partition.ExtractOptions{})
//	tree, _, _ := ancestry.Build(len(g.Threads), m.Ranked())
//	for _, group := range ancestry.GroupNames(ancestry.LeafGroups(tree), g.ThreadNames()) {
//	    fmt.Println(strings.Join(group, " "))
//	}
//
// # Main Packages
//
// ## Core Domain Logic
//
// [pograph] - POA graph model, the POAGRAPH text reader, and a JSON codec
// used for content hashing and the HTTP API.
//
// [partition] - Canonical thread partitions, the counting multiset, and the
// parallel extractor.
//
// [ancestry] - The arena-backed ancestry tree, greedy assembly with
// per-partition decisions, leaf groups, snapshots, and DOT/SVG rendering.
//
// [report] - The serializable result of one inference and its writers.
//
// ## Infrastructure
//
// [pipeline] - Extract, assemble, and render with caching, used by both the
// CLI and the HTTP API. Also owns the TOML configuration file.
//
// [cache] - Result caches: file (CLI), redis (API), and null.
//
// [httputil] - Fetching graphs over HTTP with retries.
//
// [api] - The chi-based HTTP server.
//
// [observability] - Pipeline, cache, and HTTP hooks with a logging
// implementation.
//
// [errors] - Coded errors shared by all packages.
//
// [buildinfo] - Version information injected at build time.
//
// # Testing
//
//	go test ./...              # All tests
//	go test ./pkg/ancestry/... # Specific package
//	go test -run Example ./... # Examples only
package pkg
