// Package report collects the outcome of one inference run and writes it in
// the supported output formats.
//
// A [Report] holds the leaf grouping, every considered partition with its
// support and assembly outcome, and a snapshot of the ancestry tree. It is
// plain data and round-trips through JSON, which is how the cache stores it.
//
// # Formats
//
//   - text: one line per leaf group, thread names separated by spaces
//   - json, yaml: the full report
//   - newick: the ancestry tree, internal nodes named after their members
//   - dot, svg: the ancestry tree drawn with Graphviz
package report
