// Package api serves ancestry inference over HTTP.
//
// # Endpoints
//
//	GET  /healthz      liveness probe
//	GET  /v1/version   build information
//	POST /v1/infer     infer the leaf grouping of the posted graph
//
// The body of /v1/infer is an alignment graph in POA text or JSON form.
// Query parameters select the output format (json by default) and the
// pipeline options: min_support, max_partitions, keep_trivial and refresh.
//
// Errors are JSON objects of the form {"error": {"code": ..., "message": ...}}.
// Malformed graphs and bad options are 400, oversized bodies 413 and
// internal faults, including tree invariant violations, 500.
package api
