// Package httputil fetches graphs over HTTP.
//
// # Fetching
//
// [Fetcher] downloads a graph document from an http or https URL so that
// the CLI can infer groups for alignments published elsewhere:
//
//	f := httputil.NewFetcher()
//	data, err := f.Get(ctx, "https://example.org/alignments/globins.po")
//
// Bodies larger than the fetcher's limit are rejected rather than truncated.
//
// # Retry
//
// [Retry] re-runs an operation that failed with a [RetryableError]:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// Other failures, such as 404 or 403, are returned immediately. The delay
// between attempts doubles each time.
package httputil
