package cache

import "fmt"

// Keyer generates cache keys.
type Keyer interface {
	// ResultKey identifies the report computed for a graph under opts.
	ResultKey(graphHash string, opts ResultKeyOpts) string
}

// ResultKeyOpts holds every option that changes an inference result.
type ResultKeyOpts struct {
	KeepTrivial   bool `json:"keep_trivial"`
	MinSupport    int  `json:"min_support"`
	MaxPartitions int  `json:"max_partitions"`
}

// DefaultKeyer produces keys of the form "result:<sha256>".
type DefaultKeyer struct {
	version string
}

// NewDefaultKeyer creates a keyer. Bumping version invalidates every key it
// produced before.
func NewDefaultKeyer() *DefaultKeyer {
	return &DefaultKeyer{version: "v1"}
}

// ResultKey implements Keyer.
func (k *DefaultKeyer) ResultKey(graphHash string, opts ResultKeyOpts) string {
	return hashKey("result", k.version, graphHash, opts)
}

// String describes the keyer for debugging.
func (k *DefaultKeyer) String() string { return fmt.Sprintf("DefaultKeyer(%s)", k.version) }

var _ Keyer = (*DefaultKeyer)(nil)
