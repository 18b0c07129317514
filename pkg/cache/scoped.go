package cache

// ScopedKeyer wraps a Keyer with a prefix so that several frontends can
// share one backend without colliding, e.g. "api:" for the HTTP server.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ResultKey generates a prefixed result key.
func (k *ScopedKeyer) ResultKey(graphHash string, opts ResultKeyOpts) string {
	return k.prefix + k.inner.ResultKey(graphHash, opts)
}
