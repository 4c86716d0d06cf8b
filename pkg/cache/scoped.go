package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
//
// Example usage:
//
//	// Per-user keys on a shared server
//	userKeyer := NewScopedKeyer(NewDefaultKeyer(), "user:abc123:")
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

// FigureKey generates a prefixed key for figure caching.
func (k *ScopedKeyer) FigureKey(requestHash string, opts FigureKeyOpts) string {
	return k.prefix + k.inner.FigureKey(requestHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(figureHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(figureHash, opts)
}
