package cache

// ScopedKeyer wraps a Keyer with a prefix so several tenants can share one
// backend without colliding.
//
// Example usage:
//
//	// Keys for one API client
//	clientKeyer := NewScopedKeyer(NewDefaultKeyer(), "client:abc123:")
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

// StepsKey generates a prefixed key for step caching.
func (k *ScopedKeyer) StepsKey(dataHash string, opts StepsKeyOpts) string {
	return k.prefix + k.inner.StepsKey(dataHash, opts)
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(stepsHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(stepsHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
