package cache

// ScopedKeyer prefixes every key of an inner Keyer, so several users of one
// backend (the CLI and the API server sharing a Redis, say) do not collide.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner with prefix. A nil inner uses the DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// SplitKey implements Keyer.
func (k *ScopedKeyer) SplitKey(instanceHash string, opts SplitKeyOpts) string {
	return k.prefix + k.inner.SplitKey(instanceHash, opts)
}

// DecomposeKey implements Keyer.
func (k *ScopedKeyer) DecomposeKey(instanceHash string, opts DecomposeKeyOpts) string {
	return k.prefix + k.inner.DecomposeKey(instanceHash, opts)
}
