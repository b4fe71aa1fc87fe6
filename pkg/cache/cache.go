// Package cache stores split and decomposition results keyed by a content
// hash of the instance and the options that produced them.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the API server
//   - [NullCache]: stores nothing, used when caching is disabled
//
// # Keys
//
// A [Keyer] turns an instance hash plus options into a key. Keys carry a
// readable prefix followed by a SHA-256 of the options, so changing any
// option produces a new key. [NewScopedKeyer] adds a namespace prefix.
package cache

import (
	"context"
	"time"
)

// Default time-to-live values for cached results.
const (
	// SplitTTL applies to single split results.
	SplitTTL = 7 * 24 * time.Hour

	// DecomposeTTL applies to recursive decomposition results.
	DecomposeTTL = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with optional expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the stored bytes and true, or false on a miss.
	// Expired entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer generates cache keys for pipeline stages.
type Keyer interface {
	// SplitKey identifies a single split of the instance with the given hash.
	SplitKey(instanceHash string, opts SplitKeyOpts) string

	// DecomposeKey identifies a recursive decomposition.
	DecomposeKey(instanceHash string, opts DecomposeKeyOpts) string
}

// SplitKeyOpts are the options that change a split result. Workers does not
// affect results and is not part of the key.
type SplitKeyOpts struct {
	MaxDeletions int     `json:"max_deletions"`
	SplitRatio   float64 `json:"split_ratio"`
}

// DecomposeKeyOpts are the options that change a decomposition result.
type DecomposeKeyOpts struct {
	Split         SplitKeyOpts `json:"split"`
	MaxEntities   int          `json:"max_entities"`
	MaxStatements int          `json:"max_statements"`
	MaxRounds     int          `json:"max_rounds"`
}

// DefaultKeyer produces keys of the form "<stage>:<instance hash>:<options hash>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// SplitKey implements Keyer.
func (DefaultKeyer) SplitKey(instanceHash string, opts SplitKeyOpts) string {
	return hashKey("split:"+instanceHash, opts)
}

// DecomposeKey implements Keyer.
func (DefaultKeyer) DecomposeKey(instanceHash string, opts DecomposeKeyOpts) string {
	return hashKey("decompose:"+instanceHash, opts)
}
