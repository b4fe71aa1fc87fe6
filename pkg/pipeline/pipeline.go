// Package pipeline runs splits and decompositions for the CLI and the API.
//
// The [Runner] wraps [split.SplitContext] and [decompose.Run] with
// content-hash caching, run archiving and observability hooks, so every
// entry point gets the same behavior.
//
// # Stages
//
//  1. Validate: the instance and the options are checked before any graph work
//  2. Compute: one split, or a recursive decomposition, depending on Mode
//  3. Record: the result is cached and, when an archive is configured, saved
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, store, logger)
//	opts := pipeline.Options{Mode: pipeline.ModeDecompose, MaxEntities: 10}
//	result, err := runner.Execute(ctx, inst, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, part := range result.Parts {
//	    // hand part to the solver
//	}
//
// Run individual stages:
//
//	res, err := runner.Split(ctx, inst, opts)
//	dec, err := runner.Decompose(ctx, inst, opts)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/blocksets/pkg/cache"
	"github.com/matzehuels/blocksets/pkg/decompose"
	"github.com/matzehuels/blocksets/pkg/errors"
	"github.com/matzehuels/blocksets/pkg/instance"
	"github.com/matzehuels/blocksets/pkg/split"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// Modes select what Execute computes.
const (
	// ModeSplit performs a single split.
	ModeSplit = "split"

	// ModeDecompose splits recursively until every part fits.
	ModeDecompose = "decompose"
)

// DefaultMode is the mode used when Options.Mode is empty.
const DefaultMode = ModeDecompose

// ValidModes is the set of supported modes.
var ValidModes = map[string]bool{
	ModeSplit:     true,
	ModeDecompose: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// This struct supports JSON for API requests and TOML for CLI profiles.
type Options struct {
	Mode string `json:"mode,omitempty" toml:"mode"`

	// Split options, used by both modes
	Split split.Options `json:"split" toml:"split"`

	// Decompose options
	MaxEntities   int `json:"max_entities,omitempty" toml:"max_entities"`
	MaxStatements int `json:"max_statements,omitempty" toml:"max_statements"`
	MaxRounds     int `json:"max_rounds,omitempty" toml:"max_rounds"`

	// Refresh skips cache reads; the fresh result is still cached.
	Refresh bool `json:"refresh,omitempty" toml:"-"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-" toml:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies the archived run. Empty when no archive is configured.
	RunID string

	// Mode is the mode that produced this result.
	Mode string

	// InstanceHash is the content hash of the input instance.
	InstanceHash string

	// Parts are the output sub-instances.
	Parts []*instance.Instance

	// Split is set in split mode.
	Split *split.Result

	// Decompose is set in decompose mode.
	Decompose *decompose.Result

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks whether the result came from the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Entities   int
	Statements int
	Parts      int
	Deleted    int
	Duration   time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	Hit bool // Whether the result came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateMode checks that a mode is valid.
func ValidateMode(mode string) error {
	if !ValidModes[mode] {
		return errors.New(errors.ErrCodeInvalidOptions, "invalid mode: %q (must be one of: split, decompose)", mode)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults applies defaults and checks every option.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := ValidateMode(o.Mode); err != nil {
		return err
	}
	if err := o.DecomposeOptions().Validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetDefaults fills zero fields with their defaults.
func (o *Options) SetDefaults() {
	if o.Mode == "" {
		o.Mode = DefaultMode
	}
	o.Split.SetDefaults()
	if o.MaxEntities == 0 {
		o.MaxEntities = decompose.DefaultMaxEntities
	}
	if o.MaxRounds == 0 {
		o.MaxRounds = decompose.DefaultMaxRounds
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// DecomposeOptions returns the options for decompose.Run.
func (o *Options) DecomposeOptions() decompose.Options {
	return decompose.Options{
		Split:         o.Split,
		MaxEntities:   o.MaxEntities,
		MaxStatements: o.MaxStatements,
		MaxRounds:     o.MaxRounds,
	}
}

// SplitKeyOpts returns cache key options for a split.
func (o *Options) SplitKeyOpts() cache.SplitKeyOpts {
	return cache.SplitKeyOpts{
		MaxDeletions: o.Split.MaxDeletions,
		SplitRatio:   o.Split.SplitRatio,
	}
}

// DecomposeKeyOpts returns cache key options for a decomposition.
func (o *Options) DecomposeKeyOpts() cache.DecomposeKeyOpts {
	return cache.DecomposeKeyOpts{
		Split:         o.SplitKeyOpts(),
		MaxEntities:   o.MaxEntities,
		MaxStatements: o.MaxStatements,
		MaxRounds:     o.MaxRounds,
	}
}

// InstanceHash returns the content hash of the canonical JSON encoding of inst.
func InstanceHash(inst *instance.Instance) (string, error) {
	data, err := instance.Marshal(inst)
	if err != nil {
		return "", fmt.Errorf("encode instance: %w", err)
	}
	return cache.Hash(data), nil
}
