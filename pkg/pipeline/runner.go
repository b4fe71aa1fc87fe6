package pipeline

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/blocksets/pkg/archive"
	"github.com/matzehuels/blocksets/pkg/cache"
	"github.com/matzehuels/blocksets/pkg/decompose"
	"github.com/matzehuels/blocksets/pkg/errors"
	"github.com/matzehuels/blocksets/pkg/instance"
	"github.com/matzehuels/blocksets/pkg/observability"
	"github.com/matzehuels/blocksets/pkg/split"
)

// Cache key types reported to observability hooks.
const (
	keyTypeSplit     = "split"
	keyTypeDecompose = "decompose"
)

// Runner encapsulates pipeline execution with caching and archiving.
// Both CLI and API use it to avoid duplicating that logic.
//
// The Runner is stateless except for its backends; it doesn't store
// pipeline results. Multiple goroutines can safely use the same Runner
// with different options.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Archive archive.Store // nil disables archiving
	Logger  *log.Logger
}

// NewRunner creates a runner with the given backends.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// The archive may be nil.
func NewRunner(c cache.Cache, keyer cache.Keyer, store archive.Store, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:   c,
		Keyer:   keyer,
		Archive: store,
		Logger:  logger,
	}
}

// Execute validates inst, runs the configured mode with caching and
// archives the run.
func (r *Runner) Execute(ctx context.Context, inst *instance.Instance, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	hash, err := InstanceHash(inst)
	if err != nil {
		return nil, err
	}

	result := &Result{Mode: opts.Mode, InstanceHash: hash}
	result.Stats.Entities, result.Stats.Statements = inst.Size()
	start := time.Now()

	switch opts.Mode {
	case ModeSplit:
		res, hit, err := r.split(ctx, inst, hash, opts)
		if err != nil {
			return nil, fmt.Errorf("split: %w", err)
		}
		result.Split = res
		result.Parts = res.Parts
		result.Stats.Deleted = len(res.Deleted)
		result.CacheInfo.Hit = hit
	case ModeDecompose:
		res, hit, err := r.decompose(ctx, inst, hash, opts)
		if err != nil {
			return nil, fmt.Errorf("decompose: %w", err)
		}
		result.Decompose = res
		result.Parts = res.Instances()
		result.Stats.Deleted = len(res.Deleted)
		result.CacheInfo.Hit = hit
	}
	result.Stats.Parts = len(result.Parts)
	result.Stats.Duration = time.Since(start)

	opts.Logger.Info("computed parts",
		"mode", opts.Mode,
		"entities", result.Stats.Entities,
		"parts", result.Stats.Parts,
		"deleted", result.Stats.Deleted,
		"cached", result.CacheInfo.Hit,
		"duration", result.Stats.Duration)

	if r.Archive != nil {
		run := newRun(result, opts)
		if err := r.Archive.Save(ctx, run); err != nil {
			opts.Logger.Warn("failed to archive run", "error", err)
		} else {
			result.RunID = run.ID
		}
	}
	return result, nil
}

// SplitWithCacheInfo splits inst once and reports whether the result came
// from the cache.
func (r *Runner) SplitWithCacheInfo(ctx context.Context, inst *instance.Instance, opts Options) (*split.Result, bool, error) {
	hash, err := r.prepare(inst, &opts)
	if err != nil {
		return nil, false, err
	}
	return r.split(ctx, inst, hash, opts)
}

// Split is a convenience wrapper that calls SplitWithCacheInfo and discards the cache hit info.
func (r *Runner) Split(ctx context.Context, inst *instance.Instance, opts Options) (*split.Result, error) {
	res, _, err := r.SplitWithCacheInfo(ctx, inst, opts)
	return res, err
}

// DecomposeWithCacheInfo decomposes inst and reports whether the result came
// from the cache.
func (r *Runner) DecomposeWithCacheInfo(ctx context.Context, inst *instance.Instance, opts Options) (*decompose.Result, bool, error) {
	hash, err := r.prepare(inst, &opts)
	if err != nil {
		return nil, false, err
	}
	return r.decompose(ctx, inst, hash, opts)
}

// Decompose is a convenience wrapper that calls DecomposeWithCacheInfo and discards the cache hit info.
func (r *Runner) Decompose(ctx context.Context, inst *instance.Instance, opts Options) (*decompose.Result, error) {
	res, _, err := r.DecomposeWithCacheInfo(ctx, inst, opts)
	return res, err
}

// Run looks up an archived run by id.
func (r *Runner) Run(ctx context.Context, id string) (*archive.Run, error) {
	if r.Archive == nil {
		return nil, errors.New(errors.ErrCodeUnsupported, "run archive is not configured")
	}
	run, err := r.Archive.Get(ctx, id)
	if stderrors.Is(err, archive.ErrNotFound) {
		return nil, errors.New(errors.ErrCodeRunNotFound, "run %q not found", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load run %q", id)
	}
	return run, nil
}

// Runs lists the most recent archived runs.
func (r *Runner) Runs(ctx context.Context, limit int) ([]*archive.Run, error) {
	if r.Archive == nil {
		return nil, errors.New(errors.ErrCodeUnsupported, "run archive is not configured")
	}
	return r.Archive.List(ctx, limit)
}

// Close releases resources held by the runner.
func (r *Runner) Close() error {
	var errs []error
	if r.Cache != nil {
		errs = append(errs, r.Cache.Close())
	}
	if r.Archive != nil {
		errs = append(errs, r.Archive.Close())
	}
	return stderrors.Join(errs...)
}

func (r *Runner) prepare(inst *instance.Instance, opts *Options) (string, error) {
	r.applyLogger(opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return "", fmt.Errorf("invalid options: %w", err)
	}
	if err := inst.Validate(); err != nil {
		return "", err
	}
	return InstanceHash(inst)
}

func (r *Runner) split(ctx context.Context, inst *instance.Instance, hash string, opts Options) (*split.Result, bool, error) {
	key := r.Keyer.SplitKey(hash, opts.SplitKeyOpts())

	var cached split.Result
	if r.lookup(ctx, key, keyTypeSplit, opts, &cached) {
		return &cached, true, nil
	}

	start := time.Now()
	observability.Pipeline().OnSplitStart(ctx, inst.NumEntities())
	res, err := split.SplitContext(ctx, inst, opts.Split)
	if err != nil {
		observability.Pipeline().OnSplitComplete(ctx, 0, 0, time.Since(start), err)
		return nil, false, err
	}
	observability.Pipeline().OnSplitComplete(ctx, len(res.Parts), res.Cost, time.Since(start), nil)

	opts.Logger.Debug("split instance",
		"entities", inst.NumEntities(),
		"candidates", res.Evaluated,
		"cost", res.Cost,
		"degenerate", res.Degenerate)

	r.store(ctx, key, keyTypeSplit, res, cache.SplitTTL)
	return res, false, nil
}

// decomposeEntry is the cached form of a decomposition. Part instances are
// not serialized with the parts and travel separately.
type decomposeEntry struct {
	Result    *decompose.Result    `json:"result"`
	Instances []*instance.Instance `json:"instances"`
}

func (r *Runner) decompose(ctx context.Context, inst *instance.Instance, hash string, opts Options) (*decompose.Result, bool, error) {
	key := r.Keyer.DecomposeKey(hash, opts.DecomposeKeyOpts())

	var cached decomposeEntry
	if r.lookup(ctx, key, keyTypeDecompose, opts, &cached) && cached.Result != nil &&
		len(cached.Instances) == len(cached.Result.Parts) {
		for i := range cached.Result.Parts {
			cached.Result.Parts[i].Instance = cached.Instances[i]
		}
		return cached.Result, true, nil
	}

	start := time.Now()
	observability.Pipeline().OnDecomposeStart(ctx, inst.NumEntities())
	res, err := decompose.Run(ctx, inst, opts.DecomposeOptions())
	if err != nil {
		observability.Pipeline().OnDecomposeComplete(ctx, 0, 0, time.Since(start), err)
		return nil, false, err
	}
	observability.Pipeline().OnDecomposeComplete(ctx, len(res.Parts), len(res.Rounds), time.Since(start), nil)

	opts.Logger.Debug("decomposed instance",
		"entities", inst.NumEntities(),
		"rounds", len(res.Rounds),
		"duplicates", res.TotalDuplicates,
		"truncated", res.Truncated)

	r.store(ctx, key, keyTypeDecompose, decomposeEntry{Result: res, Instances: res.Instances()}, cache.DecomposeTTL)
	return res, false, nil
}

// lookup decodes a cached entry into dst. It reports false on a miss, on a
// backend error, on undecodable data and when opts.Refresh is set.
func (r *Runner) lookup(ctx context.Context, key, keyType string, opts Options, dst any) bool {
	if opts.Refresh {
		return false
	}
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		opts.Logger.Debug("cache read failed", "key", key, "error", err)
	}
	if err != nil || !hit || json.Unmarshal(data, dst) != nil {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return true
}

func (r *Runner) store(ctx context.Context, key, keyType string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Debug("cache write failed", "key", key, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// newRun builds the archive record of a pipeline result.
func newRun(res *Result, opts Options) *archive.Run {
	run := archive.NewRun(archive.Kind(res.Mode), res.InstanceHash)
	run.Params = archive.Params{
		MaxDeletions: opts.Split.MaxDeletions,
		SplitRatio:   opts.Split.SplitRatio,
	}
	run.Entities = res.Stats.Entities
	run.Statements = res.Stats.Statements
	run.Cached = res.CacheInfo.Hit
	run.Duration = res.Stats.Duration

	switch {
	case res.Split != nil:
		for _, p := range res.Split.Parts {
			run.Parts = append(run.Parts, archive.Part{Entities: p.EntityIDs(), Statements: p.NumStatements()})
		}
		run.Deleted = res.Split.Deleted
		run.Cost = res.Split.Cost
		run.Degenerate = res.Split.Degenerate
	case res.Decompose != nil:
		run.Params.MaxEntities = opts.MaxEntities
		run.Params.MaxStatements = opts.MaxStatements
		run.Params.MaxRounds = opts.MaxRounds
		for _, p := range res.Decompose.Parts {
			run.Parts = append(run.Parts, archive.Part{
				Entities:     p.Instance.EntityIDs(),
				Statements:   p.Instance.NumStatements(),
				Depth:        p.Depth,
				Unsplittable: p.Unsplittable,
			})
		}
		run.Deleted = res.Decompose.Deleted
		run.Rounds = len(res.Decompose.Rounds)
		run.Truncated = res.Decompose.Truncated
	}
	return run
}
