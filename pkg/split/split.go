package split

import (
	"context"
	"slices"

	"github.com/matzehuels/blocksets/pkg/errors"
	"github.com/matzehuels/blocksets/pkg/instance"
)

// =============================================================================
// Defaults
// =============================================================================

const (
	// DefaultMaxDeletions bounds the size of candidate deletion sets.
	// Enumeration cost grows as the sum of C(n, i) for i up to this bound.
	DefaultMaxDeletions = 5

	// DefaultSplitRatio is the balance coefficient alpha. Components should
	// hold between ceil(alpha*n) and floor((1-alpha)*n) entities.
	DefaultSplitRatio = 1.0 / 3.0

	// DefaultWorkers scores candidates sequentially.
	DefaultWorkers = 1
)

// Options configures a split. Zero fields take their Default* values.
type Options struct {
	MaxDeletions int     `json:"max_deletions,omitempty" toml:"max_deletions"`
	SplitRatio   float64 `json:"split_ratio,omitempty" toml:"split_ratio"`
	Workers      int     `json:"workers,omitempty" toml:"workers"`
}

// SetDefaults fills zero fields with their defaults.
func (o *Options) SetDefaults() {
	if o.MaxDeletions == 0 {
		o.MaxDeletions = DefaultMaxDeletions
	}
	if o.SplitRatio == 0 {
		o.SplitRatio = DefaultSplitRatio
	}
	if o.Workers == 0 {
		o.Workers = DefaultWorkers
	}
}

// Validate checks the option ranges. Call SetDefaults first.
func (o Options) Validate() error {
	if err := errors.ValidateMaxDeletions(o.MaxDeletions); err != nil {
		return err
	}
	if err := errors.ValidateSplitRatio(o.SplitRatio); err != nil {
		return err
	}
	if o.Workers < 1 {
		return errors.New(errors.ErrCodeInvalidOptions, "workers must be at least 1, got %d", o.Workers)
	}
	return nil
}

// =============================================================================
// Result
// =============================================================================

// Result is the outcome of one split.
type Result struct {
	// Parts holds one freshly allocated sub-instance per component.
	Parts []*instance.Instance

	// Deleted lists the entity ids removed to separate the graph, in
	// deletion order.
	Deleted []int

	// Candidate is the winning deletion set as graph node indices.
	// It is nil for the degenerate fallback.
	Candidate []int

	// Cost is the score of the winning candidate, zero when Degenerate.
	Cost float64

	// Copies counts the deleted-entity copies placed to preserve
	// relationships across parts.
	Copies int

	// Degenerate is set when no candidate separated the instance. Parts
	// then holds two identical copies of the input.
	Degenerate bool

	// Evaluated is the number of candidates scored.
	Evaluated int
}

// =============================================================================
// Entry Points
// =============================================================================

// Split decomposes inst using the given options. See [SplitContext].
func Split(inst *instance.Instance, opts Options) (*Result, error) {
	return SplitContext(context.Background(), inst, opts)
}

// SplitContext decomposes inst into sub-instances by deleting the
// lowest-cost set of at most MaxDeletions entities.
//
// Malformed input and invalid options are reported before any graph work.
// An instance that cannot be separated is not an error: the result is then
// Degenerate. The only other error is cancellation of ctx.
func SplitContext(ctx context.Context, inst *instance.Instance, opts Options) (*Result, error) {
	best, evaluated, err := run(ctx, inst, opts)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Parts:      reconstruct(inst, best.graph, best.own),
		Deleted:    best.graph.DeletedEntities(),
		Copies:     best.graph.Copies(),
		Degenerate: best.graph.Degenerate(),
		Evaluated:  evaluated,
	}
	if !res.Degenerate {
		res.Candidate = slices.Clone(best.nodes)
		res.Cost = best.cost
	}
	return res, nil
}

// Winner runs the candidate search without reconstructing instances and
// returns the winning graph after duplication, or the degenerate graph when
// nothing separates.
func Winner(ctx context.Context, inst *instance.Instance, opts Options) (*Graph, error) {
	best, _, err := run(ctx, inst, opts)
	if err != nil {
		return nil, err
	}
	return best.graph, nil
}

func run(ctx context.Context, inst *instance.Instance, opts Options) (*evaluation, int, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, 0, err
	}
	if err := inst.Validate(); err != nil {
		return nil, 0, err
	}

	base := NewGraph(inst)
	best, evaluated, err := search(ctx, inst, base, opts)
	if err != nil {
		return nil, evaluated, err
	}
	if best != nil {
		return best, evaluated, nil
	}

	// Nothing separates: delete every node and take the two-copy partition.
	g := base.Clone()
	for i := range g.Len() {
		g.Delete(i)
	}
	g.Merge(opts.SplitRatio)
	return &evaluation{seq: -1, graph: g}, evaluated, nil
}
