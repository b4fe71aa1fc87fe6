// Package decompose splits an instance recursively until every piece is small
// enough for a downstream solver.
//
// [Run] keeps a FIFO queue of instances. An instance within the size limits
// is accepted as a part; anything larger is split with [split.SplitContext]
// and its parts are queued. Two situations stop recursion on an oversized
// instance:
//
//   - The split was degenerate. The instance is accepted unchanged and
//     flagged Unsplittable; the two identical copies are discarded.
//   - A part is not strictly smaller than its parent. It is accepted and
//     flagged Unsplittable, which guarantees termination.
//
// MaxRounds caps the total number of splits as a last resort.
package decompose

import (
	"context"
	"maps"
	"slices"

	"github.com/matzehuels/blocksets/pkg/errors"
	"github.com/matzehuels/blocksets/pkg/instance"
	"github.com/matzehuels/blocksets/pkg/split"
)

const (
	// DefaultMaxEntities is the largest entity count accepted without a split.
	DefaultMaxEntities = 12

	// DefaultMaxRounds caps the number of split calls per run.
	DefaultMaxRounds = 1000
)

// Options configures a recursive decomposition.
type Options struct {
	Split         split.Options `json:"split" toml:"split"`
	MaxEntities   int           `json:"max_entities,omitempty" toml:"max_entities"`
	MaxStatements int           `json:"max_statements,omitempty" toml:"max_statements"` // 0 = unlimited
	MaxRounds     int           `json:"max_rounds,omitempty" toml:"max_rounds"`
}

// SetDefaults fills zero fields with their defaults.
func (o *Options) SetDefaults() {
	o.Split.SetDefaults()
	if o.MaxEntities == 0 {
		o.MaxEntities = DefaultMaxEntities
	}
	if o.MaxRounds == 0 {
		o.MaxRounds = DefaultMaxRounds
	}
}

// Validate checks option ranges. Call SetDefaults first.
func (o Options) Validate() error {
	if err := o.Split.Validate(); err != nil {
		return err
	}
	if o.MaxEntities < 1 {
		return errors.New(errors.ErrCodeInvalidOptions, "max entities must be at least 1, got %d", o.MaxEntities)
	}
	if o.MaxStatements < 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "max statements must not be negative, got %d", o.MaxStatements)
	}
	if o.MaxRounds < 1 {
		return errors.New(errors.ErrCodeInvalidOptions, "max rounds must be at least 1, got %d", o.MaxRounds)
	}
	return nil
}

// Fits reports whether inst is within the size limits.
func (o Options) Fits(inst *instance.Instance) bool {
	if inst.NumEntities() > o.MaxEntities {
		return false
	}
	return o.MaxStatements == 0 || inst.NumStatements() <= o.MaxStatements
}

// Part is an accepted piece of the decomposition.
type Part struct {
	ID       int                `json:"id"`
	Parent   int                `json:"parent"` // ID of the instance this part was split from, -1 for the root
	Depth    int                `json:"depth"`
	Instance *instance.Instance `json:"-"`

	// Unsplittable is set when the part exceeds the limits but could not
	// be split further.
	Unsplittable bool `json:"unsplittable,omitempty"`
}

// Oversized reports whether the part exceeds the limits it was cut for.
func (p Part) Oversized(opts Options) bool { return !opts.Fits(p.Instance) }

// Round records one split call.
type Round struct {
	ID         int     `json:"id"` // ID of the instance that was split
	Depth      int     `json:"depth"`
	Entities   int     `json:"entities"`
	Statements int     `json:"statements"`
	Deleted    []int   `json:"deleted"`
	Parts      int     `json:"parts"`
	Cost       float64 `json:"cost"`
	Evaluated  int     `json:"evaluated"`
	Degenerate bool    `json:"degenerate,omitempty"`
}

// Result is the outcome of a decomposition.
type Result struct {
	Parts   []Part  `json:"parts"`
	Rounds  []Round `json:"rounds"`
	Deleted []int   `json:"deleted"` // union of deleted entities, ascending

	// DuplicatedEntities counts root entities present in more than one part.
	DuplicatedEntities int `json:"duplicated_entities"`
	// TotalDuplicates counts surplus occurrences: an entity in k parts adds k-1.
	TotalDuplicates int `json:"total_duplicates"`

	// Truncated is set when MaxRounds stopped the run early.
	Truncated bool `json:"truncated,omitempty"`
}

// Instances returns the part instances in acceptance order.
func (r *Result) Instances() []*instance.Instance {
	out := make([]*instance.Instance, len(r.Parts))
	for i, p := range r.Parts {
		out[i] = p.Instance
	}
	return out
}

type item struct {
	inst   *instance.Instance
	id     int
	parent int
	depth  int
}

// Run decomposes inst until every part fits opts or cannot be split further.
func Run(ctx context.Context, inst *instance.Instance, opts Options) (*Result, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := inst.Validate(); err != nil {
		return nil, err
	}

	res := &Result{}
	deleted := make(map[int]bool)
	nextID := 1
	queue := []item{{inst: inst.Clone(), id: 0, parent: -1}}

	accept := func(it item, unsplittable bool) {
		res.Parts = append(res.Parts, Part{
			ID:           it.id,
			Parent:       it.parent,
			Depth:        it.depth,
			Instance:     it.inst,
			Unsplittable: unsplittable,
		})
	}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		it := queue[0]
		queue = queue[1:]

		if opts.Fits(it.inst) {
			accept(it, false)
			continue
		}
		if len(res.Rounds) >= opts.MaxRounds {
			res.Truncated = true
			accept(it, true)
			continue
		}

		sr, err := split.SplitContext(ctx, it.inst, opts.Split)
		if err != nil {
			return nil, err
		}
		res.Rounds = append(res.Rounds, Round{
			ID:         it.id,
			Depth:      it.depth,
			Entities:   it.inst.NumEntities(),
			Statements: it.inst.NumStatements(),
			Deleted:    sr.Deleted,
			Parts:      len(sr.Parts),
			Cost:       sr.Cost,
			Evaluated:  sr.Evaluated,
			Degenerate: sr.Degenerate,
		})

		if sr.Degenerate {
			accept(it, true)
			continue
		}
		for _, e := range sr.Deleted {
			deleted[e] = true
		}
		for _, p := range sr.Parts {
			child := item{inst: p, id: nextID, parent: it.id, depth: it.depth + 1}
			nextID++
			if p.NumEntities() >= it.inst.NumEntities() {
				accept(child, !opts.Fits(p))
				continue
			}
			queue = append(queue, child)
		}
	}

	res.Deleted = slices.Sorted(maps.Keys(deleted))
	res.DuplicatedEntities, res.TotalDuplicates = duplication(inst, res.Parts)
	return res, nil
}

// duplication counts root entities occurring in several parts.
func duplication(root *instance.Instance, parts []Part) (entities, total int) {
	for _, e := range root.EntityIDs() {
		n := 0
		for _, p := range parts {
			if _, ok := p.Instance.Entities[e]; ok {
				n++
			}
		}
		if n > 1 {
			entities++
			total += n - 1
		}
	}
	return entities, total
}
