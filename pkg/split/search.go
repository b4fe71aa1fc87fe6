package split

import (
	"context"
	"math"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/blocksets/pkg/instance"
)

// evaluation is one scored candidate deletion set.
type evaluation struct {
	seq   int   // position in the enumeration
	nodes []int // deleted original indices
	graph *Graph
	own   *ownership
	cost  float64
}

// better reports whether e beats other: lower cost first, then earlier
// enumeration position.
func (e *evaluation) better(other *evaluation) bool {
	if other == nil {
		return true
	}
	if e.cost != other.cost {
		return e.cost < other.cost
	}
	return e.seq < other.seq
}

// evaluate applies one candidate to a clone of base: delete, merge,
// duplicate, score.
func evaluate(inst *instance.Instance, base *Graph, seq int, nodes []int, alpha float64) *evaluation {
	g := base.Clone()
	for _, i := range nodes {
		g.Delete(i)
	}
	g.Merge(alpha)
	own := analyze(inst, g.DeletedEntities())
	g.duplicate(own)
	return &evaluation{seq: seq, nodes: nodes, graph: g, own: own, cost: g.Cost(alpha)}
}

// search scores every candidate deletion set and returns the winner, or nil
// when no candidate separates the graph. The winner does not depend on the
// number of workers.
func search(ctx context.Context, inst *instance.Instance, base *Graph, opts Options) (*evaluation, int, error) {
	var (
		mu        sync.Mutex
		best      *evaluation
		evaluated int
	)
	keep := func(ev *evaluation) {
		mu.Lock()
		defer mu.Unlock()
		evaluated++
		if !math.IsInf(ev.cost, 1) && ev.better(best) {
			best = ev
		}
	}

	candidates := Combinations(base.Len(), opts.MaxDeletions)

	if opts.Workers <= 1 {
		seq := 0
		for nodes := range candidates {
			if err := ctx.Err(); err != nil {
				return nil, evaluated, err
			}
			keep(evaluate(inst, base, seq, nodes, opts.SplitRatio))
			seq++
		}
		return best, evaluated, nil
	}

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(opts.Workers)
	seq := 0
	for nodes := range candidates {
		if gctx.Err() != nil {
			break
		}
		s := seq
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			keep(evaluate(inst, base, s, nodes, opts.SplitRatio))
			return nil
		})
		seq++
	}
	if err := eg.Wait(); err != nil {
		return nil, evaluated, err
	}
	if err := ctx.Err(); err != nil {
		return nil, evaluated, err
	}
	return best, evaluated, nil
}
