package split

import "math"

// OversizePenalty is added to the cost for every component larger than the
// maximum allowed size.
const OversizePenalty = 10

// Cost scores the current partition; lower is better:
//
//	components + deleted + copies + OversizePenalty*oversized + largest/smallest
//
// A partition with fewer than two components did not separate anything and
// scores +Inf.
func (g *Graph) Cost(alpha float64) float64 {
	if len(g.comps) < 2 {
		return math.Inf(1)
	}

	_, maxAllowed := Bounds(g.n, alpha)
	cost := float64(len(g.comps) + len(g.deleted) + g.copies)

	largest, smallest := 0, math.MaxInt
	for _, c := range g.comps {
		if len(c) > maxAllowed {
			cost += OversizePenalty
		}
		largest = max(largest, len(c))
		smallest = min(smallest, len(c))
	}
	return cost + float64(largest)/float64(smallest)
}
