package split

import (
	"fmt"
	"math"
	"slices"
)

// Delete marks the node at original index i as deleted and recomputes only
// the component that contained it. The component is replaced in place by its
// zero or more successor components. Deleting an already deleted node is a
// no-op.
//
// Deletion never joins components: every successor is a subset of the
// component the node was removed from.
func (g *Graph) Delete(i int) {
	if i < 0 || i >= g.n {
		panic(fmt.Sprintf("split: delete of node %d outside graph of %d nodes", i, g.n))
	}
	nd := &g.nodes[i]
	if nd.deleted {
		return
	}
	nd.deleted = true
	g.deleted = append(g.deleted, i)

	c := nd.comp
	nd.comp = -1
	if c < 0 || c >= len(g.comps) {
		return
	}

	rest := slices.DeleteFunc(slices.Clone(g.comps[c]), func(m int) bool { return m == i })
	g.comps = slices.Replace(g.comps, c, c+1, g.traverse(rest)...)
	g.renumber()
}

// Bounds returns the minimum and maximum component sizes allowed for a graph
// of n nodes under split ratio alpha.
func Bounds(n int, alpha float64) (minAllowed, maxAllowed int) {
	minAllowed = int(math.Ceil(alpha * float64(n)))
	maxAllowed = int(math.Floor((1 - alpha) * float64(n)))
	return minAllowed, maxAllowed
}

// Merge balances component sizes. Components are ordered by size (stable),
// then the two smallest are merged for as long as the smallest is below the
// minimum allowed size, more than two components remain and the merged
// component would not exceed the maximum allowed size.
//
// If every node has been deleted the graph switches to the degenerate
// partition: two components, each holding every original node.
func (g *Graph) Merge(alpha float64) {
	if len(g.comps) == 0 {
		all := make([]int, g.n)
		for i := range all {
			all[i] = i
		}
		g.comps = [][]int{all, slices.Clone(all)}
		g.degenerate = true
		return
	}

	minAllowed, maxAllowed := Bounds(g.n, alpha)
	g.sortBySize()
	for len(g.comps) > 2 && len(g.comps[0]) < minAllowed {
		a, b := g.comps[0], g.comps[1]
		if len(a)+len(b) > maxAllowed {
			break
		}
		merged := make([]int, 0, len(a)+len(b))
		merged = append(merged, a...)
		merged = append(merged, b...)
		slices.Sort(merged)
		g.comps = slices.Replace(g.comps, 0, 2, merged)
		g.sortBySize()
	}
	g.renumber()
}

func (g *Graph) sortBySize() {
	slices.SortStableFunc(g.comps, func(a, b []int) int { return len(a) - len(b) })
}

// smallestComponent returns the index of the component with the fewest
// members, preferring the earliest on ties.
func (g *Graph) smallestComponent() int {
	best := 0
	for c := 1; c < len(g.comps); c++ {
		if len(g.comps[c]) < len(g.comps[best]) {
			best = c
		}
	}
	return best
}
