package split

import (
	"math/rand/v2"
	"slices"

	"github.com/matzehuels/blocksets/pkg/instance"
)

// build creates an instance with entity ids 1..len(members); every statement
// referenced is registered automatically.
func build(members ...[]int) *instance.Instance {
	in := instance.New()
	for i, list := range members {
		for _, s := range list {
			in.AddStatement(s, "s")
		}
		in.AddEntity(i+1, string(rune('A'+i)), list...)
	}
	return in
}

// chainABCD is A-B share 1, B-C share 2, C-D share 3, A alone owns 4.
func chainABCD() *instance.Instance {
	return build([]int{1, 4}, []int{1, 2}, []int{2, 3}, []int{3})
}

func clique(n int) *instance.Instance {
	lists := make([][]int, n)
	for i := range lists {
		lists[i] = []int{1}
	}
	return build(lists...)
}

// randomInstance generates a small instance with some shared, some private
// and some unowned statements.
func randomInstance(r *rand.Rand) *instance.Instance {
	in := instance.New()
	numStmts := 1 + r.IntN(14)
	for s := 1; s <= numStmts; s++ {
		in.AddStatement(s, "s")
	}
	numEnts := 1 + r.IntN(8)
	for e := 1; e <= numEnts; e++ {
		var list []int
		for s := 1; s <= numStmts; s++ {
			if r.IntN(4) == 0 {
				list = append(list, s)
			}
		}
		if len(list) > 0 && r.IntN(5) == 0 {
			list = append(list, list[0])
		}
		in.AddEntity(e, "e", list...)
	}
	return in
}

func statementUnion(parts []*instance.Instance) []int {
	var all []int
	for _, p := range parts {
		for s := range p.Statements {
			if !slices.Contains(all, s) {
				all = append(all, s)
			}
		}
	}
	slices.Sort(all)
	return all
}

func equalNested(a, b [][]int) bool {
	return slices.EqualFunc(a, b, func(x, y []int) bool { return slices.Equal(x, y) })
}
