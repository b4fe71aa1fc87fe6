package split

import (
	"math/rand/v2"
	"slices"
	"testing"
)

func TestDeleteSplitsComponent(t *testing.T) {
	g := NewGraph(chainABCD())
	g.Delete(1) // B

	want := [][]int{{1}, {3, 4}}
	if got := g.ComponentEntities(); !equalNested(got, want) {
		t.Errorf("ComponentEntities() = %v, want %v", got, want)
	}
	if got := g.DeletedEntities(); !slices.Equal(got, []int{2}) {
		t.Errorf("DeletedEntities() = %v, want [2]", got)
	}

	g.Delete(1)
	if got := g.DeletedEntities(); len(got) != 1 {
		t.Errorf("second Delete changed deleted set: %v", got)
	}
}

func TestDeleteSplicesInPlace(t *testing.T) {
	// Components [1 2 3] [4 5]; deleting 2 splits the first in place.
	g := NewGraph(build([]int{1}, []int{1, 2}, []int{2}, []int{3}, []int{3}))
	g.Delete(1)

	want := [][]int{{1}, {3}, {4, 5}}
	if got := g.ComponentEntities(); !equalNested(got, want) {
		t.Errorf("ComponentEntities() = %v, want %v", got, want)
	}
}

func TestDeleteLastMember(t *testing.T) {
	g := NewGraph(build([]int{1}, []int{2}))
	g.Delete(0)
	if got := g.ComponentEntities(); !equalNested(got, [][]int{{2}}) {
		t.Errorf("ComponentEntities() = %v, want [[2]]", got)
	}
}

func TestDeletePanicsOutOfRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Delete(out of range) did not panic")
		}
	}()
	NewGraph(chainABCD()).Delete(9)
}

// Deleting nodes only ever splits components: two surviving nodes in
// different components stay in different components.
func TestDeleteNeverJoins(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	for iter := 0; iter < 200; iter++ {
		inst := randomInstance(r)
		g := NewGraph(inst)
		order := r.Perm(g.Len())

		for _, d := range order {
			before := compOf(g)
			g.Delete(d)
			after := compOf(g)

			for u := range g.Len() {
				for v := u + 1; v < g.Len(); v++ {
					cu, okU := after[u]
					cv, okV := after[v]
					if !okU || !okV {
						continue
					}
					if before[u] != before[v] && cu == cv {
						t.Fatalf("iter %d: deleting %d joined nodes %d and %d", iter, d, u, v)
					}
				}
			}

			total := 0
			for _, c := range g.Components() {
				total += len(c)
			}
			if want := g.Len() - len(g.DeletedEntities()); total != want {
				t.Fatalf("iter %d: components hold %d nodes, want %d", iter, total, want)
			}
		}
	}
}

func compOf(g *Graph) map[int]int {
	m := make(map[int]int)
	for c, members := range g.Components() {
		for _, i := range members {
			m[i] = c
		}
	}
	return m
}

func TestBounds(t *testing.T) {
	tests := []struct {
		n        int
		alpha    float64
		min, max int
	}{
		{4, 1.0 / 3, 2, 2},
		{8, 1.0 / 3, 3, 5},
		{10, 0.25, 3, 7},
		{1, 1.0 / 3, 1, 0},
	}
	for _, tt := range tests {
		lo, hi := Bounds(tt.n, tt.alpha)
		if lo != tt.min || hi != tt.max {
			t.Errorf("Bounds(%d, %v) = (%d, %d), want (%d, %d)", tt.n, tt.alpha, lo, hi, tt.min, tt.max)
		}
	}
}

func TestMerge(t *testing.T) {
	// Three isolated entities and a chain of five.
	g := NewGraph(build([]int{1}, []int{2}, []int{3},
		[]int{10}, []int{10, 11}, []int{11, 12}, []int{12, 13}, []int{13}))
	if len(g.Components()) != 4 {
		t.Fatalf("initial components = %v, want 4", g.ComponentEntities())
	}

	g.Merge(1.0 / 3)

	want := [][]int{{1, 2, 3}, {4, 5, 6, 7, 8}}
	if got := g.ComponentEntities(); !equalNested(got, want) {
		t.Errorf("ComponentEntities() = %v, want %v", got, want)
	}
}

func TestMergeStopsAtUpperBound(t *testing.T) {
	// Sizes 1, 3, 3, 3 with n = 10 and alpha = 0.35: min 4, max 6.
	// 1+3 = 4 merges, then 3+3 = 6 merges, leaving two components.
	g := NewGraph(build([]int{1},
		[]int{2}, []int{2}, []int{2},
		[]int{3}, []int{3}, []int{3},
		[]int{4}, []int{4}, []int{4}))
	g.Merge(0.35)

	sizes := componentSizes(g)
	if !slices.Equal(sizes, []int{4, 6}) {
		t.Errorf("sizes = %v, want [4 6]", sizes)
	}

	// With alpha = 0.45 the maximum is 5, so 1+3 merges and 3+3 does not.
	g = NewGraph(build([]int{1},
		[]int{2}, []int{2}, []int{2},
		[]int{3}, []int{3}, []int{3},
		[]int{4}, []int{4}, []int{4}))
	g.Merge(0.45)
	if sizes := componentSizes(g); !slices.Equal(sizes, []int{3, 3, 4}) {
		t.Errorf("sizes = %v, want [3 3 4]", sizes)
	}
}

func componentSizes(g *Graph) []int {
	var sizes []int
	for _, c := range g.Components() {
		sizes = append(sizes, len(c))
	}
	return sizes
}

func TestMergeDegenerate(t *testing.T) {
	g := NewGraph(clique(3))
	for i := range g.Len() {
		g.Delete(i)
	}
	g.Merge(1.0 / 3)

	if !g.Degenerate() {
		t.Error("Degenerate() = false, want true")
	}
	want := [][]int{{1, 2, 3}, {1, 2, 3}}
	if got := g.ComponentEntities(); !equalNested(got, want) {
		t.Errorf("ComponentEntities() = %v, want %v", got, want)
	}
}

// Merging never produces a component above the upper bound unless a
// component already exceeded it before merging.
func TestMergeBalanceBound(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 5))
	for iter := 0; iter < 300; iter++ {
		g := NewGraph(randomInstance(r))
		if g.Len() < 2 {
			continue
		}
		g.Delete(r.IntN(g.Len()))
		if len(g.Components()) == 0 {
			continue
		}

		alpha := 0.1 + r.Float64()*0.35
		_, maxAllowed := Bounds(g.Len(), alpha)
		largestBefore := slices.Max(componentSizes(g))

		g.Merge(alpha)
		for _, size := range componentSizes(g) {
			if size > max(maxAllowed, largestBefore) {
				t.Fatalf("iter %d: component of %d exceeds bound %d", iter, size, max(maxAllowed, largestBefore))
			}
		}
		if sizes := componentSizes(g); !slices.IsSorted(sizes) {
			t.Fatalf("iter %d: sizes %v not ascending", iter, sizes)
		}
	}
}
