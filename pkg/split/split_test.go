package split

import (
	"context"
	stderrors "errors"
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/matzehuels/blocksets/pkg/errors"
	"github.com/matzehuels/blocksets/pkg/instance"
)

func partEntities(parts []*instance.Instance) [][]int {
	out := make([][]int, len(parts))
	for i, p := range parts {
		out[i] = p.EntityIDs()
	}
	return out
}

func partStatements(parts []*instance.Instance) [][]int {
	out := make([][]int, len(parts))
	for i, p := range parts {
		out[i] = p.StatementIDs()
	}
	return out
}

func TestSplitChain(t *testing.T) {
	inst := chainABCD()
	res, err := Split(inst, Options{})
	if err != nil {
		t.Fatalf("Split() error: %v", err)
	}

	if res.Degenerate {
		t.Fatal("Degenerate = true, want false")
	}
	if !slices.Equal(res.Deleted, []int{2}) {
		t.Errorf("Deleted = %v, want [2]", res.Deleted)
	}
	if !slices.Equal(res.Candidate, []int{1}) {
		t.Errorf("Candidate = %v, want [1]", res.Candidate)
	}
	// 2 components + 1 deleted + 2 copies + 10 (size 3 > 2) + 3/2
	if res.Cost != 16.5 {
		t.Errorf("Cost = %v, want 16.5", res.Cost)
	}
	if res.Copies != 2 {
		t.Errorf("Copies = %d, want 2", res.Copies)
	}
	if want := CountCombinations(4, DefaultMaxDeletions); res.Evaluated != want {
		t.Errorf("Evaluated = %d, want %d", res.Evaluated, want)
	}

	wantEntities := [][]int{{1, 2}, {2, 3, 4}}
	if got := partEntities(res.Parts); !equalNested(got, wantEntities) {
		t.Errorf("part entities = %v, want %v", got, wantEntities)
	}
	wantStatements := [][]int{{1, 4}, {2, 3}}
	if got := partStatements(res.Parts); !equalNested(got, wantStatements) {
		t.Errorf("part statements = %v, want %v", got, wantStatements)
	}

	// The copy of B carries statement 1 next to A and statement 2 next to C.
	if got := res.Parts[0].Members[2]; !slices.Equal(got, []int{1}) {
		t.Errorf("part 0 B = %v, want [1]", got)
	}
	if got := res.Parts[1].Members[2]; !slices.Equal(got, []int{2}) {
		t.Errorf("part 1 B = %v, want [2]", got)
	}
	if got := res.Parts[0].Members[1]; !slices.Equal(got, []int{1, 4}) {
		t.Errorf("part 0 A = %v, want [1 4]", got)
	}
	if res.Parts[0].Entities[2] != "B" {
		t.Errorf("copy label = %q, want %q", res.Parts[0].Entities[2], "B")
	}
}

func TestSplitCliqueFallsBack(t *testing.T) {
	inst := clique(5)
	res, err := Split(inst, Options{})
	if err != nil {
		t.Fatalf("Split() error: %v", err)
	}
	if !res.Degenerate {
		t.Fatal("Degenerate = false, want true")
	}
	if res.Evaluated != 30 {
		t.Errorf("Evaluated = %d, want 30", res.Evaluated)
	}
	if !slices.Equal(res.Deleted, []int{1, 2, 3, 4, 5}) {
		t.Errorf("Deleted = %v, want every entity", res.Deleted)
	}
	if res.Candidate != nil || res.Cost != 0 {
		t.Errorf("Candidate = %v, Cost = %v, want nil and 0", res.Candidate, res.Cost)
	}
	if len(res.Parts) != 2 || !res.Parts[0].Equal(inst) || !res.Parts[1].Equal(inst) {
		t.Errorf("Parts = %v, want two copies of the input", partEntities(res.Parts))
	}
}

func TestSplitSingleEntity(t *testing.T) {
	inst := build([]int{1, 2})
	for range 3 {
		res, err := Split(inst, Options{})
		if err != nil {
			t.Fatalf("Split() error: %v", err)
		}
		if !res.Degenerate || len(res.Parts) != 2 {
			t.Fatalf("Degenerate = %v, parts = %d, want degenerate pair", res.Degenerate, len(res.Parts))
		}
		for i, p := range res.Parts {
			if !p.Equal(inst) {
				t.Errorf("part %d differs from input", i)
			}
		}
		if res.Parts[0] == res.Parts[1] || res.Parts[0] == inst {
			t.Error("degenerate parts alias each other or the input")
		}
		if res.Evaluated != 0 {
			t.Errorf("Evaluated = %d, want 0", res.Evaluated)
		}
	}
}

func TestSplitEmptyInstance(t *testing.T) {
	inst := instance.New()
	inst.AddStatement(1, "loose")
	res, err := Split(inst, Options{})
	if err != nil {
		t.Fatalf("Split() error: %v", err)
	}
	if !res.Degenerate || len(res.Parts) != 2 || !res.Parts[0].Equal(inst) {
		t.Errorf("Split(empty) = %+v, want degenerate copies", res)
	}
}

func TestSplitTieBreak(t *testing.T) {
	// Two disjoint pairs. Deleting any single entity scores the same, so the
	// first enumerated candidate must win.
	inst := build([]int{1}, []int{1}, []int{2}, []int{2})
	res, err := Split(inst, Options{})
	if err != nil {
		t.Fatalf("Split() error: %v", err)
	}
	if !slices.Equal(res.Candidate, []int{0}) {
		t.Errorf("Candidate = %v, want [0]", res.Candidate)
	}
}

func TestSplitWorkersDeterministic(t *testing.T) {
	r := rand.New(rand.NewPCG(21, 42))
	for iter := 0; iter < 60; iter++ {
		inst := randomInstance(r)
		seq, err := Split(inst, Options{Workers: 1})
		if err != nil {
			t.Fatalf("iter %d: Split() error: %v", iter, err)
		}
		par, err := Split(inst, Options{Workers: 4})
		if err != nil {
			t.Fatalf("iter %d: Split(parallel) error: %v", iter, err)
		}
		if !slices.Equal(seq.Candidate, par.Candidate) || seq.Cost != par.Cost || seq.Evaluated != par.Evaluated {
			t.Fatalf("iter %d: sequential %v/%v differs from parallel %v/%v",
				iter, seq.Candidate, seq.Cost, par.Candidate, par.Cost)
		}
		for i := range seq.Parts {
			if !seq.Parts[i].Equal(par.Parts[i]) {
				t.Fatalf("iter %d: part %d differs between worker counts", iter, i)
			}
		}
	}
}

// Every statement survives, every entity appears somewhere, every part is
// self-contained, and the winning graph has no duplicate or dangling members.
func TestSplitProperties(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for iter := 0; iter < 300; iter++ {
		inst := randomInstance(r)
		opts := Options{MaxDeletions: 1 + r.IntN(3), SplitRatio: 0.1 + r.Float64()*0.35}
		res, err := Split(inst, opts)
		if err != nil {
			t.Fatalf("iter %d: Split() error: %v", iter, err)
		}

		if got, want := statementUnion(res.Parts), inst.StatementIDs(); !slices.Equal(got, want) {
			t.Fatalf("iter %d: statements %v, want %v", iter, got, want)
		}

		seen := make(map[int]bool)
		for pi, p := range res.Parts {
			if err := p.Validate(); err != nil {
				t.Fatalf("iter %d: part %d invalid: %v", iter, pi, err)
			}
			for e, list := range p.Members {
				seen[e] = true
				if p.Entities[e] != inst.Entities[e] {
					t.Fatalf("iter %d: part %d entity %d label %q, want %q", iter, pi, e, p.Entities[e], inst.Entities[e])
				}
				for _, s := range list {
					if !inst.Contains(e, s) {
						t.Fatalf("iter %d: part %d gives entity %d foreign statement %d", iter, pi, e, s)
					}
				}
			}
			for e := range p.Entities {
				seen[e] = true
			}
		}
		for _, e := range inst.EntityIDs() {
			if !seen[e] {
				t.Fatalf("iter %d: entity %d lost", iter, e)
			}
		}

		g, err := Winner(context.Background(), inst, opts)
		if err != nil {
			t.Fatalf("iter %d: Winner() error: %v", iter, err)
		}
		for c, members := range g.Components() {
			here := make(map[int]bool, len(members))
			for _, m := range members {
				e := g.Entity(m)
				if here[e] {
					t.Fatalf("iter %d: component %d holds entity %d twice", iter, c, e)
				}
				here[e] = true
			}
			for _, m := range members {
				for _, nb := range g.Neighbors(m) {
					if !here[nb] {
						t.Fatalf("iter %d: node %d in component %d links to absent entity %d", iter, m, c, nb)
					}
				}
			}
		}

		if !res.Degenerate {
			if len(res.Parts) < 2 {
				t.Fatalf("iter %d: %d parts, want at least 2", iter, len(res.Parts))
			}
			if math.IsInf(res.Cost, 0) || res.Cost <= 0 {
				t.Fatalf("iter %d: cost %v", iter, res.Cost)
			}
		}
	}
}

func TestSplitInputUntouched(t *testing.T) {
	inst := chainABCD()
	before := inst.Clone()
	res, err := Split(inst, Options{})
	if err != nil {
		t.Fatal(err)
	}
	res.Parts[0].Members[1][0] = 99
	if !inst.Equal(before) {
		t.Error("Split() output aliases the input")
	}
}

func TestSplitErrors(t *testing.T) {
	bad := chainABCD()
	bad.Members[1] = append(bad.Members[1], 77)

	tests := []struct {
		name string
		inst *instance.Instance
		opts Options
		code errors.Code
	}{
		{"unknown statement", bad, Options{}, errors.ErrCodeInvalidInstance},
		{"ratio too large", chainABCD(), Options{SplitRatio: 0.5}, errors.ErrCodeInvalidOptions},
		{"negative ratio", chainABCD(), Options{SplitRatio: -0.1}, errors.ErrCodeInvalidOptions},
		{"too many deletions", chainABCD(), Options{MaxDeletions: 20}, errors.ErrCodeInvalidOptions},
		{"negative workers", chainABCD(), Options{Workers: -2}, errors.ErrCodeInvalidOptions},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Split(tt.inst, tt.opts)
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("Split() code = %v, want %v (err %v)", got, tt.code, err)
			}
		})
	}
}

func TestSplitCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, workers := range []int{1, 4} {
		_, err := SplitContext(ctx, chainABCD(), Options{Workers: workers})
		if !stderrors.Is(err, context.Canceled) {
			t.Errorf("workers=%d: error = %v, want context.Canceled", workers, err)
		}
	}
}

func TestWinner(t *testing.T) {
	g, err := Winner(context.Background(), chainABCD(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	want := [][]int{{1, 2}, {3, 4, 2}}
	if got := g.ComponentEntities(); !equalNested(got, want) {
		t.Errorf("ComponentEntities() = %v, want %v", got, want)
	}
	for _, c := range g.Components() {
		for _, m := range c {
			if g.Entity(m) == 2 && !g.IsCopy(m) {
				t.Errorf("deleted entity 2 at %d is not a copy", m)
			}
		}
	}
}

func TestStats(t *testing.T) {
	res, err := Split(chainABCD(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	st := res.Stats()
	if st.Largest != 3 || st.Smallest != 2 {
		t.Errorf("Largest/Smallest = %d/%d, want 3/2", st.Largest, st.Smallest)
	}
	if st.Deleted != 1 || st.Copies != 2 {
		t.Errorf("Deleted/Copies = %d/%d, want 1/2", st.Deleted, st.Copies)
	}
	for i, p := range st.Parts {
		if !slices.Equal(p.Duplicates, []int{2}) {
			t.Errorf("Parts[%d].Duplicates = %v, want [2]", i, p.Duplicates)
		}
	}
	if got := res.Duplicated(); got[2] != 2 {
		t.Errorf("Duplicated()[2] = %d, want 2", got[2])
	}
}
