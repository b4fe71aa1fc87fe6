package split

import (
	"slices"
	"testing"
)

func collect(n, k int) [][]int {
	var out [][]int
	for c := range Combinations(n, k) {
		out = append(out, c)
	}
	return out
}

func TestCombinationsOrder(t *testing.T) {
	got := collect(4, 2)
	want := [][]int{
		{0}, {1}, {2}, {3},
		{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3},
	}
	if !equalNested(got, want) {
		t.Errorf("Combinations(4, 2) = %v, want %v", got, want)
	}
}

func TestCombinationsCap(t *testing.T) {
	tests := []struct {
		n, k    int
		want    int
		maxSize int
	}{
		{3, 5, 6, 2}, // sizes 1 and 2 only
		{5, 4, 30, 4},
		{5, 1, 5, 1},
		{1, 5, 0, 0},
		{0, 5, 0, 0},
	}
	for _, tt := range tests {
		got := collect(tt.n, tt.k)
		if len(got) != tt.want {
			t.Errorf("len(Combinations(%d, %d)) = %d, want %d", tt.n, tt.k, len(got), tt.want)
		}
		if c := CountCombinations(tt.n, tt.k); c != tt.want {
			t.Errorf("CountCombinations(%d, %d) = %d, want %d", tt.n, tt.k, c, tt.want)
		}
		for _, c := range got {
			if len(c) > tt.maxSize {
				t.Errorf("Combinations(%d, %d) yielded %v, larger than %d", tt.n, tt.k, c, tt.maxSize)
			}
		}
	}
}

func TestCombinationsRestartable(t *testing.T) {
	seq := Combinations(5, 3)
	var first, second [][]int
	for c := range seq {
		first = append(first, c)
	}
	for c := range seq {
		second = append(second, c)
	}
	if !equalNested(first, second) {
		t.Error("second iteration differs from first")
	}
}

func TestCombinationsEarlyStop(t *testing.T) {
	count := 0
	for range Combinations(10, 5) {
		count++
		if count == 3 {
			break
		}
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
}

func TestCombinationsFreshSlices(t *testing.T) {
	var kept [][]int
	for c := range Combinations(3, 2) {
		kept = append(kept, c)
	}
	kept[0][0] = 99
	if !slices.Equal(kept[1], []int{1}) {
		t.Errorf("yielded slices alias each other: %v", kept)
	}
}
