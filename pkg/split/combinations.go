package split

import "iter"

// Combinations yields every subset of {0, ..., n-1} with 1 to min(k, n-1)
// elements: smaller subsets first, each size in lexicographic order. The full
// set is never produced because deleting every node cannot separate anything.
//
// The sequence is lazy and restartable. Each yielded slice is freshly
// allocated and may be retained by the caller.
func Combinations(n, k int) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		maxSize := min(k, n-1)
		for size := 1; size <= maxSize; size++ {
			idx := make([]int, size)
			for i := range idx {
				idx[i] = i
			}
			for {
				out := make([]int, size)
				copy(out, idx)
				if !yield(out) {
					return
				}

				// Advance the rightmost index that still has room.
				i := size - 1
				for i >= 0 && idx[i] == n-size+i {
					i--
				}
				if i < 0 {
					break
				}
				idx[i]++
				for j := i + 1; j < size; j++ {
					idx[j] = idx[j-1] + 1
				}
			}
		}
	}
}

// CountCombinations returns the number of subsets [Combinations] yields.
func CountCombinations(n, k int) int {
	total := 0
	for size := 1; size <= min(k, n-1); size++ {
		total += binomial(n, size)
	}
	return total
}

func binomial(n, r int) int {
	if r < 0 || r > n {
		return 0
	}
	r = min(r, n-r)
	result := 1
	for i := 1; i <= r; i++ {
		result = result * (n - r + i) / i
	}
	return result
}
