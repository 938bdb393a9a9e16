package hydrate

import (
	"slices"
	"sort"
)

// ReorderPlan splits child positions into those that stay (a longest
// increasing subsequence of orders, ascending by position) and those that
// move (ascending by order).
func ReorderPlan(orders []int) (keep, move []int) {
	n := len(orders)
	// m[l] is the position ending the best increasing run of length l.
	// p[i] is one past the predecessor of position i in its run.
	m := make([]int, n+1)
	p := make([]int, n)
	m[0] = -1
	longest := 0
	for i, cur := range orders {
		var seqLen int
		if longest > 0 && orders[m[longest]] <= cur {
			seqLen = longest
		} else {
			seqLen = sort.Search(longest-1, func(k int) bool {
				return orders[m[k+1]] > cur
			})
		}
		p[i] = m[seqLen] + 1
		m[seqLen+1] = i
		longest = max(longest, seqLen+1)
	}

	stays := make([]bool, n)
	for cur := m[longest] + 1; cur != 0; cur = p[cur-1] {
		keep = append(keep, cur-1)
		stays[cur-1] = true
	}
	slices.Reverse(keep)

	for i := range orders {
		if !stays[i] {
			move = append(move, i)
		}
	}
	slices.SortFunc(move, func(a, b int) int { return orders[a] - orders[b] })
	return keep, move
}
