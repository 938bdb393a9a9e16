package hydrate

import (
	"slices"
	"sort"
	"testing"

	"github.com/delaneyj/knowweb/dom"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

// permutation turns arbitrary values into distinct claim orders by rank.
func permutation(values []int) []int {
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return values[idx[a]] < values[idx[b]] })
	orders := make([]int, len(values))
	for rank, i := range idx {
		orders[i] = rank
	}
	return orders
}

func quadraticLIS(orders []int) int {
	best := 0
	lens := make([]int, len(orders))
	for i := range orders {
		lens[i] = 1
		for j := 0; j < i; j++ {
			if orders[j] < orders[i] && lens[j]+1 > lens[i] {
				lens[i] = lens[j] + 1
			}
		}
		best = max(best, lens[i])
	}
	return best
}

func TestReorderPlan(t *testing.T) {
	keep, move := ReorderPlan([]int{1, 0, 2, 3, 4})
	assert.Equal(t, []int{1, 2, 3, 4}, keep)
	assert.Equal(t, []int{0}, move)

	keep, move = ReorderPlan([]int{4, 3, 2, 1, 0})
	assert.Len(t, keep, 1)
	assert.Len(t, move, 4)

	keep, move = ReorderPlan(nil)
	assert.Empty(t, keep)
	assert.Empty(t, move)
}

func TestReorderPlanProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1357)
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("kept positions form a longest increasing run", prop.ForAll(
		func(values []int) bool {
			orders := permutation(values)
			keep, move := ReorderPlan(orders)
			if len(keep)+len(move) != len(orders) {
				return false
			}
			if len(keep) != quadraticLIS(orders) {
				return false
			}
			for i := 1; i < len(keep); i++ {
				if keep[i] <= keep[i-1] || orders[keep[i]] <= orders[keep[i-1]] {
					return false
				}
			}
			return slices.IsSortedFunc(move, func(a, b int) int { return orders[a] - orders[b] })
		},
		gen.SliceOf(gen.IntRange(-100, 100)),
	))

	properties.Property("reordering restores claim order with minimal moves", prop.ForAll(
		func(values []int) bool {
			orders := permutation(values)
			s := NewSession()
			s.Start()
			target := dom.NewElement("div")
			for _, o := range orders {
				n := dom.NewElement("span")
				s.order[n] = o
				target.AppendChild(n)
			}

			s.InitHydrate(target)

			got := make([]int, 0, len(orders))
			for c := target.FirstChild; c != nil; c = c.NextSibling {
				got = append(got, s.order[c])
			}
			return slices.IsSorted(got) &&
				len(got) == len(orders) &&
				s.Moves() == len(orders)-quadraticLIS(orders)
		},
		gen.SliceOf(gen.IntRange(-100, 100)),
	))

	properties.TestingRun(t)
}
