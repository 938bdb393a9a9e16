package store_test

import (
	"fmt"
	"testing"

	"github.com/delaneyj/knowweb/store"
	"github.com/stretchr/testify/assert"
)

func TestDerived(t *testing.T) {
	t.Run("single upstream", func(t *testing.T) {
		sys := store.NewSystem()
		count := store.Writable(sys, 1)
		double := store.Derived(sys, count, func(c int) int { return c * 2 })

		var got []int
		unsubscribe := double.Subscribe(func(v int) { got = append(got, v) }, nil)
		count.Set(2)
		count.Set(2)
		count.Set(5)
		unsubscribe()
		assert.Equal(t, []int{2, 4, 10}, got)
		assert.Zero(t, count.Subscribers(), "upstream released on last unsubscribe")
	})

	/*
	   a   b
	    \ /
	     c
	*/
	t.Run("two upstreams changed in one dispatch recompute once", func(t *testing.T) {
		sys := store.NewSystem()
		a := store.Writable(sys, 1)
		b := store.Writable(sys, 10)

		runs := 0
		c := store.Derived2(sys, a, b, func(a, b int) string {
			runs++
			return fmt.Sprintf("%d+%d", a, b)
		})

		var got []string
		c.Subscribe(func(v string) { got = append(got, v) }, nil)
		assert.Equal(t, 1, runs)

		sys.Batch(func() {
			a.Set(2)
			b.Set(20)
		})
		assert.Equal(t, 2, runs)
		assert.Equal(t, []string{"1+10", "2+20"}, got)
	})

	/*
	     a
	    / \
	   b   c
	    \ /
	     d
	*/
	t.Run("diamond settles without intermediate values", func(t *testing.T) {
		sys := store.NewSystem()
		a := store.Writable(sys, 1)
		b := store.Derived(sys, a, func(v int) int { return v + 1 })
		c := store.Derived(sys, a, func(v int) int { return v * 10 })
		d := store.Derived2(sys, b, c, func(b, c int) [2]int { return [2]int{b, c} })

		var got [][2]int
		d.Subscribe(func(v [2]int) { got = append(got, v) }, nil)
		a.Set(2)
		assert.Equal(t, [][2]int{{2, 10}, {3, 20}}, got)
	})

	t.Run("async derivation with cleanup", func(t *testing.T) {
		sys := store.NewSystem()
		query := store.Writable(sys, "a")

		var pending []func()
		cleanups := 0
		result := store.DerivedAsync(sys, query, "loading", func(q string, set func(string)) func() {
			pending = append(pending, func() { set("result:" + q) })
			return func() { cleanups++ }
		})

		var got []string
		unsubscribe := result.Subscribe(func(v string) { got = append(got, v) }, nil)
		assert.Equal(t, []string{"loading"}, got)

		pending[0]()
		assert.Equal(t, []string{"loading", "result:a"}, got)

		query.Set("b")
		assert.Equal(t, 1, cleanups)
		pending[1]()
		assert.Equal(t, []string{"loading", "result:a", "result:b"}, got)

		unsubscribe()
		assert.Equal(t, 2, cleanups)
	})

	t.Run("derive all", func(t *testing.T) {
		sys := store.NewSystem()
		inputs := []store.Subscribable[int]{
			store.Writable(sys, 1),
			store.Writable(sys, 2),
			store.Writable(sys, 3),
		}
		sum := store.DeriveAll(sys, inputs, func(vs []int) int {
			total := 0
			for _, v := range vs {
				total += v
			}
			return total
		})
		assert.Equal(t, 6, store.Get[int](sum))

		inputs[1].(*store.Store[int]).Set(20)
		assert.Equal(t, 24, store.Get[int](sum))
	})

	t.Run("derive all async", func(t *testing.T) {
		sys := store.NewSystem()
		a := store.Writable(sys, "x")
		b := store.Writable(sys, "y")
		joined := store.DeriveAllAsync(sys, []store.Subscribable[string]{a, b}, "", func(vs []string, set func(string)) func() {
			set(vs[0] + vs[1])
			return nil
		})
		assert.Equal(t, "xy", store.Get[string](joined))
	})
}
