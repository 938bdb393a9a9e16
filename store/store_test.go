package store_test

import (
	"math"
	"testing"

	"github.com/delaneyj/knowweb/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWritable(t *testing.T) {
	t.Run("subscribe delivers current value synchronously", func(t *testing.T) {
		sys := store.NewSystem()
		count := store.Writable(sys, 1)

		var got []int
		unsubscribe := count.Subscribe(func(v int) {
			got = append(got, v)
		}, nil)
		assert.Equal(t, []int{1}, got)

		count.Set(2)
		count.Update(func(v int) int { return v * 10 })
		assert.Equal(t, []int{1, 2, 20}, got)

		unsubscribe()
		count.Set(3)
		assert.Equal(t, []int{1, 2, 20}, got)
	})

	t.Run("equal values are not delivered", func(t *testing.T) {
		sys := store.NewSystem()
		name := store.Writable(sys, "a")

		calls := 0
		name.Subscribe(func(string) { calls++ }, nil)
		name.Set("a")
		name.Set("b")
		name.Set("b")
		assert.Equal(t, 2, calls)
	})

	t.Run("every distinct value is delivered in order", func(t *testing.T) {
		sys := store.NewSystem()
		n := store.Writable(sys, 0)

		var got []int
		n.Subscribe(func(v int) { got = append(got, v) }, nil)
		for _, v := range []int{1, 1, 2, 3, 3, 3, 2} {
			n.Set(v)
		}
		assert.Equal(t, []int{0, 1, 2, 3, 2}, got)
		for i := 1; i < len(got); i++ {
			assert.NotEqual(t, got[i-1], got[i])
		}
	})

	t.Run("NaN equals NaN", func(t *testing.T) {
		sys := store.NewSystem()
		f := store.Writable(sys, math.NaN())
		calls := 0
		f.Subscribe(func(float64) { calls++ }, nil)
		f.Set(math.NaN())
		assert.Equal(t, 1, calls)
		f.Set(1.5)
		assert.Equal(t, 2, calls)
	})

	t.Run("slices always count as changed", func(t *testing.T) {
		sys := store.NewSystem()
		items := []string{"a"}
		list := store.Writable(sys, items)
		calls := 0
		list.Subscribe(func([]string) { calls++ }, nil)
		items = append(items[:1], "b")
		list.Set(items)
		list.Set(items)
		assert.Equal(t, 3, calls)
	})

	t.Run("start runs on first subscriber and stop on last", func(t *testing.T) {
		sys := store.NewSystem()
		starts, stops := 0, 0
		s := store.Writable(sys, 0, store.WithStart(func(set func(int)) func() {
			starts++
			set(42)
			return func() { stops++ }
		}))

		var a, b int
		unsubA := s.Subscribe(func(v int) { a = v }, nil)
		unsubB := s.Subscribe(func(v int) { b = v }, nil)
		assert.Equal(t, 1, starts)
		assert.Equal(t, 42, a)
		assert.Equal(t, 42, b)

		unsubA()
		assert.Equal(t, 0, stops)
		unsubB()
		assert.Equal(t, 1, stops)

		unsubB()
		assert.Equal(t, 1, stops, "second unsubscribe is a no-op")

		s.Subscribe(func(int) {}, nil)
		assert.Equal(t, 2, starts)
	})

	t.Run("set before start does not notify", func(t *testing.T) {
		sys := store.NewSystem()
		s := store.Writable(sys, 1)
		s.Set(2)
		assert.Equal(t, 2, store.Get[int](s))
		assert.Zero(t, s.Subscribers())
	})

	t.Run("invalidate runs before any value is delivered", func(t *testing.T) {
		sys := store.NewSystem()
		s := store.Writable(sys, 0)
		var log []string
		s.Subscribe(func(v int) {
			log = append(log, "run")
		}, func() {
			log = append(log, "invalidate")
		})
		s.Set(1)
		assert.Equal(t, []string{"run", "invalidate", "run"}, log)
	})
}

func TestSubscriberQueue(t *testing.T) {
	t.Run("writes made during delivery are queued behind it", func(t *testing.T) {
		sys := store.NewSystem()
		a := store.Writable(sys, 0)
		b := store.Writable(sys, 0)

		var log []string
		b.Subscribe(func(v int) {
			log = append(log, "b")
		}, nil)
		a.Subscribe(func(v int) {
			if v == 1 {
				b.Set(1)
				log = append(log, "a-after-set")
			}
		}, nil)
		a.Subscribe(func(v int) {
			log = append(log, "a2")
		}, nil)

		log = nil
		a.Set(1)
		assert.Equal(t, []string{"a-after-set", "a2", "b"}, log)
	})

	t.Run("batch defers delivery until the outermost batch ends", func(t *testing.T) {
		sys := store.NewSystem()
		s := store.Writable(sys, 0)
		var got []int
		s.Subscribe(func(v int) { got = append(got, v) }, nil)

		sys.Batch(func() {
			s.Set(1)
			sys.Batch(func() {
				s.Set(2)
			})
			assert.Equal(t, []int{0}, got)
		})
		assert.Equal(t, []int{0, 1, 2}, got)
	})
}

func TestReadable(t *testing.T) {
	sys := store.NewSystem()
	var setter func(string)
	r := store.Readable(sys, "initial", func(set func(string)) func() {
		setter = set
		return nil
	})

	var got []string
	unsubscribe := r.Subscribe(func(v string) { got = append(got, v) }, nil)
	require.NotNil(t, setter)
	setter("later")
	unsubscribe()
	assert.Equal(t, []string{"initial", "later"}, got)
	assert.Equal(t, "later", store.Get[string](r))
}

func TestSafeNotEqual(t *testing.T) {
	assert.False(t, store.SafeNotEqual(1, 1))
	assert.True(t, store.SafeNotEqual(1, 2))
	assert.False(t, store.SafeNotEqual(math.NaN(), math.NaN()))
	assert.True(t, store.SafeNotEqual(math.NaN(), 1.0))

	var nilMap map[string]int
	assert.False(t, store.SafeNotEqual(nilMap, nil))
	assert.True(t, store.SafeNotEqual(map[string]int{}, map[string]int{}))

	type point struct{ X, Y int }
	assert.True(t, store.SafeNotEqual(point{1, 2}, point{1, 2}))

	assert.False(t, store.NotEqualAny(nil, nil))
	assert.True(t, store.NotEqualAny(nil, 0))
	assert.True(t, store.NotEqualAny(1, "1"))
	assert.False(t, store.NotEqualAny("x", "x"))
	assert.True(t, store.NotEqualAny([]int{1}, []int{1}))
}
