package store

type source func(run func(any), invalidate func()) (unsubscribe func())

func sourceOf[T any](s Subscribable[T]) source {
	return func(run func(any), invalidate func()) func() {
		return s.Subscribe(func(v T) {
			run(v)
		}, invalidate)
	}
}

// pending tracks which upstreams have been invalidated but not yet delivered.
type pending []uint64

func newPending(n int) pending {
	return make(pending, (n+63)/64)
}

func (p pending) set(i int)   { p[i/64] |= 1 << (i % 64) }
func (p pending) clear(i int) { p[i/64] &^= 1 << (i % 64) }

func (p pending) any() bool {
	for _, w := range p {
		if w != 0 {
			return true
		}
	}
	return false
}

// derive wires upstream sources to a readable store. run is called once
// every upstream has delivered and nothing is pending; the func it returns
// is called before the next run and when the last subscriber leaves.
func derive[T any](sys *System, sources []source, initial T, run func(values []any, set func(T)) (cleanup func())) *ReadOnly[T] {
	return Readable(sys, initial, func(set func(T)) func() {
		inited := false
		values := make([]any, len(sources))
		waiting := newPending(len(sources))
		cleanup := func() {}

		sync := func() {
			if waiting.any() {
				return
			}
			cleanup()
			next := run(values, set)
			if next == nil {
				next = func() {}
			}
			cleanup = next
		}

		unsubscribers := make([]func(), len(sources))
		for i, src := range sources {
			i := i
			unsubscribers[i] = src(func(v any) {
				values[i] = v
				waiting.clear(i)
				if inited {
					sync()
				}
			}, func() {
				waiting.set(i)
			})
		}

		inited = true
		sync()

		return func() {
			for _, unsubscribe := range unsubscribers {
				unsubscribe()
			}
			cleanup()
		}
	})
}

// Derived computes its value from a single upstream store.
func Derived[S, T any](sys *System, upstream Subscribable[S], fn func(S) T) *ReadOnly[T] {
	var zero T
	return derive(sys, []source{sourceOf(upstream)}, zero, func(values []any, set func(T)) func() {
		set(fn(as[S](values[0])))
		return nil
	})
}

// DerivedAsync hands the derivation a set callback that it may call now or
// later. The returned func cleans up before the next run and on teardown.
func DerivedAsync[S, T any](sys *System, upstream Subscribable[S], initial T, fn func(v S, set func(T)) (cleanup func())) *ReadOnly[T] {
	return derive(sys, []source{sourceOf(upstream)}, initial, func(values []any, set func(T)) func() {
		return fn(as[S](values[0]), set)
	})
}

func Derived2[A, B, T any](sys *System, a Subscribable[A], b Subscribable[B], fn func(A, B) T) *ReadOnly[T] {
	var zero T
	return derive(sys, []source{sourceOf(a), sourceOf(b)}, zero, func(values []any, set func(T)) func() {
		set(fn(as[A](values[0]), as[B](values[1])))
		return nil
	})
}

func Derived3[A, B, C, T any](sys *System, a Subscribable[A], b Subscribable[B], c Subscribable[C], fn func(A, B, C) T) *ReadOnly[T] {
	var zero T
	return derive(sys, []source{sourceOf(a), sourceOf(b), sourceOf(c)}, zero, func(values []any, set func(T)) func() {
		set(fn(as[A](values[0]), as[B](values[1]), as[C](values[2])))
		return nil
	})
}

// DeriveAll derives from any number of stores sharing a value type.
func DeriveAll[S, T any](sys *System, upstreams []Subscribable[S], fn func([]S) T) *ReadOnly[T] {
	var zero T
	return derive(sys, sourcesOf(upstreams), zero, func(values []any, set func(T)) func() {
		set(fn(typed[S](values)))
		return nil
	})
}

func DeriveAllAsync[S, T any](sys *System, upstreams []Subscribable[S], initial T, fn func(vs []S, set func(T)) (cleanup func())) *ReadOnly[T] {
	return derive(sys, sourcesOf(upstreams), initial, func(values []any, set func(T)) func() {
		return fn(typed[S](values), set)
	})
}

func sourcesOf[S any](upstreams []Subscribable[S]) []source {
	sources := make([]source, len(upstreams))
	for i, u := range upstreams {
		sources[i] = sourceOf(u)
	}
	return sources
}

func typed[S any](values []any) []S {
	out := make([]S, len(values))
	for i, v := range values {
		out[i] = as[S](v)
	}
	return out
}

// as tolerates nil for interface-typed values.
func as[S any](v any) S {
	s, _ := v.(S)
	return s
}
