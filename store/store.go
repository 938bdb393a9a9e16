package store

// StartStopNotifier is called when a store gains its first subscriber. The
// returned stop func, if any, runs when the last subscriber leaves.
type StartStopNotifier[T any] func(set func(T)) (stop func())

// Subscribable is the contract every store satisfies. invalidate may be nil.
type Subscribable[T any] interface {
	Subscribe(run func(T), invalidate func()) (unsubscribe func())
}

// System owns the delivery queue shared by every store created with it.
// Notifications queued while another store is delivering are flushed by the
// outermost Set, so a storm of writes fans out in a single pass.
type System struct {
	queue      []func()
	batchDepth int
}

func NewSystem() *System {
	return &System{}
}

func (sys *System) StartBatch() {
	sys.batchDepth++
}

func (sys *System) EndBatch() {
	sys.batchDepth--
	if sys.batchDepth == 0 {
		sys.drain()
	}
}

// Batch holds back deliveries until fn returns.
func (sys *System) Batch(fn func()) {
	sys.StartBatch()
	defer sys.EndBatch()
	fn()
}

func (sys *System) drain() {
	defer func() {
		clear(sys.queue)
		sys.queue = sys.queue[:0]
	}()
	for i := 0; i < len(sys.queue); i++ {
		sys.queue[i]()
	}
}

type subscriber[T any] struct {
	run        func(T)
	invalidate func()
	removed    bool
}

// Store is a writable value container.
type Store[T any] struct {
	sys      *System
	value    T
	start    StartStopNotifier[T]
	stop     func()
	notEqual EqualFunc[T]
	subs     []*subscriber[T]
}

type Option[T any] func(*Store[T])

// WithStart sets the notifier run on the 0→1 subscriber transition.
func WithStart[T any](start StartStopNotifier[T]) Option[T] {
	return func(s *Store[T]) {
		s.start = start
	}
}

// WithNotEqual replaces SafeNotEqual as the change test.
func WithNotEqual[T any](fn EqualFunc[T]) Option[T] {
	return func(s *Store[T]) {
		s.notEqual = fn
	}
}

func Writable[T any](sys *System, value T, opts ...Option[T]) *Store[T] {
	s := &Store[T]{
		sys:      sys,
		value:    value,
		notEqual: SafeNotEqual[T],
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store[T]) Set(value T) {
	if !s.notEqual(s.value, value) {
		return
	}
	s.value = value

	// not started yet: nobody to tell
	if s.stop == nil {
		return
	}

	runQueue := len(s.sys.queue) == 0 && s.sys.batchDepth == 0
	for _, sub := range append([]*subscriber[T](nil), s.subs...) {
		if sub.removed {
			continue
		}
		if sub.invalidate != nil {
			sub.invalidate()
		}
		run := sub.run
		s.sys.queue = append(s.sys.queue, func() {
			run(value)
		})
	}
	if runQueue {
		s.sys.drain()
	}
}

func (s *Store[T]) Update(fn func(T) T) {
	s.Set(fn(s.value))
}

func (s *Store[T]) Subscribe(run func(T), invalidate func()) (unsubscribe func()) {
	sub := &subscriber[T]{run: run, invalidate: invalidate}
	s.subs = append(s.subs, sub)
	if len(s.subs) == 1 {
		var stop func()
		if s.start != nil {
			stop = s.start(s.Set)
		}
		if stop == nil {
			stop = func() {}
		}
		s.stop = stop
	}
	run(s.value)

	return func() {
		if sub.removed {
			return
		}
		sub.removed = true
		for i, other := range s.subs {
			if other == sub {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				break
			}
		}
		if len(s.subs) == 0 && s.stop != nil {
			stop := s.stop
			s.stop = nil
			stop()
		}
	}
}

// Subscribers reports the live subscriber count.
func (s *Store[T]) Subscribers() int {
	return len(s.subs)
}

// ReadOnly exposes only the subscription side of a store.
type ReadOnly[T any] struct {
	s *Store[T]
}

func Readable[T any](sys *System, value T, start StartStopNotifier[T]) *ReadOnly[T] {
	return &ReadOnly[T]{s: Writable(sys, value, WithStart(start))}
}

func (r *ReadOnly[T]) Subscribe(run func(T), invalidate func()) (unsubscribe func()) {
	return r.s.Subscribe(run, invalidate)
}

// Get reads the current value by subscribing and immediately unsubscribing.
func Get[T any](s Subscribable[T]) T {
	var value T
	unsubscribe := s.Subscribe(func(v T) {
		value = v
	}, nil)
	unsubscribe()
	return value
}
