package component

import (
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/delaneyj/knowweb/hydrate"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// TaskQueue defers work to the end of the current turn.
type TaskQueue interface {
	Schedule(job func())
	// Drain runs queued jobs, including any queued while draining.
	Drain()
}

// MicrotaskQueue is a FIFO TaskQueue drained explicitly by its owner.
type MicrotaskQueue struct {
	jobs []func()
}

func (q *MicrotaskQueue) Schedule(job func()) {
	q.jobs = append(q.jobs, job)
}

func (q *MicrotaskQueue) Drain() {
	for len(q.jobs) > 0 {
		job := q.jobs[0]
		q.jobs = q.jobs[1:]
		job()
	}
}

func (q *MicrotaskQueue) Pending() int {
	return len(q.jobs)
}

type hook struct {
	fn func()
}

// Scheduler owns the dirty queue, callback phases and outro groups for a
// tree of component instances. It is not safe for concurrent use.
type Scheduler struct {
	log   *zap.Logger
	tasks TaskQueue
	dom   *hydrate.Session

	dirty            []*Instance
	flushIdx         int
	bindingCallbacks []func()
	renderCallbacks  []*hook
	renderIdx        int
	flushCallbacks   []func()
	seen             mapset.Set[*hook]
	scheduled        bool
	current          *Instance

	outros   *OutroGroup
	outroing map[Fragment]*outro
}

type SchedulerOption func(*Scheduler)

func WithLogger(log *zap.Logger) SchedulerOption {
	return func(s *Scheduler) {
		s.log = log
	}
}

func WithTaskQueue(q TaskQueue) SchedulerOption {
	return func(s *Scheduler) {
		s.tasks = q
	}
}

func NewScheduler(opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		log:      zap.NewNop(),
		tasks:    &MicrotaskQueue{},
		dom:      hydrate.NewSession(),
		seen:     mapset.NewThreadUnsafeSet[*hook](),
		outroing: map[Fragment]*outro{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DOM is the hydration session fragments mount through.
func (s *Scheduler) DOM() *hydrate.Session {
	return s.dom
}

func (s *Scheduler) scheduleUpdate() {
	if !s.scheduled {
		s.scheduled = true
		s.tasks.Schedule(s.Flush)
	}
}

// Tick runs any pending flush and everything else queued for this turn.
func (s *Scheduler) Tick() {
	s.scheduleUpdate()
	s.tasks.Drain()
}

// Scheduled reports whether a flush is queued or running.
func (s *Scheduler) Scheduled() bool {
	return s.scheduled
}

func (s *Scheduler) makeDirty(c *Instance, i int) {
	if c.dirty[0] == -1 {
		s.dirty = append(s.dirty, c)
		s.scheduleUpdate()
		c.dirty = make(Dirty, len(c.dirty))
	}
	c.dirty = c.dirty.mark(i)
}

// AddBindingCallback queues fn for the binding phase of the current flush.
// Binding callbacks run last-registered first.
func (s *Scheduler) AddBindingCallback(fn func()) {
	s.bindingCallbacks = append(s.bindingCallbacks, fn)
}

// AddRenderCallback queues fn to run once the dirty queue is drained.
func (s *Scheduler) AddRenderCallback(fn func()) {
	s.addRenderHook(&hook{fn: fn})
}

func (s *Scheduler) addRenderHook(h *hook) {
	s.renderCallbacks = append(s.renderCallbacks, h)
}

// AddFlushCallback queues fn to run after the final pass of the flush.
func (s *Scheduler) AddFlushCallback(fn func()) {
	s.flushCallbacks = append(s.flushCallbacks, fn)
}

// Flush updates every dirty instance and runs the binding, render and flush
// callback phases, repeating while callbacks dirty more instances. A Flush
// started from inside another continues from the shared cursor.
func (s *Scheduler) Flush() {
	saved := s.current
	done := false
	defer func() {
		s.current = saved
		if !done {
			s.abort()
		}
	}()

	passes, updated, ran := 0, 0, 0
	for {
		passes++
		for s.flushIdx < len(s.dirty) {
			c := s.dirty[s.flushIdx]
			s.flushIdx++
			s.current = c
			c.update()
			updated++
		}
		s.current = nil
		s.dirty = s.dirty[:0]
		s.flushIdx = 0

		for len(s.bindingCallbacks) > 0 {
			last := len(s.bindingCallbacks) - 1
			fn := s.bindingCallbacks[last]
			s.bindingCallbacks = s.bindingCallbacks[:last]
			fn()
		}

		for s.renderIdx < len(s.renderCallbacks) {
			h := s.renderCallbacks[s.renderIdx]
			s.renderIdx++
			if s.seen.Contains(h) {
				continue
			}
			s.seen.Add(h)
			h.fn()
			ran++
		}
		s.renderCallbacks = s.renderCallbacks[:0]
		s.renderIdx = 0

		if len(s.dirty) == 0 {
			break
		}
	}

	for len(s.flushCallbacks) > 0 {
		last := len(s.flushCallbacks) - 1
		fn := s.flushCallbacks[last]
		s.flushCallbacks = s.flushCallbacks[:last]
		fn()
	}

	s.scheduled = false
	s.seen.Clear()
	done = true

	if ce := s.log.Check(zapcore.DebugLevel, "flush"); ce != nil {
		ce.Write(
			zap.Int("passes", passes),
			zap.Int("updated", updated),
			zap.Int("callbacks", ran),
		)
	}
}

// abort leaves the scheduler usable after a panic escaped a flush. The
// instance being updated is marked clean, instances still waiting keep their
// place, and callbacks that already ran are dropped.
func (s *Scheduler) abort() {
	if s.flushIdx > 0 {
		failing := s.dirty[s.flushIdx-1]
		s.dirty = slices.Clone(s.dirty[s.flushIdx:])
		if !slices.Contains(s.dirty, failing) {
			failing.dirty = clean()
		}
	}
	s.flushIdx = 0
	s.renderCallbacks = slices.Clone(s.renderCallbacks[s.renderIdx:])
	s.renderIdx = 0
	s.seen.Clear()
	s.scheduled = false

	pending := len(s.dirty) + len(s.bindingCallbacks) + len(s.renderCallbacks) + len(s.flushCallbacks)
	s.log.Warn("flush aborted", zap.Int("pending", pending))
	if pending > 0 {
		s.scheduleUpdate()
	}
}
