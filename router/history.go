package router

import (
	"slices"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

type Location struct {
	Pathname string
	Search   string
	State    map[string]any
	// Key identifies the history entry. It is "initial" for entries that
	// were not created by Navigate.
	Key string
}

type Action string

const (
	Pop  Action = "POP"
	Push Action = "PUSH"
)

// Source is the session history a History drives.
type Source interface {
	Location() (pathname, search string)
	State() map[string]any
	PushState(state map[string]any, uri string)
	ReplaceState(state map[string]any, uri string)
	// OnPop registers fn to run when the user moves through history.
	OnPop(fn func()) (remove func())
}

type entry struct {
	pathname string
	search   string
	state    map[string]any
}

// MemorySource keeps history entries in memory, for servers and tests.
type MemorySource struct {
	index int
	stack []entry
	pops  []*func()
}

func NewMemorySource(initialPathname string) *MemorySource {
	if initialPathname == "" {
		initialPathname = "/"
	}
	return &MemorySource{stack: []entry{{pathname: initialPathname}}}
}

func (m *MemorySource) Location() (string, string) {
	e := m.stack[m.index]
	return e.pathname, e.search
}

func (m *MemorySource) State() map[string]any {
	return m.stack[m.index].state
}

// Entries returns the pathnames of every entry, oldest first.
func (m *MemorySource) Entries() []string {
	out := make([]string, len(m.stack))
	for i, e := range m.stack {
		out[i] = e.pathname
	}
	return out
}

func (m *MemorySource) Index() int {
	return m.index
}

func splitURI(uri string) entry {
	pathname, search, _ := strings.Cut(uri, "?")
	return entry{pathname: pathname, search: search}
}

// PushState drops any forward entries and appends uri.
func (m *MemorySource) PushState(state map[string]any, uri string) {
	e := splitURI(uri)
	e.state = state
	m.stack = append(m.stack[:m.index+1], e)
	m.index++
}

func (m *MemorySource) ReplaceState(state map[string]any, uri string) {
	e := splitURI(uri)
	e.state = state
	m.stack[m.index] = e
}

func (m *MemorySource) OnPop(fn func()) func() {
	p := &fn
	m.pops = append(m.pops, p)
	return func() {
		if i := slices.Index(m.pops, p); i >= 0 {
			m.pops = append(m.pops[:i], m.pops[i+1:]...)
		}
	}
}

// Go moves delta entries through history and notifies pop listeners. Moves
// past either end are ignored.
func (m *MemorySource) Go(delta int) {
	next := m.index + delta
	if delta == 0 || next < 0 || next >= len(m.stack) {
		return
	}
	m.index = next
	for _, p := range slices.Clone(m.pops) {
		(*p)()
	}
}

type listener struct {
	fn func(Location, Action)
}

// History tracks the current location of a Source and tells listeners when
// it changes.
type History struct {
	source    Source
	location  Location
	listeners []*listener
	navs      uint64
}

func NewHistory(source Source) *History {
	h := &History{source: source}
	h.location = h.read()
	return h
}

func (h *History) read() Location {
	pathname, search := h.source.Location()
	state := h.source.State()
	key := "initial"
	if k, ok := state["key"].(string); ok && k != "" {
		key = k
	}
	return Location{Pathname: pathname, Search: search, State: state, Key: key}
}

func (h *History) Location() Location {
	return h.location
}

// Listen calls fn after every navigation, and whenever the source pops.
func (h *History) Listen(fn func(Location, Action)) (unlisten func()) {
	l := &listener{fn: fn}
	h.listeners = append(h.listeners, l)
	removePop := h.source.OnPop(func() {
		h.location = h.read()
		fn(h.location, Pop)
	})
	return func() {
		removePop()
		if i := slices.Index(h.listeners, l); i >= 0 {
			h.listeners = append(h.listeners[:i], h.listeners[i+1:]...)
		}
	}
}

// Navigate pushes to onto the history, or replaces the current entry, and
// notifies listeners. state is copied and given a fresh key.
func (h *History) Navigate(to string, state map[string]any, replace bool) {
	h.navs++
	next := make(map[string]any, len(state)+1)
	for k, v := range state {
		next[k] = v
	}
	next["key"] = h.key(to)

	if replace {
		h.source.ReplaceState(next, to)
	} else {
		h.source.PushState(next, to)
	}

	h.location = h.read()
	for _, l := range slices.Clone(h.listeners) {
		l.fn(h.location, Push)
	}
}

func (h *History) key(to string) string {
	seed := strconv.FormatUint(h.navs, 10) + ":" + to
	return strconv.FormatUint(xxhash.Sum64String(seed), 36)
}
