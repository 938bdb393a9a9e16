// Package ssr renders components to HTML strings without a document tree.
//
// A render collects scoped styles and head content as it goes. Teardown
// callbacks registered during the render run before the result is returned,
// so nothing outlives it.
package ssr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/delaneyj/knowweb/component"
	"github.com/valyala/quicktemplate"
)

var ErrInvalidComponent = errors.New("not a valid SSR component")

type Props map[string]any

// Slots holds the named children passed to a component. Each slot renders
// with the scope values the component hands it.
type Slots map[string]func(r *Renderer, scope Props) string

// RenderFunc produces one component's markup.
type RenderFunc func(r *Renderer, props Props, slots Slots) string

// ScopeToken is replaced with the component's scope class in its CSS.
const ScopeToken = "$scope"

type Style struct {
	Code string
}

type Component struct {
	Name  string
	Class string
	Style *Style
	fn    RenderFunc
}

// Define declares a component. css may refer to the component's scope class
// through ScopeToken.
func Define(name, css string, fn RenderFunc) *Component {
	c := &Component{Name: name, fn: fn}
	if css != "" {
		c.Class = ScopeClass(css)
		c.Style = &Style{Code: strings.ReplaceAll(css, ScopeToken, c.Class)}
	}
	return c
}

// ScopeClass derives a stable class name from a stylesheet.
func ScopeClass(css string) string {
	h := xxhash.Sum64String(css)
	return "svelte-" + strconv.FormatUint(h&0xffffffff, 36)
}

// MissingComponent renders nothing. It stands in for an absent optional
// component.
var MissingComponent = &Component{Name: "missing", fn: func(*Renderer, Props, Slots) string { return "" }}

// ValidateComponent returns c, panicking with ErrInvalidComponent when it
// cannot be rendered.
func ValidateComponent(c *Component, name string) *Component {
	if c == nil || c.fn == nil {
		if name == "svelte:component" {
			name += " this={...}"
		}
		panic(fmt.Errorf("<%s> is %w", name, ErrInvalidComponent))
	}
	return c
}

type Result struct {
	HTML string
	CSS  string
	Head string
}

type frame struct {
	comp         *Component
	context      component.Context
	contextOwned bool
}

// Renderer is the state shared by every component of one render.
type Renderer struct {
	title     string
	head      strings.Builder
	css       []*Style
	cssSeen   mapset.Set[*Style]
	onDestroy []func()
	frames    []*frame
}

func newRenderer() *Renderer {
	return &Renderer{cssSeen: mapset.NewThreadUnsafeSet[*Style]()}
}

type options struct {
	slots   Slots
	context component.Context
}

type RenderOption func(*options)

func WithSlots(slots Slots) RenderOption {
	return func(o *options) {
		o.slots = slots
	}
}

func WithContext(ctx component.Context) RenderOption {
	return func(o *options) {
		o.context = ctx
	}
}

// Render runs c as the root of a fresh render.
func (c *Component) Render(props Props, opts ...RenderOption) Result {
	o := &options{context: component.Context{}}
	for _, opt := range opts {
		opt(o)
	}

	r := newRenderer()
	html := c.renderWith(r, props, o.slots, o.context)

	onDestroy := r.onDestroy
	r.onDestroy = nil
	for _, fn := range onDestroy {
		fn()
	}

	codes := make([]string, len(r.css))
	for i, s := range r.css {
		codes[i] = s.Code
	}
	return Result{
		HTML: html,
		CSS:  strings.Join(codes, "\n"),
		Head: r.title + r.head.String(),
	}
}

// RenderIn renders c as a child of the component currently rendering in r.
func (c *Component) RenderIn(r *Renderer, props Props, slots Slots) string {
	return c.renderWith(r, props, slots, nil)
}

func (c *Component) renderWith(r *Renderer, props Props, slots Slots, ctx component.Context) string {
	f := &frame{comp: c, context: ctx}
	if ctx == nil {
		if parent := r.current(); parent != nil {
			f.context = parent.context
			parent.contextOwned = false
		}
	}
	if props == nil {
		props = Props{}
	}
	if slots == nil {
		slots = Slots{}
	}
	if c.Style != nil {
		r.AddCSS(c.Style)
	}

	r.frames = append(r.frames, f)
	defer func() {
		r.frames = r.frames[:len(r.frames)-1]
	}()
	return c.fn(r, props, slots)
}

func (r *Renderer) current() *frame {
	if len(r.frames) == 0 {
		return nil
	}
	return r.frames[len(r.frames)-1]
}

func (r *Renderer) mustCurrent() *frame {
	f := r.current()
	if f == nil {
		panic(component.ErrOutsideInit)
	}
	return f
}

// Class is the scope class of the component being rendered.
func (r *Renderer) Class() string {
	return r.mustCurrent().comp.Class
}

// AddCSS includes a stylesheet once per render.
func (r *Renderer) AddCSS(s *Style) {
	if r.cssSeen.Add(s) {
		r.css = append(r.css, s)
	}
}

func (r *Renderer) SetTitle(title string) {
	r.title = "<title>" + Escape(title) + "</title>"
}

func (r *Renderer) AppendHead(markup string) {
	r.head.WriteString(markup)
}

// OnDestroy queues fn to run once the render completes.
func (r *Renderer) OnDestroy(fn func()) {
	r.mustCurrent()
	r.onDestroy = append(r.onDestroy, fn)
}

// OnMount is accepted for parity with client components and never runs.
func (r *Renderer) OnMount(func() func()) {
	r.mustCurrent()
}

func (r *Renderer) SetContext(key, value any) {
	f := r.mustCurrent()
	if !f.contextOwned {
		next := make(component.Context, len(f.context)+1)
		for k, v := range f.context {
			next[k] = v
		}
		f.context = next
		f.contextOwned = true
	}
	f.context[key] = value
}

func (r *Renderer) GetContext(key any) any {
	return r.mustCurrent().context[key]
}

func (r *Renderer) HasContext(key any) bool {
	_, ok := r.mustCurrent().context[key]
	return ok
}

// Escape replaces the five HTML-significant characters with entities.
func Escape(s string) string {
	bb := quicktemplate.AcquireByteBuffer()
	qw := quicktemplate.AcquireWriter(bb)
	qw.E().S(s)
	quicktemplate.ReleaseWriter(qw)
	escaped := string(bb.B)
	quicktemplate.ReleaseByteBuffer(bb)
	return escaped
}

// EscapeAny formats v and escapes it.
func EscapeAny(v any) string {
	if s, ok := v.(string); ok {
		return Escape(s)
	}
	return Escape(fmt.Sprint(v))
}

// Attr renders ` name="value"`. Nil values, and false ones for boolean
// attributes, render nothing; true renders a bare name.
func Attr(name string, value any, boolean bool) string {
	switch v := value.(type) {
	case nil:
		return ""
	case bool:
		if boolean && !v {
			return ""
		}
		if v {
			return " " + name
		}
	}
	return " " + name + `="` + EscapeAny(value) + `"`
}

// Each concatenates fn over items.
func Each[T any](items []T, fn func(item T, i int) string) string {
	var sb strings.Builder
	for i, item := range items {
		sb.WriteString(fn(item, i))
	}
	return sb.String()
}

// Slot renders the named slot, or nothing when it was not provided.
func Slot(r *Renderer, slots Slots, name string, scope Props) string {
	if fn, ok := slots[name]; ok && fn != nil {
		return fn(r, scope)
	}
	return ""
}
