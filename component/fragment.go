package component

import (
	"github.com/delaneyj/knowweb/dom"
	"github.com/delaneyj/knowweb/hydrate"
)

// Fragment is the render tree of an instance or of a conditional block.
// Implementations used with transitions must be comparable, typically
// pointers.
type Fragment interface {
	Create()
	Claim(nodes *hydrate.Nodes)
	Mount(target, anchor *dom.Node)
	Patch(ctx []any, dirty Dirty)
	Destroy(detaching bool)
}

// Transitioner is implemented by fragments that animate in and out. Outro
// must call done once the exit has finished.
type Transitioner interface {
	Intro(local bool)
	Outro(local bool, done func())
}

// Funcs adapts plain functions to Fragment. Nil members do nothing.
type Funcs struct {
	CreateFunc  func()
	ClaimFunc   func(nodes *hydrate.Nodes)
	MountFunc   func(target, anchor *dom.Node)
	PatchFunc   func(ctx []any, dirty Dirty)
	DestroyFunc func(detaching bool)
}

func (f *Funcs) Create() {
	if f.CreateFunc != nil {
		f.CreateFunc()
	}
}

func (f *Funcs) Claim(nodes *hydrate.Nodes) {
	if f.ClaimFunc != nil {
		f.ClaimFunc(nodes)
	}
}

func (f *Funcs) Mount(target, anchor *dom.Node) {
	if f.MountFunc != nil {
		f.MountFunc(target, anchor)
	}
}

func (f *Funcs) Patch(ctx []any, dirty Dirty) {
	if f.PatchFunc != nil {
		f.PatchFunc(ctx, dirty)
	}
}

func (f *Funcs) Destroy(detaching bool) {
	if f.DestroyFunc != nil {
		f.DestroyFunc(detaching)
	}
}

// Element is a fragment for a single element whose text tracks one field.
// It is enough for leaf components and tests.
type Element struct {
	c     *Instance
	Tag   string
	Attrs []dom.Attr
	Field int
	Text  func(v any) string

	Node *dom.Node
	text *dom.Node
}

func NewElement(c *Instance, tag string, field int, text func(v any) string, attrs ...dom.Attr) *Element {
	return &Element{c: c, Tag: tag, Field: field, Text: text, Attrs: attrs}
}

func (e *Element) data() string {
	return e.Text(e.c.Field(e.Field))
}

func (e *Element) Create() {
	e.Node = dom.NewElement(e.Tag)
	for _, a := range e.Attrs {
		e.Node.SetAttr(a.Key, a.Val)
	}
	e.text = dom.NewText(e.data())
}

func (e *Element) Claim(nodes *hydrate.Nodes) {
	keys := make([]string, len(e.Attrs))
	for i, a := range e.Attrs {
		keys[i] = a.Key
	}
	e.Node = nodes.ClaimElement(e.Tag, keys...)
	for _, a := range e.Attrs {
		e.Node.SetAttr(a.Key, a.Val)
	}
	children := e.c.s.dom.Children(e.Node)
	e.text = children.ClaimText(e.data())
	children.DetachRemaining()
}

func (e *Element) Mount(target, anchor *dom.Node) {
	d := e.c.s.dom
	d.Insert(target, e.Node, anchor)
	d.Append(e.Node, e.text)
}

func (e *Element) Patch(ctx []any, dirty Dirty) {
	if e.Field < 0 || e.Field >= len(ctx) || !dirty.Has(e.Field) {
		return
	}
	e.text.Data = e.Text(ctx[e.Field])
}

func (e *Element) Destroy(detaching bool) {
	if detaching {
		dom.Detach(e.Node)
	}
}
