// Package hydrate reuses server-rendered nodes instead of creating new ones,
// then restores the expected child order with as few moves as possible.
//
// Every claimed node is stamped with its claim order. Before the first node
// is mounted into a container, the longest run of children whose claim order
// is already increasing stays put and everything else is moved around it.
package hydrate

import (
	"github.com/delaneyj/knowweb/dom"
)

type Session struct {
	active      bool
	order       map[*dom.Node]int
	initialized map[*dom.Node]bool
	endChild    map[*dom.Node]*dom.Node
	moves       int
}

func NewSession() *Session {
	s := &Session{}
	s.reset()
	return s
}

func (s *Session) reset() {
	s.order = map[*dom.Node]int{}
	s.initialized = map[*dom.Node]bool{}
	s.endChild = map[*dom.Node]*dom.Node{}
	s.moves = 0
}

// Start begins a hydration pass. Claim orders from any earlier pass are
// dropped.
func (s *Session) Start() {
	s.reset()
	s.active = true
}

func (s *Session) End() {
	s.active = false
}

func (s *Session) Active() bool {
	return s.active
}

// Moves counts the nodes relocated while restoring claim order.
func (s *Session) Moves() int {
	return s.moves
}

// ClaimOrder reports the order in which n was claimed, if it was.
func (s *Session) ClaimOrder(n *dom.Node) (int, bool) {
	o, ok := s.order[n]
	return o, ok
}

// InitHydrate reorders target's claimed children into claim order. It runs
// once per target per pass.
func (s *Session) InitHydrate(target *dom.Node) {
	if s.initialized[target] {
		return
	}
	s.initialized[target] = true

	var children []*dom.Node
	for c := target.FirstChild; c != nil; c = c.NextSibling {
		// unclaimed nodes only survive in <head>
		if _, ok := s.order[c]; ok {
			children = append(children, c)
		}
	}

	orders := make([]int, len(children))
	for i, c := range children {
		orders[i] = s.order[c]
	}
	keep, move := ReorderPlan(orders)

	j := 0
	for _, mi := range move {
		node := children[mi]
		for j < len(keep) && s.order[node] >= s.order[children[keep[j]]] {
			j++
		}
		var anchor *dom.Node
		if j < len(keep) {
			anchor = children[keep[j]]
		}
		target.InsertBefore(node, anchor)
		s.moves++
	}
}

// Append mounts node as the next child of target. While hydrating, nodes
// already in place are left alone.
func (s *Session) Append(target, node *dom.Node) {
	if !s.active {
		if node.Parent != target || node.NextSibling != nil {
			target.AppendChild(node)
		}
		return
	}

	s.InitHydrate(target)

	end, defined := s.endChild[target]
	if !defined || (end != nil && end.Parent != target) {
		end = target.FirstChild
	}
	for end != nil {
		if _, ok := s.order[end]; ok {
			break
		}
		end = end.NextSibling
	}

	if node != end {
		if _, ok := s.order[node]; ok || node.Parent != target {
			target.InsertBefore(node, end)
		}
	} else {
		end = node.NextSibling
	}
	s.endChild[target] = end
}

// Insert mounts node before anchor, or appends it when anchor is nil.
func (s *Session) Insert(target, node, anchor *dom.Node) {
	if s.active && anchor == nil {
		s.Append(target, node)
		return
	}
	if node.Parent != target || node.NextSibling != anchor {
		target.InsertBefore(node, anchor)
	}
}
