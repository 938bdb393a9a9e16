package hydrate

import (
	"slices"
	"strings"

	"github.com/delaneyj/knowweb/dom"
)

// Nodes is the list of server-rendered children still available for claiming
// in one container. Claims search forward from the last claimed position,
// then backward.
type Nodes struct {
	s            *Session
	list         []*dom.Node
	lastIndex    int
	totalClaimed int
}

// Children snapshots parent's child list for claiming.
func (s *Session) Children(parent *dom.Node) *Nodes {
	return &Nodes{s: s, list: parent.Children()}
}

// claim finds the first node accepted by match, lets process mutate it and
// optionally leave a replacement in the list, or falls back to create. The
// result is stamped with the next claim order either way.
func (ns *Nodes) claim(
	match func(*dom.Node) bool,
	process func(*dom.Node) (replacement *dom.Node),
	create func() *dom.Node,
	keepLastIndex bool,
) *dom.Node {
	found, backward := -1, false
	for i := ns.lastIndex; i < len(ns.list); i++ {
		if match(ns.list[i]) {
			found = i
			break
		}
	}
	if found < 0 {
		for i := ns.lastIndex - 1; i >= 0; i-- {
			if match(ns.list[i]) {
				found, backward = i, true
				break
			}
		}
	}

	var node *dom.Node
	if found < 0 {
		node = create()
	} else {
		node = ns.list[found]
		if r := process(node); r != nil {
			ns.list[found] = r
		} else {
			ns.list = slices.Delete(ns.list, found, found+1)
			if keepLastIndex && backward {
				ns.lastIndex--
			}
		}
		if !keepLastIndex {
			ns.lastIndex = found
		}
	}

	ns.s.order[node] = ns.totalClaimed
	ns.totalClaimed++
	return node
}

// ClaimElement reuses a server element with the given tag, dropping any
// attribute not named in attrs. A fresh element is created when none exists.
func (ns *Nodes) ClaimElement(name string, attrs ...string) *dom.Node {
	name = strings.ToLower(name)
	return ns.claim(
		func(n *dom.Node) bool {
			return n.Type == dom.ElementNode && n.Name == name
		},
		func(n *dom.Node) *dom.Node {
			kept := n.Attrs[:0]
			for _, a := range n.Attrs {
				if slices.Contains(attrs, a.Key) {
					kept = append(kept, a)
				}
			}
			n.Attrs = kept
			return nil
		},
		func() *dom.Node { return dom.NewElement(name) },
		false,
	)
}

// ClaimText reuses a server text node. Adjacent server text is merged into a
// single node, so a longer node is split and its tail stays claimable; a
// node with different content is rewritten.
func (ns *Nodes) ClaimText(data string) *dom.Node {
	return ns.claim(
		func(n *dom.Node) bool { return n.Type == dom.TextNode },
		func(n *dom.Node) *dom.Node {
			if strings.HasPrefix(n.Data, data) {
				if len(n.Data) != len(data) {
					return n.SplitText(len(data))
				}
				return nil
			}
			n.Data = data
			return nil
		},
		func() *dom.Node { return dom.NewText(data) },
		true,
	)
}

func (ns *Nodes) ClaimSpace() *dom.Node {
	return ns.ClaimText(" ")
}

// Remaining lists the nodes nothing has claimed yet.
func (ns *Nodes) Remaining() []*dom.Node {
	return slices.Clone(ns.list)
}

// DetachRemaining removes every unclaimed node from the document.
func (ns *Nodes) DetachRemaining() {
	for _, n := range ns.list {
		dom.Detach(n)
	}
	ns.list = nil
}
