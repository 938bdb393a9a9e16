// Package dom is a small in-memory document tree: enough of the browser DOM
// for components to create, claim, move and detach nodes.
package dom

import "strings"

type NodeType uint8

const (
	ElementNode NodeType = iota + 1
	TextNode
	CommentNode
	DocumentNode
)

type Attr struct {
	Key, Val string
}

type Node struct {
	Type NodeType
	// Name is the lower-case tag name for elements.
	Name  string
	Data  string
	Attrs []Attr

	Parent, FirstChild, LastChild, PrevSibling, NextSibling *Node

	listeners map[string][]*listener
}

func NewElement(name string) *Node {
	return &Node{Type: ElementNode, Name: strings.ToLower(name)}
}

func NewText(data string) *Node {
	return &Node{Type: TextNode, Data: data}
}

func NewComment(data string) *Node {
	return &Node{Type: CommentNode, Data: data}
}

func NewDocument() *Node {
	return &Node{Type: DocumentNode}
}

func (n *Node) Children() []*Node {
	var children []*Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		children = append(children, c)
	}
	return children
}

// InsertBefore places child before ref, or at the end when ref is nil. A child
// that is already attached somewhere is moved.
func (n *Node) InsertBefore(child, ref *Node) {
	if child == ref {
		return
	}
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	if ref != nil && ref.Parent != n {
		panic("dom: InsertBefore reference is not a child of this node")
	}

	var prev, next *Node
	if ref != nil {
		prev, next = ref.PrevSibling, ref
	} else {
		prev = n.LastChild
	}
	if prev != nil {
		prev.NextSibling = child
	} else {
		n.FirstChild = child
	}
	if next != nil {
		next.PrevSibling = child
	} else {
		n.LastChild = child
	}
	child.Parent = n
	child.PrevSibling = prev
	child.NextSibling = next
}

func (n *Node) AppendChild(child *Node) {
	n.InsertBefore(child, nil)
}

func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("dom: RemoveChild called for a non-child node")
	}
	if n.FirstChild == child {
		n.FirstChild = child.NextSibling
	}
	if child.NextSibling != nil {
		child.NextSibling.PrevSibling = child.PrevSibling
	}
	if n.LastChild == child {
		n.LastChild = child.PrevSibling
	}
	if child.PrevSibling != nil {
		child.PrevSibling.NextSibling = child.NextSibling
	}
	child.Parent = nil
	child.PrevSibling = nil
	child.NextSibling = nil
}

// Detach removes n from its parent, if it has one.
func Detach(n *Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// SplitText truncates a text node to offset bytes and inserts the remainder
// as a new sibling, which is returned.
func (n *Node) SplitText(offset int) *Node {
	rest := NewText(n.Data[offset:])
	n.Data = n.Data[:offset]
	if n.Parent != nil {
		n.Parent.InsertBefore(rest, n.NextSibling)
	}
	return rest
}

func (n *Node) Attr(key string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func (n *Node) SetAttr(key, val string) {
	for i, a := range n.Attrs {
		if a.Key == key {
			n.Attrs[i].Val = val
			return
		}
	}
	n.Attrs = append(n.Attrs, Attr{Key: key, Val: val})
}

func (n *Node) RemoveAttr(key string) {
	for i, a := range n.Attrs {
		if a.Key == key {
			n.Attrs = append(n.Attrs[:i], n.Attrs[i+1:]...)
			return
		}
	}
}

// TextContent concatenates every descendant text node.
func (n *Node) TextContent() string {
	if n.Type == TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == CommentNode {
			continue
		}
		sb.WriteString(c.TextContent())
	}
	return sb.String()
}

func (n *Node) SetTextContent(data string) {
	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
	if data != "" {
		n.AppendChild(NewText(data))
	}
}
