package dom

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseInto parses server-rendered markup as the body content of container
// and appends the resulting nodes to it.
func ParseInto(container *Node, markup string) error {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	if container.Type == ElementNode && container.Name != "" {
		context = &html.Node{Type: html.ElementNode, Data: container.Name, DataAtom: atom.Lookup([]byte(container.Name))}
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return fmt.Errorf("parse markup: %w", err)
	}
	for _, hn := range nodes {
		if n := fromHTML(hn); n != nil {
			container.AppendChild(n)
		}
	}
	return nil
}

// Parse returns a detached container element holding the parsed markup.
func Parse(markup string) (*Node, error) {
	container := NewElement("body")
	if err := ParseInto(container, markup); err != nil {
		return nil, err
	}
	return container, nil
}

func fromHTML(hn *html.Node) *Node {
	var n *Node
	switch hn.Type {
	case html.ElementNode:
		n = NewElement(hn.Data)
		for _, a := range hn.Attr {
			n.Attrs = append(n.Attrs, Attr{Key: a.Key, Val: a.Val})
		}
	case html.TextNode:
		return NewText(hn.Data)
	case html.CommentNode:
		return NewComment(hn.Data)
	case html.DocumentNode:
		n = NewDocument()
	default:
		return nil
	}
	for c := hn.FirstChild; c != nil; c = c.NextSibling {
		if child := fromHTML(c); child != nil {
			n.AppendChild(child)
		}
	}
	return n
}

func toHTML(n *Node) *html.Node {
	var hn *html.Node
	switch n.Type {
	case ElementNode:
		hn = &html.Node{Type: html.ElementNode, Data: n.Name, DataAtom: atom.Lookup([]byte(n.Name))}
		for _, a := range n.Attrs {
			hn.Attr = append(hn.Attr, html.Attribute{Key: a.Key, Val: a.Val})
		}
	case TextNode:
		return &html.Node{Type: html.TextNode, Data: n.Data}
	case CommentNode:
		return &html.Node{Type: html.CommentNode, Data: n.Data}
	default:
		hn = &html.Node{Type: html.DocumentNode}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		hn.AppendChild(toHTML(c))
	}
	return hn
}

// Render writes n and its descendants as HTML.
func Render(w io.Writer, n *Node) error {
	return html.Render(w, toHTML(n))
}

func OuterHTML(n *Node) string {
	var sb strings.Builder
	if err := Render(&sb, n); err != nil {
		return ""
	}
	return sb.String()
}

func InnerHTML(n *Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := Render(&sb, c); err != nil {
			return ""
		}
	}
	return sb.String()
}
