package selector_test

import (
	"strings"

	"github.com/npillmayer/styledom/dom/w3cdom"
	"golang.org/x/net/html"
)

// hnode adapts x/net/html nodes to w3cdom.Node, for testing the selector
// engine independently of package dom.
type hnode struct {
	n *html.Node
}

var _ w3cdom.Node = hnode{}

func wrap(n *html.Node) w3cdom.Node {
	if n == nil {
		return nil
	}
	return hnode{n: n}
}

func parseHTML(s string) *html.Node {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		panic(err)
	}
	return doc
}

func elements(n *html.Node, list []*html.Node) []*html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			list = append(list, c)
		}
		list = elements(c, list)
	}
	return list
}

func findID(doc *html.Node, id string) *html.Node {
	for _, e := range elements(doc, nil) {
		if (hnode{e}).ID() == id {
			return e
		}
	}
	return nil
}

func (h hnode) NodeType() w3cdom.NodeType {
	switch h.n.Type {
	case html.ElementNode:
		return w3cdom.ElementNode
	case html.TextNode:
		return w3cdom.TextNode
	case html.CommentNode:
		return w3cdom.CommentNode
	case html.DocumentNode:
		return w3cdom.DocumentNode
	case html.DoctypeNode:
		return w3cdom.DoctypeNode
	}
	return 0
}

func (h hnode) NodeName() string {
	if h.n.Type == html.ElementNode {
		return strings.ToUpper(h.n.Data)
	}
	return "#" + strings.ToLower(h.NodeType().String())
}

func (h hnode) NodeValue() string {
	if h.n.Type == html.TextNode || h.n.Type == html.CommentNode {
		return h.n.Data
	}
	return ""
}

func (h hnode) ParentNode() w3cdom.Node {
	return wrap(h.n.Parent)
}

func (h hnode) ChildNodes() []w3cdom.Node {
	var children []w3cdom.Node
	for c := h.n.FirstChild; c != nil; c = c.NextSibling {
		children = append(children, hnode{c})
	}
	return children
}

func (h hnode) ElementChildren() []w3cdom.Node {
	var children []w3cdom.Node
	for c := h.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			children = append(children, hnode{c})
		}
	}
	return children
}

func (h hnode) PreviousElementSibling() w3cdom.Node {
	for s := h.n.PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type == html.ElementNode {
			return hnode{s}
		}
	}
	return nil
}

func (h hnode) NextElementSibling() w3cdom.Node {
	for s := h.n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return hnode{s}
		}
	}
	return nil
}

func (h hnode) RootNode() w3cdom.Node {
	n := h.n
	for n.Parent != nil {
		n = n.Parent
	}
	return hnode{n}
}

func (h hnode) Host() w3cdom.Node       { return nil }
func (h hnode) ShadowRoot() w3cdom.Node { return nil }
func (h hnode) LocalName() string       { return h.n.Data }
func (h hnode) State() w3cdom.State     { return 0 }

func (h hnode) ID() string {
	id, _ := h.Attribute("id")
	return id
}

func (h hnode) ClassList() []string {
	c, _ := h.Attribute("class")
	return strings.Fields(c)
}

func (h hnode) Attribute(name string) (string, bool) {
	for _, a := range h.n.Attr {
		if strings.EqualFold(a.Key, name) {
			return a.Val, true
		}
	}
	return "", false
}
