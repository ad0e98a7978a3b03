package dom

import (
	"fmt"
	"strings"

	"github.com/npillmayer/styledom/dom/style"
	"github.com/npillmayer/styledom/dom/style/cssom"
	"github.com/npillmayer/styledom/dom/w3cdom"
	"github.com/npillmayer/styledom/tree"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ShadowMode is the mode of a shadow root.
type ShadowMode uint8

// Shadow root modes.
const (
	Open ShadowMode = iota
	Closed
)

func (m ShadowMode) String() string {
	if m == Closed {
		return "closed"
	}
	return "open"
}

// Node is a node of a document tree: an element, a text or comment node, a
// shadow root, or the document itself.
type Node struct {
	tn       tree.Node[*Node] // we build on top of general purpose tree
	kind     w3cdom.NodeType
	name     string    // local name of elements, name of doctypes
	atom     atom.Atom // for elements with well-known names
	attrs    []html.Attribute
	data     string    // text of text and comment nodes
	doc      *Document // owner document
	shadow   *Node     // shadow root of a shadow host
	host     *Node     // host of a shadow root
	mode     ShadowMode
	sheet    *cssom.Sheet   // sheet of a <style> or <link> element
	adopted  []*cssom.Sheet // adopted sheets of documents and shadow roots
	computed styleSlot
}

// styleSlot caches a computed style, together with the document epoch and
// sheet generation it has been computed for.
type styleSlot struct {
	styles     *style.ComputedMap
	epoch      uint64
	generation uint64
	registered bool
}

func newNode(doc *Document, kind w3cdom.NodeType, name string) *Node {
	n := &Node{kind: kind, name: name, doc: doc}
	n.tn.Payload = n // payload will always reference the node itself
	if kind == w3cdom.ElementNode {
		n.atom = atom.Lookup([]byte(name))
	}
	return n
}

// asNode returns n as an interface, or an untyped nil.
func asNode(n *Node) w3cdom.Node {
	if n == nil {
		return nil
	}
	return n
}

func nodes(tns []*tree.Node[*Node], elementsOnly bool) []*Node {
	r := make([]*Node, 0, len(tns))
	for _, tn := range tns {
		if !elementsOnly || tn.Payload.kind == w3cdom.ElementNode {
			r = append(r, tn.Payload)
		}
	}
	return r
}

func interfaces(ns []*Node) []w3cdom.Node {
	r := make([]w3cdom.Node, len(ns))
	for i, n := range ns {
		r[i] = n
	}
	return r
}

func (n *Node) String() string {
	switch n.kind {
	case w3cdom.ElementNode:
		var sb strings.Builder
		sb.WriteString("<" + n.name)
		for _, a := range n.attrs {
			fmt.Fprintf(&sb, " %s=%q", a.Key, a.Val)
		}
		sb.WriteString(">")
		return sb.String()
	case w3cdom.TextNode:
		return fmt.Sprintf("%q", n.data)
	}
	return n.NodeName()
}

// --- Interface w3cdom.Node -------------------------------------------------

var _ w3cdom.Node = &Node{}

// NodeType returns the type of a node.
func (n *Node) NodeType() w3cdom.NodeType {
	return n.kind
}

// NodeName returns the upper case tag name of elements and "#text",
// "#comment", "#document" or "#document-fragment" for other nodes.
func (n *Node) NodeName() string {
	switch n.kind {
	case w3cdom.ElementNode:
		return strings.ToUpper(n.name)
	case w3cdom.TextNode:
		return "#text"
	case w3cdom.CommentNode:
		return "#comment"
	case w3cdom.DocumentNode:
		return "#document"
	case w3cdom.ShadowRootNode:
		return "#document-fragment"
	}
	return n.name
}

// NodeValue returns the text of text and comment nodes.
func (n *Node) NodeValue() string {
	if n.kind == w3cdom.TextNode || n.kind == w3cdom.CommentNode {
		return n.data
	}
	return ""
}

// ParentNode returns the parent of a node. Shadow roots have no parent.
func (n *Node) ParentNode() w3cdom.Node {
	return asNode(n.Parent())
}

// ChildNodes returns all children of a node.
func (n *Node) ChildNodes() []w3cdom.Node {
	return interfaces(n.Nodes())
}

// ElementChildren returns the element children of a node.
func (n *Node) ElementChildren() []w3cdom.Node {
	return interfaces(n.Children())
}

// PreviousElementSibling returns the closest preceding sibling element.
func (n *Node) PreviousElementSibling() w3cdom.Node {
	return asNode(n.PreviousElement())
}

// NextElementSibling returns the closest following sibling element.
func (n *Node) NextElementSibling() w3cdom.Node {
	return asNode(n.NextElement())
}

// RootNode returns the topmost ancestor of a node, which is the document for
// connected nodes outside of shadow trees.
func (n *Node) RootNode() w3cdom.Node {
	return n.tn.Root().Payload
}

// Host returns the host element of a shadow root.
func (n *Node) Host() w3cdom.Node {
	return asNode(n.host)
}

// ShadowRoot returns the shadow root of a shadow host, including closed
// shadow roots.
func (n *Node) ShadowRoot() w3cdom.Node {
	return asNode(n.shadow)
}

// LocalName returns the local name of an element.
func (n *Node) LocalName() string {
	if n.kind != w3cdom.ElementNode {
		return ""
	}
	return n.name
}

// ID returns the value of attribute 'id'.
func (n *Node) ID() string {
	id, _ := n.Attribute("id")
	return id
}

// ClassList returns the classes of an element.
func (n *Node) ClassList() []string {
	c, _ := n.Attribute("class")
	return strings.Fields(c)
}

// Attribute looks up an attribute by name, ignoring case.
func (n *Node) Attribute(name string) (string, bool) {
	for _, a := range n.attrs {
		if strings.EqualFold(a.Key, name) {
			return a.Val, true
		}
	}
	return "", false
}

// State returns the dynamic state of an element.
func (n *Node) State() w3cdom.State {
	var s w3cdom.State
	if n.kind != w3cdom.ElementNode || n.doc == nil {
		return s
	}
	if active := n.doc.active; active != nil {
		if active == n {
			s |= w3cdom.Focused
		}
		for a := active.shadowIncludingParent(); a != nil; a = a.shadowIncludingParent() {
			if a == n {
				s |= w3cdom.FocusWithin
				break
			}
		}
	}
	if id := n.ID(); id != "" && id == n.doc.fragment() {
		s |= w3cdom.Target
	}
	if !strings.Contains(n.name, "-") || n.doc.defined[n.name] {
		s |= w3cdom.Defined
	}
	return s
}

// --- Typed navigation ------------------------------------------------------

// Document returns the owner document of a node.
func (n *Node) Document() *Document {
	return n.doc
}

// Parent returns the parent node, or nil.
func (n *Node) Parent() *Node {
	if p := n.tn.Parent(); p != nil {
		return p.Payload
	}
	return nil
}

// ParentElement returns the parent node if it is an element, or nil.
func (n *Node) ParentElement() *Node {
	if p := n.Parent(); p != nil && p.kind == w3cdom.ElementNode {
		return p
	}
	return nil
}

// Nodes returns all children of a node.
func (n *Node) Nodes() []*Node {
	return nodes(n.tn.Children(), false)
}

// Children returns the element children of a node.
func (n *Node) Children() []*Node {
	return nodes(n.tn.Children(), true)
}

// PreviousElement returns the closest preceding sibling element, or nil.
func (n *Node) PreviousElement() *Node {
	for s := n.tn.PrevSibling(); s != nil; s = s.PrevSibling() {
		if s.Payload.kind == w3cdom.ElementNode {
			return s.Payload
		}
	}
	return nil
}

// NextElement returns the closest following sibling element, or nil.
func (n *Node) NextElement() *Node {
	for s := n.tn.NextSibling(); s != nil; s = s.NextSibling() {
		if s.Payload.kind == w3cdom.ElementNode {
			return s.Payload
		}
	}
	return nil
}

// Shadow returns the shadow root attached to an element, or nil.
func (n *Node) Shadow() *Node {
	return n.shadow
}

// HostElement returns the host of a shadow root, or nil.
func (n *Node) HostElement() *Node {
	return n.host
}

// Mode returns the mode of a shadow root.
func (n *Node) Mode() ShadowMode {
	return n.mode
}

// Root returns the topmost ancestor of a node.
func (n *Node) Root() *Node {
	return n.tn.Root().Payload
}

// shadowIncludingParent returns the parent of a node, or, for shadow roots,
// the host.
func (n *Node) shadowIncludingParent() *Node {
	if n.kind == w3cdom.ShadowRootNode {
		return n.host
	}
	return n.Parent()
}

// IsConnected is true if the shadow-including root of a node is its
// document.
func (n *Node) IsConnected() bool {
	if n.doc == nil {
		return false
	}
	for r := n.Root(); ; r = r.host.Root() {
		switch {
		case r == &n.doc.Node:
			return true
		case r.kind == w3cdom.ShadowRootNode && r.host != nil:
			continue
		}
		return false
	}
}

// Attributes returns a copy of the attributes of an element.
func (n *Node) Attributes() []html.Attribute {
	attrs := make([]html.Attribute, len(n.attrs))
	copy(attrs, n.attrs)
	return attrs
}

// HasAttribute is true if an element carries an attribute.
func (n *Node) HasAttribute(name string) bool {
	_, ok := n.Attribute(name)
	return ok
}

// TextContent returns the concatenated text of all text node descendants.
func (n *Node) TextContent() string {
	if n.kind == w3cdom.TextNode || n.kind == w3cdom.CommentNode {
		return n.data
	}
	var sb strings.Builder
	for _, t := range tree.DescendantsWith(&n.tn, NodeIsText) {
		sb.WriteString(t.Payload.data)
	}
	return sb.String()
}

// descendantElements returns all element descendants of a node in document
// order, not entering shadow trees.
func (n *Node) descendantElements() []*Node {
	return nodes(tree.DescendantsWith(&n.tn, NodeIsElement), false)
}
