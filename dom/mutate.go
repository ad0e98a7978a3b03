package dom

import (
	"errors"
	"strings"

	"github.com/npillmayer/styledom/dom/style/cssom"
	"github.com/npillmayer/styledom/dom/w3cdom"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Errors of tree mutations.
var (
	ErrHierarchy    = errors.New("hierarchy request error")
	ErrNotFound     = errors.New("node not found")
	ErrNotSupported = errors.New("operation not supported")
)

// Elements which may host a shadow root, besides custom elements.
var shadowHosts = map[atom.Atom]bool{
	atom.Article: true, atom.Aside: true, atom.Blockquote: true, atom.Body: true,
	atom.Div: true, atom.Footer: true, atom.H1: true, atom.H2: true, atom.H3: true,
	atom.H4: true, atom.H5: true, atom.H6: true, atom.Header: true, atom.Main: true,
	atom.Nav: true, atom.P: true, atom.Section: true, atom.Span: true,
}

func (n *Node) canHaveChildren() bool {
	switch n.kind {
	case w3cdom.ElementNode, w3cdom.DocumentNode, w3cdom.ShadowRootNode:
		return true
	}
	return false
}

func (n *Node) checkInsert(child *Node) error {
	if child == nil || !n.canHaveChildren() {
		return ErrHierarchy
	}
	if child.kind == w3cdom.DocumentNode || child.kind == w3cdom.ShadowRootNode {
		return ErrHierarchy
	}
	for a := n; a != nil; a = a.shadowIncludingParent() {
		if a == child {
			return ErrHierarchy
		}
	}
	return nil
}

// adopt moves a subtree into the document of n.
func (n *Node) adopt(child *Node) {
	if child.doc == n.doc {
		return
	}
	child.doc = n.doc
	child.computed = styleSlot{}
	for _, ch := range child.Nodes() {
		n.adopt(ch)
	}
	if child.shadow != nil {
		n.adopt(child.shadow)
	}
}

// changed is called after the children of n have changed.
func (n *Node) changed() {
	if n.isStyleElement() {
		n.sheet = nil
	}
	if n.doc != nil {
		n.doc.InvalidateComputedStyles()
	}
}

// AppendChild appends a node to the children of n, removing it from its
// previous parent first.
func (n *Node) AppendChild(child *Node) error {
	if err := n.checkInsert(child); err != nil {
		return err
	}
	old := child.Parent()
	n.adopt(child)
	n.tn.AddChild(&child.tn)
	if old != nil && old != n {
		old.changed()
	}
	n.changed()
	return nil
}

// InsertBefore inserts a node as a child of n before ref. With ref nil it
// appends.
func (n *Node) InsertBefore(child, ref *Node) error {
	if ref == nil {
		return n.AppendChild(child)
	}
	if err := n.checkInsert(child); err != nil {
		return err
	}
	if ref.Parent() != n {
		return ErrNotFound
	}
	if child == ref {
		return nil
	}
	old := child.Parent()
	n.adopt(child)
	child.tn.Isolate()
	n.tn.InsertChildAt(n.tn.IndexOfChild(&ref.tn), &child.tn)
	if old != nil && old != n {
		old.changed()
	}
	n.changed()
	return nil
}

// RemoveChild detaches a child from n.
func (n *Node) RemoveChild(child *Node) error {
	if child == nil || child.Parent() != n {
		return ErrNotFound
	}
	child.tn.Isolate()
	n.changed()
	return nil
}

// Remove detaches a node from its parent, if any.
func (n *Node) Remove() {
	if p := n.Parent(); p != nil {
		_ = p.RemoveChild(n)
	}
}

// SetAttribute sets the value of an attribute of an element.
func (n *Node) SetAttribute(name, value string) error {
	if n.kind != w3cdom.ElementNode {
		return ErrNotSupported
	}
	name = strings.ToLower(name)
	found := false
	for i := range n.attrs {
		if n.attrs[i].Key == name {
			n.attrs[i].Val = value
			found = true
			break
		}
	}
	if !found {
		n.attrs = append(n.attrs, html.Attribute{Key: name, Val: value})
	}
	n.attributeChanged(name)
	return nil
}

// RemoveAttribute removes an attribute of an element. Removing a missing
// attribute is not an error.
func (n *Node) RemoveAttribute(name string) error {
	if n.kind != w3cdom.ElementNode {
		return ErrNotSupported
	}
	name = strings.ToLower(name)
	for i := range n.attrs {
		if n.attrs[i].Key == name {
			n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
			n.attributeChanged(name)
			return nil
		}
	}
	return nil
}

func (n *Node) attributeChanged(name string) {
	switch name {
	case "media", "href", "rel":
		n.sheet = nil
	}
	if n.doc != nil {
		n.doc.InvalidateComputedStyles()
	}
}

// SetData changes the text of a text or comment node.
func (n *Node) SetData(text string) error {
	if n.kind != w3cdom.TextNode && n.kind != w3cdom.CommentNode {
		return ErrNotSupported
	}
	n.data = text
	if p := n.Parent(); p != nil {
		p.changed()
	} else if n.doc != nil {
		n.doc.InvalidateComputedStyles()
	}
	return nil
}

// SetTextContent replaces all children of n by a single text node. For text
// and comment nodes it sets their text.
func (n *Node) SetTextContent(text string) error {
	if n.kind == w3cdom.TextNode || n.kind == w3cdom.CommentNode {
		return n.SetData(text)
	}
	if !n.canHaveChildren() {
		return ErrNotSupported
	}
	for _, ch := range n.Nodes() {
		ch.tn.Isolate()
	}
	if text != "" {
		t := n.doc.CreateTextNode(text)
		n.tn.AddChild(&t.tn)
	}
	n.changed()
	return nil
}

// AttachShadow attaches a shadow root to an element. Only custom elements
// and a set of well-known HTML elements may host a shadow root, and only one.
func (n *Node) AttachShadow(mode ShadowMode) (*Node, error) {
	if n.kind != w3cdom.ElementNode {
		return nil, ErrNotSupported
	}
	if n.shadow != nil {
		return nil, ErrNotSupported
	}
	if !strings.Contains(n.name, "-") && !shadowHosts[n.atom] {
		return nil, ErrNotSupported
	}
	root := n.doc.newShadowRoot(n, mode)
	n.doc.InvalidateComputedStyles()
	return root, nil
}

// SetAdoptedStyleSheets sets the adopted style sheets of a document or
// shadow root.
func (n *Node) SetAdoptedStyleSheets(sheets ...*cssom.Sheet) error {
	if n.kind != w3cdom.DocumentNode && n.kind != w3cdom.ShadowRootNode {
		return ErrNotSupported
	}
	n.adopted = append([]*cssom.Sheet(nil), sheets...)
	if n.doc != nil {
		n.doc.InvalidateComputedStyles()
	}
	return nil
}

// AdoptedStyleSheets returns the adopted style sheets of a document or
// shadow root.
func (n *Node) AdoptedStyleSheets() []*cssom.Sheet {
	return append([]*cssom.Sheet(nil), n.adopted...)
}
