package dom

import (
	"github.com/npillmayer/styledom/dom/w3cdom"
	"github.com/npillmayer/styledom/tree"
)

// NodeIsText is a predicate to match text-nodes of a DOM.
// It is intended to be used in tree walks.
var NodeIsText tree.Predicate[*Node] = func(n *tree.Node[*Node]) bool {
	return n.Payload.kind == w3cdom.TextNode
}

// NodeIsElement is a predicate to match element nodes of a DOM.
var NodeIsElement tree.Predicate[*Node] = func(n *tree.Node[*Node]) bool {
	return n.Payload.kind == w3cdom.ElementNode
}

// NodeIsStyleSource is a predicate to match <style> elements and
// <link rel="stylesheet"> elements.
var NodeIsStyleSource tree.Predicate[*Node] = func(n *tree.Node[*Node]) bool {
	return n.Payload.isStyleElement() || n.Payload.isStyleLink()
}

// NodeWithID returns a predicate to match elements by ID.
func NodeWithID(id string) tree.Predicate[*Node] {
	return func(n *tree.Node[*Node]) bool {
		return n.Payload.kind == w3cdom.ElementNode && n.Payload.ID() == id
	}
}
