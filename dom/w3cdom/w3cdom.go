/*
Package w3cdom defines an interface type for W3C Document Object Models.

The interfaces of this package are the boundary between a document tree
and the selector engine: selector matching reads nodes exclusively through
them. See also https://dom.spec.whatwg.org/ .

Status

Early draft: API may change frequently. Please stay patient.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package w3cdom

// NodeType is the type of a DOM node.
type NodeType uint8

// Node types, numbered as in the W3C DOM.
const (
	ElementNode    NodeType = 1
	TextNode       NodeType = 3
	CommentNode    NodeType = 8
	DocumentNode   NodeType = 9
	DoctypeNode    NodeType = 10
	ShadowRootNode NodeType = 11 // a document fragment hosted by an element
)

func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "Element"
	case TextNode:
		return "Text"
	case CommentNode:
		return "Comment"
	case DocumentNode:
		return "Document"
	case DoctypeNode:
		return "DocumentType"
	case ShadowRootNode:
		return "DocumentFragment"
	}
	return "Node"
}

// State is a set of dynamic element states, as far as selectors may
// observe them.
type State uint8

// Element states.
const (
	Focused     State = 1 << iota // element is the active element
	FocusWithin                   // element is a shadow-including inclusive ancestor of the active element
	Target                        // element is the target of the document URL's fragment
	Defined                       // element is a built-in element or a defined custom element
)

// Node represents W3C-type Node.
//
// Methods returning a Node return an untyped nil if there is no such node.
type Node interface {
	NodeType() NodeType                    // type of the node (ElementNode, TextNode, etc.)
	NodeName() string                      // node name output depends on the node's type
	NodeValue() string                     // text of text and comment nodes, empty otherwise
	ParentNode() Node                      // parent node, if any; the parent of a shadow root's top element is the shadow root
	ChildNodes() []Node                    // all children, in document order
	ElementChildren() []Node               // element children, in document order
	PreviousElementSibling() Node          // previous sibling which is an element
	NextElementSibling() Node              // next sibling which is an element
	RootNode() Node                        // topmost ancestor: a document, a shadow root or a detached node
	Host() Node                            // for shadow roots: the host element
	ShadowRoot() Node                      // for shadow hosts: the shadow root, including closed ones
	LocalName() string                     // lowercase tag name of elements
	ID() string                            // value of attribute 'id'
	ClassList() []string                   // white-space separated values of attribute 'class'
	Attribute(name string) (string, bool)  // attribute lookup by (case-insensitive) name
	State() State                          // dynamic state of an element
}
