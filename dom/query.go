package dom

import (
	"fmt"

	"github.com/npillmayer/styledom/dom/style/selector"
	"github.com/npillmayer/styledom/dom/w3cdom"
	"github.com/npillmayer/styledom/tree"
)

// SelectorError is returned by queries with an invalid selector.
type SelectorError struct {
	Op       string          // name of the query, e.g. "querySelector"
	Target   w3cdom.NodeType // type of the node queried
	Selector string
	Err      error
}

func (e *SelectorError) Error() string {
	return fmt.Sprintf("Failed to execute '%s' on '%s': '%s' is not a valid selector.",
		e.Op, e.Target, e.Selector)
}

func (e *SelectorError) Unwrap() error {
	return e.Err
}

func (n *Node) compile(op, sel string) (*selector.Group, error) {
	g, err := selector.Parse(sel)
	if err != nil {
		return nil, &SelectorError{Op: op, Target: n.kind, Selector: sel, Err: err}
	}
	return g, nil
}

// scoped returns the match options of queries on n.
func (n *Node) scoped() []selector.Option {
	if n.kind == w3cdom.ElementNode {
		return []selector.Option{selector.WithScopeElement(n)}
	}
	return nil
}

// QuerySelector returns the first descendant element of n matching sel, in
// document order. It returns nil if no element matches.
func (n *Node) QuerySelector(sel string) (*Node, error) {
	g, err := n.compile("querySelector", sel)
	if err != nil {
		return nil, err
	}
	opts := n.scoped()
	found := tree.FirstDescendantWith(&n.tn, func(t *tree.Node[*Node]) bool {
		return t.Payload.kind == w3cdom.ElementNode && g.Matches(t.Payload, opts...)
	})
	if found == nil {
		return nil, nil
	}
	return found.Payload, nil
}

// QuerySelectorAll returns all descendant elements of n matching sel, in
// document order.
func (n *Node) QuerySelectorAll(sel string) ([]*Node, error) {
	g, err := n.compile("querySelectorAll", sel)
	if err != nil {
		return nil, err
	}
	opts := n.scoped()
	var r []*Node
	for _, el := range n.descendantElements() {
		if g.Matches(el, opts...) {
			r = append(r, el)
		}
	}
	return r, nil
}

// Matches is true if element n matches sel.
func (n *Node) Matches(sel string) (bool, error) {
	g, err := n.compile("matches", sel)
	if err != nil {
		return false, err
	}
	if n.kind != w3cdom.ElementNode {
		return false, nil
	}
	return g.Matches(n, n.scoped()...), nil
}

// Closest returns the nearest inclusive ancestor element of n matching sel,
// or nil.
func (n *Node) Closest(sel string) (*Node, error) {
	g, err := n.compile("closest", sel)
	if err != nil {
		return nil, err
	}
	opts := n.scoped()
	for a := n; a != nil && a.kind == w3cdom.ElementNode; a = a.ParentElement() {
		if g.Matches(a, opts...) {
			return a, nil
		}
	}
	return nil, nil
}

// GetElementByID returns the first descendant element of n with the given
// ID, or nil.
func (n *Node) GetElementByID(id string) *Node {
	if id == "" {
		return nil
	}
	if found := tree.FirstDescendantWith(&n.tn, NodeWithID(id)); found != nil {
		return found.Payload
	}
	return nil
}
