package selector

import (
	"strings"

	"github.com/npillmayer/styledom/dom/w3cdom"
)

// Match tests a selector group against an element. It returns whether any of
// the group's chains matches, together with the maximum weight of the
// matching chains.
//
// Matching a node which is not an element returns ErrNotElement, unless
// option IgnoreErrors is set.
func Match(el w3cdom.Node, g *Group, opts ...Option) (MatchResult, error) {
	o := collect(opts)
	if el == nil || el.NodeType() != w3cdom.ElementNode {
		if o.ignoreErrors {
			return MatchResult{}, nil
		}
		return MatchResult{}, ErrNotElement
	}
	if g.Empty() {
		return MatchResult{}, nil
	}
	m := &matcher{opts: o}
	return m.group(el, g), nil
}

// MatchText parses a selector and matches it against an element.
func MatchText(el w3cdom.Node, text string, opts ...Option) (MatchResult, error) {
	g, err := Parse(text, opts...)
	if err != nil {
		return MatchResult{}, err
	}
	return Match(el, g, opts...)
}

// Matches is a convenience predicate for permissive matching.
func (g *Group) Matches(el w3cdom.Node, opts ...Option) bool {
	r, _ := Match(el, g, append(opts, IgnoreErrors())...)
	return r.Matched
}

type matcher struct {
	opts options
}

// anchor is the element a relative chain (:has argument) is evaluated for.
type anchor struct {
	node w3cdom.Node
	rel  Combinator
}

func (m *matcher) group(el w3cdom.Node, g *Group) MatchResult {
	var r MatchResult
	if g == nil {
		return r
	}
	for _, ch := range g.Chains {
		if m.matchAt(el, ch, len(ch.Links)-1, nil) {
			if w := ch.Weight(); !r.Matched || w > r.Weight {
				r.Weight = w
			}
			r.Matched = true
		}
	}
	return r
}

// matchAt tests link i of chain ch against el, then walks the tree
// according to the link's combinator to test the links left of it.
func (m *matcher) matchAt(el w3cdom.Node, ch *Chain, i int, a *anchor) bool {
	link := ch.Links[i]
	if !m.compound(el, link.Compound) {
		return false
	}
	if i == 0 {
		return a == nil || related(el, a)
	}
	switch link.Combinator {
	case Child:
		p := m.parent(el)
		return p != nil && m.matchAt(p, ch, i-1, a)
	case Descendant:
		for p := m.parent(el); p != nil; p = m.parent(p) {
			if m.matchAt(p, ch, i-1, a) {
				return true
			}
		}
	case Adjacent:
		s := m.previous(el)
		return s != nil && m.matchAt(s, ch, i-1, a)
	case Subsequent:
		for s := m.previous(el); s != nil; s = m.previous(s) {
			if m.matchAt(s, ch, i-1, a) {
				return true
			}
		}
	}
	return false
}

// parent returns the element parent of n as seen by the matcher. Walks stop
// at a bounding scope, at the host and at shadow roots. The parent of a
// top-level element within the host's shadow tree is the host.
func (m *matcher) parent(n w3cdom.Node) w3cdom.Node {
	if m.opts.bounded && n == m.opts.scope {
		return nil
	}
	if m.opts.host != nil && n == m.opts.host {
		return nil
	}
	p := n.ParentNode()
	if p == nil {
		return nil
	}
	switch p.NodeType() {
	case w3cdom.ElementNode:
		return p
	case w3cdom.ShadowRootNode:
		if m.opts.host != nil && p.Host() == m.opts.host {
			return m.opts.host
		}
	}
	return nil
}

func (m *matcher) previous(n w3cdom.Node) w3cdom.Node {
	if m.opts.host != nil && n == m.opts.host {
		return nil
	}
	return n.PreviousElementSibling()
}

func related(el w3cdom.Node, a *anchor) bool {
	switch a.rel {
	case Child:
		return el.ParentNode() == a.node
	case Descendant:
		for p := el.ParentNode(); p != nil; p = p.ParentNode() {
			if p == a.node {
				return true
			}
		}
	case Adjacent:
		return el.PreviousElementSibling() == a.node
	case Subsequent:
		for s := el.PreviousElementSibling(); s != nil; s = s.PreviousElementSibling() {
			if s == a.node {
				return true
			}
		}
	}
	return false
}

func (m *matcher) compound(el w3cdom.Node, c *Compound) bool {
	if c.IsPseudoElement() {
		return false
	}
	if m.opts.host != nil && el == m.opts.host {
		// the host is featureless: only :host and :host-context may match it
		if !c.hasHostPseudo() || c.ID != "" || len(c.Classes) > 0 || len(c.Attributes) > 0 ||
			(c.Tag != "" && c.Tag != "*") {
			return false
		}
	}
	if c.Tag != "" && c.Tag != "*" && !strings.EqualFold(c.Tag, el.LocalName()) {
		return false
	}
	if c.ID != "" && el.ID() != c.ID {
		return false
	}
	if len(c.Classes) > 0 {
		classes := el.ClassList()
		for _, cl := range c.Classes {
			if !contains(classes, cl) {
				return false
			}
		}
	}
	for _, a := range c.Attributes {
		v, ok := el.Attribute(a.Name)
		if !ok || !a.Matches(v) {
			return false
		}
	}
	for _, pc := range c.PseudoClasses {
		if !m.pseudo(el, pc) {
			return false
		}
	}
	return true
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
