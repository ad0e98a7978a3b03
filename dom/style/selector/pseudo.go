package selector

import (
	"strings"

	"github.com/npillmayer/styledom/dom/w3cdom"
)

// pseudo evaluates a pseudo-class for an element. Unknown pseudo-classes and
// pseudo-classes depending on user interaction we do not track never match.
func (m *matcher) pseudo(el w3cdom.Node, pc *PseudoClass) bool {
	switch pc.Name {
	case "not":
		return !m.group(el, pc.Group).Matched
	case "is", "where", "matches", "-webkit-any":
		return m.group(el, pc.Group).Matched
	case "has":
		return m.has(el, pc.Group)
	case "host":
		if m.opts.host == nil || el != m.opts.host {
			return false
		}
		return pc.Group == nil || m.unscoped().group(el, pc.Group).Matched
	case "host-context":
		if m.opts.host == nil || el != m.opts.host {
			return false
		}
		free := m.unscoped()
		for n := el; n != nil; n = shadowIncludingParent(n) {
			if free.group(n, pc.Group).Matched {
				return true
			}
		}
		return false
	case "root":
		p := el.ParentNode()
		return p != nil && p.NodeType() == w3cdom.DocumentNode
	case "scope":
		if m.opts.scope != nil {
			return el == m.opts.scope
		}
		p := el.ParentNode()
		return p != nil && p.NodeType() == w3cdom.DocumentNode
	case "empty":
		for _, ch := range el.ChildNodes() {
			switch ch.NodeType() {
			case w3cdom.ElementNode:
				return false
			case w3cdom.TextNode:
				if ch.NodeValue() != "" {
					return false
				}
			}
		}
		return true
	case "first-child":
		return position(el, false, nil) == 1
	case "last-child":
		return position(el, true, nil) == 1
	case "only-child":
		return position(el, false, nil) == 1 && position(el, true, nil) == 1
	case "first-of-type":
		return position(el, false, sameType(el)) == 1
	case "last-of-type":
		return position(el, true, sameType(el)) == 1
	case "only-of-type":
		return position(el, false, sameType(el)) == 1 && position(el, true, sameType(el)) == 1
	case "nth-child", "nth-last-child":
		var filter func(w3cdom.Node) bool
		if pc.Of != nil {
			if !m.group(el, pc.Of).Matched {
				return false
			}
			filter = func(n w3cdom.Node) bool { return m.group(n, pc.Of).Matched }
		}
		return pc.Nth(position(el, pc.Name == "nth-last-child", filter))
	case "nth-of-type", "nth-last-of-type":
		return pc.Nth(position(el, pc.Name == "nth-last-of-type", sameType(el)))
	case "checked":
		switch tag(el) {
		case "input":
			t := strings.ToLower(attr(el, "type"))
			return (t == "checkbox" || t == "radio") && hasAttr(el, "checked")
		case "option":
			return hasAttr(el, "selected")
		}
		return false
	case "disabled":
		return isFormControl(el) && hasAttr(el, "disabled")
	case "enabled":
		return isFormControl(el) && !hasAttr(el, "disabled")
	case "required":
		return isInputLike(el) && hasAttr(el, "required")
	case "optional":
		return isInputLike(el) && !hasAttr(el, "required")
	case "read-write":
		return isReadWrite(el)
	case "read-only":
		return !isReadWrite(el)
	case "placeholder-shown":
		t := tag(el)
		return (t == "input" || t == "textarea") && hasAttr(el, "placeholder") && attr(el, "value") == ""
	case "link", "any-link":
		t := tag(el)
		return (t == "a" || t == "area") && hasAttr(el, "href")
	case "target":
		return el.State()&w3cdom.Target != 0
	case "focus", "focus-visible":
		return el.State()&w3cdom.Focused != 0
	case "focus-within":
		return el.State()&(w3cdom.Focused|w3cdom.FocusWithin) != 0
	case "defined":
		return el.State()&w3cdom.Defined != 0
	case "lang":
		for n := el; n != nil; n = shadowIncludingParent(n) {
			if v, ok := n.Attribute("lang"); ok {
				v, want := strings.ToLower(v), strings.ToLower(pc.Arg)
				return v == want || strings.HasPrefix(v, want+"-")
			}
		}
		return false
	case "dir":
		dir := "ltr"
		for n := el; n != nil; n = shadowIncludingParent(n) {
			if v, ok := n.Attribute("dir"); ok {
				if v = strings.ToLower(v); v == "ltr" || v == "rtl" {
					dir = v
					break
				}
			}
		}
		return strings.EqualFold(dir, pc.Arg)
	case "hover", "active", "visited":
		return false
	}
	tracer().Debugf("unsupported pseudo-class :%s never matches", pc.Name)
	return false
}

// unscoped returns a matcher without host and scope restrictions, for
// evaluating the selector arguments of :host() and :host-context().
func (m *matcher) unscoped() *matcher {
	return &matcher{}
}

// has evaluates :has() for an anchor element. Every relative chain is tried
// against the candidates its leading combinator allows.
func (m *matcher) has(el w3cdom.Node, g *Group) bool {
	if g == nil {
		return false
	}
	for _, ch := range g.Chains {
		a := &anchor{node: el, rel: ch.Relative}
		var candidates []w3cdom.Node
		switch ch.Relative {
		case Child, Descendant:
			candidates = descendants(el, nil)
		case Adjacent, Subsequent:
			for s := el.NextElementSibling(); s != nil; s = s.NextElementSibling() {
				candidates = append(candidates, s)
				candidates = descendants(s, candidates)
				if ch.Relative == Adjacent {
					break
				}
			}
		}
		last := len(ch.Links) - 1
		for _, c := range candidates {
			if m.matchAt(c, ch, last, a) {
				return true
			}
		}
	}
	return false
}

// descendants appends all element descendants of n in document order.
// Shadow trees are not entered.
func descendants(n w3cdom.Node, list []w3cdom.Node) []w3cdom.Node {
	for _, ch := range n.ElementChildren() {
		list = append(list, ch)
		list = descendants(ch, list)
	}
	return list
}

func shadowIncludingParent(n w3cdom.Node) w3cdom.Node {
	p := n.ParentNode()
	if p == nil {
		return nil
	}
	switch p.NodeType() {
	case w3cdom.ElementNode:
		return p
	case w3cdom.ShadowRootNode:
		return p.Host()
	}
	return nil
}

// position returns the 1-based position of el among its element siblings
// satisfying filter, counting from the end if fromEnd is set.
func position(el w3cdom.Node, fromEnd bool, filter func(w3cdom.Node) bool) int {
	var siblings []w3cdom.Node
	if p := el.ParentNode(); p != nil {
		siblings = p.ElementChildren()
	} else {
		siblings = []w3cdom.Node{el}
	}
	pos := 0
	for i := range siblings {
		s := siblings[i]
		if fromEnd {
			s = siblings[len(siblings)-1-i]
		}
		if filter == nil || filter(s) || s == el {
			pos++
		}
		if s == el {
			return pos
		}
	}
	return 0
}

func sameType(el w3cdom.Node) func(w3cdom.Node) bool {
	t := tag(el)
	return func(n w3cdom.Node) bool { return tag(n) == t }
}

func tag(el w3cdom.Node) string {
	return strings.ToLower(el.LocalName())
}

func attr(el w3cdom.Node, name string) string {
	v, _ := el.Attribute(name)
	return v
}

func hasAttr(el w3cdom.Node, name string) bool {
	_, ok := el.Attribute(name)
	return ok
}

func isFormControl(el w3cdom.Node) bool {
	switch tag(el) {
	case "button", "input", "select", "textarea", "optgroup", "option", "fieldset":
		return true
	}
	return false
}

func isInputLike(el w3cdom.Node) bool {
	switch tag(el) {
	case "input", "select", "textarea":
		return true
	}
	return false
}

func isReadWrite(el w3cdom.Node) bool {
	switch tag(el) {
	case "input":
		switch strings.ToLower(attr(el, "type")) {
		case "checkbox", "radio", "button", "submit", "reset", "hidden", "image", "file", "range", "color":
			return false
		}
		return !hasAttr(el, "readonly") && !hasAttr(el, "disabled")
	case "textarea":
		return !hasAttr(el, "readonly") && !hasAttr(el, "disabled")
	}
	if v, ok := el.Attribute("contenteditable"); ok {
		v = strings.ToLower(v)
		return v == "" || v == "true" || v == "plaintext-only"
	}
	return false
}
