package css

import (
	"fmt"
	"sort"
	"strings"

	"github.com/npillmayer/styledom/dom"
	"github.com/npillmayer/styledom/dom/style/cssom"
	"github.com/npillmayer/styledom/dom/style/selector"
	"github.com/npillmayer/styledom/dom/w3cdom"
	"go.uber.org/multierr"
)

// frame is an element on the shadow-including ancestor path of the element
// to style, together with the rules matching it.
type frame struct {
	el        *dom.Node
	root      *dom.Node // document or shadow root the element belongs to
	target    bool
	fragments []fragment
}

// fragment is the declaration block of a matched rule.
type fragment struct {
	decls  []cssom.Declaration
	weight int
	order  int
}

func (f *frame) add(decls []cssom.Declaration, weight, order int) {
	f.fragments = append(f.fragments, fragment{decls: decls, weight: weight, order: order})
}

// sorted returns the fragments by ascending weight. Fragments of equal
// weight keep their arrival order.
func (f *frame) sorted() []fragment {
	sort.SliceStable(f.fragments, func(i, j int) bool {
		return f.fragments[i].weight < f.fragments[j].weight
	})
	return f.fragments
}

// ancestorPath returns the frames for the shadow-including inclusive
// ancestors of el, top-down.
func ancestorPath(el *dom.Node) []*frame {
	var path []*frame
	for n := el; n != nil; {
		switch n.NodeType() {
		case w3cdom.ElementNode:
			path = append(path, &frame{el: n, root: n.Root(), target: n == el})
			n = n.Parent()
		case w3cdom.ShadowRootNode:
			n = n.HostElement()
		default:
			n = n.Parent()
		}
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// collector walks style sheets and distributes matched rules to frames.
type collector struct {
	media cssom.MediaContext
	errs  error
	order int
}

// scopeBucket is a tree (document or shadow tree) on the ancestor path with
// the frames of its elements.
type scopeBucket struct {
	root   *dom.Node
	frames []*frame
}

// collect distributes the rules of all relevant sheets to the frames of path.
func (c *collector) collect(path []*frame) {
	var buckets []*scopeBucket
	for _, f := range path {
		if n := len(buckets); n > 0 && buckets[n-1].root == f.root {
			buckets[n-1].frames = append(buckets[n-1].frames, f)
			continue
		}
		buckets = append(buckets, &scopeBucket{root: f.root, frames: []*frame{f}})
	}
	for _, b := range buckets {
		var opts []selector.Option
		if host := b.root.HostElement(); host != nil {
			opts = append(opts, selector.WithHost(host))
		}
		for _, s := range b.root.StyleSheets() {
			c.sheet(s, b.frames, opts, ownerOf(s), nil, 0)
		}
	}
	// :host rules of shadow hosts on the path
	for _, f := range path {
		shadow := f.el.Shadow()
		if shadow == nil {
			continue
		}
		opts := []selector.Option{selector.WithHost(f.el)}
		for _, s := range shadow.StyleSheets() {
			c.sheet(s, []*frame{f}, opts, ownerOf(s), nil, 0)
		}
	}
}

func ownerOf(s *cssom.Sheet) *dom.Node {
	if n, ok := s.Owner().(*dom.Node); ok {
		return n
	}
	return nil
}

func (c *collector) sheet(s *cssom.Sheet, frames []*frame, opts []selector.Option,
	owner *dom.Node, sc *scoping, depth int) {
	//
	if s == nil || s.Disabled() || depth > dom.MaxImportDepth {
		return
	}
	if !cssom.EvaluateMedia(s.Media(), c.media) {
		tracer().Debugf("media %q does not apply, skipping sheet", s.Media())
		return
	}
	c.rules(s.Rules(), frames, opts, owner, sc, depth)
}

func (c *collector) rules(rules []*cssom.Rule, frames []*frame, opts []selector.Option,
	owner *dom.Node, sc *scoping, depth int) {
	//
	for _, r := range rules {
		switch r.Type {
		case cssom.StyleRule:
			c.styleRule(r, frames, opts, sc)
		case cssom.MediaRule:
			if cssom.EvaluateMedia(r.Prelude, c.media) {
				c.rules(r.Rules, frames, opts, owner, sc, depth)
			}
		case cssom.SupportsRule:
			if cssom.EvaluateSupports(r.Prelude) {
				c.rules(r.Rules, frames, opts, owner, sc, depth)
			}
		case cssom.LayerRule:
			c.rules(r.Rules, frames, opts, owner, sc, depth)
		case cssom.ScopeRule:
			inner, err := newScoping(r.Prelude, owner, sc)
			if err != nil {
				c.errs = multierr.Append(c.errs, err)
				continue
			}
			c.rules(r.Rules, frames, opts, owner, inner, depth)
		case cssom.ImportRule:
			if imported := r.Imported(); imported != nil && cssom.EvaluateMedia(r.ImportMedia(), c.media) {
				c.sheet(imported, frames, opts, owner, sc, depth+1)
			}
		default:
			// @container, @font-face, @keyframes, @page and unknown rules
			// do not contribute to computed styles
		}
	}
}

func (c *collector) styleRule(r *cssom.Rule, frames []*frame, opts []selector.Option, sc *scoping) {
	g, err := r.SelectorGroup()
	if err != nil {
		c.errs = multierr.Append(c.errs, fmt.Errorf("skipping rule %q: %w", r.Selector(), err))
		return
	}
	for _, f := range frames {
		o := opts
		if sc != nil {
			root, ok := sc.rootFor(f.el)
			if !ok {
				continue
			}
			if root != nil {
				o = append(append([]selector.Option(nil), opts...), selector.WithScope(root))
			}
		}
		res, err := selector.Match(f.el, g, o...)
		if err != nil || !res.Matched {
			continue
		}
		tracer().Debugf("%s matches %q (weight %d)", f.el, r.Selector(), res.Weight)
		f.add(r.Declarations, res.Weight, c.order)
		c.order++
	}
}

// --- @scope ----------------------------------------------------------------

// scoping restricts rules to the subtrees between a scope root and optional
// scoping limits.
type scoping struct {
	start, end *selector.Group
	implicit   *dom.Node // scope root if there is no start selector
	outer      *scoping
}

// newScoping parses the prelude of an @scope rule, e.g.
// "(.card) to (.content)". Without a start selector the scope root is the
// parent element of the sheet's owner.
func newScoping(prelude string, owner *dom.Node, outer *scoping) (*scoping, error) {
	sc := &scoping{outer: outer}
	start, end, err := splitScopePrelude(prelude)
	if err != nil {
		return nil, err
	}
	if start != "" {
		if sc.start, err = selector.Parse(start); err != nil {
			return nil, fmt.Errorf("skipping @scope %q: %w", prelude, err)
		}
	} else if owner != nil {
		sc.implicit = owner.ParentElement()
	}
	if end != "" {
		if sc.end, err = selector.Parse(end); err != nil {
			return nil, fmt.Errorf("skipping @scope %q: %w", prelude, err)
		}
	}
	return sc, nil
}

func splitScopePrelude(prelude string) (string, string, error) {
	rest := strings.TrimSpace(prelude)
	var start, end string
	var ok bool
	if strings.HasPrefix(rest, "(") {
		if start, rest, ok = parenthesized(rest); !ok {
			return "", "", fmt.Errorf("%w: @scope %q", cssom.ErrSyntax, prelude)
		}
	}
	if rest != "" {
		if !strings.HasPrefix(strings.ToLower(rest), "to") {
			return "", "", fmt.Errorf("%w: @scope %q", cssom.ErrSyntax, prelude)
		}
		rest = strings.TrimSpace(rest[2:])
		if end, rest, ok = parenthesized(rest); !ok || rest != "" {
			return "", "", fmt.Errorf("%w: @scope %q", cssom.ErrSyntax, prelude)
		}
	}
	return start, end, nil
}

// parenthesized splits "(inner) rest" into inner and rest.
func parenthesized(s string) (string, string, bool) {
	if !strings.HasPrefix(s, "(") {
		return "", s, false
	}
	depth := 0
	for i, c := range s {
		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return strings.TrimSpace(s[1:i]), strings.TrimSpace(s[i+1:]), true
			}
		}
	}
	return "", s, false
}

// rootFor returns the scope root for el and true, if el is in scope. A nil
// root with true means that el is not restricted by this scoping.
func (sc *scoping) rootFor(el *dom.Node) (*dom.Node, bool) {
	if sc.outer != nil {
		if _, ok := sc.outer.rootFor(el); !ok {
			return nil, false
		}
	}
	if sc.start == nil && sc.implicit == nil {
		return nil, sc.end == nil || !sc.limited(el, nil)
	}
	for a := el; a != nil; a = a.ParentElement() {
		if sc.isRoot(a) {
			return a, true
		}
		if sc.end != nil && sc.end.Matches(a) {
			return nil, false
		}
	}
	return nil, false
}

func (sc *scoping) isRoot(el *dom.Node) bool {
	if sc.start != nil {
		return sc.start.Matches(el)
	}
	return el == sc.implicit
}

// limited is true if el or one of its ancestors below root matches the
// scoping limit.
func (sc *scoping) limited(el, root *dom.Node) bool {
	for a := el; a != nil && a != root; a = a.ParentElement() {
		if sc.end.Matches(a) {
			return true
		}
	}
	return false
}
