package selector

import (
	"fmt"
	"strings"

	"github.com/npillmayer/styledom/dom/w3cdom"
)

// Option configures parsing and matching.
type Option func(*options)

type options struct {
	ignoreErrors bool
	scope        w3cdom.Node // element matched by :scope
	bounded      bool        // scope is an upper bound for ancestor walks
	host         w3cdom.Node // shadow host for :host and :host-context
}

func collect(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// IgnoreErrors makes parsing and matching permissive: malformed selectors
// yield empty groups which never match, and matching non-elements returns a
// negative result instead of an error.
func IgnoreErrors() Option {
	return func(o *options) {
		o.ignoreErrors = true
	}
}

// WithScope sets the element matched by :scope and makes it an inclusive upper
// bound: ancestor walks of combinators do not proceed above it.
func WithScope(n w3cdom.Node) Option {
	return func(o *options) {
		o.scope = n
		o.bounded = n != nil
	}
}

// WithScopeElement sets the element matched by :scope, without bounding
// ancestor walks. If no scope is set, :scope matches the root element.
func WithScopeElement(n w3cdom.Node) Option {
	return func(o *options) {
		o.scope = n
		o.bounded = false
	}
}

// WithHost sets the shadow host for matching rules of a shadow tree's style
// sheets. The host is visible to :host and :host-context only.
func WithHost(host w3cdom.Node) Option {
	return func(o *options) {
		o.host = host
	}
}

// Parse parses a selector group. Malformed selectors result in a *SyntaxError,
// or, with option IgnoreErrors, in an empty group.
func Parse(text string, opts ...Option) (*Group, error) {
	o := collect(opts)
	p := &parser{src: text}
	g, err := p.group(text, 0)
	if err != nil {
		if o.ignoreErrors {
			tracer().Debugf("ignoring invalid selector: %v", err)
			return &Group{text: strings.TrimSpace(text)}, nil
		}
		return nil, err
	}
	return g, nil
}

// MustParse is like Parse, but panics for errors.
func MustParse(text string) *Group {
	g, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return g
}

type parser struct {
	src string
}

func (p *parser) errorf(pos int, format string, args ...interface{}) error {
	return &SyntaxError{
		Selector: p.src,
		Pos:      pos,
		Reason:   fmt.Sprintf(format, args...),
	}
}

// group parses a selector group. offset is the position of text within the
// source, for error positions.
func (p *parser) group(text string, offset int) (*Group, error) {
	chains, err := p.splitChains(text, offset)
	if err != nil {
		return nil, err
	}
	g := &Group{text: strings.TrimSpace(text)}
	for _, segs := range chains {
		ch, err := p.chain(segs)
		if err != nil {
			return nil, err
		}
		g.Chains = append(g.Chains, ch)
	}
	return g, nil
}

func (p *parser) chain(segs []segment) (*Chain, error) {
	ch := &Chain{}
	for _, seg := range segs {
		c, err := p.compound(seg.text, seg.pos)
		if err != nil {
			return nil, err
		}
		ch.Links = append(ch.Links, Link{Combinator: seg.comb, Compound: c})
	}
	first, last := segs[0], segs[len(segs)-1]
	ch.text = p.src[first.pos : last.pos+len(last.text)]
	ch.calcSpecificity()
	return ch, nil
}

// pseudo-elements which may be written with a single colon
var legacyPseudoElements = map[string]bool{
	"before": true, "after": true, "first-line": true, "first-letter": true,
}

// compound is the second scanning step, splitting a compound selector into
// simple selectors.
func (p *parser) compound(text string, offset int) (*Compound, error) {
	c := &Compound{}
	i := 0
	if text[0] == '*' {
		c.Tag = "*"
		i++
	} else if isNameStart(text[0]) {
		var tag string
		tag, i = ident(text, 0)
		c.Tag = strings.ToLower(tag)
	}
	for i < len(text) {
		switch text[i] {
		case '#':
			id, next := ident(text, i+1)
			if id == "" {
				return nil, p.errorf(offset+i, "expected identifier after '#'")
			}
			c.ID, i = id, next
		case '.':
			class, next := ident(text, i+1)
			if class == "" {
				return nil, p.errorf(offset+i, "expected class name after '.'")
			}
			c.Classes = append(c.Classes, class)
			i = next
		case '[':
			end := findClose(text, i)
			if end < 0 {
				return nil, p.errorf(offset+i, "missing ']'")
			}
			a, err := p.attribute(text[i+1:end], offset+i+1)
			if err != nil {
				return nil, err
			}
			c.Attributes = append(c.Attributes, a)
			i = end + 1
		case ':':
			element := strings.HasPrefix(text[i:], "::")
			start := i + 1
			if element {
				start++
			}
			name, next := ident(text, start)
			if name == "" {
				return nil, p.errorf(offset+i, "expected name after ':'")
			}
			name = strings.ToLower(name)
			arg, hasArg := "", false
			if next < len(text) && text[next] == '(' {
				end := findClose(text, next)
				if end < 0 {
					return nil, p.errorf(offset+next, "missing ')'")
				}
				arg, hasArg = text[next+1:end], true
				i = end + 1
				if element {
					name += "(" + arg + ")"
				}
			} else {
				i = next
			}
			if element || legacyPseudoElements[name] {
				c.PseudoElement = name
				continue
			}
			pc, err := p.pseudoClass(name, arg, hasArg, offset+next+1)
			if err != nil {
				return nil, err
			}
			c.PseudoClasses = append(c.PseudoClasses, pc)
		case '*':
			return nil, p.errorf(offset+i, "universal selector must come first in compound")
		default:
			return nil, p.errorf(offset+i, "unexpected character %q", text[i])
		}
	}
	return c, nil
}

// attribute parses the inner text of an attribute selector "[…]".
func (p *parser) attribute(inner string, offset int) (*AttributeMatcher, error) {
	i := skipSpace(inner, 0)
	name, i := ident(inner, i)
	if name == "" {
		return nil, p.errorf(offset+i, "expected attribute name")
	}
	a := &AttributeMatcher{Name: strings.ToLower(name)}
	i = skipSpace(inner, i)
	if i == len(inner) {
		return a, nil
	}
	switch {
	case inner[i] == '=':
		a.Operator = "="
		i++
	case strings.IndexByte("~|^$*", inner[i]) >= 0 && i+1 < len(inner) && inner[i+1] == '=':
		a.Operator = inner[i : i+2]
		i += 2
	default:
		return nil, p.errorf(offset+i, "unexpected character %q in attribute selector", inner[i])
	}
	i = skipSpace(inner, i)
	if i == len(inner) {
		return nil, p.errorf(offset+i, "missing attribute value")
	}
	if q := inner[i]; q == '"' || q == '\'' {
		var sb strings.Builder
		j := i + 1
		for ; j < len(inner) && inner[j] != q; j++ {
			if inner[j] == '\\' && j+1 < len(inner) {
				j++
			}
			sb.WriteByte(inner[j])
		}
		if j >= len(inner) {
			return nil, p.errorf(offset+i, "unterminated string")
		}
		a.Value = sb.String()
		i = j + 1
	} else {
		a.Value, i = ident(inner, i)
		if a.Value == "" {
			return nil, p.errorf(offset+i, "invalid attribute value")
		}
	}
	i = skipSpace(inner, i)
	if i < len(inner) {
		switch inner[i] {
		case 'i', 'I':
			a.CaseInsensitive = true
		case 's', 'S':
		default:
			return nil, p.errorf(offset+i, "unexpected character %q in attribute selector", inner[i])
		}
		if i = skipSpace(inner, i+1); i < len(inner) {
			return nil, p.errorf(offset+i, "unexpected trailing characters in attribute selector")
		}
	}
	a.match = compileAttributeMatch(a.Operator, a.Value, a.CaseInsensitive)
	return a, nil
}

func compileAttributeMatch(op, value string, ci bool) func(string) bool {
	norm := func(s string) string { return s }
	if ci {
		norm = strings.ToLower
		value = strings.ToLower(value)
	}
	switch op {
	case "=":
		return func(v string) bool { return norm(v) == value }
	case "~=":
		return func(v string) bool {
			for _, f := range strings.Fields(norm(v)) {
				if f == value {
					return true
				}
			}
			return false
		}
	case "|=":
		return func(v string) bool {
			v = norm(v)
			return v == value || strings.HasPrefix(v, value+"-")
		}
	case "^=":
		return func(v string) bool { return value != "" && strings.HasPrefix(norm(v), value) }
	case "$=":
		return func(v string) bool { return value != "" && strings.HasSuffix(norm(v), value) }
	case "*=":
		return func(v string) bool { return value != "" && strings.Contains(norm(v), value) }
	}
	return nil
}

// pseudoClass creates a pseudo-class, parsing its argument where the
// pseudo-class takes a selector or an An+B expression.
func (p *parser) pseudoClass(name, arg string, hasArg bool, offset int) (*PseudoClass, error) {
	pc := &PseudoClass{Name: name, Arg: arg, HasArg: hasArg}
	var err error
	switch name {
	case "not", "is", "where", "matches", "-webkit-any":
		if !hasArg || strings.TrimSpace(arg) == "" {
			return nil, p.errorf(offset, ":%s requires a selector argument", name)
		}
		pc.Group, err = p.group(arg, offset)
	case "host", "host-context":
		if name == "host-context" && !hasArg {
			return nil, p.errorf(offset, ":host-context requires a selector argument")
		}
		if hasArg {
			pc.Group, err = p.group(arg, offset)
		}
	case "has":
		if !hasArg || strings.TrimSpace(arg) == "" {
			return nil, p.errorf(offset, ":has requires a selector argument")
		}
		pc.Group, err = p.relativeGroup(arg, offset)
	case "nth-child", "nth-last-child":
		if !hasArg {
			return nil, p.errorf(offset, ":%s requires an argument", name)
		}
		nth, of := splitOf(arg)
		if pc.Nth, err = parseNth(nth); err != nil {
			return nil, p.errorf(offset, "%v", err)
		}
		if of >= 0 {
			pc.Of, err = p.group(arg[of:], offset+of)
		}
	case "nth-of-type", "nth-last-of-type":
		if !hasArg {
			return nil, p.errorf(offset, ":%s requires an argument", name)
		}
		if pc.Nth, err = parseNth(arg); err != nil {
			return nil, p.errorf(offset, "%v", err)
		}
	case "lang", "dir":
		if !hasArg || strings.TrimSpace(arg) == "" {
			return nil, p.errorf(offset, ":%s requires an argument", name)
		}
		pc.Arg = strings.Trim(strings.TrimSpace(arg), `"'`)
	}
	if err != nil {
		return nil, err
	}
	return pc, nil
}

// relativeGroup parses the argument list of :has(). Each argument may start
// with a combinator relating it to the anchor element. Arguments containing
// a nested :has() are dropped.
func (p *parser) relativeGroup(arg string, offset int) (*Group, error) {
	g := &Group{text: strings.TrimSpace(arg)}
	pos := offset
	for _, part := range splitTopLevel(arg, ',') {
		partOffset := pos
		pos += len(part) + 1
		if strings.Contains(strings.ToLower(part), ":has(") {
			tracer().Infof("dropping nested :has() argument %q", strings.TrimSpace(part))
			continue
		}
		i := skipSpace(part, 0)
		rel := Descendant
		if i < len(part) && strings.IndexByte(">+~", part[i]) >= 0 {
			rel = combinatorFor(part[i])
			i++
		}
		sub, err := p.group(part[i:], partOffset+i)
		if err != nil {
			return nil, err
		}
		if len(sub.Chains) != 1 {
			return nil, p.errorf(partOffset, "invalid relative selector")
		}
		ch := sub.Chains[0]
		ch.Relative = rel
		g.Chains = append(g.Chains, ch)
	}
	return g, nil
}

// splitOf finds a top-level " of " in an nth-child argument and returns the
// An+B part and the position of the selector following "of", or -1.
func splitOf(arg string) (string, int) {
	lower := strings.ToLower(arg)
	depth := 0
	for i := 0; i+2 <= len(lower); i++ {
		switch lower[i] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		}
		if depth == 0 && i > 0 && isSpace(lower[i-1]) && strings.HasPrefix(lower[i:], "of") &&
			i+2 < len(lower) && isSpace(lower[i+2]) {
			return arg[:i], i + 2
		}
	}
	return arg, -1
}
