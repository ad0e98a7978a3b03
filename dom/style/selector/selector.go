package selector

import (
	"errors"
	"fmt"
	"strings"
)

// Combinator relates a compound selector to the one preceding it in a chain.
type Combinator uint8

// Combinators. The first link of a chain always has combinator None.
const (
	None       Combinator = iota
	Descendant            // "a b"
	Child                 // "a > b"
	Adjacent              // "a + b"
	Subsequent            // "a ~ b"
)

func (c Combinator) String() string {
	switch c {
	case Descendant:
		return " "
	case Child:
		return ">"
	case Adjacent:
		return "+"
	case Subsequent:
		return "~"
	}
	return ""
}

// Group is a list of selector chains, matching if any of its chains matches.
type Group struct {
	Chains []*Chain
	text   string
}

// String returns the source text of the group.
func (g *Group) String() string {
	if g == nil {
		return ""
	}
	return g.text
}

// Empty is true for groups without chains. Such groups never match.
func (g *Group) Empty() bool {
	return g == nil || len(g.Chains) == 0
}

// Specificity returns the maximum specificity of all chains in g.
func (g *Group) Specificity() Specificity {
	var s Specificity
	if g == nil {
		return s
	}
	for _, ch := range g.Chains {
		s = maxSpecificity(s, ch.spec)
	}
	return s
}

// Link is one compound selector of a chain, together with the combinator
// relating it to the previous link.
type Link struct {
	Combinator Combinator
	*Compound
}

// Chain is a sequence of compound selectors joined by combinators.
type Chain struct {
	Links []Link
	// Relative is set for the arguments of :has(). It relates the first link to
	// the element the :has() is evaluated for. It is None for all other chains.
	Relative Combinator
	spec     Specificity
	host     bool
	text     string
}

func (ch *Chain) String() string {
	return ch.text
}

// Specificity returns the static specificity of a chain.
func (ch *Chain) Specificity() Specificity {
	return ch.spec
}

// IsHostChain is true if the chain contains :host or :host-context.
func (ch *Chain) IsHostChain() bool {
	return ch.host
}

// Weight returns the priority weight of a chain, used for cascade ordering.
func (ch *Chain) Weight() int {
	w := ch.spec.Weight()
	if ch.host {
		w += HostBonus
	}
	return w
}

// Subject returns the rightmost compound of the chain.
func (ch *Chain) Subject() *Compound {
	return ch.Links[len(ch.Links)-1].Compound
}

// Compound is a sequence of simple selectors without combinators,
// as in "input.field[type=text]:focus".
type Compound struct {
	Tag           string // lowercase tag name, "*" for universal or empty
	ID            string
	Classes       []string
	Attributes    []*AttributeMatcher
	PseudoClasses []*PseudoClass
	PseudoElement string // name of a pseudo-element, without colons
}

// IsPseudoElement is true if the compound addresses a pseudo-element.
// Pseudo-elements never match elements.
func (c *Compound) IsPseudoElement() bool {
	return c.PseudoElement != ""
}

func (c *Compound) hasHostPseudo() bool {
	for _, pc := range c.PseudoClasses {
		if pc.Name == "host" || pc.Name == "host-context" {
			return true
		}
	}
	return false
}

func (c *Compound) String() string {
	var sb strings.Builder
	sb.WriteString(c.Tag)
	if c.ID != "" {
		sb.WriteString("#" + c.ID)
	}
	for _, cl := range c.Classes {
		sb.WriteString("." + cl)
	}
	for _, a := range c.Attributes {
		sb.WriteString(a.String())
	}
	for _, pc := range c.PseudoClasses {
		sb.WriteString(pc.String())
	}
	if c.PseudoElement != "" {
		sb.WriteString("::" + c.PseudoElement)
	}
	return sb.String()
}

// AttributeMatcher tests an attribute of an element.
type AttributeMatcher struct {
	Name            string // lowercase attribute name
	Operator        string // one of "", "=", "~=", "|=", "^=", "$=", "*="
	Value           string
	CaseInsensitive bool
	match           func(string) bool // nil for existence tests
}

// Matches tests the value of an attribute. If the matcher has no operator,
// every value matches.
func (a *AttributeMatcher) Matches(value string) bool {
	if a.match == nil {
		return true
	}
	return a.match(value)
}

func (a *AttributeMatcher) String() string {
	if a.Operator == "" {
		return "[" + a.Name + "]"
	}
	flag := ""
	if a.CaseInsensitive {
		flag = " i"
	}
	return fmt.Sprintf("[%s%s%q%s]", a.Name, a.Operator, a.Value, flag)
}

// PseudoClass is a pseudo-class selector like ":first-child" or
// ":not(.hidden)".
type PseudoClass struct {
	Name   string // lowercase name, without colon
	Arg    string // raw argument text
	HasArg bool
	// Group holds the selector argument of :not, :is, :where, :has, :host()
	// and :host-context(). Arguments of :has are relative chains.
	Group *Group
	// Of holds the selector of :nth-child(An+B of S) and :nth-last-child.
	Of *Group
	// Nth tests a 1-based position for positional pseudo-classes.
	Nth func(int) bool
}

func (pc *PseudoClass) String() string {
	if pc.HasArg {
		return ":" + pc.Name + "(" + pc.Arg + ")"
	}
	return ":" + pc.Name
}

// --- Errors ----------------------------------------------------------------

// ErrSyntax is the error class of all selector syntax errors.
var ErrSyntax = errors.New("selector syntax error")

// ErrNotElement is returned for attempts to match a node which is not an element.
var ErrNotElement = errors.New("cannot match selector against non-element node")

// SyntaxError describes a malformed selector.
type SyntaxError struct {
	Selector string // text of the selector
	Pos      int    // byte position of the error
	Reason   string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid selector %q at position %d: %s", e.Selector, e.Pos, e.Reason)
}

// Is makes errors.Is(err, ErrSyntax) true for syntax errors.
func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}

// MatchResult is the result of matching a selector against an element.
type MatchResult struct {
	Matched bool
	Weight  int // priority weight for cascade ordering
}
