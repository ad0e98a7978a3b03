package cssom

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/npillmayer/styledom/dom/style"
	"github.com/npillmayer/styledom/dom/style/selector"
	"github.com/npillmayer/styledom/dom/w3cdom"
)

// StyleSheet is an interface to abstract away a stylesheet-implementation.
// In order to de-couple the parsing of CSS from the cascade, parsers
// produce sheets through this interface; sheets of different origin
// (e.g., see package douceuradapter) may be mixed.
//
// See type Rule.
type StyleSheet interface {
	AppendRules(StyleSheet) // append rules from another stylesheet
	Empty() bool            // does this stylesheet contain any rules?
	Rules() []*Rule         // all the top-level rules of a stylesheet
}

// ParseFunc is the signature of style sheet parsers.
type ParseFunc func(text string) (*Sheet, error)

// Errors of the sheet API.
var (
	ErrIndex  = errors.New("rule index out of range")
	ErrSyntax = errors.New("CSS syntax error")
)

// --- Generation ------------------------------------------------------------

var generation atomic.Uint64

// Generation returns the process-wide sheet generation. Every mutation of a
// style sheet, or of one of its rules, increments it.
func Generation() uint64 {
	return generation.Load()
}

func touch() {
	generation.Add(1)
}

// --- Rules -----------------------------------------------------------------

// RuleType is the kind of a CSS rule.
type RuleType uint8

// Rule types.
const (
	StyleRule RuleType = iota + 1
	MediaRule
	SupportsRule
	ScopeRule
	ContainerRule
	LayerRule
	ImportRule
	FontFaceRule
	KeyframesRule
	PageRule
	OtherRule
)

var ruleTypeNames = map[RuleType]string{
	StyleRule: "style", MediaRule: "@media", SupportsRule: "@supports", ScopeRule: "@scope",
	ContainerRule: "@container", LayerRule: "@layer", ImportRule: "@import",
	FontFaceRule: "@font-face", KeyframesRule: "@keyframes", PageRule: "@page",
	OtherRule: "@-rule",
}

func (t RuleType) String() string {
	if s, ok := ruleTypeNames[t]; ok {
		return s
	}
	return "?"
}

// RuleTypeFor returns the rule type for an at-keyword, with or without "@".
func RuleTypeFor(atKeyword string) RuleType {
	name := strings.ToLower(strings.TrimPrefix(atKeyword, "@"))
	switch name {
	case "media":
		return MediaRule
	case "supports":
		return SupportsRule
	case "scope":
		return ScopeRule
	case "container":
		return ContainerRule
	case "layer":
		return LayerRule
	case "import":
		return ImportRule
	case "font-face":
		return FontFaceRule
	case "page":
		return PageRule
	}
	if strings.HasSuffix(name, "keyframes") { // includes vendor prefixes
		return KeyframesRule
	}
	return OtherRule
}

// Declaration is a single property declaration of a rule.
type Declaration struct {
	Property  string
	Value     string
	Important bool
}

func (d Declaration) String() string {
	if d.Important {
		return d.Property + ": " + d.Value + " !important;"
	}
	return d.Property + ": " + d.Value + ";"
}

// Rule is the type stylesheets consist of. Style rules carry a selector
// prelude and declarations; block at-rules carry a condition prelude and
// child rules.
type Rule struct {
	Type         RuleType
	Name         string // at-keyword without '@', empty for style rules
	Prelude      string // selector text of style rules, condition of at-rules
	Declarations []Declaration
	Rules        []*Rule // child rules of block at-rules
	Href         string  // URL of @import rules
	sheet        *Sheet
	parent       *Rule
	imported     *Sheet
	mu           sync.Mutex
	group        *selector.Group
	groupErr     error
}

// Selector returns the prelude / selectors of the rule.
func (r *Rule) Selector() string {
	return r.Prelude
}

// Properties returns the property keys of a rule, e.g. "margin-top".
func (r *Rule) Properties() []string {
	props := make([]string, 0, len(r.Declarations))
	for _, d := range r.Declarations {
		props = append(props, d.Property)
	}
	return props
}

// Value returns the property value for a key, e.g. "15px". If a property is
// declared more than once, the last declaration counts.
func (r *Rule) Value(key string) style.Property {
	if d, ok := r.declaration(key); ok {
		return style.Property(d.Value)
	}
	return style.NullStyle
}

// IsImportant returns true if a style key is marked as important ("!").
func (r *Rule) IsImportant(key string) bool {
	d, ok := r.declaration(key)
	return ok && d.Important
}

func (r *Rule) declaration(key string) (Declaration, bool) {
	for i := len(r.Declarations) - 1; i >= 0; i-- {
		if r.Declarations[i].Property == key {
			return r.Declarations[i], true
		}
	}
	return Declaration{}, false
}

// SelectorGroup returns the parsed selector of a style rule. Parsing happens
// on first access; the result, including a syntax error, is cached.
func (r *Rule) SelectorGroup() (*selector.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.group == nil && r.groupErr == nil {
		r.group, r.groupErr = selector.Parse(r.Prelude)
		if r.groupErr != nil {
			tracer().Errorf("rejecting rule with invalid selector: %v", r.groupErr)
		}
	}
	return r.group, r.groupErr
}

// SetSelectorText replaces the selector of a style rule.
func (r *Rule) SetSelectorText(text string) {
	r.mu.Lock()
	r.Prelude = strings.TrimSpace(text)
	r.group, r.groupErr = nil, nil
	r.mu.Unlock()
	touch()
}

// SetProperty sets or replaces a declaration.
func (r *Rule) SetProperty(key, value string, important bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	d := Declaration{Property: key, Value: strings.TrimSpace(value), Important: important}
	replaced := false
	for i := range r.Declarations {
		if r.Declarations[i].Property == key {
			r.Declarations[i] = d
			replaced = true
		}
	}
	if !replaced {
		r.Declarations = append(r.Declarations, d)
	}
	touch()
}

// RemoveProperty removes all declarations for a key.
func (r *Rule) RemoveProperty(key string) {
	decls := r.Declarations[:0]
	for _, d := range r.Declarations {
		if d.Property != key {
			decls = append(decls, d)
		}
	}
	r.Declarations = decls
	touch()
}

// Sheet returns the style sheet a rule belongs to.
func (r *Rule) Sheet() *Sheet {
	return r.sheet
}

// ParentRule returns the enclosing block at-rule, if any.
func (r *Rule) ParentRule() *Rule {
	return r.parent
}

// Imported returns the sheet loaded for an @import rule, or nil.
func (r *Rule) Imported() *Sheet {
	return r.imported
}

// SetImported attaches the sheet loaded for an @import rule.
func (r *Rule) SetImported(sheet *Sheet) {
	r.imported = sheet
	touch()
}

// ImportMedia returns the media list of an @import rule.
func (r *Rule) ImportMedia() string {
	return r.Prelude
}

// CSSText serializes a rule.
func (r *Rule) CSSText() string {
	var sb strings.Builder
	r.write(&sb, "")
	return sb.String()
}

func (r *Rule) write(sb *strings.Builder, indent string) {
	switch r.Type {
	case StyleRule:
		sb.WriteString(indent + r.Prelude + " {")
		for _, d := range r.Declarations {
			sb.WriteString(" " + d.String())
		}
		sb.WriteString(" }")
	case ImportRule:
		fmt.Fprintf(sb, "%s@import url(%q)", indent, r.Href)
		if r.Prelude != "" {
			sb.WriteString(" " + r.Prelude)
		}
		sb.WriteString(";")
	default:
		sb.WriteString(indent + "@" + r.Name)
		if r.Prelude != "" {
			sb.WriteString(" " + r.Prelude)
		}
		if len(r.Rules) == 0 && len(r.Declarations) == 0 && r.Type == LayerRule {
			sb.WriteString(";")
			return
		}
		sb.WriteString(" {")
		for _, d := range r.Declarations {
			sb.WriteString(" " + d.String())
		}
		for _, child := range r.Rules {
			sb.WriteString("\n")
			child.write(sb, indent+"  ")
		}
		if len(r.Rules) > 0 {
			sb.WriteString("\n" + indent)
		} else {
			sb.WriteString(" ")
		}
		sb.WriteString("}")
	}
}

func (r *Rule) adopt(sheet *Sheet, parent *Rule) {
	r.sheet, r.parent = sheet, parent
	for _, child := range r.Rules {
		child.adopt(sheet, r)
	}
}

// --- Sheets ----------------------------------------------------------------

// Sheet is a CSS style sheet.
type Sheet struct {
	mu       sync.RWMutex
	rules    []*Rule
	disabled bool
	media    string
	href     string
	owner    w3cdom.Node
}

var _ StyleSheet = &Sheet{}

// NewSheet creates an empty, constructable style sheet.
func NewSheet() *Sheet {
	return &Sheet{}
}

// Empty checks if this stylesheet contains any rules.
func (s *Sheet) Empty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rules) == 0
}

// Rules returns the top-level rules of a sheet.
func (s *Sheet) Rules() []*Rule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rules := make([]*Rule, len(s.rules))
	copy(rules, s.rules)
	return rules
}

// AppendRules appends the rules of another stylesheet.
func (s *Sheet) AppendRules(other StyleSheet) {
	if other == nil {
		return
	}
	rules := other.Rules()
	s.mu.Lock()
	for _, r := range rules {
		r.adopt(s, nil)
		s.rules = append(s.rules, r)
	}
	s.mu.Unlock()
	touch()
}

// AppendRule appends a single rule, including its child rules.
func (s *Sheet) AppendRule(r *Rule) {
	s.mu.Lock()
	r.adopt(s, nil)
	s.rules = append(s.rules, r)
	s.mu.Unlock()
	touch()
}

// InsertRule parses a single rule and inserts it at position index.
// It returns the index of the inserted rule.
func (s *Sheet) InsertRule(text string, index int) (int, error) {
	parsed, err := Parse(text)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	rules := parsed.Rules()
	if len(rules) != 1 {
		return 0, fmt.Errorf("%w: expected exactly one rule, have %d", ErrSyntax, len(rules))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index > len(s.rules) {
		return 0, fmt.Errorf("%w: cannot insert at %d", ErrIndex, index)
	}
	r := rules[0]
	r.adopt(s, nil)
	s.rules = append(s.rules, nil)
	copy(s.rules[index+1:], s.rules[index:])
	s.rules[index] = r
	touch()
	return index, nil
}

// DeleteRule removes the rule at position index.
func (s *Sheet) DeleteRule(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.rules) {
		return fmt.Errorf("%w: cannot delete rule %d of %d", ErrIndex, index, len(s.rules))
	}
	s.rules = append(s.rules[:index], s.rules[index+1:]...)
	touch()
	return nil
}

// ReplaceSync replaces all rules of a sheet by the rules of text.
// Parse diagnostics are returned, but do not prevent the replacement.
func (s *Sheet) ReplaceSync(text string) error {
	parsed, err := Parse(text)
	rules := parsed.Rules()
	s.mu.Lock()
	s.rules = s.rules[:0]
	for _, r := range rules {
		r.adopt(s, nil)
		s.rules = append(s.rules, r)
	}
	s.mu.Unlock()
	touch()
	return err
}

// SetDisabled enables or disables a sheet. Disabled sheets do not take part
// in the cascade.
func (s *Sheet) SetDisabled(disabled bool) {
	s.mu.Lock()
	s.disabled = disabled
	s.mu.Unlock()
	touch()
}

// Disabled returns the disabled flag of a sheet.
func (s *Sheet) Disabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.disabled
}

// SetMedia sets the media list of a sheet.
func (s *Sheet) SetMedia(media string) {
	s.mu.Lock()
	s.media = strings.TrimSpace(media)
	s.mu.Unlock()
	touch()
}

// Media returns the media list of a sheet. An empty list matches all media.
func (s *Sheet) Media() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.media
}

// Href returns the location a sheet has been loaded from, if any.
func (s *Sheet) Href() string {
	return s.href
}

// SetHref sets the location a sheet has been loaded from.
func (s *Sheet) SetHref(href string) {
	s.href = href
}

// Owner returns the node owning a sheet, i.e. a <style> or <link> element.
// Constructed sheets have no owner.
func (s *Sheet) Owner() w3cdom.Node {
	return s.owner
}

// SetOwner sets the owner node of a sheet.
func (s *Sheet) SetOwner(n w3cdom.Node) {
	s.owner = n
}

// CSSText serializes all rules of a sheet.
func (s *Sheet) CSSText() string {
	rules := s.Rules()
	texts := make([]string, len(rules))
	for i, r := range rules {
		texts[i] = r.CSSText()
	}
	return strings.Join(texts, "\n")
}
