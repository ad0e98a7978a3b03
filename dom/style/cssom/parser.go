package cssom

import (
	"errors"
	"fmt"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/multierr"
)

// Parse parses the text of a style sheet. Parsing is forgiving: the resulting
// sheet is always usable and contains all rules which could be recognized.
// Problems are reported as a multi-error of diagnostics (see package
// go.uber.org/multierr).
func Parse(text string) (*Sheet, error) {
	sheet := &Sheet{}
	p := css.NewParser(parse.NewInputString(text), false)
	var stack []*Rule
	var errs error
	var selectors []string
	add := func(r *Rule) {
		if len(stack) > 0 {
			parent := stack[len(stack)-1]
			r.sheet, r.parent = sheet, parent
			parent.Rules = append(parent.Rules, r)
			return
		}
		r.sheet = sheet
		sheet.rules = append(sheet.rules, r)
	}
	pop := func() {
		if len(stack) > 0 {
			stack = stack[:len(stack)-1]
		}
	}
	for {
		gt, _, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			if err := p.Err(); err != nil {
				if !errors.Is(err, io.EOF) {
					errs = multierr.Append(errs, fmt.Errorf("%w: %v", ErrSyntax, err))
				}
				if len(stack) > 0 {
					tracer().Debugf("sheet ends with %d unclosed blocks", len(stack))
				}
				tracer().Debugf("parsed style sheet with %d rules", len(sheet.rules))
				return sheet, errs
			}
			errs = multierr.Append(errs, fmt.Errorf("%w: cannot parse %q", ErrSyntax, tokenText(data, p.Values())))
		case css.CommentGrammar:
		case css.AtRuleGrammar:
			add(blocklessAtRule(string(data), p.Values()))
		case css.BeginAtRuleGrammar:
			name := strings.ToLower(strings.TrimPrefix(string(data), "@"))
			r := &Rule{
				Type:    RuleTypeFor(name),
				Name:    name,
				Prelude: tokenText(nil, p.Values()),
			}
			add(r)
			stack = append(stack, r)
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			pop()
		case css.QualifiedRuleGrammar:
			selectors = append(selectors, tokenText(data, p.Values()))
		case css.BeginRulesetGrammar:
			selectors = append(selectors, tokenText(data, p.Values()))
			r := &Rule{Type: StyleRule, Prelude: strings.Join(selectors, ", ")}
			selectors = selectors[:0]
			add(r)
			stack = append(stack, r)
		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			if len(stack) == 0 {
				errs = multierr.Append(errs, fmt.Errorf("%w: declaration %q outside of rule", ErrSyntax, data))
				continue
			}
			d := declaration(string(data), p.Values(), gt == css.CustomPropertyGrammar)
			top := stack[len(stack)-1]
			top.Declarations = append(top.Declarations, d)
		}
	}
}

// ParseDeclarationBlock parses the contents of a declaration block, as found
// in style attributes, e.g. "color: red; margin: 0 !important".
func ParseDeclarationBlock(text string) ([]Declaration, error) {
	p := css.NewParser(parse.NewInputString(text), true)
	var decls []Declaration
	var errs error
	for {
		gt, _, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			if err := p.Err(); err != nil {
				if !errors.Is(err, io.EOF) {
					errs = multierr.Append(errs, fmt.Errorf("%w: %v", ErrSyntax, err))
				}
				return decls, errs
			}
			errs = multierr.Append(errs, fmt.Errorf("%w: cannot parse %q", ErrSyntax, tokenText(data, p.Values())))
		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			decls = append(decls, declaration(string(data), p.Values(), gt == css.CustomPropertyGrammar))
		}
	}
}

// declaration builds a declaration from a property name and its value tokens,
// detecting a trailing "!important".
func declaration(name string, values []css.Token, custom bool) Declaration {
	d := Declaration{Property: strings.TrimSpace(name)}
	if !custom {
		d.Property = strings.ToLower(d.Property)
	}
	end := len(values)
	for end > 0 && values[end-1].TokenType == css.WhitespaceToken {
		end--
	}
	if end > 0 && values[end-1].TokenType == css.IdentToken &&
		strings.EqualFold(string(values[end-1].Data), "important") {
		j := end - 2
		for j >= 0 && values[j].TokenType == css.WhitespaceToken {
			j--
		}
		if j >= 0 && values[j].TokenType == css.DelimToken && string(values[j].Data) == "!" {
			d.Important = true
			end = j
		}
	}
	d.Value = tokenText(nil, values[:end])
	if custom && !d.Important { // custom property values arrive as a single token
		if v := strings.TrimSpace(d.Value); len(v) >= 10 && strings.EqualFold(v[len(v)-9:], "important") {
			if w := strings.TrimSpace(v[:len(v)-9]); strings.HasSuffix(w, "!") {
				d.Value = strings.TrimSpace(strings.TrimSuffix(w, "!"))
				d.Important = true
			}
		}
	}
	return d
}

// blocklessAtRule creates rules like "@import url(x.css) screen;" or
// "@layer base, theme;".
func blocklessAtRule(keyword string, values []css.Token) *Rule {
	name := strings.ToLower(strings.TrimPrefix(keyword, "@"))
	r := &Rule{Type: RuleTypeFor(name), Name: name}
	if r.Type != ImportRule {
		r.Prelude = tokenText(nil, values)
		return r
	}
	for i, t := range values {
		switch t.TokenType {
		case css.StringToken:
			r.Href = unquote(string(t.Data))
		case css.URLToken:
			s := strings.TrimSuffix(strings.TrimPrefix(string(t.Data), "url("), ")")
			r.Href = unquote(strings.TrimSpace(s))
		case css.WhitespaceToken:
			continue
		}
		if r.Href != "" {
			r.Prelude = tokenText(nil, values[i+1:])
			break
		}
	}
	return r
}

// tokenText joins the text of tokens, collapsing whitespace.
func tokenText(first []byte, values []css.Token) string {
	var sb strings.Builder
	sb.Write(first)
	for _, t := range values {
		switch t.TokenType {
		case css.WhitespaceToken:
			sb.WriteByte(' ')
		case css.CommentToken:
		default:
			sb.Write(t.Data)
		}
	}
	return strings.TrimSpace(sb.String())
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
