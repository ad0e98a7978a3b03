/*
Package douceuradapter is an alternative parser for CSS style sheets, backed by
github.com/aymerick/douceur. It produces cssom.Sheets and may be plugged into
documents with dom.WithSheetParser.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package douceuradapter

import (
	"fmt"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/styledom/dom/style/cssom"
)

// tracer traces with key 'styledom.cssom'.
func tracer() tracing.Trace {
	return tracing.Select("styledom.cssom")
}

// Parse parses a style sheet with douceur. In contrast to cssom.Parse,
// douceur gives up on the first syntax error.
func Parse(text string) (*cssom.Sheet, error) {
	stylesheet, err := parser.Parse(text)
	if err != nil {
		tracer().Errorf("douceur cannot parse style sheet: %v", err)
		return cssom.NewSheet(), fmt.Errorf("%w: %v", cssom.ErrSyntax, err)
	}
	return Wrap(stylesheet), nil
}

var _ cssom.ParseFunc = Parse

// Wrap converts a douceur.css.Stylesheet into a cssom.Sheet.
func Wrap(stylesheet *css.Stylesheet) *cssom.Sheet {
	sheet := cssom.NewSheet()
	for _, r := range stylesheet.Rules {
		sheet.AppendRule(convert(r))
	}
	return sheet
}

func convert(r *css.Rule) *cssom.Rule {
	rule := &cssom.Rule{}
	if r.Kind == css.QualifiedRule {
		rule.Type = cssom.StyleRule
		rule.Prelude = r.Prelude
		if len(r.Selectors) > 0 {
			rule.Prelude = strings.Join(r.Selectors, ", ")
		}
	} else {
		rule.Name = strings.ToLower(strings.TrimPrefix(r.Name, "@"))
		rule.Type = cssom.RuleTypeFor(rule.Name)
		rule.Prelude = strings.TrimSpace(r.Prelude)
		if rule.Type == cssom.ImportRule {
			rule.Href, rule.Prelude = splitImport(rule.Prelude)
		}
	}
	for _, d := range r.Declarations {
		rule.Declarations = append(rule.Declarations, cssom.Declaration{
			Property:  strings.ToLower(d.Property),
			Value:     strings.TrimSpace(d.Value),
			Important: d.Important,
		})
	}
	for _, child := range r.Rules {
		rule.Rules = append(rule.Rules, convert(child))
	}
	return rule
}

// splitImport splits the prelude of @import into URL and media list.
func splitImport(prelude string) (string, string) {
	href, media := prelude, ""
	if strings.HasPrefix(prelude, "url(") {
		if end := strings.IndexByte(prelude, ')'); end > 0 {
			href, media = prelude[4:end], prelude[end+1:]
		}
	} else if i := strings.IndexAny(prelude, " \t\n"); i > 0 {
		href, media = prelude[:i], prelude[i:]
	}
	return strings.Trim(strings.TrimSpace(href), `"'`), strings.TrimSpace(media)
}
