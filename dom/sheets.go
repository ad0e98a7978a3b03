package dom

import (
	"strings"

	"github.com/npillmayer/styledom/dom/style/cssom"
	"github.com/npillmayer/styledom/dom/w3cdom"
	"github.com/npillmayer/styledom/tree"
	"golang.org/x/net/html/atom"
)

// MaxImportDepth limits the nesting of @import rules.
const MaxImportDepth = 8

func (n *Node) isStyleElement() bool {
	return n.kind == w3cdom.ElementNode && n.atom == atom.Style
}

func (n *Node) isStyleLink() bool {
	if n.kind != w3cdom.ElementNode || n.atom != atom.Link {
		return false
	}
	rel, _ := n.Attribute("rel")
	for _, r := range strings.Fields(rel) {
		if strings.EqualFold(r, "stylesheet") {
			href, _ := n.Attribute("href")
			return href != ""
		}
	}
	return false
}

// StyleSheets returns the style sheets of a document or shadow root: first
// the sheets of <style> elements in tree order, then the sheets of
// <link rel="stylesheet"> elements in tree order, then the adopted sheets.
// Content of <template> elements is not considered.
//
// Sheets of style elements are parsed on first use and kept until the element
// changes. Linked sheets and imports are loaded with the document's
// SheetLoader.
func (n *Node) StyleSheets() []*cssom.Sheet {
	if n.kind != w3cdom.DocumentNode && n.kind != w3cdom.ShadowRootNode {
		return nil
	}
	var styles, links []*cssom.Sheet
	_ = tree.TopDown(&n.tn, func(t *tree.Node[*Node], depth int) error {
		el := t.Payload
		if el.kind == w3cdom.ElementNode && el.atom == atom.Template {
			return tree.SkipChildren
		}
		if !NodeIsStyleSource(t) {
			return nil
		}
		if el.isStyleElement() {
			if s := el.styleSheet(); s != nil {
				styles = append(styles, s)
			}
		} else if s := el.linkedSheet(); s != nil {
			links = append(links, s)
		}
		return nil
	})
	sheets := append(styles, links...)
	return append(sheets, n.adopted...)
}

// StyleSheet returns the sheet of a <style> or <link rel="stylesheet">
// element, or nil.
func (n *Node) StyleSheet() *cssom.Sheet {
	switch {
	case n.isStyleElement():
		return n.styleSheet()
	case n.isStyleLink():
		return n.linkedSheet()
	}
	return nil
}

func (n *Node) styleSheet() *cssom.Sheet {
	if n.sheet == nil {
		n.sheet = n.doc.parseSheet(n.TextContent(), "", n)
	}
	return n.sheet
}

func (n *Node) linkedSheet() *cssom.Sheet {
	if n.sheet != nil {
		return n.sheet
	}
	href, _ := n.Attribute("href")
	text, ok := n.doc.load(href)
	if !ok {
		return nil
	}
	n.sheet = n.doc.parseSheet(text, href, n)
	return n.sheet
}

func (doc *Document) load(href string) (string, bool) {
	if doc.loader == nil {
		tracer().Debugf("no sheet loader, ignoring %q", href)
		return "", false
	}
	text, err := doc.loader.LoadSheet(href)
	if err != nil {
		tracer().Errorf("cannot load style sheet %q: %v", href, err)
		return "", false
	}
	return text, true
}

// parseSheet parses a style sheet for an owner element and resolves its
// imports.
func (doc *Document) parseSheet(text, href string, owner *Node) *cssom.Sheet {
	sheet, err := doc.parse(text)
	if err != nil {
		tracer().Infof("style sheet diagnostics: %v", err)
	}
	if sheet == nil {
		sheet = cssom.NewSheet()
	}
	sheet.SetOwner(owner)
	if href != "" {
		sheet.SetHref(href)
	}
	if media, ok := owner.Attribute("media"); ok {
		sheet.SetMedia(media)
	}
	doc.resolveImports(sheet, 1)
	return sheet
}

func (doc *Document) resolveImports(sheet *cssom.Sheet, depth int) {
	for _, r := range sheet.Rules() {
		if r.Type != cssom.ImportRule || r.Imported() != nil || r.Href == "" {
			continue
		}
		if depth > MaxImportDepth {
			tracer().Errorf("@import nested too deeply, ignoring %q", r.Href)
			continue
		}
		text, ok := doc.load(r.Href)
		if !ok {
			continue
		}
		imported, err := doc.parse(text)
		if err != nil {
			tracer().Infof("style sheet diagnostics in %q: %v", r.Href, err)
		}
		if imported == nil {
			continue
		}
		imported.SetHref(r.Href)
		doc.resolveImports(imported, depth+1)
		r.SetImported(imported)
	}
}
