package dom

import (
	"fmt"
	"io"
	"net/url"
	"strings"
	"weak"

	"github.com/npillmayer/styledom/dom/style"
	"github.com/npillmayer/styledom/dom/style/cssom"
	"github.com/npillmayer/styledom/dom/w3cdom"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Settings are the environment of a document, as far as it is observable by
// media queries and selectors.
type Settings struct {
	ViewportWidth  float64 // in px
	ViewportHeight float64 // in px
	MediaType      string  // "screen" or "print"
	ColorScheme    string  // "light" or "dark"
	ReducedMotion  bool
	URL            string
}

// DefaultSettings returns the settings of a 1024 by 768 screen with a light
// color scheme.
func DefaultSettings() Settings {
	return Settings{
		ViewportWidth:  1024,
		ViewportHeight: 768,
		MediaType:      "screen",
		ColorScheme:    "light",
	}
}

// SheetLoader loads the text of external style sheets, i.e. of
// <link rel="stylesheet"> elements and @import rules.
type SheetLoader interface {
	LoadSheet(href string) (string, error)
}

// SheetLoaderFunc is an adapter to use ordinary functions as SheetLoaders.
type SheetLoaderFunc func(href string) (string, error)

// LoadSheet calls f(href).
func (f SheetLoaderFunc) LoadSheet(href string) (string, error) {
	return f(href)
}

// Option configures a document.
type Option func(*Document)

// WithViewport sets the dimensions of the viewport in px.
func WithViewport(width, height float64) Option {
	return func(doc *Document) {
		doc.settings.ViewportWidth, doc.settings.ViewportHeight = width, height
	}
}

// WithColorScheme sets the preferred color scheme, "light" or "dark".
func WithColorScheme(scheme string) Option {
	return func(doc *Document) {
		doc.settings.ColorScheme = strings.ToLower(scheme)
	}
}

// WithMediaType sets the media type, "screen" or "print".
func WithMediaType(mediatype string) Option {
	return func(doc *Document) {
		doc.settings.MediaType = strings.ToLower(mediatype)
	}
}

// WithReducedMotion sets the user preference for reduced motion.
func WithReducedMotion(reduce bool) Option {
	return func(doc *Document) {
		doc.settings.ReducedMotion = reduce
	}
}

// WithURL sets the URL of the document. Its fragment selects the :target.
func WithURL(u string) Option {
	return func(doc *Document) {
		doc.settings.URL = u
	}
}

// WithSheetLoader sets a loader for external style sheets. Without a loader
// external sheets are ignored.
func WithSheetLoader(loader SheetLoader) Option {
	return func(doc *Document) {
		doc.loader = loader
	}
}

// WithSheetParser replaces the parser for style sheets. The default is
// cssom.Parse.
func WithSheetParser(parse cssom.ParseFunc) Option {
	return func(doc *Document) {
		if parse != nil {
			doc.parse = parse
		}
	}
}

// Document is the root of a document tree.
type Document struct {
	Node
	settings  Settings
	epoch     uint64
	observers []weak.Pointer[Node] // elements with a cached computed style
	active    *Node                // focused element
	defined   map[string]bool      // defined custom elements
	loader    SheetLoader
	parse     cssom.ParseFunc
}

// NewDocument creates an empty document.
func NewDocument(opts ...Option) *Document {
	doc := &Document{
		settings: DefaultSettings(),
		defined:  make(map[string]bool),
		parse:    cssom.Parse,
	}
	doc.Node.kind = w3cdom.DocumentNode
	doc.Node.doc = doc
	doc.Node.tn.Payload = &doc.Node
	for _, opt := range opts {
		opt(doc)
	}
	return doc
}

// Parse reads an HTML document.
func Parse(r io.Reader, opts ...Option) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("cannot parse HTML: %w", err)
	}
	return FromHTML(root, opts...), nil
}

// ParseString reads an HTML document from a string.
func ParseString(s string, opts ...Option) (*Document, error) {
	return Parse(strings.NewReader(s), opts...)
}

// FromHTML converts an HTML parse tree into a document. Templates with
// attribute 'shadowrootmode' attach a shadow root to their parent element.
func FromHTML(root *html.Node, opts ...Option) *Document {
	doc := NewDocument(opts...)
	if root.Type != html.DocumentNode {
		doc.build(&doc.Node, root)
		return doc
	}
	for h := root.FirstChild; h != nil; h = h.NextSibling {
		doc.build(&doc.Node, h)
	}
	return doc
}

func (doc *Document) build(parent *Node, h *html.Node) {
	var n *Node
	switch h.Type {
	case html.ElementNode:
		if h.DataAtom == atom.Template && parent.kind == w3cdom.ElementNode && parent.shadow == nil {
			if mode, ok := shadowRootMode(h); ok {
				root := doc.newShadowRoot(parent, mode)
				for c := h.FirstChild; c != nil; c = c.NextSibling {
					doc.build(root, c)
				}
				return
			}
		}
		n = doc.CreateElement(h.Data)
		n.attrs = make([]html.Attribute, len(h.Attr))
		copy(n.attrs, h.Attr)
	case html.TextNode:
		n = doc.CreateTextNode(h.Data)
	case html.CommentNode:
		n = doc.CreateComment(h.Data)
	case html.DoctypeNode:
		n = newNode(doc, w3cdom.DoctypeNode, h.Data)
	default:
		return
	}
	parent.tn.AddChild(&n.tn)
	for c := h.FirstChild; c != nil; c = c.NextSibling {
		doc.build(n, c)
	}
}

func shadowRootMode(h *html.Node) (ShadowMode, bool) {
	for _, a := range h.Attr {
		if a.Key == "shadowrootmode" {
			switch strings.ToLower(a.Val) {
			case "open":
				return Open, true
			case "closed":
				return Closed, true
			}
		}
	}
	return Open, false
}

func (doc *Document) newShadowRoot(host *Node, mode ShadowMode) *Node {
	root := newNode(doc, w3cdom.ShadowRootNode, "")
	root.host = host
	root.mode = mode
	host.shadow = root
	return root
}

// CreateElement creates a detached element.
func (doc *Document) CreateElement(tag string) *Node {
	return newNode(doc, w3cdom.ElementNode, strings.ToLower(tag))
}

// CreateTextNode creates a detached text node.
func (doc *Document) CreateTextNode(text string) *Node {
	n := newNode(doc, w3cdom.TextNode, "")
	n.data = text
	return n
}

// CreateComment creates a detached comment node.
func (doc *Document) CreateComment(text string) *Node {
	n := newNode(doc, w3cdom.CommentNode, "")
	n.data = text
	return n
}

// DocumentElement returns the root element of a document, usually <html>.
func (doc *Document) DocumentElement() *Node {
	if ch := doc.Children(); len(ch) > 0 {
		return ch[0]
	}
	return nil
}

// Head returns the <head> element, or nil.
func (doc *Document) Head() *Node {
	return doc.childOfRoot(atom.Head)
}

// Body returns the <body> element, or nil.
func (doc *Document) Body() *Node {
	return doc.childOfRoot(atom.Body)
}

func (doc *Document) childOfRoot(a atom.Atom) *Node {
	if root := doc.DocumentElement(); root != nil {
		for _, ch := range root.Children() {
			if ch.atom == a {
				return ch
			}
		}
	}
	return nil
}

// Settings returns the environment of a document.
func (doc *Document) Settings() Settings {
	return doc.settings
}

// URL returns the URL of a document.
func (doc *Document) URL() string {
	return doc.settings.URL
}

// SetURL changes the URL of a document, which may change the :target.
func (doc *Document) SetURL(u string) {
	doc.settings.URL = u
	doc.InvalidateComputedStyles()
}

// SetViewport changes the dimensions of the viewport.
func (doc *Document) SetViewport(width, height float64) {
	doc.settings.ViewportWidth, doc.settings.ViewportHeight = width, height
	doc.InvalidateComputedStyles()
}

func (doc *Document) fragment() string {
	if doc.settings.URL == "" {
		return ""
	}
	u, err := url.Parse(doc.settings.URL)
	if err != nil {
		return ""
	}
	return u.Fragment
}

// MediaContext returns the environment for evaluating media queries.
func (doc *Document) MediaContext() cssom.MediaContext {
	ctx := cssom.DefaultMediaContext()
	ctx.Width, ctx.Height = doc.settings.ViewportWidth, doc.settings.ViewportHeight
	if doc.settings.MediaType != "" {
		ctx.MediaType = doc.settings.MediaType
	}
	if doc.settings.ColorScheme != "" {
		ctx.ColorScheme = doc.settings.ColorScheme
	}
	ctx.ReducedMotion = doc.settings.ReducedMotion
	return ctx
}

// Focus makes an element the active element of its document. Focusing nil
// blurs the active element.
func (doc *Document) Focus(el *Node) {
	if el != nil && el.kind != w3cdom.ElementNode {
		return
	}
	doc.active = el
	doc.InvalidateComputedStyles()
}

// ActiveElement returns the focused element, or nil.
func (doc *Document) ActiveElement() *Node {
	return doc.active
}

// Define marks a custom element name as defined, i.e. matching :defined.
func (doc *Document) Define(name string) {
	doc.defined[strings.ToLower(name)] = true
	doc.InvalidateComputedStyles()
}

// --- Computed style cache --------------------------------------------------

// Epoch returns the mutation epoch of a document. Every mutation which may
// change computed styles increments it.
func (doc *Document) Epoch() uint64 {
	return doc.epoch
}

// InvalidateComputedStyles drops all cached computed styles of a document.
func (doc *Document) InvalidateComputedStyles() {
	for _, wp := range doc.observers {
		if n := wp.Value(); n != nil {
			n.computed = styleSlot{}
		}
	}
	doc.observers = doc.observers[:0]
	doc.epoch++
	tracer().Debugf("computed styles invalidated, epoch is %d", doc.epoch)
}

// CachedStyle returns the cached computed style of an element. It is valid
// only if neither the document nor any style sheet changed since it has been
// stored, and if the element is still connected.
func (n *Node) CachedStyle() (*style.ComputedMap, bool) {
	slot := n.computed
	if slot.styles == nil || n.doc == nil {
		return nil, false
	}
	if slot.epoch != n.doc.epoch || slot.generation != cssom.Generation() || !n.IsConnected() {
		return nil, false
	}
	return slot.styles, true
}

// StoreStyle caches a computed style for an element. Detached elements are
// not cached.
func (n *Node) StoreStyle(styles *style.ComputedMap) {
	if n.doc == nil || n.kind != w3cdom.ElementNode || !n.IsConnected() {
		return
	}
	registered := n.computed.registered
	n.computed = styleSlot{
		styles:     styles,
		epoch:      n.doc.epoch,
		generation: cssom.Generation(),
		registered: true,
	}
	if !registered {
		n.doc.observers = append(n.doc.observers, weak.Make(n))
	}
}
