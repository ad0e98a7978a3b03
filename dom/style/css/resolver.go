package css

import (
	"strconv"
	"strings"
	"sync"

	units "github.com/npillmayer/styledom/css"
	"github.com/npillmayer/styledom/dom"
	"github.com/npillmayer/styledom/dom/style"
	"github.com/npillmayer/styledom/dom/style/cssom"
	"github.com/npillmayer/styledom/dom/w3cdom"
	"github.com/npillmayer/styledom/maybe"
)

// Resolver computes styles of elements.
//
// A strict resolver reports every rule it had to skip because of an invalid
// selector or @scope prelude. Strict resolvers never read the style cache,
// so that every call reports its diagnostics.
type Resolver struct {
	Strict bool
}

// ComputeStyle returns the computed style of an element. It never fails:
// broken rules are skipped. Detached elements yield an empty map.
func ComputeStyle(el *dom.Node) *style.ComputedMap {
	var r Resolver
	cm, _ := r.Compute(el)
	return cm
}

// Compute returns the computed style of an element. For strict resolvers
// the error combines (go.uber.org/multierr) all rules skipped.
func (r *Resolver) Compute(el *dom.Node) (*style.ComputedMap, error) {
	if el == nil || el.NodeType() != w3cdom.ElementNode || !el.IsConnected() {
		return style.NewComputedMap(), nil
	}
	if !r.Strict {
		if cm, ok := el.CachedStyle(); ok {
			tracer().Debugf("computed style cache hit for %s", el)
			return cm, nil
		}
	}
	tracer().Debugf("computing style for %s", el)
	doc := el.Document()
	path := ancestorPath(el)
	c := collector{media: doc.MediaContext()}
	c.collect(path)
	cm := cascade(path, doc.Settings())
	el.StoreStyle(cm)
	if r.Strict {
		return cm, c.errs
	}
	return cm, nil
}

// cascade merges the frames of path, top-down, into the computed style of
// the last frame.
func cascade(path []*frame, settings dom.Settings) *style.ComputedMap {
	running := style.NewComputedMap()
	vars := variables{}
	parentLocal := style.NewComputedMap() // declared values of the parent frame
	fs := fontSizes{root: units.DefaultFontSize, parent: units.DefaultFontSize}
	for _, f := range path {
		local := declared(f)
		vars = vars.clone()
		for _, k := range local.Keys() {
			if style.IsCustomProperty(k) {
				vars[k] = string(local.GetPropertyValue(k))
			}
		}
		own := style.NewComputedMap()
		for _, k := range local.Keys() {
			v, _ := local.Get(k)
			if style.IsCustomProperty(k) {
				if s, ok := vars.substitute(string(v.Value)); ok {
					running.Set(k, style.Value{Value: style.Property(s), Important: v.Important})
				}
				continue
			}
			if strings.Contains(string(v.Value), "var(") {
				s, ok := vars.substitute(string(v.Value))
				if !ok {
					tracer().Debugf("dropping %s: %s", k, v.Value)
					continue
				}
				v.Value = style.Property(s)
			}
			inherits := style.IsCascading(k)
			switch {
			case v.Value.IsInherit() || (v.Value.IsUnset() && inherits):
				p, ok := parentLocal.Get(k)
				if !ok && inherits {
					p, ok = running.Get(k)
				}
				if !ok {
					running.Delete(k)
					continue
				}
				v.Value = p.Value
			case v.Value.IsInitial() || v.Value.IsUnset():
				running.Delete(k)
				continue
			}
			own.Set(k, v)
		}
		fs.resolve(f, own, running, settings)
		for _, k := range own.Keys() {
			if style.IsCascading(k) || f.target {
				v, _ := own.Get(k)
				running.Set(k, v)
			}
		}
		if !f.target {
			parentLocal = own
			fs.parent = fs.current
		}
	}
	resolveLengths(running, fs, settings)
	return running
}

// declared builds the declared values of a frame: user agent defaults,
// matched rules by ascending weight, the style attribute. A later
// declaration wins, unless an earlier one is important and it is not.
func declared(f *frame) *style.ComputedMap {
	local := style.NewComputedMap()
	merge(local, userAgentDeclarations(f.el.LocalName()))
	for _, frag := range f.sorted() {
		merge(local, frag.decls)
	}
	if attr, ok := f.el.Attribute("style"); ok && strings.TrimSpace(attr) != "" {
		decls, err := cssom.ParseDeclarationBlock(attr)
		if err != nil {
			tracer().Infof("style attribute of %s: %v", f.el, err)
		}
		merge(local, decls)
	}
	return local
}

func merge(local *style.ComputedMap, decls []cssom.Declaration) {
	for _, d := range decls {
		v := style.Value{Value: style.Property(d.Value), Important: d.Important}
		if !local.Merge(d.Property, v) {
			continue
		}
		if style.IsCompoundProperty(d.Property) && !strings.Contains(d.Value, "var(") {
			longhands, err := style.SplitCompoundProperty(d.Property, v.Value)
			if err != nil {
				tracer().Debugf("cannot expand %s: %v", d.Property, err)
				continue
			}
			for _, kv := range longhands {
				local.Merge(kv.Key, style.Value{Value: kv.Value, Important: d.Important})
			}
		}
	}
}

var uaCache sync.Map // tag → []cssom.Declaration

func userAgentDeclarations(tag string) []cssom.Declaration {
	if decls, ok := uaCache.Load(tag); ok {
		return decls.([]cssom.Declaration)
	}
	decls, err := cssom.ParseDeclarationBlock(style.DefaultCSS(tag))
	if err != nil {
		tracer().Errorf("user agent style for %s: %v", tag, err)
	}
	uaCache.Store(tag, decls)
	return decls
}

// --- Lengths ---------------------------------------------------------------

// fontSizes tracks font sizes in px during the ancestor walk.
type fontSizes struct {
	root    float64 // font size of the root element
	parent  float64 // font size of the last non-target frame
	current float64 // font size of the current frame
}

var fontSizeKeywords = map[string]float64{
	"xx-small": 9, "x-small": 10, "small": 13, "medium": 16,
	"large": 18, "x-large": 24, "xx-large": 32, "xxx-large": 48,
}

// resolve computes the font size of a frame and replaces its declared
// font-size by the value in px.
func (fs *fontSizes) resolve(f *frame, own, running *style.ComputedMap, settings dom.Settings) {
	fs.current = fs.parent
	if v, ok := own.Get("font-size"); ok {
		if px, ok := fs.toPixels(string(v.Value), settings); ok {
			fs.current = px
			v.Value = style.Property(units.FormatPixels(px))
			own.Set("font-size", v)
		}
	} else if v, ok := running.Get("font-size"); ok {
		if px, ok := parsePixels(string(v.Value)); ok {
			fs.current = px
		}
	}
	if f.el.LocalName() == "html" && f.el.Parent() == &f.el.Document().Node {
		fs.root = fs.current
	}
}

func (fs *fontSizes) toPixels(value string, settings dom.Settings) (float64, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	if px, ok := fontSizeKeywords[value]; ok {
		return px, true
	}
	switch value {
	case "smaller":
		return fs.parent / 1.2, true
	case "larger":
		return fs.parent * 1.2, true
	}
	ctx := fs.context(settings, fs.parent)
	ctx.PercentBase = units.PercentOf(fs.parent)
	return units.ToPixels(value, ctx).Get()
}

func (fs *fontSizes) context(settings dom.Settings, em float64) units.Context {
	return units.Context{
		RootFontSize:   fs.root,
		FontSize:       em,
		ViewportWidth:  settings.ViewportWidth,
		ViewportHeight: settings.ViewportHeight,
		PercentBase:    maybe.Nothing[float64](),
	}
}

func parsePixels(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasSuffix(s, "px") {
		return 0, false
	}
	px, err := strconv.ParseFloat(strings.TrimSuffix(s, "px"), 64)
	return px, err == nil
}

// resolveLengths converts relative lengths of the target's properties to
// px. For font and font-size em is relative to the parent's font size, for
// all other properties to the element's own.
func resolveLengths(cm *style.ComputedMap, fs fontSizes, settings dom.Settings) {
	for _, k := range cm.Keys() {
		if !style.AcceptsLength(k) {
			continue
		}
		v, _ := cm.Get(k)
		var ctx units.Context
		switch k {
		case "font-size":
			ctx = fs.context(settings, fs.parent)
			ctx.PercentBase = units.PercentOf(fs.parent)
		case "font":
			ctx = fs.context(settings, fs.parent)
		default:
			ctx = fs.context(settings, fs.current)
		}
		if resolved := units.ReplaceLengths(string(v.Value), ctx); resolved != string(v.Value) {
			v.Value = style.Property(resolved)
			cm.Set(k, v)
		}
	}
}
