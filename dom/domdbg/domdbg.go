/*
Package domdbg implements helpers to debug a styled DOM tree.

Dump prints a document tree together with computed styles as a text tree
(github.com/xlab/treeprint). ToGraphViz renders the same information as a
GraphViz (DOT) diagram.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>


*/
package domdbg

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"testing"
	"text/template"

	"github.com/npillmayer/styledom/dom"
	units "github.com/npillmayer/styledom/css"
	"github.com/npillmayer/styledom/dom/style"
	"github.com/npillmayer/styledom/dom/style/css"
	"github.com/npillmayer/styledom/dom/w3cdom"
	"github.com/npillmayer/tyse/core/dimen"
	tp "github.com/xlab/treeprint"
)

// StyleGroup is a named set of style properties, selected by property name
// prefixes.
type StyleGroup struct {
	Name     string
	Prefixes []string
}

// Properties returns the properties of a computed style belonging to g.
func (g StyleGroup) Properties(cm *style.ComputedMap) []style.KeyValue {
	var r []style.KeyValue
	for _, kv := range cm.Properties() {
		for _, p := range g.Prefixes {
			if strings.HasPrefix(kv.Key, p) {
				r = append(r, kv)
				break
			}
		}
	}
	return r
}

// swatch returns the hex notation of an opaque color property, or "".
func swatch(kv style.KeyValue) string {
	if kv.Key != "color" && !strings.HasSuffix(kv.Key, "-color") {
		return ""
	}
	if s := style.ColorString(kv.Value.Color()); strings.HasPrefix(s, "#") {
		return s
	}
	return ""
}

// annotate formats a property for text dumps. Colors are followed by their
// hex notation, absolute lengths by their size in big points.
func annotate(kv style.KeyValue) string {
	s := fmt.Sprintf("%s: %s", kv.Key, kv.Value)
	if sw := swatch(kv); sw != "" {
		return s + " (" + sw + ")"
	}
	if !style.AcceptsLength(kv.Key) {
		return s
	}
	d, err := units.ParseDimen(string(kv.Value))
	if err != nil {
		return s
	}
	var du dimen.DU
	switch m := d.Match(); m {
	case m.Just(&du):
		return fmt.Sprintf("%s (%.2fbp)", s, du.Points())
	}
	return s
}

// DefaultGroups are the style groups shown if clients do not provide any.
var DefaultGroups = []StyleGroup{
	{Name: "Margins", Prefixes: []string{"margin-"}},
	{Name: "Padding", Prefixes: []string{"padding-"}},
	{Name: "Border", Prefixes: []string{"border-"}},
	{Name: "Display", Prefixes: []string{"display", "position", "float", "visibility"}},
	{Name: "Font", Prefixes: []string{"font-", "color", "line-height"}},
}

// --- Text dumps ------------------------------------------------------------

// Dump returns a text tree of the elements under n, including shadow trees,
// with the computed styles of groups (DefaultGroups if nil).
func Dump(n *dom.Node, groups []StyleGroup) string {
	if groups == nil {
		groups = DefaultGroups
	}
	root := tp.New()
	root.SetValue(n.NodeName())
	dumpChildren(n, root, groups)
	return root.String()
}

func dumpChildren(n *dom.Node, branch tp.Tree, groups []StyleGroup) {
	if shadow := n.Shadow(); shadow != nil {
		sb := branch.AddBranch("#shadow-root (" + shadow.Mode().String() + ")")
		dumpChildren(shadow, sb, groups)
	}
	for _, ch := range n.Children() {
		eb := branch.AddBranch(fmt.Sprintf("%s %s", css.Display(ch).Symbol(), ch))
		cm := css.ComputeStyle(ch)
		for _, g := range groups {
			props := g.Properties(cm)
			if len(props) == 0 {
				continue
			}
			gb := eb.AddMetaBranch(g.Name, fmt.Sprintf("%d", len(props)))
			for _, kv := range props {
				gb.AddNode(annotate(kv))
			}
		}
		dumpChildren(ch, eb, groups)
	}
}

// --- GraphViz --------------------------------------------------------------

// Parameters for GraphViz drawing.
type graphParamsType struct {
	Fontname       string
	StyleGroups    []StyleGroup
	NodeTmpl       *template.Template
	EdgeTmpl       *template.Template
	StylegroupTmpl *template.Template
	PgedgeTmpl     *template.Template
	PgpgTmpl       *template.Template
}

// ToGraphViz outputs a diagram for a DOM tree. The diagram is in
// GraphViz (DOT) format. Clients have to provide the root node of
// the DOM, a Writer, and an optional list of style groups.
// The diagram will include the computed styles belonging to one of the
// groups.
//
// If the client does not provide a list of style groups, DefaultGroups
// will be used.
func ToGraphViz(doc *dom.Node, w io.Writer, styleGroups []StyleGroup) error {
	tmpl, err := template.New("dom").Parse(graphHeadTmpl)
	if err != nil {
		return err
	}
	gparams := graphParamsType{Fontname: "Helvetica"}
	gparams.NodeTmpl = template.Must(template.New("domnode").Funcs(
		template.FuncMap{
			"shortstring": shortText,
		}).Parse(domNodeTmpl))
	gparams.EdgeTmpl = template.Must(template.New("domedge").Parse(domEdgeTmpl))
	gparams.StylegroupTmpl = template.Must(template.New("stylegroup").Funcs(
		template.FuncMap{
			"swatch": swatch,
		}).Parse(styleGroupTmpl))
	gparams.PgedgeTmpl = template.Must(template.New("pgedge").Parse(pgEdgeTmpl))
	gparams.PgpgTmpl = template.Must(template.New("pgpgedge").Parse(pgpgEdgeTmpl))
	gparams.StyleGroups = styleGroups
	if styleGroups == nil {
		gparams.StyleGroups = DefaultGroups
	}
	if err = tmpl.Execute(w, gparams); err != nil {
		return err
	}
	dict := make(map[*dom.Node]string, 4096)
	if err = nodes(doc, w, dict, &gparams); err != nil {
		return err
	}
	_, err = w.Write([]byte("}\n"))
	return err
}

// Dotty is a helper for testing. Given a DOM node and a testing.T, it will
// create a Graphiviz image of the DOM tree under `doc` and write it to
// a file in the current folder, choosing a unique file name.
// The image is in SVG format.
//
// If an error occurs, t.Error(…) will be set, causing the test to fail.
func Dotty(doc *dom.Node, t *testing.T) {
	tmpfile, err := os.CreateTemp(".", "dom.*.dot")
	if err != nil {
		t.Error(err)
		return
	}
	defer func() {
		tmpfile.Close()
		os.Remove(tmpfile.Name()) // clean up
	}()
	t.Logf("writing DOM digraph to %s\n", tmpfile.Name())
	if err := ToGraphViz(doc, tmpfile, nil); err != nil {
		t.Error(err)
		return
	}
	outOption := fmt.Sprintf("-o%s.svg", tmpfile.Name())
	cmd := exec.Command("dot", "-Tsvg", outOption, tmpfile.Name())
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	t.Logf("writing DOM tree image to %s.svg\n", tmpfile.Name())
	if err := cmd.Run(); err != nil {
		t.Error(err.Error())
	}
}

type node struct {
	N    *dom.Node
	Name string
}

func nodes(n *dom.Node, w io.Writer, dict map[*dom.Node]string, gparams *graphParamsType) error {
	if err := domNode(n, w, dict, gparams); err != nil {
		return err
	}
	children := n.Nodes()
	if shadow := n.Shadow(); shadow != nil {
		children = append([]*dom.Node{shadow}, children...)
	}
	for _, ch := range children {
		if ch.NodeType() == w3cdom.CommentNode || ch.NodeType() == w3cdom.DoctypeNode {
			continue
		}
		if ch.NodeType() == w3cdom.TextNode && strings.TrimSpace(ch.NodeValue()) == "" {
			continue
		}
		if err := nodes(ch, w, dict, gparams); err != nil {
			return err
		}
		if err := domEdge(n, ch, w, dict, gparams); err != nil {
			return err
		}
	}
	return nil
}

func domNode(n *dom.Node, w io.Writer, dict map[*dom.Node]string, gparams *graphParamsType) error {
	name := dict[n]
	if name == "" {
		l := len(dict) + 1
		name = fmt.Sprintf("node%05d", l)
		dict[n] = name
	}
	if err := gparams.NodeTmpl.Execute(w, &node{n, name}); err != nil {
		return err
	}
	if n.NodeType() != w3cdom.ElementNode {
		return nil
	}
	return domStyles(n, w, dict, gparams)
}

// pgroup is a style group with the properties of one element.
type pgroup struct {
	Name       string
	Properties []style.KeyValue
}

func domStyles(n *dom.Node, w io.Writer, dict map[*dom.Node]string, gparams *graphParamsType) error {
	cm := css.ComputeStyle(n)
	var prev *pgroup
	for _, g := range gparams.StyleGroups {
		props := g.Properties(cm)
		if len(props) == 0 {
			continue
		}
		pg := &pgroup{Name: g.Name, Properties: props}
		if err := gparams.StylegroupTmpl.Execute(w, pg); err != nil {
			return err
		}
		var err error
		if prev == nil {
			err = gparams.PgedgeTmpl.Execute(w, pgedge{dict[n], pg})
		} else {
			err = gparams.PgpgTmpl.Execute(w, []*pgroup{prev, pg})
		}
		if err != nil {
			return err
		}
		prev = pg
	}
	return nil
}

type edge struct {
	N1, N2 node
}

func domEdge(n1 *dom.Node, n2 *dom.Node, w io.Writer, dict map[*dom.Node]string,
	gparams *graphParamsType) error {
	//
	e := edge{node{n1, dict[n1]}, node{n2, dict[n2]}}
	return gparams.EdgeTmpl.Execute(w, e)
}

type pgedge struct {
	Name      string
	PropGroup *pgroup
}

func shortText(n *dom.Node) string {
	data := n.NodeValue()
	s := "\"\\\""
	if len(data) > 10 {
		s += data[:10] + "...\\\"\""
	} else {
		s += data + "\\\"\""
	}
	s = strings.Replace(s, "\n", `\\n`, -1)
	s = strings.Replace(s, "\t", `\\t`, -1)
	s = strings.Replace(s, " ", "␣", -1)
	return s
}

// --- Templates --------------------------------------------------------

const graphHeadTmpl = `digraph g {
  graph [labelloc="t" label="" splines=true overlap=false rankdir = "LR"];
  graph [fontname = "{{ .Fontname }}" fontsize=14] ;
   node [fontname = "{{ .Fontname }}" fontsize=14] ;
   edge [fontname = "{{ .Fontname }}" fontsize=14] ;
`

const domNodeTmpl = `{{ if eq .N.NodeName "#text" }}
{{ .Name }}	[ label={{ shortstring .N }} shape=box style=filled fillcolor=grey95 fontname="Courier" fontsize=11.0 ] ;
{{ else if eq .N.NodeName "#document-fragment" }}
{{ .Name }}	[ label="#shadow-root" shape=ellipse style=filled fillcolor=lightsalmon ] ;
{{ else }}
{{ .Name }}	[ label={{ printf "%q" .N.NodeName }} shape=ellipse style=filled fillcolor=lightblue3 ] ;
{{ end }}
`

const styleGroupTmpl = `{{ printf "pg%p" . }} [ style="filled" penwidth=1 fillcolor="ivory3" shape="Mrecord" fontsize=12
    label=<<table border="0" cellborder="0" cellpadding="2" cellspacing="0" bgcolor="ivory3">
      <tr><td bgcolor="azure4" align="center" colspan="3"><font color="white">{{ .Name }}</font></td></tr>
      {{ range .Properties }}
      <tr><td align="right">{{ .Key }}:</td><td>{{ .Value }}</td>{{ with swatch . }}<td bgcolor="{{ . }}">  </td>{{ end }}</tr>
      {{ else }}
      <tr><td colspan="3">no styles</td></tr>
      {{ end }}
    </table>> ] ;
`

const domEdgeTmpl = `{{ .N1.Name }} -> {{ .N2.Name }} [weight=1] ;
`

const pgEdgeTmpl = `{{ .Name }} -> {{ printf "pg%p" .PropGroup }} [dir=none weight=1 style="dashed"] ;
`

const pgpgEdgeTmpl = `{{ index . 0 | printf "pg%p"  }} -> {{ index . 1 | printf "pg%p" }} [dir=none weight=1 style="dashed"] ;
`
