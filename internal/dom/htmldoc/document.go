// Package htmldoc implements dom.Document over a parsed HTML tree.
package htmldoc

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/aymerick/douceur/parser"
	"golang.org/x/net/html"

	"aula/internal/dom"
)

type registered struct {
	id dom.ListenerID
	ev dom.Event
	fn dom.Listener
}

// Document is a parsed page plus its listener registry.
// Listeners are keyed by node so every Element wrapper of the same node
// shares them.
type Document struct {
	path string
	doc  *goquery.Document

	mu        sync.Mutex
	nextID    dom.ListenerID
	listeners map[*html.Node][]registered
	owners    map[dom.ListenerID]*html.Node
}

var _ dom.Document = (*Document)(nil)

// Parse reads an HTML page loaded from the given URL path.
// PRE: r yields HTML; pagePath is the request path
// POST: returns a document with html, head and body elements present
func Parse(r io.Reader, pagePath string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse page %s: %w", pagePath, err)
	}
	return &Document{
		path:      pagePath,
		doc:       doc,
		listeners: make(map[*html.Node][]registered),
		owners:    make(map[dom.ListenerID]*html.Node),
	}, nil
}

// ParseString is Parse for in-memory markup.
func ParseString(markup, pagePath string) (*Document, error) {
	return Parse(strings.NewReader(markup), pagePath)
}

// Path implements dom.Document.
func (d *Document) Path() string { return d.path }

// Root implements dom.Document.
func (d *Document) Root() dom.Element {
	return d.wrap(d.doc.Find("html").Get(0))
}

// Body implements dom.Document.
func (d *Document) Body() dom.Element {
	return d.wrap(d.doc.Find("body").Get(0))
}

// ByID implements dom.Document.
func (d *Document) ByID(id string) (dom.Element, bool) {
	if id == "" {
		return nil, false
	}
	match := d.doc.Find("[id]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		v, _ := s.Attr("id")
		return v == id
	})
	if match.Length() == 0 {
		return nil, false
	}
	return d.wrap(match.Get(0)), true
}

// QueryAll implements dom.Document.
func (d *Document) QueryAll(selector string) []dom.Element {
	return d.findIn(d.doc.Selection, selector)
}

// Selection exposes the underlying goquery document for decorators that
// inject markup before rendering.
func (d *Document) Selection() *goquery.Selection {
	return d.doc.Selection
}

// Render writes the document as HTML.
func (d *Document) Render(w io.Writer) error {
	for _, n := range d.doc.Nodes {
		if err := html.Render(w, n); err != nil {
			return fmt.Errorf("render page %s: %w", d.path, err)
		}
	}
	return nil
}

// ListenerCount returns the number of listeners registered for ev across the
// whole document.
func (d *Document) ListenerCount(ev dom.Event) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, regs := range d.listeners {
		for _, r := range regs {
			if r.ev == ev {
				n++
			}
		}
	}
	return n
}

func (d *Document) findIn(s *goquery.Selection, selector string) []dom.Element {
	m, err := cascadia.Compile(selector)
	if err != nil {
		slog.Warn("invalid_selector", "selector", selector, "error", err.Error())
		return nil
	}
	found := s.FindMatcher(m)
	out := make([]dom.Element, 0, found.Length())
	for _, n := range found.Nodes {
		out = append(out, d.wrap(n))
	}
	return out
}

func (d *Document) wrap(n *html.Node) dom.Element {
	if n == nil {
		return nil
	}
	return &element{doc: d, node: n, sel: goquery.NewDocumentFromNode(n).Selection}
}

func (d *Document) addListener(n *html.Node, ev dom.Event, fn dom.Listener) dom.ListenerID {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	id := d.nextID
	d.listeners[n] = append(d.listeners[n], registered{id: id, ev: ev, fn: fn})
	d.owners[id] = n
	return id
}

func (d *Document) removeListener(id dom.ListenerID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, ok := d.owners[id]
	if !ok {
		return
	}
	delete(d.owners, id)
	regs := d.listeners[n]
	for i, r := range regs {
		if r.id == id {
			d.listeners[n] = append(regs[:i:i], regs[i+1:]...)
			break
		}
	}
	if len(d.listeners[n]) == 0 {
		delete(d.listeners, n)
	}
}

func (d *Document) dispatch(n *html.Node, ev dom.Event) int {
	d.mu.Lock()
	var fns []dom.Listener
	for _, r := range d.listeners[n] {
		if r.ev == ev {
			fns = append(fns, r.fn)
		}
	}
	d.mu.Unlock()
	// Listeners may add or remove listeners, so they run outside the lock.
	for _, fn := range fns {
		fn()
	}
	return len(fns)
}

type element struct {
	doc  *Document
	node *html.Node
	sel  *goquery.Selection
}

func (e *element) ID() string {
	v, _ := e.sel.Attr("id")
	return v
}

func (e *element) Attr(name string) (string, bool) { return e.sel.Attr(name) }

func (e *element) SetAttr(name, value string) { e.sel.SetAttr(name, value) }

func (e *element) RemoveAttr(name string) { e.sel.RemoveAttr(name) }

func (e *element) Text() string { return e.sel.Text() }

func (e *element) SetText(text string) { e.sel.SetText(text) }

func (e *element) AddClass(name string) { e.sel.AddClass(name) }

func (e *element) RemoveClass(name string) { e.sel.RemoveClass(name) }

func (e *element) HasClass(name string) bool { return e.sel.HasClass(name) }

func (e *element) Find(selector string) []dom.Element {
	return e.doc.findIn(e.sel, selector)
}

func (e *element) AddListener(ev dom.Event, fn dom.Listener) dom.ListenerID {
	return e.doc.addListener(e.node, ev, fn)
}

func (e *element) RemoveListener(id dom.ListenerID) { e.doc.removeListener(id) }

func (e *element) Dispatch(ev dom.Event) int { return e.doc.dispatch(e.node, ev) }

// Style returns the value of an inline style property, or "" when unset.
func (e *element) Style(prop string) string {
	for _, decl := range e.declarations() {
		if decl.name == prop {
			return decl.value
		}
	}
	return ""
}

// SetStyle replaces or appends one inline style property, keeping the others
// in their original order. An empty value removes the property.
func (e *element) SetStyle(prop, value string) {
	decls := e.declarations()
	out := decls[:0]
	replaced := false
	for _, decl := range decls {
		if decl.name == prop {
			if value == "" || replaced {
				continue
			}
			decl.value = value
			replaced = true
		}
		out = append(out, decl)
	}
	if !replaced && value != "" {
		out = append(out, styleDecl{name: prop, value: value})
	}
	if len(out) == 0 {
		e.sel.RemoveAttr("style")
		return
	}
	parts := make([]string, len(out))
	for i, decl := range out {
		parts[i] = decl.name + ": " + decl.value
	}
	e.sel.SetAttr("style", strings.Join(parts, "; ")+";")
}

type styleDecl struct {
	name  string
	value string
}

func (e *element) declarations() []styleDecl {
	raw, ok := e.sel.Attr("style")
	if !ok || strings.TrimSpace(raw) == "" {
		return nil
	}
	parsed, err := parser.ParseDeclarations(raw)
	if err != nil {
		slog.Debug("style_parse_failed", "style", raw, "error", err.Error())
		return nil
	}
	out := make([]styleDecl, 0, len(parsed))
	for _, decl := range parsed {
		v := decl.Value
		if decl.Important {
			v += " !important"
		}
		out = append(out, styleDecl{name: strings.ToLower(decl.Property), value: v})
	}
	return out
}
