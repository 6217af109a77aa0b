package memhost

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/dop251/goja"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/vcrobe/nojs-elements/dom"
)

// Compile-time assertion that Document implements the host contract.
var _ dom.Host = (*Document)(nil)

type definition struct {
	tag       string
	observed  map[string]bool
	callbacks dom.Callbacks
}

// Document is an in-memory document with a custom element registry.
type Document struct {
	body     *html.Node
	elements map[*html.Node]*Element
	defs     map[string]*definition
	logs     []string
	alerts   []string
	logger   *slog.Logger

	// Script state, created on first use.
	vm      *goja.Runtime
	objects map[*Element]*goja.Object
	scripts map[string]goja.Callable
}

// Option configures a Document.
type Option func(*Document)

// WithLogger sets the logger used for console output and listener errors.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Document) {
		d.logger = logger
	}
}

// New creates an empty document.
func New(opts ...Option) *Document {
	d := &Document{
		body:     &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body},
		elements: make(map[*html.Node]*Element),
		defs:     make(map[string]*definition),
		objects:  make(map[*Element]*goja.Object),
		scripts:  make(map[string]goja.Callable),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return d
}

// Define registers a custom element and upgrades matching elements that
// are already in the document.
func (d *Document) Define(def dom.Definition) error {
	if err := dom.ValidateTagName(def.TagName); err != nil {
		return &DOMException{Name: SyntaxError, Message: err.Error()}
	}
	if _, dup := d.defs[def.TagName]; dup {
		return &DOMException{
			Name:    NotSupportedError,
			Message: fmt.Sprintf("the name %q has already been used with this registry", def.TagName),
		}
	}

	observed := make(map[string]bool, len(def.ObservedAttributes))
	for _, name := range def.ObservedAttributes {
		observed[name] = true
	}
	d.defs[def.TagName] = &definition{
		tag:       def.TagName,
		observed:  observed,
		callbacks: def.Callbacks,
	}

	for _, n := range elementsIn(d.body, false) {
		if n.Data != def.TagName || !d.connected(n) {
			continue
		}
		if el := d.wrap(n); el.def == nil {
			d.upgrade(el)
		}
	}
	return nil
}

// ObservedAttributes returns the observed attribute list of a defined tag,
// sorted, and whether the tag is defined.
func (d *Document) ObservedAttributes(tag string) ([]string, bool) {
	def, ok := d.defs[tag]
	if !ok {
		return nil, false
	}
	names := make([]string, 0, len(def.observed))
	for name := range def.observed {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, true
}

// Log records a console message.
func (d *Document) Log(msg string) {
	d.logs = append(d.logs, msg)
	d.logger.Info("console.log", "msg", msg)
}

// Alert records an alert message.
func (d *Document) Alert(msg string) {
	d.alerts = append(d.alerts, msg)
	d.logger.Info("alert", "msg", msg)
}

// Logs returns the recorded console messages.
func (d *Document) Logs() []string {
	return slices.Clone(d.logs)
}

// Alerts returns the recorded alert messages.
func (d *Document) Alerts() []string {
	return slices.Clone(d.alerts)
}

// Body returns the document body.
func (d *Document) Body() *Element {
	return d.wrap(d.body)
}

// SetBodyHTML replaces the body's children with markup.
func (d *Document) SetBodyHTML(markup string) {
	d.Body().SetInnerHTML(markup)
}

// HTML serialises the body's children.
func (d *Document) HTML() string {
	return d.Body().InnerHTML()
}

// QuerySelector returns the first element in the document matching
// selector, or nil.
func (d *Document) QuerySelector(selector string) (*Element, error) {
	return d.Body().Query(selector)
}

// QuerySelectorAll returns every element in the document matching
// selector, in tree order.
func (d *Document) QuerySelectorAll(selector string) ([]*Element, error) {
	return d.Body().QueryAll(selector)
}

// CreateElement creates a detached element. Defined custom elements are
// constructed immediately.
func (d *Document) CreateElement(tag string) *Element {
	tag = strings.ToLower(tag)
	n := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
	el := d.wrap(n)
	if def, ok := d.defs[tag]; ok {
		if def.callbacks.Construct != nil {
			def.callbacks.Construct(el)
		}
		el.def = def
	}
	return el
}

func (d *Document) wrap(n *html.Node) *Element {
	if el, ok := d.elements[n]; ok {
		return el
	}
	el := &Element{doc: d, n: n, listeners: make(map[string][]*listener)}
	d.elements[n] = el
	return el
}

func (d *Document) connected(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == d.body {
			return true
		}
	}
	return false
}

// upgrade turns an element into an instance of its definition. Attributes
// are snapshotted before the constructor runs, as the browser does.
func (d *Document) upgrade(el *Element) {
	def := d.defs[el.n.Data]
	attrs := slices.Clone(el.n.Attr)

	if def.callbacks.Construct != nil {
		def.callbacks.Construct(el)
	}
	el.def = def

	if def.callbacks.AttributeChanged != nil {
		for _, a := range attrs {
			if a.Namespace == "" && def.observed[a.Key] {
				def.callbacks.AttributeChanged(el, a.Key, "", a.Val)
			}
		}
	}
	if d.connected(el.n) && def.callbacks.Connected != nil {
		def.callbacks.Connected(el)
	}
}

// connectTree runs reactions for a subtree that was just inserted: defined
// elements are upgraded, already-upgraded ones are reconnected.
func (d *Document) connectTree(root *html.Node) {
	for _, n := range elementsIn(root, true) {
		if !d.connected(n) {
			continue
		}
		el := d.wrap(n)
		switch {
		case el.def != nil:
			if cb := el.def.callbacks.Connected; cb != nil {
				cb(el)
			}
		case d.defs[n.Data] != nil:
			d.upgrade(el)
		}
	}
}

// disconnectTree runs disconnected reactions for a subtree that was just
// removed.
func (d *Document) disconnectTree(root *html.Node) {
	for _, n := range elementsIn(root, true) {
		el, ok := d.elements[n]
		if !ok || el.def == nil {
			continue
		}
		if cb := el.def.callbacks.Disconnected; cb != nil {
			cb(el)
		}
	}
}

// elementsIn returns the element nodes of a subtree in tree order.
func elementsIn(root *html.Node, includeRoot bool) []*html.Node {
	var out []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (includeRoot || n != root) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}
