package memhost

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/vcrobe/nojs-elements/dom"
)

// Compile-time assertions that Element implements the node contract.
var (
	_ dom.Node     = (*Element)(nil)
	_ dom.Scripter = (*Element)(nil)
)

type listener struct {
	fn func()
}

// Element is an element node of a Document.
type Element struct {
	doc       *Document
	n         *html.Node
	def       *definition
	listeners map[string][]*listener
}

// TagName returns the element's local name.
func (e *Element) TagName() string {
	return e.n.Data
}

// Upgraded reports whether the element is an instance of a defined custom
// element.
func (e *Element) Upgraded() bool {
	return e.def != nil
}

// IsConnected reports whether the element is in the document.
func (e *Element) IsConnected() bool {
	return e.doc.connected(e.n)
}

// Parent returns the parent element, or nil.
func (e *Element) Parent() *Element {
	if e.n.Parent == nil || e.n.Parent.Type != html.ElementNode {
		return nil
	}
	return e.doc.wrap(e.n.Parent)
}

// GetAttribute returns the attribute value and whether it is present.
func (e *Element) GetAttribute(name string) (string, bool) {
	name = strings.ToLower(name)
	for _, a := range e.n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttribute sets an attribute and runs the attributeChanged reaction
// when the attribute is observed.
func (e *Element) SetAttribute(name, value string) error {
	name = strings.ToLower(name)
	if !validAttributeName(name) {
		return &DOMException{Name: InvalidCharacterError, Message: fmt.Sprintf("%q is not a valid attribute name", name)}
	}

	old, _ := e.GetAttribute(name)
	replaced := false
	for i, a := range e.n.Attr {
		if a.Namespace == "" && a.Key == name {
			e.n.Attr[i].Val = value
			replaced = true
			break
		}
	}
	if !replaced {
		e.n.Attr = append(e.n.Attr, html.Attribute{Key: name, Val: value})
	}

	e.attributeChanged(name, old, value)
	return nil
}

// RemoveAttribute removes an attribute and runs the attributeChanged
// reaction when the attribute was present and is observed.
func (e *Element) RemoveAttribute(name string) {
	name = strings.ToLower(name)
	for i, a := range e.n.Attr {
		if a.Namespace == "" && a.Key == name {
			e.n.Attr = append(e.n.Attr[:i], e.n.Attr[i+1:]...)
			e.attributeChanged(name, a.Val, "")
			return
		}
	}
}

func (e *Element) attributeChanged(name, oldValue, newValue string) {
	if e.def == nil || !e.def.observed[name] {
		return
	}
	if cb := e.def.callbacks.AttributeChanged; cb != nil {
		cb(e, name, oldValue, newValue)
	}
}

// InnerHTML serialises the element's children.
func (e *Element) InnerHTML() string {
	var buf bytes.Buffer
	for c := e.n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			e.doc.logger.Warn("render failed", "tag", e.n.Data, "error", err)
		}
	}
	return buf.String()
}

// TextContent concatenates the text of every descendant text node.
func (e *Element) TextContent() string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(e.n)
	return b.String()
}

// SetInnerHTML replaces the element's children with parsed markup. Removed
// custom elements are disconnected and inserted ones upgraded or connected
// when the element is in the document.
func (e *Element) SetInnerHTML(markup string) {
	nodes, err := html.ParseFragment(strings.NewReader(markup), e.n)
	if err != nil {
		e.doc.logger.Warn("parse failed", "tag", e.n.Data, "error", err)
		return
	}

	connected := e.IsConnected()
	var removed []*html.Node
	for c := e.n.FirstChild; c != nil; {
		next := c.NextSibling
		e.n.RemoveChild(c)
		removed = append(removed, c)
		c = next
	}
	if connected {
		for _, c := range removed {
			e.doc.disconnectTree(c)
		}
	}

	for _, n := range nodes {
		e.n.AppendChild(n)
	}
	if connected {
		for _, n := range nodes {
			e.doc.connectTree(n)
		}
	}
}

// AppendChild moves child under e, disconnecting it from its previous
// position first.
func (e *Element) AppendChild(child *Element) {
	child.Remove()
	e.n.AppendChild(child.n)
	if e.IsConnected() {
		e.doc.connectTree(child.n)
	}
}

// Remove detaches the element from its parent.
func (e *Element) Remove() {
	if e.n.Parent == nil {
		return
	}
	wasConnected := e.IsConnected()
	e.n.Parent.RemoveChild(e.n)
	if wasConnected {
		e.doc.disconnectTree(e.n)
	}
}

// Query returns the first descendant matching selector, or nil.
func (e *Element) Query(selector string) (*Element, error) {
	sel, err := compileSelector(selector)
	if err != nil {
		return nil, err
	}
	for c := e.n.FirstChild; c != nil; c = c.NextSibling {
		if m := sel.MatchFirst(c); m != nil {
			return e.doc.wrap(m), nil
		}
	}
	return nil, nil
}

// QueryAll returns every descendant matching selector, in tree order.
func (e *Element) QueryAll(selector string) ([]*Element, error) {
	sel, err := compileSelector(selector)
	if err != nil {
		return nil, err
	}
	var out []*Element
	for c := e.n.FirstChild; c != nil; c = c.NextSibling {
		for _, m := range sel.MatchAll(c) {
			out = append(out, e.doc.wrap(m))
		}
	}
	return out, nil
}

// QuerySelector implements dom.Node.
func (e *Element) QuerySelector(selector string) (dom.Node, error) {
	el, err := e.Query(selector)
	if el == nil {
		return nil, err
	}
	return el, nil
}

// AddEventListener registers fn for eventType.
func (e *Element) AddEventListener(eventType string, fn func()) (release func()) {
	l := &listener{fn: fn}
	e.listeners[eventType] = append(e.listeners[eventType], l)
	return func() {
		ls := e.listeners[eventType]
		for i, other := range ls {
			if other == l {
				e.listeners[eventType] = append(ls[:i:i], ls[i+1:]...)
				return
			}
		}
	}
}

// DispatchEvent fires eventType at e and bubbles it through its ancestors.
func (e *Element) DispatchEvent(eventType string) {
	for n := e.n; n != nil; n = n.Parent {
		target, ok := e.doc.elements[n]
		if !ok {
			continue
		}
		for _, l := range append([]*listener(nil), target.listeners[eventType]...) {
			l.fn()
		}
	}
}

// Click dispatches a click event.
func (e *Element) Click() {
	e.DispatchEvent("click")
}

func compileSelector(selector string) (cascadia.Selector, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, &DOMException{Name: SyntaxError, Message: fmt.Sprintf("%q is not a valid selector: %v", selector, err)}
	}
	return sel, nil
}

// validAttributeName rejects names the HTML serializer could not round-trip.
func validAttributeName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r <= ' ', r == '"', r == '\'', r == '>', r == '/', r == '=', r == 0x7F:
			return false
		}
	}
	return true
}
