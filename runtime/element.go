package runtime

import (
	"fmt"

	"github.com/vcrobe/nojs-elements/dom"
	"github.com/vcrobe/nojs-elements/internal/errors"
)

// Element is the handle lifecycle hooks and listeners receive. It wraps the
// host node together with the registry that dispatched to it.
type Element struct {
	node     dom.Node
	tag      string
	registry *Registry
}

// Node returns the underlying host node.
func (e *Element) Node() dom.Node {
	return e.node
}

// TagName returns the custom element name the element was defined under.
func (e *Element) TagName() string {
	return e.tag
}

// Attribute returns the attribute value, or "" when it is absent.
func (e *Element) Attribute(name string) string {
	v, _ := e.node.GetAttribute(name)
	return v
}

// AttributeOr returns the attribute value, or fallback when the attribute
// is absent or empty.
func (e *Element) AttributeOr(name, fallback string) string {
	if v := e.Attribute(name); v != "" {
		return v
	}
	return fallback
}

// HasAttribute reports whether the attribute is present.
func (e *Element) HasAttribute(name string) bool {
	_, ok := e.node.GetAttribute(name)
	return ok
}

// SetAttribute sets an attribute on the element.
func (e *Element) SetAttribute(name, value string) error {
	if err := e.node.SetAttribute(name, value); err != nil {
		return errors.New("E006").WithDetailf("attribute %q on <%s>", name, e.tag).Wrap(err)
	}
	return nil
}

// RemoveAttribute removes an attribute from the element.
func (e *Element) RemoveAttribute(name string) {
	e.node.RemoveAttribute(name)
}

// Content returns the element's markup.
func (e *Element) Content() string {
	return e.node.InnerHTML()
}

// SetContent replaces the element's whole subtree with markup. The markup
// is not sanitised; only pass trusted input.
func (e *Element) SetContent(markup string) {
	e.node.SetInnerHTML(markup)
}

// SetChildContent replaces the markup of the first descendant matching
// selector. Nothing happens when no descendant matches.
func (e *Element) SetChildContent(selector, markup string) {
	child, err := e.node.QuerySelector(selector)
	if err != nil {
		e.registry.logger.Warn("invalid selector", "tag", e.tag, "selector", selector, "error", err)
		return
	}
	if child == nil {
		return
	}
	child.SetInnerHTML(markup)
}

// ChildContent returns the markup of the first descendant matching
// selector, or "" when nothing matches.
func (e *Element) ChildContent(selector string) string {
	child, err := e.node.QuerySelector(selector)
	if err != nil || child == nil {
		return ""
	}
	return child.InnerHTML()
}

// On registers handler for eventType on this element. The handler runs
// outside of any lifecycle hook and receives the element it was bound to.
// The returned function removes the listener.
func (e *Element) On(eventType string, handler func(el *Element)) (release func()) {
	return e.node.AddEventListener(eventType, func() {
		e.registry.callHook(e.tag, "on"+eventType, func() { handler(e) })
	})
}

// Log writes msg to the host console.
func (e *Element) Log(msg string) {
	e.registry.host.Log(msg)
}

// Logf formats and writes a message to the host console.
func (e *Element) Logf(format string, args ...any) {
	e.registry.host.Log(fmt.Sprintf(format, args...))
}

// Alert shows msg in a host dialog.
func (e *Element) Alert(msg string) {
	e.registry.host.Alert(msg)
}

// RunScript evaluates a host-script function body with `this` bound to the
// element. It fails with E005 when the host cannot evaluate scripts.
func (e *Element) RunScript(body string, params []string, args ...string) error {
	s, ok := e.node.(dom.Scripter)
	if !ok {
		return errors.New("E005").WithDetailf("host node for <%s> cannot evaluate scripts", e.tag)
	}
	if err := s.RunScript(body, params, args...); err != nil {
		return errors.New("E005").WithDetailf("<%s>", e.tag).Wrap(err)
	}
	return nil
}
