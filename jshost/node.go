//go:build js || wasm
// +build js wasm

package jshost

import (
	"strings"
	"syscall/js"

	"github.com/vcrobe/nojs-elements/dom"
)

// Compile-time assertions that Node implements the node contract.
var (
	_ dom.Node     = (*Node)(nil)
	_ dom.Scripter = (*Node)(nil)
)

// Node is a browser element.
type Node struct {
	v    js.Value
	host *Host
}

// Value returns the underlying JS element.
func (n *Node) Value() js.Value {
	return n.v
}

func (n *Node) TagName() string {
	return strings.ToLower(n.v.Get("localName").String())
}

func (n *Node) GetAttribute(name string) (string, bool) {
	v := n.v.Call("getAttribute", name)
	if v.IsNull() {
		return "", false
	}
	return v.String(), true
}

func (n *Node) SetAttribute(name, value string) (err error) {
	defer n.host.logFailure("setAttribute", &err, "tag", n.TagName(), "attribute", name)
	defer recoverJSError(&err)
	n.v.Call("setAttribute", name, value)
	return nil
}

func (n *Node) RemoveAttribute(name string) {
	n.v.Call("removeAttribute", name)
}

func (n *Node) InnerHTML() string {
	return n.v.Get("innerHTML").String()
}

func (n *Node) SetInnerHTML(markup string) {
	n.v.Set("innerHTML", markup)
}

func (n *Node) QuerySelector(selector string) (found dom.Node, err error) {
	defer n.host.logFailure("querySelector", &err, "tag", n.TagName(), "selector", selector)
	defer recoverJSError(&err)
	v := n.v.Call("querySelector", selector)
	if v.IsNull() {
		return nil, nil
	}
	return n.host.node(v), nil
}

func (n *Node) AddEventListener(eventType string, fn func()) (release func()) {
	cb := js.FuncOf(func(this js.Value, args []js.Value) any {
		fn()
		return nil
	})
	n.v.Call("addEventListener", eventType, cb)

	released := false
	return func() {
		if released {
			return
		}
		released = true
		n.v.Call("removeEventListener", eventType, cb)
		cb.Release()
	}
}

// RunScript builds a Function from params and body, then calls it with
// the element as `this`. Compiled functions are cached per source.
func (n *Node) RunScript(body string, params []string, args ...string) (err error) {
	defer n.host.logFailure("script", &err, "tag", n.TagName())
	defer recoverJSError(&err)

	fn := n.host.script(body, params)
	callArgs := make([]any, 0, len(args)+1)
	callArgs = append(callArgs, n.v)
	for _, a := range args {
		callArgs = append(callArgs, a)
	}
	fn.Call("call", callArgs...)
	return nil
}

func (h *Host) script(body string, params []string) js.Value {
	key := strings.Join(params, ",") + "\x00" + body
	if fn, ok := h.scripts[key]; ok {
		return fn
	}
	ctorArgs := make([]any, 0, len(params)+1)
	for _, p := range params {
		ctorArgs = append(ctorArgs, p)
	}
	ctorArgs = append(ctorArgs, body)
	fn := h.global.Get("Function").New(ctorArgs...)
	h.scripts[key] = fn
	return fn
}
