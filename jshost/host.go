//go:build js || wasm
// +build js wasm

package jshost

import (
	"log/slog"
	"syscall/js"

	"github.com/vcrobe/nojs-elements/console"
	"github.com/vcrobe/nojs-elements/dialogs"
	"github.com/vcrobe/nojs-elements/dom"
	"github.com/vcrobe/nojs-elements/internal/errors"
)

// Compile-time assertion that Host implements the host contract.
var _ dom.Host = (*Host)(nil)

// Host defines custom elements on the browser's customElements registry.
type Host struct {
	global   js.Value
	document js.Value
	shim     js.Value
	logger   *slog.Logger
	funcs    map[string][]js.Func
	scripts  map[string]js.Value
}

// New creates a host bound to the page's window. It fails with E003 when
// the page has no customElements registry.
func New(opts ...Option) (*Host, error) {
	global := js.Global()
	if ce := global.Get("customElements"); ce.IsUndefined() || ce.IsNull() {
		return nil, errors.New("E003").WithDetail("window.customElements is not available")
	}

	h := &Host{
		global:   global,
		document: global.Get("document"),
		funcs:    make(map[string][]js.Func),
		scripts:  make(map[string]js.Value),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = console.Logger()
	}

	shim, err := compileShim(global)
	if err != nil {
		return nil, errors.New("E003").WithDetail("element class shim failed to compile").Wrap(err)
	}
	h.shim = shim
	return h, nil
}

func compileShim(global js.Value) (shim js.Value, err error) {
	defer recoverJSError(&err)
	return global.Get("Function").New("return " + shimSource).Invoke(), nil
}

// Define registers def with customElements. The observed attributes are
// handed over as a JS array. Errors thrown by the browser, such as a
// duplicate or invalid name, are returned as js.Error values.
func (h *Host) Define(def dom.Definition) (err error) {
	cbs := def.Callbacks
	construct := js.FuncOf(func(this js.Value, args []js.Value) any {
		if cbs.Construct != nil {
			cbs.Construct(h.node(args[0]))
		}
		return nil
	})
	connected := js.FuncOf(func(this js.Value, args []js.Value) any {
		if cbs.Connected != nil {
			cbs.Connected(h.node(args[0]))
		}
		return nil
	})
	disconnected := js.FuncOf(func(this js.Value, args []js.Value) any {
		if cbs.Disconnected != nil {
			cbs.Disconnected(h.node(args[0]))
		}
		return nil
	})
	attributeChanged := js.FuncOf(func(this js.Value, args []js.Value) any {
		if cbs.AttributeChanged != nil {
			cbs.AttributeChanged(h.node(args[0]), args[1].String(), args[2].String(), args[3].String())
		}
		return nil
	})
	funcs := []js.Func{construct, connected, disconnected, attributeChanged}

	defer func() {
		if err != nil {
			for _, f := range funcs {
				f.Release()
			}
			h.logger.Warn("define failed", "tag", def.TagName, "error", err)
		}
	}()
	defer recoverJSError(&err)

	hooks := h.global.Get("Object").New()
	hooks.Set("construct", construct)
	hooks.Set("connected", connected)
	hooks.Set("disconnected", disconnected)
	hooks.Set("attributeChanged", attributeChanged)

	observed := make([]any, len(def.ObservedAttributes))
	for i, name := range def.ObservedAttributes {
		observed[i] = name
	}

	h.shim.Invoke(def.TagName, observed, hooks)
	h.funcs[def.TagName] = funcs
	return nil
}

// SetBodyHTML replaces the document body's markup.
func (h *Host) SetBodyHTML(markup string) {
	h.document.Get("body").Set("innerHTML", markup)
}

// Log writes msg to the browser console.
func (h *Host) Log(msg string) {
	console.Log(msg)
}

// Alert shows msg in a browser alert dialog.
func (h *Host) Alert(msg string) {
	dialogs.Alert(msg)
}

// Close releases the Go callbacks of every definition. Elements defined
// through the host stop working afterwards; call it only when the page is
// being torn down.
func (h *Host) Close() {
	for tag, funcs := range h.funcs {
		for _, f := range funcs {
			f.Release()
		}
		delete(h.funcs, tag)
	}
}

func (h *Host) node(v js.Value) *Node {
	return &Node{v: v, host: h}
}

// logFailure logs *err, if set, as a failed op. Defer it before
// recoverJSError so it sees the recovered error.
func (h *Host) logFailure(op string, err *error, args ...any) {
	if *err == nil {
		return
	}
	h.logger.Warn(op+" failed", append(args, "error", *err)...)
}

// recoverJSError turns a thrown JS exception into an error. Other panics
// are re-raised.
func recoverJSError(err *error) {
	if rec := recover(); rec != nil {
		if jsErr, ok := rec.(js.Error); ok {
			*err = jsErr
			return
		}
		panic(rec)
	}
}
