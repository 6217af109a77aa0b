package memhost

import (
	"fmt"
	"strings"

	"github.com/dop251/goja"
)

// RunScript evaluates body as a function of params with `this` bound to a
// script view of the element. The view exposes the subset of the Element
// interface that component scripts use: attributes, innerHTML,
// textContent, querySelector, addEventListener, click and remove. The
// global scope provides console.log, alert and document.querySelector.
func (e *Element) RunScript(body string, params []string, args ...string) error {
	fn, err := e.doc.compile(body, params)
	if err != nil {
		return err
	}
	vm := e.doc.runtime()
	values := make([]goja.Value, len(args))
	for i, a := range args {
		values[i] = vm.ToValue(a)
	}
	_, err = fn(e.doc.object(e), values...)
	return err
}

func (d *Document) runtime() *goja.Runtime {
	if d.vm != nil {
		return d.vm
	}
	vm := goja.New()
	d.vm = vm

	console := vm.NewObject()
	_ = console.Set("log", func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, a := range call.Arguments {
			parts[i] = a.String()
		}
		d.Log(strings.Join(parts, " "))
		return goja.Undefined()
	})
	_ = vm.Set("console", console)

	_ = vm.Set("alert", func(call goja.FunctionCall) goja.Value {
		d.Alert(call.Argument(0).String())
		return goja.Undefined()
	})

	document := vm.NewObject()
	_ = document.Set("querySelector", func(call goja.FunctionCall) goja.Value {
		el, err := d.QuerySelector(call.Argument(0).String())
		if err != nil {
			panic(vm.NewGoError(err))
		}
		return d.object(el)
	})
	_ = document.Set("body", d.object(d.Body()))
	_ = vm.Set("document", document)

	return vm
}

// compile turns a function body into a callable, caching by source.
func (d *Document) compile(body string, params []string) (goja.Callable, error) {
	src := "(function(" + strings.Join(params, ", ") + ") {\n" + body + "\n})"
	if fn, ok := d.scripts[src]; ok {
		return fn, nil
	}
	v, err := d.runtime().RunString(src)
	if err != nil {
		return nil, err
	}
	fn, ok := goja.AssertFunction(v)
	if !ok {
		return nil, fmt.Errorf("script did not evaluate to a function")
	}
	d.scripts[src] = fn
	return fn, nil
}

// object returns the script view of el, or null for a nil element.
func (d *Document) object(el *Element) goja.Value {
	if el == nil {
		return goja.Null()
	}
	if obj, ok := d.objects[el]; ok {
		return obj
	}

	vm := d.runtime()
	obj := vm.NewObject()
	d.objects[el] = obj

	getter := func(fn func() string) goja.Value {
		return vm.ToValue(func(goja.FunctionCall) goja.Value { return vm.ToValue(fn()) })
	}
	_ = obj.DefineAccessorProperty("localName", getter(el.TagName), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	_ = obj.DefineAccessorProperty("tagName", getter(func() string { return strings.ToUpper(el.TagName()) }), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	_ = obj.DefineAccessorProperty("textContent", getter(el.TextContent), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	_ = obj.DefineAccessorProperty("innerHTML",
		getter(el.InnerHTML),
		vm.ToValue(func(call goja.FunctionCall) goja.Value {
			el.SetInnerHTML(call.Argument(0).String())
			return goja.Undefined()
		}),
		goja.FLAG_FALSE, goja.FLAG_TRUE)

	_ = obj.Set("getAttribute", func(call goja.FunctionCall) goja.Value {
		v, ok := el.GetAttribute(call.Argument(0).String())
		if !ok {
			return goja.Null()
		}
		return vm.ToValue(v)
	})
	_ = obj.Set("hasAttribute", func(call goja.FunctionCall) goja.Value {
		_, ok := el.GetAttribute(call.Argument(0).String())
		return vm.ToValue(ok)
	})
	_ = obj.Set("setAttribute", func(call goja.FunctionCall) goja.Value {
		if err := el.SetAttribute(call.Argument(0).String(), call.Argument(1).String()); err != nil {
			panic(vm.NewGoError(err))
		}
		return goja.Undefined()
	})
	_ = obj.Set("removeAttribute", func(call goja.FunctionCall) goja.Value {
		el.RemoveAttribute(call.Argument(0).String())
		return goja.Undefined()
	})
	_ = obj.Set("querySelector", func(call goja.FunctionCall) goja.Value {
		found, err := el.Query(call.Argument(0).String())
		if err != nil {
			panic(vm.NewGoError(err))
		}
		return d.object(found)
	})
	_ = obj.Set("addEventListener", func(call goja.FunctionCall) goja.Value {
		eventType := call.Argument(0).String()
		cb, ok := goja.AssertFunction(call.Argument(1))
		if !ok {
			panic(vm.NewTypeError("addEventListener: listener is not a function"))
		}
		el.AddEventListener(eventType, func() {
			event := vm.NewObject()
			_ = event.Set("type", eventType)
			if _, err := cb(obj, event); err != nil {
				d.logger.Error("script listener failed", "tag", el.TagName(), "event", eventType, "error", err)
			}
		})
		return goja.Undefined()
	})
	_ = obj.Set("click", func(goja.FunctionCall) goja.Value {
		el.Click()
		return goja.Undefined()
	})
	_ = obj.Set("remove", func(goja.FunctionCall) goja.Value {
		el.Remove()
		return goja.Undefined()
	})

	return obj
}
