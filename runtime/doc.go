// Package runtime registers Go component descriptors as browser custom
// elements and dispatches the four lifecycle reactions to them.
//
// A descriptor is any type implementing Component. Lifecycle hooks are
// optional and discovered by type assertion:
//
//	type HelloWorld struct{}
//
//	func (HelloWorld) TagName() string              { return "hello-world" }
//	func (HelloWorld) ObservedAttributes() []string { return []string{"greeting", "name"} }
//	func (HelloWorld) Construct(el *runtime.Element) {
//	    el.SetContent("<button>Hello World!</button>")
//	}
//
//	reg := runtime.NewRegistry(host)
//	if err := reg.Register(HelloWorld{}); err != nil { ... }
//
// Every hook receives the element it runs for. The registry additionally
// exposes the element currently being dispatched through Current; the slot
// is restored when the hook returns, including when it panics.
//
// This package has no build tags. The browser host lives in jshost, the
// in-memory host used by tests lives in memhost.
package runtime
