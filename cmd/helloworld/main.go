//go:build js || wasm
// +build js wasm

package main

import (
	"github.com/vcrobe/nojs-elements/components/helloworld"
	"github.com/vcrobe/nojs-elements/console"
	"github.com/vcrobe/nojs-elements/jshost"
	"github.com/vcrobe/nojs-elements/runtime"
)

// variant selects the hello-world implementation. Set it at build time with
// -ldflags "-X main.variant=script".
var variant = "go"

func main() {
	logger := console.Logger()

	// 1. Bind to the page's custom element registry
	host, err := jshost.New(jshost.WithLogger(logger))
	if err != nil {
		console.Error(err.Error())
		return
	}

	// 2. Register the demo element
	registry := runtime.NewRegistry(host, runtime.WithLogger(logger))
	var component runtime.Component = helloworld.HelloWorld{}
	if variant == "script" {
		component = helloworld.Script
	}
	if err := registry.Register(component); err != nil {
		console.Error(err.Error())
		return
	}

	// 3. Inject the bootstrap markup; the browser upgrades both instances
	host.SetBodyHTML(helloworld.DemoMarkup)

	// Keep the Go program running so the callbacks stay alive
	select {}
}
