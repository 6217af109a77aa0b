// Package dev implements the wcdev build and development server.
//
// The Compiler builds the entry package with GOOS=js GOARCH=wasm and lays
// out a servable directory:
//
//	dist/
//	  main.wasm
//	  wasm_exec.js   copied from GOROOT
//	  index.html     loads wasm_exec.js and instantiates main.wasm
//
// The Server serves that directory with chi, rebuilds when the Watcher
// reports a Go source change, and tells connected pages to reload over a
// websocket. Build, reload and request counters are exported in Prometheus
// format at /metrics.
package dev
