// Package gen finds component descriptors in Go packages and writes the
// code that registers them.
//
// A descriptor is any exported named type whose method set (of the value
// or of the pointer) has
//
//	TagName() string
//	ObservedAttributes() []string
//
// and whose TagName body returns a constant string. Packages are loaded
// for GOOS=js GOARCH=wasm, so wasm-only files are seen. Tags are checked
// at generation time; duplicates and invalid names fail the run.
package gen
