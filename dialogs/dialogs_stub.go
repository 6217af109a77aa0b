//go:build !wasm
// +build !wasm

package dialogs

// Stub file for non-WASM builds. Dialogs need a browser.

// Alert is a no-op in non-WASM builds.
func Alert(msg string) {}
