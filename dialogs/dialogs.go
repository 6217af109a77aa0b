//go:build js || wasm

package dialogs

import (
	"syscall/js"
)

// Alert shows msg in the browser's modal alert dialog and blocks until it
// is dismissed.
func Alert(msg string) {
	js.Global().Call("alert", msg)
}
