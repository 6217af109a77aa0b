//go:build dev
// +build dev

package runtime

// callHook invokes a lifecycle hook or event listener in development mode.
// In dev mode, panics propagate to aid debugging and fast failure. The
// dispatch slot is still restored by the caller's defer.
func (r *Registry) callHook(tag, hook string, fn func()) {
	fn()
}
