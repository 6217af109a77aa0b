//go:build !dev
// +build !dev

package runtime

import "github.com/vcrobe/nojs-elements/internal/errors"

// callHook invokes a lifecycle hook or event listener in production mode.
// Panics are recovered and reported so one faulty component cannot take
// down the WASM program.
func (r *Registry) callHook(tag, hook string, fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			r.report(errors.New("E004").WithDetailf("%s hook of <%s>: %v", hook, tag, rec))
		}
	}()
	fn()
}
