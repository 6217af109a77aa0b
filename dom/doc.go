// Package dom defines the contract between the custom element runtime and
// the environment that actually owns the DOM.
//
// Two hosts implement it: jshost, which talks to a real browser through
// syscall/js, and memhost, an in-memory document used by tests and the
// wcdev CLI. Nothing in this package carries build tags, so component code
// written against it compiles for both js/wasm and native targets.
package dom
