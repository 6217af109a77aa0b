// Package jshost defines custom elements in a browser through syscall/js.
//
// Each definition is backed by a small class extending HTMLElement (see
// shim.js) whose reactions forward to Go callbacks with the element as the
// first argument. The observed attribute list is passed to the class as a
// JS array, so names are never joined or split.
package jshost
