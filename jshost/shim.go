package jshost

import _ "embed"

// shimSource is a function expression taking (tagName, observedAttributes,
// hooks). It defines a class extending HTMLElement whose reactions call
// the matching hook with the element as the first argument, registers it
// with customElements and returns the class.
//
//go:embed shim.js
var shimSource string
