// Package memhost is an in-memory document that implements the custom
// element host contract without a browser.
//
// The tree is a golang.org/x/net/html node tree, selectors are matched with
// cascadia and script hooks are evaluated by goja. Custom element reactions
// follow the browser's ordering: upgrading an element runs its constructor,
// then attributeChanged for every observed attribute already present, then
// connected if the element is in the document.
//
// A Document is not safe for concurrent use.
package memhost
