// Package errors provides coded, actionable errors for the custom element
// runtime and the wcdev tool.
//
// Each error carries a code (e.g. "E002") that maps to a registered
// template with a category, a short message and a longer explanation:
//
//	err := errors.New("E002").
//	    WithDetail(`"hello-world" is already defined`).
//	    Wrap(hostErr)
//
//	fmt.Println(err.Format())
//
// Errors unwrap to the underlying cause, so errors.Is and errors.As work
// against host errors such as memhost.DOMException.
package errors
