package dom

// Node is a DOM element as seen by lifecycle handlers.
type Node interface {
	// TagName returns the lower-case local name of the element.
	TagName() string

	// GetAttribute returns the attribute value and whether it is present.
	GetAttribute(name string) (string, bool)

	// SetAttribute sets an attribute. It fails when the host rejects the
	// attribute name.
	SetAttribute(name, value string) error

	// RemoveAttribute removes an attribute. Removing a missing attribute is
	// a no-op.
	RemoveAttribute(name string)

	// InnerHTML serialises the element's children.
	InnerHTML() string

	// SetInnerHTML replaces every child of the element with the parsed
	// markup. The markup is not sanitised.
	SetInnerHTML(markup string)

	// QuerySelector returns the first descendant matching selector, or nil
	// when nothing matches. An error is returned only for invalid selectors.
	QuerySelector(selector string) (Node, error)

	// AddEventListener registers fn for eventType on this element. The
	// returned function removes the listener and frees host resources.
	AddEventListener(eventType string, fn func()) (release func())
}

// Scripter is implemented by nodes whose host can evaluate script bodies
// with the element bound as `this`.
type Scripter interface {
	// RunScript evaluates body as a function taking params, called with
	// args and `this` set to the node.
	RunScript(body string, params []string, args ...string) error
}
