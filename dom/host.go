package dom

// Callbacks are the four custom element reactions. A host calls them with
// the element that received the reaction. Absent attribute values are
// passed as "".
type Callbacks struct {
	Construct        func(n Node)
	Connected        func(n Node)
	Disconnected     func(n Node)
	AttributeChanged func(n Node, name, oldValue, newValue string)
}

// Definition is everything a host needs to define one custom element.
type Definition struct {
	TagName            string
	ObservedAttributes []string
	Callbacks          Callbacks
}

// Host owns a custom element registry plus the console and dialog
// surfaces handlers may reach.
type Host interface {
	// Define registers a custom element. Hosts reject duplicate and invalid
	// tag names.
	Define(def Definition) error

	// Log writes a message to the host console.
	Log(msg string)

	// Alert shows a blocking message to the user.
	Alert(msg string)
}
