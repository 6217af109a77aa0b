package runtime

// Component describes a custom element. TagName and ObservedAttributes are
// read once, when the component is registered.
type Component interface {
	// TagName is the custom element name, e.g. "hello-world".
	TagName() string

	// ObservedAttributes lists the attributes whose changes are reported to
	// AttributeObserver. Order carries no meaning.
	ObservedAttributes() []string
}

// Constructor is implemented by components that initialise new instances.
// It runs when the element is created or upgraded.
type Constructor interface {
	Construct(el *Element)
}

// Connector is implemented by components that react to the element being
// inserted into a document.
type Connector interface {
	Connected(el *Element)
}

// Disconnector is implemented by components that react to the element
// being removed from a document.
type Disconnector interface {
	Disconnected(el *Element)
}

// AttributeObserver is implemented by components that react to changes of
// observed attributes. Absent values are passed as "", so an attribute set
// to the empty string is indistinguishable from a missing one.
type AttributeObserver interface {
	AttributeChanged(el *Element, name, oldValue, newValue string)
}
