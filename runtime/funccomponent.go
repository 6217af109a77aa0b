package runtime

// FuncComponent is a Component built from plain functions, for elements
// that do not warrant their own type. Nil hooks are skipped.
type FuncComponent struct {
	Tag                string
	Observed           []string
	OnConstruct        func(el *Element)
	OnConnected        func(el *Element)
	OnDisconnected     func(el *Element)
	OnAttributeChanged func(el *Element, name, oldValue, newValue string)
}

func (f FuncComponent) TagName() string {
	return f.Tag
}

func (f FuncComponent) ObservedAttributes() []string {
	return f.Observed
}

func (f FuncComponent) Construct(el *Element) {
	if f.OnConstruct != nil {
		f.OnConstruct(el)
	}
}

func (f FuncComponent) Connected(el *Element) {
	if f.OnConnected != nil {
		f.OnConnected(el)
	}
}

func (f FuncComponent) Disconnected(el *Element) {
	if f.OnDisconnected != nil {
		f.OnDisconnected(el)
	}
}

func (f FuncComponent) AttributeChanged(el *Element, name, oldValue, newValue string) {
	if f.OnAttributeChanged != nil {
		f.OnAttributeChanged(el, name, oldValue, newValue)
	}
}
