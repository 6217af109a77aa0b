// Package helloworld contains the hello-world demo element in two
// flavours: HelloWorld implements its hooks in Go, Script hands them to
// the host as script bodies.
package helloworld

import "github.com/vcrobe/nojs-elements/runtime"

// Tag is the custom element name of the demo.
const Tag = "hello-world"

// DemoMarkup is injected into the page body after registration.
const DemoMarkup = `<hello-world></hello-world>
<hello-world greeting="Hola" name="Mundo"></hello-world>`

const defaultGreeting = "Hello"
const defaultName = "World"

const template = `<style>
  hello-world button {
    font-family: sans-serif;
    font-size: 1.2em;
    padding: 0.5em 1em;
    border-radius: 4px;
    cursor: pointer;
  }
</style>
<button>Hello World!</button>`

// HelloWorld renders a button reading "<greeting> <name>!" that alerts
// when clicked.
type HelloWorld struct{}

func (HelloWorld) TagName() string {
	return Tag
}

func (HelloWorld) ObservedAttributes() []string {
	return []string{"greeting", "name"}
}

func (HelloWorld) Construct(el *runtime.Element) {
	el.SetContent(template)
	el.On("click", func(*runtime.Element) {
		el.Alert("Surprise!")
	})
}

func (HelloWorld) Connected(el *runtime.Element) {
	el.Log("connected")
}

func (HelloWorld) Disconnected(el *runtime.Element) {
	el.Log("disconnected")
}

// AttributeChanged recomposes the label from both attributes, so the
// order in which they arrive does not matter.
func (HelloWorld) AttributeChanged(el *runtime.Element, name, oldValue, newValue string) {
	el.SetChildContent("button", Label(el.Attribute("greeting"), el.Attribute("name")))
}

// Label composes the button text, falling back to the defaults for empty
// parts.
func Label(greeting, name string) string {
	if greeting == "" {
		greeting = defaultGreeting
	}
	if name == "" {
		name = defaultName
	}
	return greeting + " " + name + "!"
}
