package runtime

import (
	"strings"

	"github.com/vcrobe/nojs-elements/internal/errors"
)

// attributeChangedParams are the parameter names an AttributeChangedScript
// body can refer to.
var attributeChangedParams = []string{"name", "oldValue", "newValue"}

// ScriptComponent is a Component whose hooks are host-script function
// bodies rather than Go code. Each body runs with `this` bound to the
// element; AttributeChangedScript also sees name, oldValue and newValue.
// Empty bodies are skipped.
type ScriptComponent struct {
	Tag                    string
	Observed               []string
	ConstructScript        string
	ConnectedScript        string
	DisconnectedScript     string
	AttributeChangedScript string
}

func (s ScriptComponent) TagName() string {
	return s.Tag
}

func (s ScriptComponent) ObservedAttributes() []string {
	return s.Observed
}

func (s ScriptComponent) Construct(el *Element) {
	s.run(el, hookConstruct, s.ConstructScript, nil)
}

func (s ScriptComponent) Connected(el *Element) {
	s.run(el, hookConnected, s.ConnectedScript, nil)
}

func (s ScriptComponent) Disconnected(el *Element) {
	s.run(el, hookDisconnected, s.DisconnectedScript, nil)
}

func (s ScriptComponent) AttributeChanged(el *Element, name, oldValue, newValue string) {
	s.run(el, hookAttributeChanged, s.AttributeChangedScript, attributeChangedParams, name, oldValue, newValue)
}

func (s ScriptComponent) run(el *Element, hook, body string, params []string, args ...string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	if err := el.RunScript(body, params, args...); err != nil {
		el.registry.report(errors.FromError(err, "E005").WithDetailf("%s script of <%s>", hook, s.Tag))
	}
}
