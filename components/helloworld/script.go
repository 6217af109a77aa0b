package helloworld

import (
	"strconv"

	"github.com/vcrobe/nojs-elements/runtime"
)

// Script is the hello-world element with hooks written as host scripts.
var Script = runtime.ScriptComponent{
	Tag:      Tag,
	Observed: []string{"greeting", "name"},
	ConstructScript: "this.innerHTML = " + strconv.Quote(template) + ";\n" +
		`this.addEventListener("click", function () { alert("🎉🎉🎉"); });`,
	ConnectedScript:    `console.log("connected");`,
	DisconnectedScript: `console.log("disconnected");`,
	AttributeChangedScript: `
var button = this.querySelector("button");
if (button) {
  button.innerHTML = (this.getAttribute("greeting") || "Hello") + " " + (this.getAttribute("name") || "World") + "!";
}
`,
}
