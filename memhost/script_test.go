package memhost

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRunScriptBindsThisAndParams(t *testing.T) {
	// Arrange
	doc := New()
	doc.SetBodyHTML(`<hello-world greeting="Hola"><button>old</button></hello-world>`)
	el, _ := doc.QuerySelector("hello-world")

	// Act
	err := el.RunScript(
		`this.querySelector("button").innerHTML = (this.getAttribute("greeting") || "Hello") + " " + newValue + "!";`,
		[]string{"name", "oldValue", "newValue"},
		"name", "", "Mundo",
	)

	// Assert
	if err != nil {
		t.Fatalf("RunScript failed: %v", err)
	}
	if got := el.InnerHTML(); got != `<button>Hola Mundo!</button>` {
		t.Errorf("Expected button text to be updated, got %q", got)
	}
}

func TestRunScriptGlobals(t *testing.T) {
	doc := New()
	doc.SetBodyHTML(`<x-item></x-item>`)
	el, _ := doc.QuerySelector("x-item")

	err := el.RunScript(`console.log("connected", this.localName); alert(this.tagName);`, nil)
	if err != nil {
		t.Fatalf("RunScript failed: %v", err)
	}

	if diff := cmp.Diff([]string{"connected x-item"}, doc.Logs()); diff != "" {
		t.Errorf("logs mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"X-ITEM"}, doc.Alerts()); diff != "" {
		t.Errorf("alerts mismatch (-want +got):\n%s", diff)
	}
}

func TestRunScriptListenersFireOnClick(t *testing.T) {
	doc := New()
	doc.SetBodyHTML(`<x-item></x-item>`)
	el, _ := doc.QuerySelector("x-item")

	err := el.RunScript(`
		this.innerHTML = "<button>go</button>";
		this.addEventListener("click", function (e) { alert(e.type + " " + this.localName); });
	`, nil)
	if err != nil {
		t.Fatalf("RunScript failed: %v", err)
	}
	button, _ := doc.QuerySelector("x-item button")
	button.Click()

	if diff := cmp.Diff([]string{"click x-item"}, doc.Alerts()); diff != "" {
		t.Errorf("alerts mismatch (-want +got):\n%s", diff)
	}
}

func TestRunScriptReportsErrors(t *testing.T) {
	doc := New()
	el := doc.CreateElement("div")

	if err := el.RunScript(`throw new Error("boom")`, nil); err == nil {
		t.Error("Expected thrown error to be returned")
	}
	if err := el.RunScript(`this.querySelector("p[")`, nil); err == nil {
		t.Error("Expected invalid selector to be returned as an error")
	}
	if err := el.RunScript(`}{`, nil); err == nil {
		t.Error("Expected syntax error to be returned")
	}
}

func TestRunScriptMissingAttributeIsNull(t *testing.T) {
	doc := New()
	el := doc.CreateElement("div")

	err := el.RunScript(`if (this.getAttribute("greeting") !== null) { throw new Error("expected null"); }`, nil)
	if err != nil {
		t.Errorf("Expected missing attribute to be null, got %v", err)
	}
}
