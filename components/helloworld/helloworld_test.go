package helloworld

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vcrobe/nojs-elements/memhost"
	"github.com/vcrobe/nojs-elements/runtime"
)

func render(t *testing.T, c runtime.Component, markup string) *memhost.Document {
	t.Helper()

	doc := memhost.New()
	reg := runtime.NewRegistry(doc,
		runtime.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		runtime.WithErrorHandler(func(err error) { t.Errorf("unexpected hook failure: %v", err) }),
	)
	if err := reg.Register(c); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	doc.SetBodyHTML(markup)
	return doc
}

func labels(t *testing.T, doc *memhost.Document) []string {
	t.Helper()

	buttons, err := doc.QuerySelectorAll("hello-world button")
	if err != nil {
		t.Fatalf("QuerySelectorAll failed: %v", err)
	}
	var out []string
	for _, b := range buttons {
		out = append(out, b.TextContent())
	}
	return out
}

var variants = []struct {
	name  string
	c     runtime.Component
	alert string
}{
	{"go", HelloWorld{}, "Surprise!"},
	{"script", Script, "🎉🎉🎉"},
}

func TestDemoMarkupLabels(t *testing.T) {
	for _, v := range variants {
		t.Run(v.name, func(t *testing.T) {
			// Arrange & Act
			doc := render(t, v.c, DemoMarkup)

			// Assert
			want := []string{"Hello World!", "Hola Mundo!"}
			if diff := cmp.Diff(want, labels(t, doc)); diff != "" {
				t.Errorf("labels mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff([]string{"connected", "connected"}, doc.Logs()); diff != "" {
				t.Errorf("logs mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGreetingOnlyFallsBackToWorld(t *testing.T) {
	for _, v := range variants {
		t.Run(v.name, func(t *testing.T) {
			doc := render(t, v.c, `<hello-world greeting="Hola"></hello-world>`)

			if diff := cmp.Diff([]string{"Hola World!"}, labels(t, doc)); diff != "" {
				t.Errorf("labels mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAttributesSetAfterInsertion(t *testing.T) {
	for _, v := range variants {
		t.Run(v.name, func(t *testing.T) {
			doc := render(t, v.c, `<hello-world></hello-world>`)
			el, _ := doc.QuerySelector("hello-world")

			if err := el.SetAttribute("greeting", "Hola"); err != nil {
				t.Fatalf("SetAttribute failed: %v", err)
			}
			if got := labels(t, doc); got[0] != "Hola World!" {
				t.Errorf("Expected 'Hola World!', got %q", got[0])
			}

			if err := el.SetAttribute("name", "Mundo"); err != nil {
				t.Fatalf("SetAttribute failed: %v", err)
			}
			if got := labels(t, doc); got[0] != "Hola Mundo!" {
				t.Errorf("Expected 'Hola Mundo!', got %q", got[0])
			}

			el.RemoveAttribute("greeting")
			if got := labels(t, doc); got[0] != "Hello Mundo!" {
				t.Errorf("Expected 'Hello Mundo!', got %q", got[0])
			}
		})
	}
}

func TestClickAlerts(t *testing.T) {
	for _, v := range variants {
		t.Run(v.name, func(t *testing.T) {
			doc := render(t, v.c, `<hello-world></hello-world>`)
			button, _ := doc.QuerySelector("hello-world button")

			button.Click()

			if diff := cmp.Diff([]string{v.alert}, doc.Alerts()); diff != "" {
				t.Errorf("alerts mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRemovalLogsDisconnected(t *testing.T) {
	for _, v := range variants {
		t.Run(v.name, func(t *testing.T) {
			doc := render(t, v.c, `<hello-world></hello-world>`)
			el, _ := doc.QuerySelector("hello-world")

			el.Remove()

			want := []string{"connected", "disconnected"}
			if diff := cmp.Diff(want, doc.Logs()); diff != "" {
				t.Errorf("logs mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		greeting, name, want string
	}{
		{"", "", "Hello World!"},
		{"Hola", "", "Hola World!"},
		{"", "Mundo", "Hello Mundo!"},
		{"Hola", "Mundo", "Hola Mundo!"},
	}
	for _, tt := range tests {
		if got := Label(tt.greeting, tt.name); got != tt.want {
			t.Errorf("Label(%q, %q) = %q, want %q", tt.greeting, tt.name, got, tt.want)
		}
	}
}

func TestConstructorRendersStyledTemplate(t *testing.T) {
	for _, v := range variants {
		t.Run(v.name, func(t *testing.T) {
			doc := render(t, v.c, `<hello-world></hello-world>`)

			want := "<hello-world>" + template + "</hello-world>"
			if got := doc.HTML(); got != want {
				t.Errorf("Expected %q, got %q", want, got)
			}
			style, _ := doc.QuerySelector("hello-world style")
			if style == nil || !strings.Contains(style.TextContent(), "hello-world button {") {
				t.Error("Expected a style block scoped to hello-world buttons")
			}
		})
	}
}
