package gen

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vcrobe/nojs-elements/internal/errors"
)

func TestGenerate(t *testing.T) {
	// Arrange
	target := Target{PackageName: "main", ImportPath: "example.com/app/cmd/app"}
	descs := []Descriptor{
		{ImportPath: "example.com/app/cards", PackageName: "cards", TypeName: "Card", Tag: "x-card"},
		{ImportPath: "example.com/app/cards", PackageName: "cards", TypeName: "Deck", Pointer: true, Tag: "x-deck"},
		{ImportPath: "example.com/app/cmd/app", PackageName: "main", TypeName: "Local", Tag: "x-local"},
	}

	// Act
	src, err := Generate(target, descs)

	// Assert
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	normalize := func(s string) string { return strings.Join(strings.Fields(s), " ") }
	got := normalize(string(src))
	for _, want := range []string{
		"// Code generated by wcdev gen. DO NOT EDIT.",
		"package main",
		`cards "example.com/app/cards"`,
		`"github.com/vcrobe/nojs-elements/runtime"`,
		"func RegisterComponents(r *runtime.Registry) error {",
		"*new(cards.Card), // <x-card>",
		"new(cards.Deck), // <x-deck>",
		"*new(Local), // <x-local>",
	} {
		if !strings.Contains(got, normalize(want)) {
			t.Errorf("Expected generated code to contain %q, got:\n%s", want, got)
		}
	}
}

func TestImportAliasesAreUnique(t *testing.T) {
	descs := []Descriptor{
		{ImportPath: "example.com/a/widgets", PackageName: "widgets", TypeName: "A"},
		{ImportPath: "example.com/b/widgets", PackageName: "widgets", TypeName: "B"},
		{ImportPath: "example.com/c/runtime", PackageName: "runtime", TypeName: "C"},
	}

	imports, aliases := importsFor(Target{PackageName: "main", ImportPath: "example.com/cmd"}, descs)

	want := map[string]string{
		"example.com/a/widgets": "widgets",
		"example.com/b/widgets": "widgets2",
		"example.com/c/runtime": "runtime2",
	}
	if diff := cmp.Diff(want, aliases); diff != "" {
		t.Errorf("aliases mismatch (-want +got):\n%s", diff)
	}
	if len(imports) != 3 {
		t.Errorf("Expected 3 imports, got %d", len(imports))
	}
}

func TestValidateTags(t *testing.T) {
	tests := []struct {
		name  string
		descs []Descriptor
		ok    bool
	}{
		{"valid", []Descriptor{{TypeName: "A", Tag: "x-a"}, {TypeName: "B", Tag: "x-b"}}, true},
		{"duplicate", []Descriptor{{TypeName: "A", Tag: "x-a"}, {TypeName: "B", Tag: "x-a"}}, false},
		{"no hyphen", []Descriptor{{TypeName: "A", Tag: "card"}}, false},
		{"reserved", []Descriptor{{TypeName: "A", Tag: "font-face"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTags(tt.descs)
			if tt.ok && err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
			if !tt.ok && !errors.HasCode(err, "E030") {
				t.Errorf("Expected E030, got %v", err)
			}
		})
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "go.mod"), "module example.com/demo\n\ngo 1.21\n")
	writeFile(t, filepath.Join(dir, "cards", "cards.go"), `package cards

const cardTag = "x-card"

type Card struct{}

func (Card) TagName() string              { return cardTag }
func (Card) ObservedAttributes() []string { return []string{"title"} }

type Deck struct{ n int }

func (*Deck) TagName() string              { return "x-deck" }
func (*Deck) ObservedAttributes() []string { return nil }

type Widget struct{ built bool }

func (Widget) TagName() string              { return "x-widget" }
func (Widget) ObservedAttributes() []string { return nil }
func (w *Widget) Construct(el any)          { w.built = true }

type Badge struct{}

func (Badge) TagName() string              { return "x-badge" }
func (Badge) ObservedAttributes() []string { return nil }
func (Badge) Connected(el any)             {}

type Dynamic struct{ Tag string }

func (d Dynamic) TagName() string            { return d.Tag }
func (Dynamic) ObservedAttributes() []string { return nil }

type NotAComponent struct{}

func (NotAComponent) TagName() string { return "x-nope" }

type unexported struct{}

func (unexported) TagName() string              { return "x-hidden" }
func (unexported) ObservedAttributes() []string { return nil }
`)

	descs, err := Discover(context.Background(), dir)
	if err != nil {
		t.Fatalf("Discover error: %v", err)
	}

	type found struct {
		Type    string
		Tag     string
		Pointer bool
	}
	var got []found
	for _, d := range descs {
		if d.ImportPath != "example.com/demo/cards" {
			t.Errorf("Unexpected import path %q", d.ImportPath)
		}
		got = append(got, found{d.TypeName, d.Tag, d.Pointer})
	}
	want := []found{
		{"Badge", "x-badge", false},
		{"Card", "x-card", false},
		{"Deck", "x-deck", true},
		{"Widget", "x-widget", true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("descriptors mismatch (-want +got):\n%s", diff)
	}
	src, err := Generate(Target{PackageName: "app", ImportPath: "example.com/demo/app"}, descs)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if !strings.Contains(string(src), "new(cards.Widget)") || strings.Contains(string(src), "*new(cards.Widget)") {
		t.Errorf("Expected Widget to be registered by pointer, got:\n%s", src)
	}
}
