package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New("E001")

	if err.Code != "E001" {
		t.Errorf("Code = %q, want E001", err.Code)
	}
	if err.Category != CategoryDefinition {
		t.Errorf("Category = %q, want %q", err.Category, CategoryDefinition)
	}
	if err.Suggestion == "" {
		t.Error("Expected template suggestion to be copied")
	}
}

func TestNewUnknownCode(t *testing.T) {
	err := New("E999")
	if err.Message != "Unknown error" {
		t.Errorf("Message = %q, want Unknown error", err.Message)
	}
}

func TestErrorString(t *testing.T) {
	cause := fmt.Errorf("NotSupportedError")
	err := New("E002").WithDetail(`tag "hello-world"`).Wrap(cause)

	got := err.Error()
	for _, want := range []string{"E002", "rejected by host", `tag "hello-world"`, "NotSupportedError"} {
		if !strings.Contains(got, want) {
			t.Errorf("Error() = %q, missing %q", got, want)
		}
	}
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := New("E004").Wrap(cause)

	if !stderrors.Is(err, cause) {
		t.Error("Expected errors.Is to find the wrapped cause")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "E020") != nil {
		t.Error("Expected nil for nil error")
	}

	existing := New("E011")
	if got := FromError(fmt.Errorf("ctx: %w", existing), "E020"); got != existing {
		t.Errorf("Expected existing *Error to be returned, got %v", got)
	}

	plain := stderrors.New("exit status 1")
	got := FromError(plain, "E020")
	if got.Code != "E020" || got.Wrapped != plain {
		t.Errorf("Expected E020 wrapping plain error, got %+v", got)
	}
}

func TestHasCode(t *testing.T) {
	inner := New("E002").Wrap(stderrors.New("dup"))
	outer := New("E030").Wrap(inner)

	if !HasCode(outer, "E030") {
		t.Error("Expected outer code to match")
	}
	if !HasCode(outer, "E002") {
		t.Error("Expected nested code to match")
	}
	if HasCode(outer, "E001") {
		t.Error("Did not expect E001")
	}
	if HasCode(stderrors.New("plain"), "E001") {
		t.Error("Did not expect plain error to match")
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	out := New("E001").WithDetail(`"Hello" must start with a lower-case ASCII letter`).Format()

	if !strings.Contains(out, "ERROR E001: Invalid custom element name") {
		t.Errorf("Format() header missing, got:\n%s", out)
	}
	if !strings.Contains(out, "Hint: ") {
		t.Errorf("Format() hint missing, got:\n%s", out)
	}
	if strings.Contains(out, "\033[") {
		t.Error("Expected no ANSI codes when colors are disabled")
	}
}

func TestCodesSortedAndRegistered(t *testing.T) {
	codes := Codes()
	for i, code := range codes {
		if i > 0 && codes[i-1] >= code {
			t.Errorf("Codes not sorted at %d: %q >= %q", i, codes[i-1], code)
		}
		if _, ok := Lookup(code); !ok {
			t.Errorf("Lookup(%q) failed", code)
		}
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four", 9)
	want := []string{"one two", "three", "four"}
	if len(lines) != len(want) {
		t.Fatalf("wrapText = %q, want %q", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}
