package dom

import (
	"errors"
	"testing"
)

func TestValidateTagName(t *testing.T) {
	valid := []string{"hello-world", "x-", "my-element.v2", "math-α", "a-1_b"}
	for _, name := range valid {
		if err := ValidateTagName(name); err != nil {
			t.Errorf("ValidateTagName(%q) = %v, want nil", name, err)
		}
	}

	invalid := []string{"", "hello", "Hello-world", "hello-World", "1-abc", "-abc", "font-face", "my element", "my-el>"}
	for _, name := range invalid {
		err := ValidateTagName(name)
		if err == nil {
			t.Errorf("ValidateTagName(%q) = nil, want error", name)
			continue
		}
		if !errors.Is(err, ErrInvalidTagName) {
			t.Errorf("ValidateTagName(%q) error %v does not wrap ErrInvalidTagName", name, err)
		}
	}
}
