package dom

import (
	"errors"
	"fmt"
)

// ErrInvalidTagName is returned (wrapped) by ValidateTagName.
var ErrInvalidTagName = errors.New("invalid custom element name")

// reservedTagNames are hyphenated names already used by SVG and MathML.
var reservedTagNames = map[string]bool{
	"annotation-xml":   true,
	"color-profile":    true,
	"font-face":        true,
	"font-face-src":    true,
	"font-face-uri":    true,
	"font-face-format": true,
	"font-face-name":   true,
	"missing-glyph":    true,
}

// ValidateTagName reports whether name is a valid custom element name: it
// must start with a lower-case ASCII letter, contain a hyphen, contain no
// upper-case ASCII letters, consist only of PCENChar code points and not be
// one of the reserved names.
func ValidateTagName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidTagName)
	}
	if name[0] < 'a' || name[0] > 'z' {
		return fmt.Errorf("%w: %q must start with a lower-case ASCII letter", ErrInvalidTagName, name)
	}
	hasHyphen := false
	for _, r := range name {
		if r == '-' {
			hasHyphen = true
		}
		if r >= 'A' && r <= 'Z' {
			return fmt.Errorf("%w: %q contains upper-case letters", ErrInvalidTagName, name)
		}
		if !isPCENChar(r) {
			return fmt.Errorf("%w: %q contains %q", ErrInvalidTagName, name, r)
		}
	}
	if !hasHyphen {
		return fmt.Errorf("%w: %q must contain a hyphen", ErrInvalidTagName, name)
	}
	if reservedTagNames[name] {
		return fmt.Errorf("%w: %q is reserved", ErrInvalidTagName, name)
	}
	return nil
}

func isPCENChar(r rune) bool {
	switch {
	case r == '-', r == '.', r == '_', r == 0xB7:
		return true
	case r >= '0' && r <= '9', r >= 'a' && r <= 'z':
		return true
	case r >= 0xC0 && r <= 0xD6, r >= 0xD8 && r <= 0xF6, r >= 0xF8 && r <= 0x37D:
		return true
	case r >= 0x37F && r <= 0x1FFF, r >= 0x200C && r <= 0x200D, r >= 0x203F && r <= 0x2040:
		return true
	case r >= 0x2070 && r <= 0x218F, r >= 0x2C00 && r <= 0x2FEF, r >= 0x3001 && r <= 0xD7FF:
		return true
	case r >= 0xF900 && r <= 0xFDCF, r >= 0xFDF0 && r <= 0xFFFD, r >= 0x10000 && r <= 0xEFFFF:
		return true
	}
	return false
}
