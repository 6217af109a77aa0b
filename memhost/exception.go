package memhost

// DOMException mirrors the browser exception type for host-level failures.
type DOMException struct {
	// Name is the exception name, e.g. "NotSupportedError".
	Name    string
	Message string
}

func (e *DOMException) Error() string {
	return e.Name + ": " + e.Message
}

// Exception names used by the document.
const (
	NotSupportedError     = "NotSupportedError"
	SyntaxError           = "SyntaxError"
	InvalidCharacterError = "InvalidCharacterError"
)
