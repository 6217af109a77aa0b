package errors

import "sort"

// Template defines a registered error type.
type Template struct {
	Category   Category
	Message    string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]Template{
	// Definition errors (E001-E009)
	"E001": {
		Category:   CategoryDefinition,
		Message:    "Invalid custom element name",
		Suggestion: "Use a lower-case name that starts with a letter and contains a hyphen, e.g. \"hello-world\"",
	},
	"E002": {
		Category:   CategoryDefinition,
		Message:    "Custom element definition rejected by host",
		Suggestion: "Each tag name can only be defined once per document",
	},
	"E003": {
		Category:   CategoryHost,
		Message:    "Custom elements are not available in this environment",
		Suggestion: "Load the module in a browser that supports window.customElements",
	},

	// Lifecycle errors
	"E004": {
		Category: CategoryLifecycle,
		Message:  "Lifecycle hook panicked",
	},
	"E005": {
		Category: CategoryLifecycle,
		Message:  "Script hook failed",
	},
	"E006": {
		Category: CategoryHost,
		Message:  "Invalid attribute name",
	},

	// Config errors (E010-E019)
	"E010": {
		Category:   CategoryConfig,
		Message:    "Config file not found",
		Suggestion: "Create wc.json in the project root",
	},
	"E011": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
	},

	// Build errors (E020-E029)
	"E020": {
		Category: CategoryBuild,
		Message:  "WASM build failed",
	},
	"E021": {
		Category:   CategoryBuild,
		Message:    "wasm_exec.js not found",
		Suggestion: "Check that GOROOT points at a complete Go installation",
	},

	// Codegen errors (E030-E039)
	"E030": {
		Category: CategoryCodegen,
		Message:  "Component discovery failed",
	},
	"E031": {
		Category: CategoryCodegen,
		Message:  "Code generation failed",
	},
}

// Codes returns all registered error codes, sorted.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Lookup returns the template for an error code.
func Lookup(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}
