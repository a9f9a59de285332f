package errors

import "sort"

const docBase = "https://github.com/vango-dev/vtree/blob/main/docs/errors.md#"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
	DocURL     string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Configuration Errors (E120-E139)
	// ============================================

	"E120": {
		Category:   CategoryConfig,
		Message:    "Invalid vtree.json",
		Detail:     "The vtree.json configuration file is malformed.",
		Suggestion: "Validate the file with a JSON linter or delete it to use defaults.",
		DocURL:     docBase + "e120",
	},
	"E121": {
		Category: CategoryConfig,
		Message:  "Missing required configuration",
		Detail:   "A required configuration value is not set.",
		DocURL:   docBase + "e121",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid port number",
		Detail:   "The preview port must be between 1 and 65535.",
		DocURL:   docBase + "e122",
	},
	"E123": {
		Category:   CategoryConfig,
		Message:    "Invalid log setting",
		Detail:     "The log level or format is not recognized.",
		Suggestion: `Use one of "debug", "info", "warn", "error" and "text" or "json".`,
		DocURL:     docBase + "e123",
	},
	"E124": {
		Category: CategoryConfig,
		Message:  "Invalid snapshot store",
		Detail:   "The snapshot store must be \"dir\" or \"s3\", and s3 requires a bucket.",
		DocURL:   docBase + "e124",
	},

	// ============================================
	// CLI Errors (E140-E159)
	// ============================================

	"E140": {
		Category: CategoryScenario,
		Message:  "Invalid scenario file",
		Detail:   "The scenario file could not be decoded. Each step needs a name and a state map.",
		DocURL:   docBase + "e140",
	},
	"E141": {
		Category: CategoryCLI,
		Message:  "Snapshot upload failed",
		Detail:   "The rendered snapshot could not be written to the configured store.",
		DocURL:   docBase + "e141",
	},
	"E142": {
		Category: CategoryCLI,
		Message:  "Preview server failed",
		Detail:   "The preview server stopped with an error.",
		DocURL:   docBase + "e142",
	},
	"E143": {
		Category: CategoryCLI,
		Message:  "Unknown component",
		Detail:   "The requested root component is not registered.",
		DocURL:   docBase + "e143",
	},

	// ============================================
	// Reconciliation Errors (E200-E219)
	// ============================================

	"E200": {
		Category:   CategoryRuntime,
		Message:    "Invalid node",
		Detail:     "A value passed as a node type or child could not be turned into a node.",
		Suggestion: "Pass a tag string or a *vdom.Descriptor as the node type.",
		DocURL:     docBase + "e200",
	},
	"E201": {
		Category:   CategoryRuntime,
		Message:    "Update on unmounted component",
		Detail:     "Update or SetState was called on a component instance that has never been mounted.",
		Suggestion: "Mount the tree with RenderRoot before changing component state.",
		DocURL:     docBase + "e201",
	},
	"E202": {
		Category: CategoryRuntime,
		Message:  "Lifecycle hook failed",
		Detail:   "A component lifecycle hook returned an error or panicked. The cycle was aborted.",
		DocURL:   docBase + "e202",
	},
	"E203": {
		Category: CategoryRuntime,
		Message:  "No render target",
		Detail:   "The reconciler was created without a target.",
		DocURL:   docBase + "e203",
	},
	"E204": {
		Category: CategoryRender,
		Message:  "Foreign anchor",
		Detail:   "An anchor or handle from another document was passed to the target.",
		DocURL:   docBase + "e204",
	},
	"E205": {
		Category: CategoryRender,
		Message:  "Render failed",
		Detail:   "The live tree could not be written as HTML.",
		DocURL:   docBase + "e205",
	},
}

// GetAllCodes returns all registered error codes in ascending order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
