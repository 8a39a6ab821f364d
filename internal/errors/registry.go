package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Expansion Errors (E001-E019)
	// ============================================

	"E001": {
		Category: CategoryLimit,
		Message:  "Abbreviation too long",
		Detail:   "The abbreviation is longer than the configured maximum input length.",
	},
	"E002": {
		Category: CategoryLimit,
		Message:  "Abbreviation nested too deeply",
		Detail:   "Child operators and groups are nested deeper than the configured maximum depth.",
	},
	"E003": {
		Category: CategoryParse,
		Message:  "Abbreviation not recognized",
		Detail:   "The expander stopped on an unexpected fault while reading the abbreviation.",
	},
	"E004": {
		Category: CategoryLimit,
		Message:  "Multiplier too large",
		Detail:   "Nested *N repetitions ask for more copies of a node than the configured maximum multiplier.",
	},
	"E005": {
		Category: CategoryLimit,
		Message:  "Placeholder text too long",
		Detail:   "A lorem marker asks for more words than the configured maximum.",
	},

	// ============================================
	// Live Playground Errors (E060-E079)
	// ============================================

	"E060": {
		Category: CategoryProtocol,
		Message:  "Live connection failed",
		Detail:   "The WebSocket upgrade for the live playground was rejected.",
	},
	"E061": {
		Category: CategoryProtocol,
		Message:  "Invalid request body",
		Detail:   "The request body is not the expected JSON document.",
	},

	// ============================================
	// Storage Errors (E080-E099)
	// ============================================

	"E080": {
		Category: CategoryStorage,
		Message:  "Snippet not found",
		Detail:   "No snippet with this id exists in the configured store.",
	},
	"E081": {
		Category: CategoryStorage,
		Message:  "Snippet store failure",
		Detail:   "The snippet store could not complete the operation.",
	},

	// ============================================
	// Configuration Errors (E120-E139)
	// ============================================

	"E120": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "The emmet configuration file is malformed.",
	},
	"E121": {
		Category: CategoryConfig,
		Message:  "Missing required configuration",
		Detail:   "A required configuration value is not set.",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid port number",
		Detail:   "The configured port number is outside 0-65535.",
	},
	"E123": {
		Category: CategoryConfig,
		Message:  "Unknown snippet store backend",
		Detail:   "store.backend must be one of memory, disk or s3.",
	},
	"E124": {
		Category: CategoryConfig,
		Message:  "Invalid expansion limit",
		Detail:   "Expansion limits must be zero (disabled) or positive.",
	},
	"E125": {
		Category: CategoryConfig,
		Message:  "Invalid log setting",
		Detail:   "log.level must be debug, info, warn or error and log.format must be text or json.",
	},

	// ============================================
	// CLI Errors (E140-E159)
	// ============================================

	"E140": {
		Category: CategoryCLI,
		Message:  "Configuration file already exists",
		Detail:   "Refusing to overwrite an existing configuration file.",
	},
	"E141": {
		Category: CategoryCLI,
		Message:  "No abbreviation given",
		Detail:   "Pass the abbreviation as an argument or on standard input.",
	},
	"E142": {
		Category: CategoryCLI,
		Message:  "Invalid argument",
		Detail:   "A command argument could not be parsed.",
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
