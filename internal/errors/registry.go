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
	// Host Errors (H001-H099)
	// ============================================

	"H001": {
		Category: CategoryPrecondition,
		Message:  "Placeholder is not a comment node",
		Detail:   "A host placeholder must be a comment marker created by the parent host or the root.",
	},
	"H002": {
		Category: CategoryPrecondition,
		Message:  "Host cannot be rendered again",
		Detail:   "Static, static-array and component hosts render exactly once. Rebuild the parent instead.",
	},
	"H003": {
		Category: CategoryPrecondition,
		Message:  "Unsupported keyed mutation",
		Detail:   "Reactive arrays only accept push, pop, shift, unshift, splice, move and in-range index updates. Use Splice to add or remove items.",
	},
	"H004": {
		Category: CategoryPrecondition,
		Message:  "Duplicate local child name",
		Detail:   "Each local name given with the \"as\" prop must be unique within one component render.",
	},
	"H005": {
		Category: CategoryPrecondition,
		Message:  "Invalid ref handler",
		Detail:   "A ref must be an el.RefFunc, a func(any), a func(*dom.Node) or an *el.Ref.",
	},
	"H006": {
		Category: CategoryClassification,
		Message:  "Unknown render value",
		Detail:   "The value is not a node, primitive, slice, reactive collection, component descriptor, readable or function.",
	},
	"H007": {
		Category: CategoryInvariant,
		Message:  "Recomputation without a patch",
		Detail:   "A patch-driven computation was asked to recompute from scratch after its first run.",
	},
	"H008": {
		Category: CategoryPrecondition,
		Message:  "Root already rendered",
		Detail:   "Root.Render mounts a tree once. Destroy the root and create a new one to mount another tree.",
	},
	"H009": {
		Category: CategoryPrecondition,
		Message:  "Host used after destroy",
		Detail:   "The host has been destroyed and can no longer render.",
	},

	// ============================================
	// Config Errors (C001-C099)
	// ============================================

	"C001": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "The livetree.json file could not be parsed.",
	},
	"C002": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Detail:   "A configuration value is out of range.",
	},
}

// GetAllCodes returns all registered error codes, sorted.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for a code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
