package errors

import (
	"sort"
	"sync"
)

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
}

var (
	registryMu sync.RWMutex

	// registry maps error codes to their templates.
	registry = map[string]ErrorTemplate{
		// ============================================
		// Runtime Errors (H001-H099)
		// ============================================

		"H001": {
			Category:   CategoryRender,
			Message:    "Hook order changed between renders",
			Detail:     "Hooks are addressed by call order. The instance called a different number or kind of hooks than on its previous render, so its slots can no longer be matched to hook calls. The instance has been torn down.",
			Suggestion: "Call hooks unconditionally and in the same order on every render; move conditions inside the hook callbacks.",
		},
		"H002": {
			Category:   CategoryRender,
			Message:    "Render function panicked",
			Detail:     "The render pass for this instance was aborted. Its state is left at the last committed values and other instances in the batch were rendered normally.",
			Suggestion: "Check the stack trace; the next update or state write will retry the render.",
		},
		"H003": {
			Category:   CategoryEffect,
			Message:    "Effect panicked",
			Detail:     "An effect callback or its cleanup panicked during flush. The remaining effects in the batch still ran.",
			Suggestion: "Recover inside the effect if the failure is expected, or fix the callback.",
		},
		"H004": {
			Category:   CategoryState,
			Message:    "State write after unmount ignored",
			Detail:     "A setter was called for an instance that has already been unmounted. The write was dropped.",
			Suggestion: "Guard asynchronous work with a ref that the effect cleanup clears.",
		},
		"H005": {
			Category:   CategoryEffect,
			Message:    "Update storm",
			Detail:     "Effects kept writing state after every flush and the scheduler hit its pass budget. Remaining dirty instances were dropped for this task.",
			Suggestion: "Give the effect a dependency tuple, or stop writing state unconditionally from it.",
		},

		// ============================================
		// Config / CLI Errors (C001-C099)
		// ============================================

		"C001": {
			Category: CategoryConfig,
			Message:  "Invalid configuration file",
			Detail:   "The hooks.json file could not be parsed.",
		},
		"C002": {
			Category: CategoryConfig,
			Message:  "Invalid configuration value",
		},
		"C003": {
			Category:   CategoryCLI,
			Message:    "Unknown demo",
			Suggestion: "Run `hookslab list` to see the available demos.",
		},
	}
)

// GetAllCodes returns all registered codes, sorted.
func GetAllCodes() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for a code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	t, ok := registry[code]
	return t, ok
}

// Register adds or replaces a code.
func Register(code string, template ErrorTemplate) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[code] = template
}
