package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Routing Errors (E001-E099)
	// ============================================

	"E001": {
		Category: CategoryRouting,
		Message:  "no route matches path",
		Detail:   "The navigation target did not match any registered route pattern. The navigator recovers by rendering the notfound special page.",
	},
	"E002": {
		Category: CategoryRouting,
		Message:  "duplicate route registration",
		Detail:   "Two patterns compile to the same trie leaf. Each leaf may bind exactly one factory.",
	},
	"E003": {
		Category: CategoryRouting,
		Message:  "invalid route pattern",
		Detail:   "The pattern could not be canonicalized. Patterns are slash-separated literals, :param segments, or a terminal * wildcard.",
	},

	// ============================================
	// Transition Errors (E101-E199)
	// ============================================

	"E101": {
		Category: CategoryTransition,
		Message:  "render failed",
		Detail:   "A controller render entry point returned an error. The navigator recovers by rendering the error special page.",
	},
	"E102": {
		Category: CategoryTransition,
		Message:  "controller factory failed",
		Detail:   "The matched route's factory could not produce a controller. Treated as a full-transition failure.",
	},
	"E103": {
		Category: CategoryTransition,
		Message:  "transfer preparation failed",
		Detail:   "The outgoing controller's PrepareTransfer returned an error. Per the transition contract this propagates to the error tier instead of silently falling back to a full transition.",
	},
	"E104": {
		Category: CategoryTransition,
		Message:  "special page not registered",
		Detail:   "A special page (notfound, error) was requested by name but no factory is registered under that name.",
	},
	"E105": {
		Category: CategoryTransition,
		Message:  "render entry point not implemented",
		Detail:   "RenderFull is mandatory; RenderPartial and RenderInPage are reachable only when the matching capability predicate returns true.",
	},
	"E106": {
		Category: CategoryTransition,
		Message:  "navigation superseded",
		Detail:   "A newer navigation request arrived while this one was suspended. The stale transition is abandoned without rollback.",
	},
	"E107": {
		Category: CategoryTransition,
		Message:  "asset load failed",
		Detail:   "The incoming page's stylesheet asset could not be fetched.",
	},

	// ============================================
	// Critical Errors (E201-E299)
	// ============================================

	"E201": {
		Category: CategoryCritical,
		Message:  "error page unavailable",
		Detail:   "The error special page is unregistered or its own construction/render failed. The navigator makes no further recovery attempt.",
	},

	// ============================================
	// Cleanup Errors (E301-E399)
	// ============================================

	"E301": {
		Category: CategoryCleanup,
		Message:  "teardown hook failed",
		Detail:   "A CleanupFull, scope-watcher exit, or deferred cleanup returned an error. Logged and swallowed; teardown failures never block the incoming page.",
	},

	// ============================================
	// Config Errors (E401-E499)
	// ============================================

	"E401": {
		Category: CategoryConfig,
		Message:  "config file unreadable",
		Detail:   "roomnav.json could not be read or parsed.",
	},
	"E402": {
		Category: CategoryConfig,
		Message:  "room catalog unreadable",
		Detail:   "The TOML room catalog could not be read or parsed.",
	},

	// ============================================
	// Store Errors (E501-E599)
	// ============================================

	"E501": {
		Category: CategoryStore,
		Message:  "unknown room",
		Detail:   "The requested room id is not in the catalog.",
	},
	"E502": {
		Category: CategoryStore,
		Message:  "store query failed",
		Detail:   "The crowd-level store returned an error.",
	},
	"E503": {
		Category: CategoryStore,
		Message:  "invalid crowd level",
		Detail:   "Crowd levels are 1 (quiet), 2 (busy) or 3 (packed).",
	},

	// ============================================
	// Protocol Errors (E601-E699)
	// ============================================

	"E601": {
		Category: CategoryProtocol,
		Message:  "malformed frame",
		Detail:   "A surface protocol frame could not be decoded.",
	},
}

// Register adds a template at init time. Later registrations win,
// matching the special-route table semantics.
func Register(code string, tmpl ErrorTemplate) {
	registry[code] = tmpl
}
