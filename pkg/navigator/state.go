package navigator

import (
	"time"

	"github.com/roomnav-dev/roomnav/pkg/page"
)

// NavState is the identity of the single currently rendered page.
// Exactly one instance exists at a time, owned exclusively by the
// Navigator; it is replaced, never mutated in place, on every successful
// transition, and is nil only before the first transition completes and
// after a special page renders.
type NavState struct {
	// RawPath is the canonical concrete path (e.g. "enter/s33").
	RawPath string

	// FixedPath is the matched pattern with placeholders left symbolic
	// (e.g. "enter/:roomid"); the in-page tier's identity key.
	FixedPath string

	// Params are the extracted route parameters.
	Params map[string]string

	// Controller is the active page controller.
	Controller page.Controller

	// Timestamp records when the transition committed.
	Timestamp time.Time
}
