// Package page defines the lifecycle contract every page controller
// implements and the context objects handed to controller factories.
//
// A controller moves through a strict lifecycle: Created (factory has
// produced it with its route context), then exactly one of FullyRendered,
// PartiallyRendered or InPageRendered, then Cleaned. A controller is
// cleaned at most once and never re-entered.
//
// Controllers embed Base and override only the entry points they support;
// the defaults make every method opt-in except RenderFull, which every
// page must provide.
package page

import (
	"context"

	"github.com/roomnav-dev/roomnav/internal/errors"
)

// Controller is the polymorphic surface of a page.
type Controller interface {
	// Title returns the document title applied on a full transition.
	// Empty means "leave the title untouched".
	Title() string

	// AssetPath returns the stylesheet asset applied on a full
	// transition. Empty means "clear the styling surface".
	AssetPath() string

	// RenderFull renders the page onto a clean surface. Mandatory.
	RenderFull(ctx context.Context) error

	// CanTransferTo reports whether this (outgoing) controller can hand
	// its state to the route described by next via a partial transition.
	CanTransferTo(next *RouteInfo) bool

	// CanReceiveFrom reports whether this (incoming) controller accepts
	// a partial-transition handoff.
	CanReceiveFrom() bool

	// PrepareTransfer builds the handoff payload. Called on the outgoing
	// controller, only after both capability checks passed and before
	// RenderPartial is called on the incoming one.
	PrepareTransfer(ctx context.Context, next *RouteInfo) (*Handoff, error)

	// RenderPartial renders using the handoff state, skipping the full
	// teardown/rebuild. Reachable only when CanReceiveFrom returns true.
	RenderPartial(ctx context.Context, state any) error

	// CanTransferInPage reports whether the controller can re-render in
	// place for a parameter-only change on the identical fixed path.
	CanTransferInPage(next map[string]string) bool

	// RenderInPage re-renders for new parameters without replacing the
	// controller. Reachable only when CanTransferInPage returns true.
	RenderInPage(ctx context.Context, params map[string]string) error

	// CleanupFull tears the page down. Invoked exactly once, on every
	// full transition away from the page, before the incoming controller
	// renders. Errors are logged by the navigator, never fatal.
	CleanupFull(ctx context.Context) error
}

// RouteInfo describes a resolved route during a transfer negotiation.
type RouteInfo struct {
	RawPath   string
	FixedPath string
	Params    map[string]string
}

// Watcher pairs a flat route pattern with an exit callback. The navigator
// fires OnExit exactly once: on the first navigation whose path no longer
// matches Pattern, or on the next full transition, whichever comes first.
type Watcher struct {
	Pattern string
	OnExit  func()
}

// Handoff is the payload passed from the outgoing to the incoming
// controller during a partial transition.
type Handoff struct {
	// State is opaque to the navigator and delivered to RenderPartial.
	State any

	// Watchers are scope watchers to register alongside the transition.
	Watchers []Watcher

	// Cleanup, if non-nil, runs once at the next full transition, before
	// the outgoing controller's CleanupFull.
	Cleanup func()
}

// Base provides the default, opt-in behavior for every lifecycle method.
// Embed it in concrete controllers and override what the page supports.
type Base struct{}

func (Base) Title() string     { return "" }
func (Base) AssetPath() string { return "" }

func (Base) RenderFull(context.Context) error {
	return errors.Newf("E105", "RenderFull not implemented")
}

func (Base) CanTransferTo(*RouteInfo) bool { return false }
func (Base) CanReceiveFrom() bool          { return false }

func (Base) PrepareTransfer(context.Context, *RouteInfo) (*Handoff, error) {
	return &Handoff{}, nil
}

func (Base) RenderPartial(context.Context, any) error {
	return errors.Newf("E105", "RenderPartial not implemented")
}

func (Base) CanTransferInPage(map[string]string) bool { return false }

func (Base) RenderInPage(context.Context, map[string]string) error {
	return errors.Newf("E105", "RenderInPage not implemented")
}

func (Base) CleanupFull(context.Context) error { return nil }
