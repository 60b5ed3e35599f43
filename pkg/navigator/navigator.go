// Package navigator drives page transitions.
//
// Every navigation request — programmatic, history pop, or special-page
// redirect — enters Navigate, which resolves the target route and then
// attempts transition strategies in a fixed priority order:
//
//  1. in-page: same fixed path, parameters changed; the controller
//     re-renders in place and is not replaced.
//  2. partial: controller replaced, but state is handed off explicitly
//     and the full teardown/rebuild is skipped.
//  3. full: the fallback that always applies; complete teardown of the
//     outgoing page and a clean render of the incoming one.
//
// A tier whose capability predicate declines falls through silently; a
// tier that was applicable but failed mid-render is not retried lower —
// the failure is isolated onto the error special page. Route-resolution
// misses go to the notfound special page. If the error page itself is
// missing or fails, the failure is critical and propagates to the caller.
package navigator

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/roomnav-dev/roomnav/internal/errors"
	"github.com/roomnav-dev/roomnav/pkg/assets"
	"github.com/roomnav-dev/roomnav/pkg/device"
	"github.com/roomnav-dev/roomnav/pkg/page"
	"github.com/roomnav-dev/roomnav/pkg/routepath"
	"github.com/roomnav-dev/roomnav/pkg/router"
)

// assetFetchAttempts bounds stylesheet fetch retries in the full tier.
const assetFetchAttempts = 3

// ErrSuperseded is returned when a newer navigation request arrived
// while this one was suspended. The stale transition's side effects are
// abandoned, not rolled back.
var ErrSuperseded = errors.New("E106")

// History persists the navigation trail. The browser's history stack is
// the only persisted state; pops re-enter Navigate through HandlePop.
type History interface {
	Push(ctx context.Context, rawPath string) error
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(n *Navigator) { n.logger = l }
}

// WithHistory sets the history sink written on every Navigate call.
func WithHistory(h History) Option {
	return func(n *Navigator) { n.history = h }
}

// WithMetrics enables Prometheus transition metrics.
func WithMetrics(m *Metrics) Option {
	return func(n *Navigator) { n.metrics = m }
}

// WithTracing enables an OpenTelemetry span per navigation.
func WithTracing(tracerName string) Option {
	return func(n *Navigator) { n.tracer = newTracer(tracerName) }
}

// Navigator is the transition orchestrator. It owns the navigation
// state, the scope-watcher list, and the deferred-cleanup list; no other
// component reads or mutates them.
type Navigator struct {
	reg      *router.Registry
	entities *page.Entities
	loader   assets.Store
	dev      device.Detector
	history  History
	logger   *slog.Logger
	metrics  *Metrics
	tracer   *tracer

	mu         sync.Mutex
	gen        uint64
	current    *NavState
	controller page.Controller
	watchers   []page.Watcher
	cleanups   []func()
}

// New creates a navigator over a built registry and the external
// collaborators. The registry must be fully registered before the first
// Navigate call; it is treated as read-only afterwards.
func New(reg *router.Registry, surface page.Surface, loader assets.Store, dev device.Detector, opts ...Option) *Navigator {
	n := &Navigator{
		reg:    reg,
		loader: loader,
		dev:    dev,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(n)
	}
	n.entities = &page.Entities{
		Surface:   surface,
		Loader:    loader,
		Device:    dev,
		Navigator: n,
	}
	return n
}

// Entities returns the collaborator bundle handed to every factory.
func (n *Navigator) Entities() *page.Entities { return n.entities }

// Current returns the navigation state of the rendered page, or nil
// before the first transition and after a special page.
func (n *Navigator) Current() *NavState {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// begin starts a navigation attempt, superseding any in-flight one.
func (n *Navigator) begin() uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.gen++
	return n.gen
}

// checkpoint is evaluated after every suspension point. A superseded or
// cancelled transition is abandoned without rollback.
func (n *Navigator) checkpoint(ctx context.Context, tok uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.gen != tok {
		return ErrSuperseded
	}
	return nil
}

// Navigate resolves path and performs a transition, pushing the new
// location onto the history. Recovered failures (notfound, error page)
// return nil; only critical failures and supersession surface.
func (n *Navigator) Navigate(ctx context.Context, path string) error {
	return n.navigate(ctx, n.begin(), path, true)
}

// HandlePop re-enters the orchestrator for a browser back/forward event.
// Identical to Navigate except the history entry already exists.
func (n *Navigator) HandlePop(ctx context.Context, path string) error {
	return n.navigate(ctx, n.begin(), path, false)
}

// NavigateSpecial renders a special page by name through the full
// transition path, isolated from the previous page's state.
func (n *Navigator) NavigateSpecial(ctx context.Context, name string) error {
	return n.navigateSpecial(ctx, n.begin(), name)
}

func (n *Navigator) navigate(ctx context.Context, tok uint64, path string, push bool) (err error) {
	start := time.Now()
	tier := tierNone
	ctx, span := n.startSpan(ctx, path)
	defer func() {
		n.observeTransition(tier, err, time.Since(start))
		n.endSpan(span, tier, err)
	}()

	// Step 1: normalize and resolve.
	res, canonErr := routepath.Canonicalize(path)
	if canonErr != nil {
		n.logger.Warn("unroutable path", "path", path, "error", canonErr)
		return n.navigateSpecial(ctx, tok, router.SpecialNotFound)
	}
	raw := res.Path

	m, ok := n.reg.Match(raw)
	if !ok {
		n.logger.Info("route not found", "code", "E001", "path", raw)
		return n.navigateSpecial(ctx, tok, router.SpecialNotFound)
	}

	// Step 2: watchers whose pattern fell out of scope fire before any
	// tier is attempted, regardless of which tier eventually runs.
	n.flushStaleWatchers(raw)

	n.mu.Lock()
	cur, outgoing := n.current, n.controller
	n.mu.Unlock()

	// Step 3: in-page tier. Never tears down, never replaces the
	// controller.
	if cur != nil && outgoing != nil && cur.FixedPath == m.FixedPath && outgoing.CanTransferInPage(m.Params) {
		tier = tierInPage
		if err := outgoing.RenderInPage(ctx, m.Params); err != nil {
			return n.recover(ctx, tok, errors.Wrap("E101", err))
		}
		if err := n.checkpoint(ctx, tok); err != nil {
			return err
		}
		if !n.commit(tok, &NavState{
			RawPath:    raw,
			FixedPath:  m.FixedPath,
			Params:     m.Params,
			Controller: outgoing,
			Timestamp:  time.Now(),
		}, outgoing) {
			return ErrSuperseded
		}
		return n.pushHistory(ctx, raw, push)
	}

	// Step 4: construct the candidate controller. Factories run even
	// when a lower tier might decline, so the partial-tier predicates
	// are evaluated against a real instance.
	rc := n.routeContext(raw, m, cur)
	incoming, facErr := m.Factory(n.entities, rc)
	if facErr != nil {
		return n.recover(ctx, tok, errors.Wrap("E102", facErr))
	}
	if err := n.checkpoint(ctx, tok); err != nil {
		return err
	}

	// Step 5: partial tier. Both sides must agree; a failing handoff
	// propagates to the error tier instead of falling back to full.
	if cur != nil && outgoing != nil && outgoing.CanTransferTo(rc.Next()) && incoming.CanReceiveFrom() {
		tier = tierPartial
		handoff, err := outgoing.PrepareTransfer(ctx, rc.Next())
		if err != nil {
			return n.recover(ctx, tok, errors.Wrap("E103", err))
		}
		if err := n.checkpoint(ctx, tok); err != nil {
			return err
		}
		// The handoff joins the orchestrator state before the render, so
		// a failing RenderPartial still releases its watchers and deferred
		// cleanup through the recovery teardown.
		n.absorbHandoff(handoff)
		var state any
		if handoff != nil {
			state = handoff.State
		}
		if err := incoming.RenderPartial(ctx, state); err != nil {
			return n.recover(ctx, tok, errors.Wrap("E101", err))
		}
		if err := n.checkpoint(ctx, tok); err != nil {
			return err
		}
		if !n.commit(tok, &NavState{
			RawPath:    raw,
			FixedPath:  m.FixedPath,
			Params:     m.Params,
			Controller: incoming,
			Timestamp:  time.Now(),
		}, incoming) {
			return ErrSuperseded
		}
		return n.pushHistory(ctx, raw, push)
	}

	// Step 6: full tier, always the fallback.
	tier = tierFull
	if err := n.full(ctx, tok, incoming); err != nil {
		return n.recover(ctx, tok, err)
	}
	if !n.commit(tok, &NavState{
		RawPath:    raw,
		FixedPath:  m.FixedPath,
		Params:     m.Params,
		Controller: incoming,
		Timestamp:  time.Now(),
	}, incoming) {
		return ErrSuperseded
	}
	return n.pushHistory(ctx, raw, push)
}

// navigateSpecial renders a named special page through the full tier.
// Special pages are isolated: the previous navigation state is cleared
// rather than replaced, and no watcher or cleanup survives into them.
func (n *Navigator) navigateSpecial(ctx context.Context, tok uint64, name string) error {
	factory, ok := n.reg.Special(name)
	if !ok {
		missing := errors.Newf("E104", "special page %q", name)
		if name == router.SpecialError {
			return n.critical(missing)
		}
		return n.recover(ctx, tok, missing)
	}

	n.mu.Lock()
	cur := n.current
	n.mu.Unlock()

	rc := n.routeContext("", router.Match{}, cur)
	ctrl, err := factory(n.entities, rc)
	if err != nil {
		err = errors.Wrap("E102", err)
		if name == router.SpecialError {
			return n.critical(err)
		}
		return n.recover(ctx, tok, err)
	}
	if err := n.checkpoint(ctx, tok); err != nil {
		return err
	}

	if err := n.full(ctx, tok, ctrl); err != nil {
		if err == ErrSuperseded || ctx.Err() != nil {
			return err
		}
		if name == router.SpecialError {
			return n.critical(err)
		}
		return n.recover(ctx, tok, err)
	}

	// Special pages never become a re-enterable current route.
	if !n.commit(tok, nil, ctrl) {
		return ErrSuperseded
	}
	return nil
}

// full performs the teardown half and render half of a full transition.
// Teardown order is fixed: deferred cleanups, then remaining scope
// watchers, then the outgoing controller's CleanupFull; all three are
// logged, never fatal. The commit is left to the caller.
func (n *Navigator) full(ctx context.Context, tok uint64, incoming page.Controller) error {
	n.flushDeferredCleanups()
	n.flushAllWatchers()

	n.mu.Lock()
	outgoing := n.controller
	n.mu.Unlock()

	if outgoing != nil {
		if err := outgoing.CleanupFull(ctx); err != nil {
			n.logger.Error("teardown hook failed", "code", "E301", "error", err)
		}
		// The outgoing controller is cleaned at most once; release it
		// even if this transition is about to be abandoned.
		n.setController(tok, nil)
		if err := n.checkpoint(ctx, tok); err != nil {
			return err
		}
	}

	// From here the candidate owns the surface: if its render fails, the
	// recovery transition's teardown step must run its CleanupFull.
	if !n.setController(tok, incoming) {
		return ErrSuperseded
	}

	surface := n.entities.Surface

	if title := incoming.Title(); title != "" {
		if err := surface.SetTitle(ctx, title); err != nil {
			return errors.Wrap("E101", err)
		}
		if err := n.checkpoint(ctx, tok); err != nil {
			return err
		}
	}

	if asset := incoming.AssetPath(); asset != "" {
		asset = assets.ResolveVariant(asset, n.dev.IsMobile())
		css, err := assets.FetchRetry(ctx, n.loader, asset, assetFetchAttempts)
		if err != nil {
			return errors.Wrap("E107", err)
		}
		if err := n.checkpoint(ctx, tok); err != nil {
			return err
		}
		if err := surface.SetStylesheet(ctx, css); err != nil {
			return errors.Wrap("E101", err)
		}
	} else {
		if err := surface.Clear(ctx); err != nil {
			return errors.Wrap("E101", err)
		}
	}
	if err := n.checkpoint(ctx, tok); err != nil {
		return err
	}

	if err := incoming.RenderFull(ctx); err != nil {
		return errors.Wrap("E101", err)
	}
	return n.checkpoint(ctx, tok)
}

// recover isolates a transition failure onto the error special page.
// Supersession and cancellation pass through untouched: an abandoned
// transition is not a failure.
func (n *Navigator) recover(ctx context.Context, tok uint64, cause error) error {
	if cause == ErrSuperseded || ctx.Err() != nil {
		return cause
	}
	n.logger.Error("transition failed", "error", cause)
	if err := n.navigateSpecial(ctx, tok, router.SpecialError); err != nil {
		return err
	}
	return nil
}

// critical marks the error page itself as unavailable. No further
// recovery is attempted; retrying the error page would loop forever.
func (n *Navigator) critical(cause error) error {
	err := errors.Wrap("E201", cause)
	n.logger.Error("error page unavailable", "error", cause)
	return err
}

// commit replaces the navigation state and active controller, unless a
// newer navigation superseded this one in the meantime.
func (n *Navigator) commit(tok uint64, state *NavState, ctrl page.Controller) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.gen != tok {
		return false
	}
	n.current = state
	n.controller = ctrl
	return true
}

// setController swaps the active controller mid-transition, guarded by
// the same supersession check as commit.
func (n *Navigator) setController(tok uint64, ctrl page.Controller) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.gen != tok {
		return false
	}
	n.controller = ctrl
	return true
}

// routeContext assembles the factory context from the previous and next
// route identity.
func (n *Navigator) routeContext(raw string, m router.Match, prev *NavState) *page.RouteContext {
	rc := &page.RouteContext{
		NextRawPath:   raw,
		NextFixedPath: m.FixedPath,
		NextParams:    m.Params,
	}
	if prev != nil {
		rc.PrevRawPath = prev.RawPath
		rc.PrevFixedPath = prev.FixedPath
		rc.PrevParams = prev.Params
	}
	return rc
}

// pushHistory records the new location. History failures are logged,
// not fatal; the page has already rendered.
func (n *Navigator) pushHistory(ctx context.Context, raw string, push bool) error {
	if !push || n.history == nil {
		return nil
	}
	if err := n.history.Push(ctx, raw); err != nil {
		n.logger.Error("history push failed", "path", raw, "error", err)
	}
	return nil
}
