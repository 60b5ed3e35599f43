package navigator

import (
	"github.com/roomnav-dev/roomnav/pkg/page"
	"github.com/roomnav-dev/roomnav/pkg/router"
)

// flushStaleWatchers fires and drops every scope watcher whose pattern no
// longer matches the new path. Watchers that still match are kept in
// their original registration order. Runs before any transition tier.
func (n *Navigator) flushStaleWatchers(path string) {
	n.mu.Lock()
	watchers := n.watchers
	n.watchers = nil
	n.mu.Unlock()

	kept := watchers[:0]
	var exits []func()
	for _, w := range watchers {
		if router.MatchPattern(w.Pattern, path) {
			kept = append(kept, w)
			continue
		}
		exits = append(exits, w.OnExit)
	}

	n.mu.Lock()
	// Watchers registered by a nested navigation while we were flushing
	// stay behind the survivors, preserving registration order.
	n.watchers = append(kept, n.watchers...)
	n.observeWatcherCount()
	n.mu.Unlock()

	for _, exit := range exits {
		n.runCleanup("scope watcher exit", exit)
	}
}

// flushAllWatchers fires every remaining watcher unconditionally, in
// registration order. Part of the full-transition teardown.
func (n *Navigator) flushAllWatchers() {
	n.mu.Lock()
	watchers := n.watchers
	n.watchers = nil
	n.observeWatcherCount()
	n.mu.Unlock()

	for _, w := range watchers {
		n.runCleanup("scope watcher exit", w.OnExit)
	}
}

// flushDeferredCleanups runs every deferred cleanup in registration
// order. Always precedes the outgoing controller's CleanupFull.
func (n *Navigator) flushDeferredCleanups() {
	n.mu.Lock()
	cleanups := n.cleanups
	n.cleanups = nil
	n.mu.Unlock()

	for _, fn := range cleanups {
		n.runCleanup("deferred cleanup", fn)
	}
}

// absorbHandoff merges a partial transition's watchers and deferred
// cleanup into the navigator's bookkeeping.
func (n *Navigator) absorbHandoff(h *page.Handoff) {
	if h == nil {
		return
	}
	n.mu.Lock()
	n.watchers = append(n.watchers, h.Watchers...)
	if h.Cleanup != nil {
		n.cleanups = append(n.cleanups, h.Cleanup)
	}
	n.observeWatcherCount()
	n.mu.Unlock()
}

// runCleanup invokes a teardown callback, turning panics into logged
// errors. Teardown failures never block the incoming page.
func (n *Navigator) runCleanup(what string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Error("teardown hook panicked", "code", "E301", "hook", what, "panic", r)
		}
	}()
	fn()
}
