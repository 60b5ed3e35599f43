package page

import "sync"

// Subscription is a handle returned when a controller registers a
// listener or timer. The controller stores the handle and releases it
// inside CleanupFull; release is idempotent, so a cleanup path that runs
// through both a scope watcher and CleanupFull stays safe.
type Subscription struct {
	once    sync.Once
	release func()
}

// NewSubscription wraps a release function in a handle.
func NewSubscription(release func()) *Subscription {
	return &Subscription{release: release}
}

// Close releases the subscription. Safe to call more than once and on a
// nil handle.
func (s *Subscription) Close() {
	if s == nil || s.release == nil {
		return
	}
	s.once.Do(s.release)
}

// SubscriptionGroup collects handles so a controller can release them all
// in one CleanupFull call, in registration order.
type SubscriptionGroup struct {
	subs []*Subscription
}

// Add registers a handle with the group and returns it.
func (g *SubscriptionGroup) Add(s *Subscription) *Subscription {
	g.subs = append(g.subs, s)
	return s
}

// AddFunc wraps release in a new handle and registers it.
func (g *SubscriptionGroup) AddFunc(release func()) *Subscription {
	return g.Add(NewSubscription(release))
}

// Close releases every handle in registration order.
func (g *SubscriptionGroup) Close() {
	for _, s := range g.subs {
		s.Close()
	}
	g.subs = nil
}
