// Package device answers the single viewport question the engine asks:
// is the client a mobile device. Detectors may also notify subscribers
// when the answer changes (e.g. a viewport crossing the breakpoint).
package device

import "sync"

// Detector reports the client device class.
type Detector interface {
	// IsMobile reports whether the client is a mobile-class viewport.
	IsMobile() bool

	// Subscribe registers a change callback and returns an unsubscribe
	// function. The callback receives the new IsMobile value.
	Subscribe(fn func(mobile bool)) (cancel func())
}

// Static is a fixed-answer detector for servers that classify once per
// connection (user agent sniffing at handshake).
type Static bool

func (s Static) IsMobile() bool { return bool(s) }

// Subscribe never fires; the answer cannot change.
func (Static) Subscribe(func(bool)) func() { return func() {} }

// Switchable is a detector whose answer can be updated at runtime, used
// by live sessions that receive viewport reports from the client.
type Switchable struct {
	mu     sync.Mutex
	mobile bool
	nextID int
	subs   map[int]func(bool)
}

// NewSwitchable creates a detector with the given initial answer.
func NewSwitchable(mobile bool) *Switchable {
	return &Switchable{mobile: mobile, subs: make(map[int]func(bool))}
}

// IsMobile reports the current answer.
func (d *Switchable) IsMobile() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mobile
}

// Set updates the answer and notifies subscribers on change.
func (d *Switchable) Set(mobile bool) {
	d.mu.Lock()
	if d.mobile == mobile {
		d.mu.Unlock()
		return
	}
	d.mobile = mobile
	fns := make([]func(bool), 0, len(d.subs))
	for _, fn := range d.subs {
		fns = append(fns, fn)
	}
	d.mu.Unlock()

	for _, fn := range fns {
		fn(mobile)
	}
}

// Subscribe registers a change callback.
func (d *Switchable) Subscribe(fn func(bool)) func() {
	d.mu.Lock()
	id := d.nextID
	d.nextID++
	d.subs[id] = fn
	d.mu.Unlock()

	return func() {
		d.mu.Lock()
		delete(d.subs, id)
		d.mu.Unlock()
	}
}
