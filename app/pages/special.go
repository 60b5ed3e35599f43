package pages

import (
	"context"
	"fmt"
	"time"

	"github.com/roomnav-dev/roomnav/pkg/page"
)

// NotFoundPage is shown when no route matches. It waits a moment, then
// sends the visitor back to the catalog.
type NotFoundPage struct {
	page.Base

	e       *page.Entities
	path    string
	delay   time.Duration
	pending *page.Subscription
}

// NewNotFoundFactory builds the notfound special-page factory.
func NewNotFoundFactory(delay time.Duration) page.Factory {
	return func(e *page.Entities, rc *page.RouteContext) (page.Controller, error) {
		return &NotFoundPage{e: e, path: rc.NextRawPath, delay: delay}, nil
	}
}

func (p *NotFoundPage) Title() string { return "not found" }

func (p *NotFoundPage) RenderFull(ctx context.Context) error {
	body := fmt.Sprintf(
		"<h1>Nothing here</h1>\n<p>No room at <code>/%s</code>. Taking you back.</p>\n",
		esc(p.path))
	if err := p.e.Surface.SetContent(ctx, body); err != nil {
		return err
	}
	p.pending = scheduleRedirect(p.e.Navigator, p.delay)
	return nil
}

func (p *NotFoundPage) CleanupFull(ctx context.Context) error {
	p.pending.Close()
	return nil
}

// ErrorPage is shown when a transition fails. Kept deliberately plain so
// it cannot fail the way the page it replaces did.
type ErrorPage struct {
	page.Base

	e       *page.Entities
	delay   time.Duration
	pending *page.Subscription
}

// NewErrorFactory builds the error special-page factory.
func NewErrorFactory(delay time.Duration) page.Factory {
	return func(e *page.Entities, _ *page.RouteContext) (page.Controller, error) {
		return &ErrorPage{e: e, delay: delay}, nil
	}
}

func (p *ErrorPage) Title() string { return "something went wrong" }

func (p *ErrorPage) RenderFull(ctx context.Context) error {
	body := "<h1>Something went wrong</h1>\n<p>That page could not load. Taking you back.</p>\n"
	if err := p.e.Surface.SetContent(ctx, body); err != nil {
		return err
	}
	p.pending = scheduleRedirect(p.e.Navigator, p.delay)
	return nil
}

func (p *ErrorPage) CleanupFull(ctx context.Context) error {
	p.pending.Close()
	return nil
}

// scheduleRedirect arms a one-shot timer that navigates to the catalog.
// The returned handle stops the timer; a manual navigation before it
// fires reaches CleanupFull first, so the redirect never races the
// visitor.
func scheduleRedirect(nav page.Navigator, delay time.Duration) *page.Subscription {
	if nav == nil || delay <= 0 {
		return nil
	}
	timer := time.AfterFunc(delay, func() {
		_ = nav.Navigate(context.Background(), "")
	})
	return page.NewSubscription(func() { timer.Stop() })
}
