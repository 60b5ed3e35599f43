package pages

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/roomnav-dev/roomnav/internal/crowd"
	"github.com/roomnav-dev/roomnav/pkg/page"
)

// DashboardPage shows every room's reading at a glance, for the screen
// by the entrance. It refetches on a ticker and re-renders compactly
// when the viewport switches to mobile, releasing both subscriptions in
// CleanupFull.
type DashboardPage struct {
	page.Base

	e        *page.Entities
	svc      CrowdService
	event    string
	interval time.Duration

	subs page.SubscriptionGroup
}

// NewDashboardFactory builds the factory for the dashboard page.
func NewDashboardFactory(svc CrowdService, event string, interval time.Duration) page.Factory {
	return func(e *page.Entities, _ *page.RouteContext) (page.Controller, error) {
		return &DashboardPage{e: e, svc: svc, event: event, interval: interval}, nil
	}
}

func (p *DashboardPage) Title() string     { return p.event + " - dashboard" }
func (p *DashboardPage) AssetPath() string { return "css/dashboard.css" }

func (p *DashboardPage) RenderFull(ctx context.Context) error {
	if err := p.refresh(ctx); err != nil {
		return err
	}

	tick := time.NewTicker(p.interval)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-tick.C:
				// Best effort; the next tick retries.
				_ = p.refresh(context.Background())
			case <-done:
				return
			}
		}
	}()
	p.subs.AddFunc(func() {
		tick.Stop()
		close(done)
	})

	cancel := p.e.Device.Subscribe(func(bool) {
		_ = p.refresh(context.Background())
	})
	p.subs.AddFunc(cancel)

	return nil
}

func (p *DashboardPage) CleanupFull(ctx context.Context) error {
	p.subs.Close()
	return nil
}

func (p *DashboardPage) refresh(ctx context.Context) error {
	rooms, err := p.svc.ListRooms(ctx)
	if err != nil {
		return err
	}
	return p.e.Surface.SetContent(ctx, p.markup(rooms))
}

func (p *DashboardPage) markup(rooms []crowd.RoomStatus) string {
	compact := p.e.Device.IsMobile()

	var b strings.Builder
	fmt.Fprintf(&b, "<h1>%s</h1>\n<table class=\"dashboard\">\n", esc(p.event))
	for _, r := range rooms {
		if compact {
			fmt.Fprintf(&b, "  <tr><td>%s</td></tr>\n", esc(r.Display()))
			continue
		}
		fmt.Fprintf(&b, "  <tr><td>%s</td><td>floor %d</td><td class=\"level-%d\">%s</td></tr>\n",
			esc(r.Name), r.Floor, r.Level, esc(r.LevelLabel))
	}
	b.WriteString("</table>\n")
	return b.String()
}
