package pages

import (
	"context"
	"fmt"
	"strings"

	"github.com/roomnav-dev/roomnav/internal/crowd"
	"github.com/roomnav-dev/roomnav/pkg/page"
)

// RoomsPage is the catalog page at the root path. It lists every room
// with its current crowd level and hands a catalog snapshot to a room
// page when the visitor taps into one.
type RoomsPage struct {
	page.Base

	e     *page.Entities
	svc   CrowdService
	event string

	rooms []crowd.RoomStatus
}

// NewRoomsFactory builds the factory for the catalog page.
func NewRoomsFactory(svc CrowdService, event string) page.Factory {
	return func(e *page.Entities, _ *page.RouteContext) (page.Controller, error) {
		return &RoomsPage{e: e, svc: svc, event: event}, nil
	}
}

func (p *RoomsPage) Title() string     { return p.event + " - rooms" }
func (p *RoomsPage) AssetPath() string { return "css/rooms.css" }

func (p *RoomsPage) RenderFull(ctx context.Context) error {
	rooms, err := p.svc.ListRooms(ctx)
	if err != nil {
		return err
	}
	p.rooms = rooms
	return p.e.Surface.SetContent(ctx, p.markup())
}

// CanTransferTo allows a partial transition into a room detail page.
func (p *RoomsPage) CanTransferTo(next *page.RouteInfo) bool {
	return next.FixedPath == "enter/:roomid"
}

// PrepareTransfer hands the catalog snapshot to the room page. The exit
// watcher invalidates the snapshot once navigation leaves the enter/
// scope; the deferred cleanup covers the full-transition path.
func (p *RoomsPage) PrepareTransfer(ctx context.Context, next *page.RouteInfo) (*page.Handoff, error) {
	snap := &roomsSnapshot{Rooms: p.rooms}
	snap.release = page.NewSubscription(func() { snap.Rooms = nil })

	return &page.Handoff{
		State: snap,
		Watchers: []page.Watcher{
			{Pattern: "enter/*", OnExit: snap.release.Close},
		},
		Cleanup: snap.release.Close,
	}, nil
}

func (p *RoomsPage) markup() string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h1>%s</h1>\n<ul class=\"rooms\">\n", esc(p.event))
	for _, r := range p.rooms {
		fmt.Fprintf(&b,
			"  <li><a href=\"/enter/%s\" data-level=\"%d\">%s</a> <span>%s</span></li>\n",
			esc(r.ID), r.Level, esc(r.Name), esc(r.LevelLabel))
	}
	b.WriteString("</ul>\n")
	return b.String()
}
