package pages

import (
	"context"
	"fmt"
	"strings"

	"github.com/roomnav-dev/roomnav/internal/crowd"
	"github.com/roomnav-dev/roomnav/pkg/page"
)

// RoomPage is the detail page at enter/:roomid. It shows one room's
// crowd level and the buttons to submit a new reading. Moving between
// rooms is a parameter-only change, so the page re-renders in place.
type RoomPage struct {
	page.Base

	e     *page.Entities
	svc   CrowdService
	event string

	roomID  string
	reading crowd.Reading
	snap    *roomsSnapshot
}

// NewRoomFactory builds the factory for the room detail page.
func NewRoomFactory(svc CrowdService, event string) page.Factory {
	return func(e *page.Entities, rc *page.RouteContext) (page.Controller, error) {
		return &RoomPage{
			e:      e,
			svc:    svc,
			event:  event,
			roomID: rc.NextParams["roomid"],
		}, nil
	}
}

func (p *RoomPage) Title() string     { return p.event + " - " + p.roomID }
func (p *RoomPage) AssetPath() string { return "css/room.css" }

func (p *RoomPage) RenderFull(ctx context.Context) error {
	return p.refresh(ctx)
}

// CanReceiveFrom accepts the catalog snapshot handoff.
func (p *RoomPage) CanReceiveFrom() bool { return true }

// RenderPartial renders using the catalog snapshot so the room name
// resolves without a second catalog fetch.
func (p *RoomPage) RenderPartial(ctx context.Context, state any) error {
	if snap, ok := state.(*roomsSnapshot); ok && snap.Valid() {
		p.snap = snap
	}
	return p.refresh(ctx)
}

// CanTransferInPage re-renders in place when only the room id changed.
func (p *RoomPage) CanTransferInPage(next map[string]string) bool {
	_, ok := next["roomid"]
	return ok
}

func (p *RoomPage) RenderInPage(ctx context.Context, params map[string]string) error {
	p.roomID = params["roomid"]
	return p.refresh(ctx)
}

// SubmitLevel records a reading for the current room and re-renders.
func (p *RoomPage) SubmitLevel(ctx context.Context, level crowd.Level) error {
	reading, err := p.svc.PutLevel(ctx, p.roomID, level)
	if err != nil {
		return err
	}
	p.reading = reading
	return p.e.Surface.SetContent(ctx, p.markup())
}

func (p *RoomPage) refresh(ctx context.Context) error {
	reading, err := p.svc.GetLevel(ctx, p.roomID)
	if err != nil {
		return err
	}
	p.reading = reading
	return p.e.Surface.SetContent(ctx, p.markup())
}

// roomName resolves the display name from the snapshot, falling back to
// the room id.
func (p *RoomPage) roomName() string {
	if p.snap.Valid() {
		for _, r := range p.snap.Rooms {
			if r.ID == p.roomID {
				return r.Name
			}
		}
	}
	return p.roomID
}

func (p *RoomPage) markup() string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h1>%s</h1>\n", esc(p.roomName()))
	fmt.Fprintf(&b, "<p class=\"level level-%d\">%s</p>\n",
		p.reading.Level, esc(p.reading.Level.String()))
	b.WriteString("<div class=\"submit\">\n")
	for _, l := range []crowd.Level{crowd.LevelQuiet, crowd.LevelBusy, crowd.LevelPacked} {
		fmt.Fprintf(&b, "  <button data-level=\"%d\">%s</button>\n", l, esc(l.String()))
	}
	b.WriteString("</div>\n<a href=\"/\">back to rooms</a>\n")
	return b.String()
}
