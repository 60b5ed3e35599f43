// Package pages contains the page controllers of the event guide: the
// room catalog, the per-room detail page, the readings dashboard and the
// two special pages.
package pages

import (
	"context"
	"html"
	"time"

	"github.com/roomnav-dev/roomnav/internal/crowd"
	"github.com/roomnav-dev/roomnav/pkg/page"
	"github.com/roomnav-dev/roomnav/pkg/router"
)

// CrowdService is the slice of the crowd API the pages consume.
// Satisfied by *crowd.Client.
type CrowdService interface {
	ListRooms(ctx context.Context) ([]crowd.RoomStatus, error)
	GetLevel(ctx context.Context, roomID string) (crowd.Reading, error)
	PutLevel(ctx context.Context, roomID string, level crowd.Level) (crowd.Reading, error)
}

// Register binds every page of the app. event is the display name shown
// in page titles.
func Register(reg *router.Registry, svc CrowdService, event string) {
	reg.MustRegister("", NewRoomsFactory(svc, event))
	reg.MustRegister("enter/:roomid", NewRoomFactory(svc, event))
	reg.MustRegister("dashboard", NewDashboardFactory(svc, event, DashboardRefreshInterval))

	reg.RegisterSpecial(router.SpecialNotFound, NewNotFoundFactory(RedirectDelay))
	reg.RegisterSpecial(router.SpecialError, NewErrorFactory(RedirectDelay))
}

const (
	// RedirectDelay is how long a special page stays up before sending
	// the visitor back to the catalog.
	RedirectDelay = 5 * time.Second

	// DashboardRefreshInterval is how often the dashboard refetches
	// readings while it is on screen.
	DashboardRefreshInterval = 5 * time.Second
)

// roomsSnapshot is the handoff payload carried from the catalog into a
// room page. The exit watcher invalidates it as soon as navigation
// leaves the enter/ scope, so a later transfer never reuses stale rooms.
type roomsSnapshot struct {
	Rooms   []crowd.RoomStatus
	release *page.Subscription
}

// Valid reports whether the snapshot can still be used.
func (s *roomsSnapshot) Valid() bool {
	return s != nil && s.Rooms != nil
}

func esc(v string) string { return html.EscapeString(v) }
