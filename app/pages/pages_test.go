package pages

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/roomnav-dev/roomnav/internal/crowd"
	"github.com/roomnav-dev/roomnav/pkg/device"
	"github.com/roomnav-dev/roomnav/pkg/page"
	"github.com/roomnav-dev/roomnav/pkg/router"
)

type fakeSurface struct {
	mu      sync.Mutex
	content string
	sets    int
}

func (s *fakeSurface) SetTitle(ctx context.Context, title string) error { return nil }

func (s *fakeSurface) SetContent(ctx context.Context, html string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.content = html
	s.sets++
	return nil
}

func (s *fakeSurface) SetStylesheet(ctx context.Context, css []byte) error { return nil }
func (s *fakeSurface) Clear(ctx context.Context) error                     { return nil }

func (s *fakeSurface) snapshot() (string, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.content, s.sets
}

type fakeNav struct {
	mu    sync.Mutex
	paths []string
}

func (n *fakeNav) Navigate(ctx context.Context, path string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
	return nil
}

func (n *fakeNav) NavigateSpecial(ctx context.Context, name string) error { return nil }

func (n *fakeNav) navigations() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.paths...)
}

type fakeService struct {
	mu     sync.Mutex
	rooms  []crowd.RoomStatus
	lists  int
	levels map[string]crowd.Reading
}

func newFakeService() *fakeService {
	return &fakeService{
		rooms: []crowd.RoomStatus{
			{Room: crowd.Room{ID: "gym", Name: "Gymnasium", Floor: 1}, Level: crowd.LevelBusy, LevelLabel: "busy"},
			{Room: crowd.Room{ID: "physics-lab", Name: "Physics Lab", Floor: 3}, LevelLabel: "unknown"},
		},
		levels: make(map[string]crowd.Reading),
	}
}

func (s *fakeService) ListRooms(ctx context.Context) ([]crowd.RoomStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists++
	return s.rooms, nil
}

func (s *fakeService) GetLevel(ctx context.Context, roomID string) (crowd.Reading, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.levels[roomID]; ok {
		return r, nil
	}
	return crowd.Reading{RoomID: roomID, Level: crowd.LevelUnknown}, nil
}

func (s *fakeService) PutLevel(ctx context.Context, roomID string, level crowd.Level) (crowd.Reading, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := crowd.Reading{ID: "sub-1", RoomID: roomID, Level: level, UpdatedAt: time.Now()}
	s.levels[roomID] = r
	return r, nil
}

func (s *fakeService) listCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lists
}

func testEntities() (*page.Entities, *fakeSurface, *fakeNav) {
	surface := &fakeSurface{}
	nav := &fakeNav{}
	return &page.Entities{
		Surface:   surface,
		Device:    device.Static(false),
		Navigator: nav,
	}, surface, nav
}

func TestRoomsPageRenderFull(t *testing.T) {
	e, surface, _ := testEntities()
	ctrl, err := NewRoomsFactory(newFakeService(), "Culture Day")(e, &page.RouteContext{})
	if err != nil {
		t.Fatal(err)
	}

	if got := ctrl.Title(); got != "Culture Day - rooms" {
		t.Errorf("Title() = %q", got)
	}
	if err := ctrl.RenderFull(context.Background()); err != nil {
		t.Fatalf("RenderFull error: %v", err)
	}

	content, _ := surface.snapshot()
	for _, want := range []string{"Gymnasium", "Physics Lab", "busy", "/enter/gym"} {
		if !strings.Contains(content, want) {
			t.Errorf("markup missing %q:\n%s", want, content)
		}
	}
}

func TestRoomsPageTransferCapability(t *testing.T) {
	e, _, _ := testEntities()
	ctrl, _ := NewRoomsFactory(newFakeService(), "Culture Day")(e, &page.RouteContext{})
	rooms := ctrl.(*RoomsPage)

	if !rooms.CanTransferTo(&page.RouteInfo{FixedPath: "enter/:roomid"}) {
		t.Error("CanTransferTo(enter/:roomid) = false, want true")
	}
	if rooms.CanTransferTo(&page.RouteInfo{FixedPath: "dashboard"}) {
		t.Error("CanTransferTo(dashboard) = true, want false")
	}
}

func TestRoomsPageHandoffSnapshotInvalidation(t *testing.T) {
	e, _, _ := testEntities()
	ctrl, _ := NewRoomsFactory(newFakeService(), "Culture Day")(e, &page.RouteContext{})
	rooms := ctrl.(*RoomsPage)
	if err := rooms.RenderFull(context.Background()); err != nil {
		t.Fatal(err)
	}

	h, err := rooms.PrepareTransfer(context.Background(), &page.RouteInfo{FixedPath: "enter/:roomid"})
	if err != nil {
		t.Fatalf("PrepareTransfer error: %v", err)
	}

	snap, ok := h.State.(*roomsSnapshot)
	if !ok || !snap.Valid() {
		t.Fatalf("handoff state = %#v, want valid snapshot", h.State)
	}
	if len(h.Watchers) != 1 || h.Watchers[0].Pattern != "enter/*" {
		t.Fatalf("watchers = %+v, want one enter/* watcher", h.Watchers)
	}

	h.Watchers[0].OnExit()
	if snap.Valid() {
		t.Error("snapshot still valid after exit watcher fired")
	}
	// Idempotent with the deferred cleanup.
	h.Cleanup()
}

func TestRoomPagePartialUsesSnapshot(t *testing.T) {
	e, surface, _ := testEntities()
	ctrl, _ := NewRoomFactory(newFakeService(), "Culture Day")(e, &page.RouteContext{
		NextRawPath:   "enter/gym",
		NextFixedPath: "enter/:roomid",
		NextParams:    map[string]string{"roomid": "gym"},
	})

	snap := &roomsSnapshot{Rooms: []crowd.RoomStatus{
		{Room: crowd.Room{ID: "gym", Name: "Gymnasium"}},
	}}
	if err := ctrl.RenderPartial(context.Background(), snap); err != nil {
		t.Fatalf("RenderPartial error: %v", err)
	}

	content, _ := surface.snapshot()
	if !strings.Contains(content, "Gymnasium") {
		t.Errorf("markup should use snapshot name, got:\n%s", content)
	}
}

func TestRoomPageInPageSwitchesRoom(t *testing.T) {
	e, surface, _ := testEntities()
	ctrl, _ := NewRoomFactory(newFakeService(), "Culture Day")(e, &page.RouteContext{
		NextParams: map[string]string{"roomid": "gym"},
	})

	if !ctrl.CanTransferInPage(map[string]string{"roomid": "physics-lab"}) {
		t.Fatal("CanTransferInPage = false, want true")
	}
	if ctrl.CanTransferInPage(map[string]string{"other": "x"}) {
		t.Error("CanTransferInPage without roomid = true, want false")
	}

	if err := ctrl.RenderInPage(context.Background(), map[string]string{"roomid": "physics-lab"}); err != nil {
		t.Fatalf("RenderInPage error: %v", err)
	}
	content, _ := surface.snapshot()
	if !strings.Contains(content, "physics-lab") {
		t.Errorf("markup should show the new room, got:\n%s", content)
	}
}

func TestRoomPageSubmitLevel(t *testing.T) {
	e, surface, _ := testEntities()
	svc := newFakeService()
	ctrl, _ := NewRoomFactory(svc, "Culture Day")(e, &page.RouteContext{
		NextParams: map[string]string{"roomid": "gym"},
	})
	room := ctrl.(*RoomPage)

	if err := room.SubmitLevel(context.Background(), crowd.LevelPacked); err != nil {
		t.Fatalf("SubmitLevel error: %v", err)
	}
	if svc.levels["gym"].Level != crowd.LevelPacked {
		t.Errorf("stored level = %v, want packed", svc.levels["gym"].Level)
	}
	content, _ := surface.snapshot()
	if !strings.Contains(content, "packed") {
		t.Errorf("markup should show the new level, got:\n%s", content)
	}
}

func TestDashboardCleanupStopsRefresh(t *testing.T) {
	e, _, _ := testEntities()
	svc := newFakeService()
	ctrl, _ := NewDashboardFactory(svc, "Culture Day", 10*time.Millisecond)(e, &page.RouteContext{})

	if err := ctrl.RenderFull(context.Background()); err != nil {
		t.Fatalf("RenderFull error: %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for svc.listCount() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if svc.listCount() < 2 {
		t.Fatal("ticker never refreshed the dashboard")
	}

	if err := ctrl.CleanupFull(context.Background()); err != nil {
		t.Fatal(err)
	}
	settled := svc.listCount()
	time.Sleep(50 * time.Millisecond)
	if got := svc.listCount(); got != settled {
		t.Errorf("refresh count moved from %d to %d after cleanup", settled, got)
	}
}

func TestDashboardCompactRowsOnMobile(t *testing.T) {
	surface := &fakeSurface{}
	e := &page.Entities{
		Surface:   surface,
		Device:    device.Static(true),
		Navigator: &fakeNav{},
	}
	ctrl, _ := NewDashboardFactory(newFakeService(), "Culture Day", time.Minute)(e, &page.RouteContext{})
	if err := ctrl.RenderFull(context.Background()); err != nil {
		t.Fatalf("RenderFull error: %v", err)
	}
	defer ctrl.CleanupFull(context.Background())

	content, _ := surface.snapshot()
	if !strings.Contains(content, "Gymnasium (busy)") {
		t.Errorf("compact markup missing combined label:\n%s", content)
	}
	if strings.Contains(content, "floor") {
		t.Errorf("compact markup should drop the floor column:\n%s", content)
	}
}

func TestSpecialPageRedirects(t *testing.T) {
	e, surface, nav := testEntities()
	ctrl, _ := NewNotFoundFactory(10 * time.Millisecond)(e, &page.RouteContext{
		NextRawPath: "no/such/room",
	})

	if err := ctrl.RenderFull(context.Background()); err != nil {
		t.Fatalf("RenderFull error: %v", err)
	}
	content, _ := surface.snapshot()
	if !strings.Contains(content, "no/such/room") {
		t.Errorf("markup should mention the missing path, got:\n%s", content)
	}

	deadline := time.Now().Add(time.Second)
	for len(nav.navigations()) == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	got := nav.navigations()
	if len(got) != 1 || got[0] != "" {
		t.Fatalf("navigations = %v, want one redirect to the catalog", got)
	}
}

func TestSpecialPageCleanupCancelsRedirect(t *testing.T) {
	e, _, nav := testEntities()
	ctrl, _ := NewErrorFactory(30 * time.Millisecond)(e, &page.RouteContext{})

	if err := ctrl.RenderFull(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := ctrl.CleanupFull(context.Background()); err != nil {
		t.Fatal(err)
	}

	time.Sleep(60 * time.Millisecond)
	if got := nav.navigations(); len(got) != 0 {
		t.Errorf("navigations = %v, want none after cleanup", got)
	}
}

func TestRegisterBindsEveryPage(t *testing.T) {
	reg := router.NewRegistry()
	Register(reg, newFakeService(), "Culture Day")

	for _, path := range []string{"", "enter/gym", "dashboard"} {
		if _, ok := reg.Match(path); !ok {
			t.Errorf("Match(%q) missed", path)
		}
	}
	for _, name := range []string{router.SpecialNotFound, router.SpecialError} {
		if _, ok := reg.Special(name); !ok {
			t.Errorf("Special(%q) missing", name)
		}
	}
}
