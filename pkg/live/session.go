// Package live carries a navigation session over a websocket. The server
// owns the page controllers; the browser only reports intents (link
// taps, back/forward, viewport changes) and applies surface frames.
package live

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/roomnav-dev/roomnav/internal/errors"
	"github.com/roomnav-dev/roomnav/pkg/device"
	"github.com/roomnav-dev/roomnav/pkg/navigator"
	"github.com/roomnav-dev/roomnav/pkg/protocol"
)

// Session is one connected browser. It is the navigator's surface and
// history: lifecycle output becomes server-to-client frames, and the
// read loop feeds client intents back into the navigator.
type Session struct {
	ID string

	conn   *websocket.Conn
	dev    *device.Switchable
	nav    *navigator.Navigator
	logger *slog.Logger

	mu     sync.Mutex // protects conn writes
	closed atomic.Bool
}

func newSession(conn *websocket.Conn, dev *device.Switchable, logger *slog.Logger) *Session {
	return &Session{
		ID:     uuid.NewString(),
		conn:   conn,
		dev:    dev,
		logger: logger,
	}
}

// SetTitle implements page.Surface.
func (s *Session) SetTitle(ctx context.Context, title string) error {
	return s.writeFrame(protocol.EncodeText(protocol.FrameSetTitle, title))
}

// SetContent implements page.Surface.
func (s *Session) SetContent(ctx context.Context, html string) error {
	return s.writeFrame(protocol.EncodeText(protocol.FrameSetContent, html))
}

// SetStylesheet implements page.Surface.
func (s *Session) SetStylesheet(ctx context.Context, css []byte) error {
	return s.writeFrame(protocol.EncodeStylesheet(css))
}

// Clear implements page.Surface.
func (s *Session) Clear(ctx context.Context) error {
	return s.writeFrame(protocol.EncodeClearSurface())
}

// Push implements navigator.History. The browser applies the path with
// pushState so back/forward keep working.
func (s *Session) Push(ctx context.Context, rawPath string) error {
	return s.writeFrame(protocol.EncodeText(protocol.FrameNavPush, rawPath))
}

func (s *Session) writeFrame(data []byte) error {
	if s.closed.Load() {
		return errors.Newf("E601", "session %s closed", s.ID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		return errors.Wrap("E601", err)
	}
	return nil
}

// run reads client frames until the connection drops. Navigation frames
// dispatch concurrently so a tap during a slow transition supersedes it
// instead of queueing behind it.
func (s *Session) run(ctx context.Context) {
	defer s.Close()

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("session read", "session", s.ID, "error", err)
			}
			return
		}

		frame, err := protocol.DecodeFrame(data)
		if err != nil {
			s.logger.Warn("bad frame", "session", s.ID, "error", err)
			continue
		}

		switch frame.Type {
		case protocol.FrameNavigate:
			go s.dispatch(ctx, frame.Text, s.nav.Navigate)
		case protocol.FramePopState:
			go s.dispatch(ctx, frame.Text, s.nav.HandlePop)
		case protocol.FrameViewport:
			s.dev.Set(frame.Flag)
		default:
			s.logger.Warn("unexpected frame from client",
				"session", s.ID, "type", frame.Type)
		}
	}
}

func (s *Session) dispatch(ctx context.Context, path string, fn func(context.Context, string) error) {
	err := fn(ctx, path)
	if err == nil || err == navigator.ErrSuperseded || ctx.Err() != nil {
		return
	}
	s.logger.Error("navigation failed", "session", s.ID, "path", path, "error", err)
}

// Close tears the connection down. Idempotent.
func (s *Session) Close() {
	if s.closed.CompareAndSwap(false, true) {
		s.conn.Close()
	}
}
