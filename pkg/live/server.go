package live

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/roomnav-dev/roomnav/pkg/assets"
	"github.com/roomnav-dev/roomnav/pkg/device"
	"github.com/roomnav-dev/roomnav/pkg/navigator"
	"github.com/roomnav-dev/roomnav/pkg/routepath"
	"github.com/roomnav-dev/roomnav/pkg/router"
)

// Server upgrades websocket connections and runs one Session per
// browser. Every session gets its own navigator; controllers are
// per-visitor state and never shared across connections.
type Server struct {
	reg    *router.Registry
	loader assets.Store
	logger *slog.Logger

	metrics  *navigator.Metrics
	tracerNm string

	upgrader websocket.Upgrader
}

// ServerOption configures the live server.
type ServerOption func(*Server)

// WithMetrics records every session's transitions on m.
func WithMetrics(m *navigator.Metrics) ServerOption {
	return func(s *Server) { s.metrics = m }
}

// WithTracing enables spans on every session's navigator.
func WithTracing(tracerName string) ServerOption {
	return func(s *Server) { s.tracerNm = tracerName }
}

// WithCheckOrigin overrides the upgrader origin check.
func WithCheckOrigin(fn func(*http.Request) bool) ServerOption {
	return func(s *Server) { s.upgrader.CheckOrigin = fn }
}

// NewServer creates the websocket endpoint.
func NewServer(reg *router.Registry, loader assets.Store, logger *slog.Logger, opts ...ServerOption) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		reg:    reg,
		loader: loader,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ServeHTTP upgrades the connection and drives the session until it
// drops. The handshake query carries the entry route ("path") and the
// initial viewport ("mobile=1").
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrade failed", "error", err)
		return
	}

	q := r.URL.Query()
	dev := device.NewSwitchable(q.Get("mobile") == "1")

	sess := newSession(conn, dev, s.logger)

	navOpts := []navigator.Option{
		navigator.WithLogger(s.logger),
		navigator.WithHistory(sess),
	}
	if s.metrics != nil {
		navOpts = append(navOpts, navigator.WithMetrics(s.metrics))
	}
	if s.tracerNm != "" {
		navOpts = append(navOpts, navigator.WithTracing(s.tracerNm))
	}
	sess.nav = navigator.New(s.reg, sess, s.loader, dev, navOpts...)

	s.logger.Info("session connected", "session", sess.ID, "remote", r.RemoteAddr)

	entry := q.Get("path")
	if res, err := routepath.Canonicalize(entry); err == nil {
		entry = res.Path
	}
	// Entry render happens before the read loop so the browser never
	// sees an empty surface. HandlePop keeps the browser's history
	// entry instead of pushing a duplicate.
	if err := sess.nav.HandlePop(r.Context(), entry); err != nil {
		s.logger.Error("entry navigation failed",
			"session", sess.ID, "path", entry, "error", err)
	}

	sess.run(r.Context())
	s.logger.Info("session closed", "session", sess.ID)
}
