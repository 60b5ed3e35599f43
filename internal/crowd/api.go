package crowd

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"

	"github.com/roomnav-dev/roomnav/internal/errors"
)

// API serves the crowd-status CRUD endpoints:
//
//	GET /rooms                room catalog with current readings
//	GET /rooms/{id}/level     current reading of one room
//	PUT /rooms/{id}/level     submit a reading
//
// Writes share one token bucket. At a one-day event every attendee can
// tap the level buttons; the limiter keeps a burst of taps from turning
// into a write storm on the store.
type API struct {
	store   Store
	logger  *slog.Logger
	limiter *rate.Limiter
}

// NewAPI creates the API over a store.
func NewAPI(store Store, logger *slog.Logger) *API {
	if logger == nil {
		logger = slog.Default()
	}
	return &API{
		store:   store,
		logger:  logger,
		limiter: rate.NewLimiter(rate.Limit(50), 100),
	}
}

// Routes returns the chi router for mounting under /api.
func (a *API) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/rooms", a.handleListRooms)
	r.Get("/rooms/{id}/level", a.handleGetLevel)
	r.Put("/rooms/{id}/level", a.handlePutLevel)
	return r
}

// roomStatus is one row of the GET /rooms response.
type roomStatus struct {
	Room
	Level      Level  `json:"level"`
	LevelLabel string `json:"level_label"`
}

func (a *API) handleListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := a.store.ListRooms(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}
	readings, err := a.store.ListReadings(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}

	byRoom := make(map[string]Reading, len(readings))
	for _, rd := range readings {
		byRoom[rd.RoomID] = rd
	}

	out := make([]roomStatus, 0, len(rooms))
	for _, room := range rooms {
		rd := byRoom[room.ID]
		out = append(out, roomStatus{
			Room:       room,
			Level:      rd.Level,
			LevelLabel: rd.Level.String(),
		})
	}
	a.writeJSON(w, http.StatusOK, out)
}

func (a *API) handleGetLevel(w http.ResponseWriter, r *http.Request) {
	reading, err := a.store.GetReading(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, reading)
}

// putLevelRequest is the PUT /rooms/{id}/level body.
type putLevelRequest struct {
	Level Level `json:"level"`
}

func (a *API) handlePutLevel(w http.ResponseWriter, r *http.Request) {
	if !a.limiter.Allow() {
		a.writeJSON(w, http.StatusTooManyRequests, map[string]string{
			"error": "too many submissions, try again shortly",
		})
		return
	}

	var req putLevelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "malformed request body",
		})
		return
	}

	reading, err := a.store.PutLevel(r.Context(), chi.URLParam(r, "id"), req.Level)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, reading)
}

func (a *API) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.Error("write response", "error", err)
	}
}

func (a *API) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.HasCode(err, "E501"):
		status = http.StatusNotFound
	case errors.HasCode(err, "E503"):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		a.logger.Error("crowd api", "error", err)
	}
	a.writeJSON(w, status, map[string]string{"error": err.Error()})
}
