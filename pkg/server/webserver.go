package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/matst80/slask-facets/pkg/common"
	"github.com/matst80/slask-facets/pkg/common/jsoncompat"
	"github.com/matst80/slask-facets/pkg/config"
	"github.com/matst80/slask-facets/pkg/session"
	"github.com/matst80/slask-facets/pkg/types"
	"go.uber.org/zap"
)

var ErrUnknownLocation = errors.New("unknown location")

type ErrorResponse struct {
	Error string `json:"error"`
}

type WebServer struct {
	Sessions  *SessionStore
	Tracking  types.Tracking
	Locations config.Locations
	Logger    *zap.Logger
}

func NewWebServer(sessions *SessionStore, tracking types.Tracking, locations config.Locations, logger *zap.Logger) *WebServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebServer{
		Sessions:  sessions,
		Tracking:  tracking,
		Locations: locations,
		Logger:    logger,
	}
}

func writeError(w http.ResponseWriter, enc jsoncompat.Encoder, status int, err error) error {
	w.WriteHeader(status)
	if encErr := enc.Encode(ErrorResponse{Error: err.Error()}); encErr != nil {
		return errors.Join(err, encErr)
	}
	return err
}

func writeSnapshot(w http.ResponseWriter, enc jsoncompat.Encoder, bs *browsingSession) error {
	w.Header().Set("Cache-Control", "private, no-store")
	w.WriteHeader(http.StatusOK)
	return enc.Encode(bs.snapshot())
}

// State returns the rendered session, loading the unscoped catalog on the
// first request of a session.
func (ws *WebServer) State(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	noRequests.WithLabelValues("state").Inc()
	bs := ws.Sessions.get(sessionId)
	bs.mu.Lock()
	defer bs.mu.Unlock()
	if bs.ctrl.State() == session.Loading {
		if err := bs.ctrl.OnInitialLoad(r.Context()); err != nil {
			return writeError(w, enc, http.StatusInternalServerError, err)
		}
	}
	return writeSnapshot(w, enc, bs)
}

func (ws *WebServer) Toggle(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	noRequests.WithLabelValues("toggle").Inc()
	event, err := ToggleFromRequest(r)
	if err != nil {
		return writeError(w, enc, http.StatusBadRequest, err)
	}
	bs := ws.Sessions.get(sessionId)
	bs.mu.Lock()
	defer bs.mu.Unlock()
	if err = bs.ctrl.Dispatch(r.Context(), event); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, session.ErrNotReady) {
			status = http.StatusConflict
		}
		return writeError(w, enc, status, err)
	}
	if ws.Tracking != nil {
		change := types.FilterChange{Facet: event.Facet, Value: event.Value, Checked: event.Checked}
		ws.Tracking.TrackFilter(sessionId, bs.ctrl.LocationId(), change, bs.ctrl.Selection(), len(bs.ctrl.Filtered()))
	}
	return writeSnapshot(w, enc, bs)
}

func (ws *WebServer) Location(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	noRequests.WithLabelValues("location").Inc()
	event, err := LocationFromRequest(r)
	if err != nil {
		return writeError(w, enc, http.StatusBadRequest, err)
	}
	if !ws.Locations.Has(event.LocationId) {
		return writeError(w, enc, http.StatusBadRequest, fmt.Errorf("%w: %q", ErrUnknownLocation, event.LocationId))
	}
	bs := ws.Sessions.get(sessionId)
	bs.mu.Lock()
	defer bs.mu.Unlock()
	if err = bs.ctrl.Dispatch(r.Context(), event); err != nil {
		return writeError(w, enc, http.StatusInternalServerError, err)
	}
	if ws.Tracking != nil {
		ws.Tracking.TrackLocation(sessionId, event.LocationId, len(bs.ctrl.Filtered()))
	}
	return writeSnapshot(w, enc, bs)
}

func (ws *WebServer) GetLocations(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	return enc.Encode(ws.Locations)
}

func (ws *WebServer) Handle() *http.ServeMux {
	srv := http.NewServeMux()
	srv.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	srv.HandleFunc("/api/state", common.JsonHandler(ws.Tracking, ws.Logger, ws.State))
	srv.HandleFunc("/api/toggle", common.JsonHandler(ws.Tracking, ws.Logger, ws.Toggle))
	srv.HandleFunc("/api/location", common.JsonHandler(ws.Tracking, ws.Logger, ws.Location))
	srv.HandleFunc("/api/locations", common.JsonHandler(ws.Tracking, ws.Logger, ws.GetLocations))
	return srv
}
