package server

import (
	"sync"
	"time"

	"github.com/matst80/slask-facets/pkg/render"
	"github.com/matst80/slask-facets/pkg/session"
	"github.com/matst80/slask-facets/pkg/types"
	"go.uber.org/zap"
)

// browsingSession pairs a controller with the view it renders into. The
// mutex serializes events so at most one fetch per session is in flight.
type browsingSession struct {
	mu       sync.Mutex
	ctrl     *session.Controller
	view     *render.View
	lastSeen time.Time
}

func (s *browsingSession) snapshot() render.Snapshot {
	snapshot := s.view.Snapshot(s.ctrl.Selection())
	snapshot.LocationId = s.ctrl.LocationId()
	if err := s.ctrl.LastFetchError(); err != nil {
		snapshot.Error = err.Error()
	}
	return snapshot
}

type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*browsingSession
	fetcher  session.Fetcher
	priority types.PriorityOrder
	logger   *zap.Logger
	now      func() time.Time
}

func NewSessionStore(fetcher session.Fetcher, priority types.PriorityOrder, logger *zap.Logger) *SessionStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionStore{
		sessions: make(map[string]*browsingSession),
		fetcher:  fetcher,
		priority: priority,
		logger:   logger,
		now:      time.Now,
	}
}

// get returns the session for id, creating it in the loading state when it
// does not exist.
func (s *SessionStore) get(id string) *browsingSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	bs, ok := s.sessions[id]
	if !ok {
		view := render.NewView(s.priority)
		bs = &browsingSession{
			view: view,
			ctrl: session.NewController(s.fetcher, view,
				session.WithLogger(s.logger.With(zap.String("session", id))),
				session.WithPriority(s.priority)),
		}
		s.sessions[id] = bs
		activeSessions.Inc()
	}
	bs.lastSeen = s.now()
	return bs
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops sessions not seen within ttl and returns how many were removed.
func (s *SessionStore) Sweep(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-ttl)
	removed := 0
	for id, bs := range s.sessions {
		if bs.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	activeSessions.Sub(float64(removed))
	return removed
}
