package types

import (
	"net/http"
)

type FilterChange struct {
	Facet   FacetName `json:"facet"`
	Value   string    `json:"value"`
	Checked bool      `json:"checked"`
}

type Tracking interface {
	TrackSession(sessionId string, r *http.Request)
	TrackFilter(sessionId string, locationId string, change FilterChange, selection Selection, resultLen int)
	TrackLocation(sessionId string, locationId string, resultLen int)
	Close() error
}
