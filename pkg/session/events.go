package session

import (
	"github.com/matst80/slask-facets/pkg/types"
)

type State int

const (
	Loading State = iota
	Ready
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	}
	return "unknown"
}

// Event is one external trigger handled by Controller.Dispatch.
type Event interface {
	isEvent()
}

type InitialLoad struct{}

type LocationChanged struct {
	LocationId string `json:"locationId" schema:"locationId"`
}

type FacetToggled struct {
	Facet   types.FacetName `json:"facet" schema:"facet"`
	Value   string          `json:"value" schema:"value"`
	Checked bool            `json:"checked" schema:"checked"`
}

func (InitialLoad) isEvent()     {}
func (LocationChanged) isEvent() {}
func (FacetToggled) isEvent()    {}
