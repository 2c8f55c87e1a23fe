package types

import (
	"errors"
	"fmt"
	"slices"
)

type FacetName string

const (
	FacetSize        FacetName = "size"
	FacetWeight      FacetName = "weight"
	FacetVendor      FacetName = "vendor"
	FacetProductType FacetName = "productType"
	FacetLocation    FacetName = "location"
)

var ErrUnknownFacet = errors.New("unknown facet")

// AllFacets lists every facet a product carries.
var AllFacets = []FacetName{FacetSize, FacetWeight, FacetVendor, FacetProductType, FacetLocation}

func ParseFacetName(name string) (FacetName, error) {
	f := FacetName(name)
	if !slices.Contains(AllFacets, f) {
		return "", fmt.Errorf("%w: %q", ErrUnknownFacet, name)
	}
	return f, nil
}

// PriorityOrder is a total ordering over the facets. A change in one facet may
// only narrow facets that come after it.
type PriorityOrder []FacetName

var DefaultPriorityOrder = PriorityOrder{FacetSize, FacetWeight, FacetVendor, FacetProductType, FacetLocation}

// IndexOf returns the position of f, or -1 when f is not part of the order.
func (p PriorityOrder) IndexOf(f FacetName) int {
	return slices.Index(p, f)
}

// After returns the facets strictly after f. An unknown facet yields the whole order.
func (p PriorityOrder) After(f FacetName) []FacetName {
	return p[p.IndexOf(f)+1:]
}
