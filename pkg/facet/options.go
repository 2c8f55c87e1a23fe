package facet

import (
	"github.com/matst80/slask-facets/pkg/types"
)

// Options maps every facet to its display labels in first-seen order.
type Options map[types.FacetName][]string

type Fields map[types.FacetName]*KeyField

// BuildFields scans products in order and collects one KeyField per facet.
func BuildFields(products []types.Product) Fields {
	fields := make(Fields, len(types.AllFacets))
	for _, f := range types.AllFacets {
		fields[f] = EmptyKeyField(f)
	}
	for i := range products {
		for _, f := range types.AllFacets {
			fields[f].AddValue(products[i].FacetValue(f))
		}
	}
	return fields
}

func (fields Fields) Options() Options {
	ret := make(Options, len(fields))
	for name, field := range fields {
		ret[name] = field.Labels()
	}
	return ret
}

func BuildOptions(products []types.Product) Options {
	return BuildFields(products).Options()
}
