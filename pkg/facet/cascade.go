package facet

import (
	"github.com/matst80/slask-facets/pkg/types"
)

// Availability holds, per downstream facet, the labels still reachable.
type Availability map[types.FacetName]types.ValueSet

// IsAvailable reports whether a label should stay visible. Facets the
// cascade did not touch are always available.
func (a Availability) IsAvailable(f types.FacetName, label string) bool {
	set, ok := a[f]
	if !ok {
		return true
	}
	return set.Contains(label)
}

// Restrict drops labels that are not part of the rendered options. The first
// spelling seen in a filtered subset can differ from the one rendered for the
// full catalog, and such a label has nothing to show.
func (a Availability) Restrict(rendered Options) Availability {
	ret := make(Availability, len(a))
	for f, set := range a {
		labels := types.NewValueSet(rendered[f]...)
		restricted := types.ValueSet{}
		for l := range set {
			if labels.Contains(l) {
				restricted.Add(l)
			}
		}
		ret[f] = restricted
	}
	return ret
}

// Cascade narrows the facets that come after changed in order to the values
// present in filtered. Facets at or before changed are left out of the
// result and must keep their current options. An unknown facet narrows the
// whole order.
func Cascade(changed types.FacetName, filtered []types.Product, order types.PriorityOrder) Availability {
	downstream := order.After(changed)
	ret := make(Availability, len(downstream))
	if len(downstream) == 0 {
		return ret
	}
	fields := BuildFields(filtered)
	for _, f := range downstream {
		if field, ok := fields[f]; ok {
			ret[f] = field.LabelSet()
		} else {
			ret[f] = types.ValueSet{}
		}
	}
	return ret
}
