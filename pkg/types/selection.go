package types

import (
	"maps"
	"slices"
)

type ValueSet map[string]struct{}

func NewValueSet(values ...string) ValueSet {
	ret := make(ValueSet, len(values))
	for _, v := range values {
		ret[v] = struct{}{}
	}
	return ret
}

func (s ValueSet) Add(value string) {
	s[value] = struct{}{}
}

func (s ValueSet) Remove(value string) {
	delete(s, value)
}

func (s ValueSet) Contains(value string) bool {
	_, ok := s[value]
	return ok
}

func (s ValueSet) Sorted() []string {
	return slices.Sorted(maps.Keys(s))
}

// Selection holds the checked display labels per facet. A facet without
// values is unconstrained.
type Selection map[FacetName]ValueSet

func NewSelection() Selection {
	return Selection{}
}

// Toggle checks or unchecks a value of a facet.
func (s Selection) Toggle(f FacetName, value string, checked bool) {
	set, ok := s[f]
	if checked {
		if !ok {
			set = ValueSet{}
			s[f] = set
		}
		set.Add(value)
		return
	}
	if ok {
		set.Remove(value)
		if len(set) == 0 {
			delete(s, f)
		}
	}
}

func (s Selection) Values(f FacetName) []string {
	return s[f].Sorted()
}

func (s Selection) IsChecked(f FacetName, value string) bool {
	return s[f].Contains(value)
}

func (s Selection) IsEmpty() bool {
	for _, set := range s {
		if len(set) > 0 {
			return false
		}
	}
	return true
}

func (s Selection) Reset() {
	clear(s)
}

func (s Selection) Clone() Selection {
	ret := make(Selection, len(s))
	for f, set := range s {
		ret[f] = maps.Clone(set)
	}
	return ret
}
