package facet

import (
	"github.com/matst80/slask-facets/pkg/types"
)

type Option struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// KeyField collects the distinct values of one facet. Values are keyed by
// their normalized form and iterate in the order they were first added.
type KeyField struct {
	Name   types.FacetName
	keys   []string
	labels map[string]string
}

func EmptyKeyField(name types.FacetName) *KeyField {
	return &KeyField{
		Name:   name,
		keys:   []string{},
		labels: map[string]string{},
	}
}

// AddValue registers raw under its normalized key. The first label seen for
// a key is kept, later spellings of the same key are ignored.
func (f *KeyField) AddValue(raw string) bool {
	if raw == "" {
		return false
	}
	// whitespace-only values are present and share the empty key
	key := Normalize(raw)
	if _, ok := f.labels[key]; ok {
		return false
	}
	f.keys = append(f.keys, key)
	f.labels[key] = raw
	return true
}

func (f *KeyField) Label(key string) (string, bool) {
	l, ok := f.labels[key]
	return l, ok
}

func (f *KeyField) HasKey(key string) bool {
	_, ok := f.labels[key]
	return ok
}

func (f *KeyField) Len() int {
	return len(f.keys)
}

func (f *KeyField) Labels() []string {
	ret := make([]string, len(f.keys))
	for i, key := range f.keys {
		ret[i] = f.labels[key]
	}
	return ret
}

func (f *KeyField) Options() []Option {
	ret := make([]Option, len(f.keys))
	for i, key := range f.keys {
		ret[i] = Option{Key: key, Label: f.labels[key]}
	}
	return ret
}

// LabelSet returns the labels as a set, used for availability checks.
func (f *KeyField) LabelSet() types.ValueSet {
	ret := make(types.ValueSet, len(f.keys))
	for _, l := range f.labels {
		ret.Add(l)
	}
	return ret
}
