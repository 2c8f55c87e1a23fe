package render

import (
	"github.com/matst80/slask-facets/pkg/facet"
	"github.com/matst80/slask-facets/pkg/types"
)

type OptionState struct {
	Value   string `json:"value"`
	Checked bool   `json:"checked"`
	Visible bool   `json:"visible"`
}

type FacetGroup struct {
	Name    types.FacetName `json:"name"`
	Label   string          `json:"label"`
	Options []OptionState   `json:"options"`
}

type Snapshot struct {
	LocationId string        `json:"locationId"`
	Facets     []FacetGroup  `json:"facets"`
	Products   []ProductCard `json:"products"`
	TotalHits  int           `json:"totalHits"`
	Message    string        `json:"message,omitempty"`
	Error      string        `json:"error,omitempty"`
}

// View keeps the last rendered facets and products in memory. Facets with
// no options are not shown, the remaining groups follow the priority order.
type View struct {
	order    types.PriorityOrder
	groups   []FacetGroup
	products []types.Product
}

func NewView(order types.PriorityOrder) *View {
	if len(order) == 0 {
		order = types.DefaultPriorityOrder
	}
	return &View{order: order, groups: []FacetGroup{}, products: []types.Product{}}
}

func (v *View) RenderFacets(options facet.Options) {
	groups := make([]FacetGroup, 0, len(v.order))
	for _, name := range v.order {
		labels := options[name]
		if len(labels) == 0 {
			continue
		}
		group := FacetGroup{Name: name, Label: FacetLabel(name), Options: make([]OptionState, len(labels))}
		for i, l := range labels {
			group.Options[i] = OptionState{Value: l, Visible: true}
		}
		groups = append(groups, group)
	}
	v.groups = groups
}

// RenderAvailability toggles visibility of the facets present in the
// availability map. Other facets and all checked states are left as they are.
func (v *View) RenderAvailability(availability facet.Availability) {
	for gi := range v.groups {
		group := &v.groups[gi]
		set, ok := availability[group.Name]
		if !ok {
			continue
		}
		for oi := range group.Options {
			group.Options[oi].Visible = set.Contains(group.Options[oi].Value)
		}
	}
}

func (v *View) RenderProducts(products []types.Product) {
	v.products = products
}

func (v *View) Groups() []FacetGroup {
	return v.groups
}

func (v *View) Products() []types.Product {
	return v.products
}

// Snapshot copies the view and marks the options checked in sel.
func (v *View) Snapshot(sel types.Selection) Snapshot {
	groups := make([]FacetGroup, len(v.groups))
	for gi, group := range v.groups {
		options := make([]OptionState, len(group.Options))
		for oi, opt := range group.Options {
			opt.Checked = sel.IsChecked(group.Name, opt.Value)
			options[oi] = opt
		}
		groups[gi] = FacetGroup{Name: group.Name, Label: group.Label, Options: options}
	}
	snapshot := Snapshot{
		Facets:    groups,
		Products:  ProductCards(v.products),
		TotalHits: len(v.products),
	}
	if len(v.products) == 0 {
		snapshot.Message = NoProductsMessage
	}
	return snapshot
}
