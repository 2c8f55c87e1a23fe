package facet

import (
	"github.com/matst80/slask-facets/pkg/types"
)

// Matches reports whether the product satisfies every constrained facet of
// the selection. Values are compared raw, an absent value never matches.
func Matches(p *types.Product, selection types.Selection) bool {
	for f, values := range selection {
		if len(values) == 0 {
			continue
		}
		v := p.FacetValue(f)
		if v == "" || !values.Contains(v) {
			return false
		}
	}
	return true
}

// Apply returns the products matching the selection, in input order.
func Apply(products []types.Product, selection types.Selection) []types.Product {
	ret := make([]types.Product, 0, len(products))
	for i := range products {
		if Matches(&products[i], selection) {
			ret = append(ret, products[i])
		}
	}
	return ret
}
