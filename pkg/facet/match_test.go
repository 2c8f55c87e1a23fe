package facet

import (
	"testing"

	"github.com/matst80/slask-facets/pkg/types"
	"github.com/stretchr/testify/assert"
)

func ids(products []types.Product) []types.ProductId {
	ret := make([]types.ProductId, len(products))
	for i, p := range products {
		ret[i] = p.Id
	}
	return ret
}

func TestApplySingleFacet(t *testing.T) {
	sel := types.NewSelection()
	sel.Toggle(types.FacetSize, "Small", true)

	result := Apply(scenarioProducts(), sel)
	assert.Equal(t, []types.ProductId{"1", "3"}, ids(result))
}

func TestApplyConjunction(t *testing.T) {
	sel := types.NewSelection()
	sel.Toggle(types.FacetSize, "Small", true)
	sel.Toggle(types.FacetVendor, "Zeta", true)

	result := Apply(scenarioProducts(), sel)
	assert.Equal(t, []types.ProductId{"3"}, ids(result))
}

func TestApplyDisjunctionWithinFacet(t *testing.T) {
	sel := types.NewSelection()
	sel.Toggle(types.FacetSize, "Small", true)
	sel.Toggle(types.FacetSize, "Large", true)
	sel.Toggle(types.FacetVendor, "Acme", true)

	result := Apply(scenarioProducts(), sel)
	assert.Equal(t, []types.ProductId{"1", "2"}, ids(result))
}

func TestApplyEmptySelectionIsIdentity(t *testing.T) {
	products := scenarioProducts()
	assert.Equal(t, products, Apply(products, types.NewSelection()))
	assert.Equal(t, products, Apply(products, types.Selection{types.FacetSize: types.ValueSet{}}))
}

func TestApplyMatchesRawValues(t *testing.T) {
	products := []types.Product{
		{Id: "1", Size: " SMALL "},
		{Id: "2", Size: "Small"},
		{Id: "3"},
	}
	sel := types.NewSelection()
	sel.Toggle(types.FacetSize, " SMALL ", true)
	assert.Equal(t, []types.ProductId{"1"}, ids(Apply(products, sel)))

	sel = types.NewSelection()
	sel.Toggle(types.FacetSize, "small", true)
	assert.Empty(t, Apply(products, sel))
}

func TestApplyAbsentValueNeverMatches(t *testing.T) {
	products := []types.Product{{Id: "1"}, {Id: "2", Vendor: "Acme"}}
	sel := types.NewSelection()
	sel.Toggle(types.FacetVendor, "", true)
	sel.Toggle(types.FacetVendor, "Acme", true)
	assert.Equal(t, []types.ProductId{"2"}, ids(Apply(products, sel)))
}

func TestApplyIsSubsetInOrder(t *testing.T) {
	products := []types.Product{
		{Id: "a", Size: "S", Weight: "1kg", Vendor: "X"},
		{Id: "b", Size: "M", Weight: "1kg", Vendor: "Y"},
		{Id: "c", Size: "S", Weight: "2kg", Vendor: "X"},
		{Id: "d", Size: "S", Weight: "1kg", Vendor: "Y", Location: "NJ"},
		{Id: "e", Size: "L", Weight: "1kg", Vendor: "X", Location: "GA"},
	}
	selections := []types.Selection{
		{types.FacetSize: types.NewValueSet("S")},
		{types.FacetSize: types.NewValueSet("S"), types.FacetWeight: types.NewValueSet("1kg")},
		{types.FacetVendor: types.NewValueSet("X", "Y"), types.FacetLocation: types.NewValueSet("GA")},
		{types.FacetProductType: types.NewValueSet("Grade 1")},
	}
	for _, sel := range selections {
		result := Apply(products, sel)
		j := 0
		for _, p := range products {
			if Matches(&p, sel) {
				if j >= len(result) || result[j].Id != p.Id {
					t.Fatalf("selection %v: result %v is not the ordered subset of matches", sel, ids(result))
				}
				j++
			}
		}
		assert.Len(t, result, j)
	}
}
