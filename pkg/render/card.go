package render

import (
	"math"

	"github.com/matst80/slask-facets/pkg/types"
)

const NoProductsMessage = "No products found."

var facetLabels = map[types.FacetName]string{
	types.FacetSize:        "Size",
	types.FacetWeight:      "Weight",
	types.FacetVendor:      "Brand",
	types.FacetProductType: "Grade",
	types.FacetLocation:    "Location (Tag)",
}

// FacetLabel is the heading shown above a facet group.
func FacetLabel(f types.FacetName) string {
	if l, ok := facetLabels[f]; ok {
		return l
	}
	return string(f)
}

type ProductCard struct {
	Id             types.ProductId `json:"id"`
	Title          string          `json:"title"`
	Url            string          `json:"url,omitempty"`
	Image          string          `json:"image,omitempty"`
	Available      bool            `json:"available"`
	Price          float64         `json:"price"`
	CompareAtPrice float64         `json:"compareAtPrice,omitempty"`
	SavePercent    int             `json:"savePercent,omitempty"`
}

func NewProductCard(p *types.Product) ProductCard {
	card := ProductCard{
		Id:        p.Id,
		Title:     p.Title,
		Url:       p.Url,
		Image:     p.Image,
		Available: p.Available,
		Price:     float64(p.Price),
	}
	if p.CompareAtPrice != nil && *p.CompareAtPrice > 0 {
		card.CompareAtPrice = float64(*p.CompareAtPrice)
		card.SavePercent = SavePercent(card.Price, card.CompareAtPrice)
	}
	return card
}

// SavePercent is the discount against the compare-at price, rounded to a
// whole percent. No discount yields 0.
func SavePercent(price, compareAt float64) int {
	if compareAt <= 0 || compareAt <= price {
		return 0
	}
	return int(math.Round((compareAt - price) / compareAt * 100))
}

func ProductCards(products []types.Product) []ProductCard {
	ret := make([]ProductCard, len(products))
	for i := range products {
		ret[i] = NewProductCard(&products[i])
	}
	return ret
}
