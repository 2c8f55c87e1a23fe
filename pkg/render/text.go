package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/matst80/slask-facets/pkg/facet"
	"github.com/matst80/slask-facets/pkg/types"
)

// Text renders into a writer, one block per call. Used by the cli.
type Text struct {
	View
	w io.Writer
}

func NewText(w io.Writer, order types.PriorityOrder) *Text {
	return &Text{View: *NewView(order), w: w}
}

func (t *Text) RenderFacets(options facet.Options) {
	t.View.RenderFacets(options)
	t.writeFacets()
}

func (t *Text) RenderAvailability(availability facet.Availability) {
	t.View.RenderAvailability(availability)
	t.writeFacets()
}

func (t *Text) RenderProducts(products []types.Product) {
	t.View.RenderProducts(products)
	if len(products) == 0 {
		fmt.Fprintln(t.w, NoProductsMessage)
		return
	}
	for _, card := range ProductCards(products) {
		fmt.Fprintln(t.w, FormatCard(card))
	}
}

func (t *Text) writeFacets() {
	for _, group := range t.groups {
		visible := make([]string, 0, len(group.Options))
		for _, opt := range group.Options {
			if opt.Visible {
				visible = append(visible, opt.Value)
			}
		}
		fmt.Fprintf(t.w, "%s: %s\n", group.Label, strings.Join(visible, " | "))
	}
}

func FormatCard(card ProductCard) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s  Available: %t  ", card.Title, card.Available)
	if card.CompareAtPrice > 0 {
		fmt.Fprintf(&sb, "$%s ", formatPrice(card.CompareAtPrice))
	}
	fmt.Fprintf(&sb, "$%s", formatPrice(card.Price))
	if card.SavePercent > 0 {
		fmt.Fprintf(&sb, "  Save %d%%", card.SavePercent)
	}
	return sb.String()
}

func formatPrice(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	return strings.TrimSuffix(s, ".00")
}
