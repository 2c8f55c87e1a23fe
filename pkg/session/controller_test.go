package session

import (
	"context"
	"errors"
	"testing"

	"github.com/matst80/slask-facets/pkg/facet"
	"github.com/matst80/slask-facets/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeFetcher struct {
	byLocation map[string][]types.Product
	err        error
	scopes     []types.FetchScope
}

func (f *fakeFetcher) FetchProducts(_ context.Context, scope types.FetchScope) ([]types.Product, error) {
	f.scopes = append(f.scopes, scope)
	if f.err != nil {
		return nil, f.err
	}
	return f.byLocation[scope.LocationId], nil
}

type recordingRenderer struct {
	facets       []facet.Options
	availability []facet.Availability
	products     [][]types.Product
}

func (r *recordingRenderer) RenderFacets(options facet.Options) {
	r.facets = append(r.facets, options)
}

func (r *recordingRenderer) RenderAvailability(availability facet.Availability) {
	r.availability = append(r.availability, availability)
}

func (r *recordingRenderer) RenderProducts(products []types.Product) {
	r.products = append(r.products, products)
}

func (r *recordingRenderer) lastProducts() []types.Product {
	return r.products[len(r.products)-1]
}

func testLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

var catalogProducts = []types.Product{
	{Id: "1", Size: "Small", Vendor: "Acme", Weight: "1kg"},
	{Id: "2", Size: "Large", Vendor: "Acme", Weight: "2kg"},
	{Id: "3", Size: "Small", Vendor: "Zeta", Weight: "1kg"},
}

func newTestController() (*Controller, *fakeFetcher, *recordingRenderer) {
	fetcher := &fakeFetcher{byLocation: map[string][]types.Product{
		"":   catalogProducts,
		"nj": {{Id: "9", Size: "Medium", Vendor: "Cricmax"}},
	}}
	renderer := &recordingRenderer{}
	return NewController(fetcher, renderer, WithLogger(testLogger())), fetcher, renderer
}

func productIds(products []types.Product) []types.ProductId {
	ret := make([]types.ProductId, 0, len(products))
	for _, p := range products {
		ret = append(ret, p.Id)
	}
	return ret
}

func TestInitialLoad(t *testing.T) {
	c, fetcher, renderer := newTestController()
	assert.Equal(t, Loading, c.State())

	require.NoError(t, c.OnInitialLoad(context.Background()))

	assert.Equal(t, Ready, c.State())
	assert.Equal(t, []types.FetchScope{{}}, fetcher.scopes)
	require.Len(t, renderer.facets, 1)
	assert.Equal(t, []string{"Small", "Large"}, renderer.facets[0][types.FacetSize])
	assert.Equal(t, []string{"Acme", "Zeta"}, renderer.facets[0][types.FacetVendor])
	assert.Equal(t, []types.ProductId{"1", "2", "3"}, productIds(renderer.lastProducts()))
	assert.Empty(t, renderer.availability)
	assert.NoError(t, c.LastFetchError())
}

func TestToggleBeforeReady(t *testing.T) {
	c, _, renderer := newTestController()
	err := c.OnFacetToggle(types.FacetSize, "Small", true)
	assert.ErrorIs(t, err, ErrNotReady)
	assert.Empty(t, renderer.products)
}

func TestToggleFiltersAndCascades(t *testing.T) {
	c, _, renderer := newTestController()
	require.NoError(t, c.OnInitialLoad(context.Background()))

	require.NoError(t, c.OnFacetToggle(types.FacetSize, "Small", true))
	assert.Equal(t, []types.ProductId{"1", "3"}, productIds(renderer.lastProducts()))
	require.Len(t, renderer.availability, 1)
	availability := renderer.availability[0]
	assert.Equal(t, types.NewValueSet("Acme", "Zeta"), availability[types.FacetVendor])
	assert.Equal(t, types.NewValueSet("1kg"), availability[types.FacetWeight])
	_, touched := availability[types.FacetSize]
	assert.False(t, touched)

	require.NoError(t, c.OnFacetToggle(types.FacetVendor, "Zeta", true))
	assert.Equal(t, []types.ProductId{"3"}, productIds(renderer.lastProducts()))
	assert.Equal(t, []types.ProductId{"3"}, productIds(c.Filtered()))
	last := renderer.availability[1]
	_, touched = last[types.FacetWeight]
	assert.False(t, touched, "weight is upstream of vendor")
	assert.Contains(t, last, types.FacetProductType)
}

func TestToggleRecomputesFromFullCatalog(t *testing.T) {
	c, _, renderer := newTestController()
	require.NoError(t, c.OnInitialLoad(context.Background()))

	require.NoError(t, c.OnFacetToggle(types.FacetSize, "Small", true))
	require.NoError(t, c.OnFacetToggle(types.FacetSize, "Small", false))
	assert.Equal(t, []types.ProductId{"1", "2", "3"}, productIds(renderer.lastProducts()))
	assert.True(t, c.Selection().IsEmpty())

	require.NoError(t, c.OnFacetToggle(types.FacetSize, "Small", true))
	require.NoError(t, c.OnFacetToggle(types.FacetSize, "Large", true))
	assert.Equal(t, []types.ProductId{"1", "2", "3"}, productIds(renderer.lastProducts()))
}

func TestHiddenCheckedValueStillFilters(t *testing.T) {
	c, _, renderer := newTestController()
	require.NoError(t, c.OnInitialLoad(context.Background()))

	require.NoError(t, c.OnFacetToggle(types.FacetVendor, "Zeta", true))
	require.NoError(t, c.OnFacetToggle(types.FacetSize, "Large", true))

	// vendor Zeta is hidden by the size cascade but stays selected
	vendorAvailability := renderer.availability[len(renderer.availability)-1][types.FacetVendor]
	assert.False(t, vendorAvailability.Contains("Zeta"))
	assert.True(t, c.Selection().IsChecked(types.FacetVendor, "Zeta"))
	assert.Empty(t, renderer.lastProducts())
}

func TestToggleUnknownFacet(t *testing.T) {
	c, _, _ := newTestController()
	require.NoError(t, c.OnInitialLoad(context.Background()))
	assert.ErrorIs(t, c.OnFacetToggle(types.FacetName("color"), "Red", true), types.ErrUnknownFacet)
	assert.True(t, c.Selection().IsEmpty())
}

func TestToggleEmptyValue(t *testing.T) {
	c, _, renderer := newTestController()
	require.NoError(t, c.OnInitialLoad(context.Background()))

	assert.ErrorIs(t, c.OnFacetToggle(types.FacetSize, "", true), ErrEmptyValue)
	assert.True(t, c.Selection().IsEmpty())
	assert.Len(t, renderer.lastProducts(), 3)
}

func TestLocationChangeResetsSelection(t *testing.T) {
	c, fetcher, renderer := newTestController()
	require.NoError(t, c.OnInitialLoad(context.Background()))
	require.NoError(t, c.OnFacetToggle(types.FacetSize, "Small", true))

	require.NoError(t, c.OnLocationChange(context.Background(), "nj"))

	assert.Equal(t, "nj", c.LocationId())
	assert.Equal(t, types.FetchScope{LocationId: "nj"}, fetcher.scopes[len(fetcher.scopes)-1])
	assert.True(t, c.Selection().IsEmpty())
	assert.Equal(t, []types.ProductId{"9"}, productIds(renderer.lastProducts()))
	require.Len(t, renderer.facets, 2)
	assert.Equal(t, []string{"Medium"}, renderer.facets[1][types.FacetSize])
	assert.Equal(t, []string{"Medium"}, c.Options()[types.FacetSize])
}

func TestLocationChangeWithFailingFetch(t *testing.T) {
	c, fetcher, renderer := newTestController()
	require.NoError(t, c.OnInitialLoad(context.Background()))
	require.NoError(t, c.OnFacetToggle(types.FacetSize, "Small", true))

	fetcher.err = errors.New("api error: 502")
	err := c.OnLocationChange(context.Background(), "ga")

	assert.NoError(t, err)
	assert.Equal(t, Ready, c.State())
	assert.Error(t, c.LastFetchError())
	assert.Empty(t, c.Catalog())
	assert.NotNil(t, renderer.lastProducts())
	assert.Empty(t, renderer.lastProducts())
	assert.True(t, c.Selection().IsEmpty())
	for _, f := range types.AllFacets {
		assert.Empty(t, renderer.facets[len(renderer.facets)-1][f])
	}

	require.NoError(t, c.OnFacetToggle(types.FacetSize, "Small", true))
	assert.Empty(t, renderer.lastProducts())
}

func TestCustomPriority(t *testing.T) {
	fetcher := &fakeFetcher{byLocation: map[string][]types.Product{"": catalogProducts}}
	renderer := &recordingRenderer{}
	order := types.PriorityOrder{types.FacetVendor, types.FacetSize, types.FacetWeight}
	c := NewController(fetcher, renderer, WithPriority(order))
	require.NoError(t, c.OnInitialLoad(context.Background()))

	require.NoError(t, c.OnFacetToggle(types.FacetVendor, "Zeta", true))
	availability := renderer.availability[0]
	assert.Len(t, availability, 2)
	assert.Equal(t, types.NewValueSet("Small"), availability[types.FacetSize])

	order[0] = types.FacetLocation
	assert.Equal(t, types.FacetVendor, c.Priority()[0], "priority must not change after construction")
}

func TestDispatchUnsupportedEvent(t *testing.T) {
	c, _, _ := newTestController()
	assert.Error(t, c.Dispatch(context.Background(), nil))
	assert.Error(t, c.Dispatch(context.Background(), &InitialLoad{}))
}
