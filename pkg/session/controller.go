package session

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/matst80/slask-facets/pkg/facet"
	"github.com/matst80/slask-facets/pkg/types"
	"go.uber.org/zap"
)

var (
	ErrNotReady   = errors.New("session not ready")
	ErrEmptyValue = errors.New("empty facet value")
)

type Fetcher interface {
	FetchProducts(ctx context.Context, scope types.FetchScope) ([]types.Product, error)
}

// Renderer receives the payloads produced by the controller. It owns
// presentation, the controller never touches a surface directly.
type Renderer interface {
	RenderFacets(options facet.Options)
	RenderAvailability(availability facet.Availability)
	RenderProducts(products []types.Product)
}

// Controller holds the state of one browsing session. It is single writer:
// callers must not dispatch events concurrently.
type Controller struct {
	fetcher  Fetcher
	renderer Renderer
	logger   *zap.Logger
	priority types.PriorityOrder

	state      State
	locationId string
	catalog    types.Catalog
	options    facet.Options
	selection  types.Selection
	filtered   []types.Product
	fetchErr   error
}

type Option func(*Controller)

func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithPriority replaces the default priority order. It is fixed for the
// lifetime of the controller.
func WithPriority(order types.PriorityOrder) Option {
	return func(c *Controller) {
		if len(order) > 0 {
			c.priority = slices.Clone(order)
		}
	}
}

func NewController(fetcher Fetcher, renderer Renderer, opts ...Option) *Controller {
	c := &Controller{
		fetcher:   fetcher,
		renderer:  renderer,
		logger:    zap.NewNop(),
		priority:  slices.Clone(types.DefaultPriorityOrder),
		state:     Loading,
		catalog:   types.Catalog{},
		options:   facet.Options{},
		selection: types.NewSelection(),
		filtered:  []types.Product{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) Dispatch(ctx context.Context, event Event) error {
	switch e := event.(type) {
	case InitialLoad:
		c.load(ctx, "")
		return nil
	case LocationChanged:
		c.load(ctx, e.LocationId)
		return nil
	case FacetToggled:
		return c.toggle(e)
	case nil:
		return errors.New("nil event")
	}
	return fmt.Errorf("unsupported event %T", event)
}

func (c *Controller) OnInitialLoad(ctx context.Context) error {
	return c.Dispatch(ctx, InitialLoad{})
}

func (c *Controller) OnLocationChange(ctx context.Context, locationId string) error {
	return c.Dispatch(ctx, LocationChanged{LocationId: locationId})
}

func (c *Controller) OnFacetToggle(facetName types.FacetName, value string, checked bool) error {
	return c.Dispatch(context.Background(), FacetToggled{Facet: facetName, Value: value, Checked: checked})
}

// load replaces the catalog with a fresh fetch for the location and renders
// everything from scratch. A failed fetch leaves an empty catalog.
func (c *Controller) load(ctx context.Context, locationId string) {
	noFetches.Inc()
	scope := types.FetchScope{LocationId: locationId}
	products, err := c.fetcher.FetchProducts(ctx, scope)
	if err != nil {
		noFetchFailures.Inc()
		c.logger.Warn("failed to fetch products, showing empty catalog",
			zap.String("locationId", locationId), zap.Error(err))
		products = nil
	}
	if products == nil {
		products = []types.Product{}
	}

	c.fetchErr = err
	c.locationId = locationId
	c.catalog = products
	c.filtered = products
	c.selection.Reset()
	c.options = facet.BuildOptions(products)
	c.state = Ready

	c.logger.Debug("catalog loaded",
		zap.String("locationId", locationId), zap.Int("products", len(products)))

	c.renderer.RenderFacets(c.options)
	c.renderer.RenderProducts(c.filtered)
}

func (c *Controller) toggle(e FacetToggled) error {
	if c.state != Ready {
		return ErrNotReady
	}
	if _, err := types.ParseFacetName(string(e.Facet)); err != nil {
		return err
	}
	// an absent value never matches, checking it would hide every product
	if e.Value == "" {
		return ErrEmptyValue
	}
	noToggles.Inc()

	c.selection.Toggle(e.Facet, e.Value, e.Checked)
	// always from the full catalog, filters are never composed
	c.filtered = facet.Apply(c.catalog, c.selection)
	filteredItems.Observe(float64(len(c.filtered)))

	c.renderer.RenderProducts(c.filtered)
	availability := facet.Cascade(e.Facet, c.filtered, c.priority).Restrict(c.options)
	c.renderer.RenderAvailability(availability)
	return nil
}

func (c *Controller) State() State {
	return c.state
}

func (c *Controller) LocationId() string {
	return c.locationId
}

func (c *Controller) Catalog() types.Catalog {
	return c.catalog
}

func (c *Controller) Filtered() []types.Product {
	return c.filtered
}

func (c *Controller) Options() facet.Options {
	return c.options
}

func (c *Controller) Selection() types.Selection {
	return c.selection.Clone()
}

func (c *Controller) Priority() types.PriorityOrder {
	return slices.Clone(c.priority)
}

// LastFetchError reports the error of the most recent catalog load, nil when
// it succeeded.
func (c *Controller) LastFetchError() error {
	return c.fetchErr
}
