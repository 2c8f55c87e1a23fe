package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/gorilla/schema"
	"github.com/matst80/slask-facets/pkg/common/jsoncompat"
	"github.com/matst80/slask-facets/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var ErrStatus = errors.New("unexpected api status")

var (
	fetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "slaskfacets_collection_fetch_seconds",
		Help: "Latency of collection api requests",
	}, []string{"outcome"})
)

var encoder = schema.NewEncoder()

func init() {
	// the collection api expects comma separated lists
	encoder.RegisterEncoder([]string{}, func(v reflect.Value) string {
		return strings.Join(v.Interface().([]string), ",")
	})
}

// ScopeQuery encodes a fetch scope as query parameters, empty values omitted.
func ScopeQuery(scope types.FetchScope) (url.Values, error) {
	values := url.Values{}
	if err := encoder.Encode(scope, values); err != nil {
		return nil, err
	}
	for key, v := range values {
		if len(v) == 0 || (len(v) == 1 && v[0] == "") {
			delete(values, key)
		}
	}
	return values, nil
}

// Client fetches a product collection from the storefront collection api.
type Client struct {
	BaseUrl          string
	CollectionHandle string
	HttpClient       *http.Client
	Logger           *zap.Logger
}

func NewClient(baseUrl, collectionHandle string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		BaseUrl:          strings.TrimSuffix(baseUrl, "/"),
		CollectionHandle: collectionHandle,
		HttpClient:       &http.Client{Timeout: timeout},
		Logger:           logger,
	}
}

func (c *Client) Url(scope types.FetchScope) (string, error) {
	query, err := ScopeQuery(scope)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s?%s", c.BaseUrl, url.PathEscape(c.CollectionHandle), query.Encode()), nil
}

func (c *Client) FetchProducts(ctx context.Context, scope types.FetchScope) ([]types.Product, error) {
	start := time.Now()
	products, err := c.fetch(ctx, scope)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	fetchDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	return products, err
}

func (c *Client) fetch(ctx context.Context, scope types.FetchScope) ([]types.Product, error) {
	u, err := c.Url(scope)
	if err != nil {
		return nil, fmt.Errorf("build collection url: %w", err)
	}
	c.Logger.Debug("fetching collection", zap.String("url", u))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	res, err := c.HttpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch collection: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d", ErrStatus, res.StatusCode)
	}
	var collection types.ProductCollection
	if err := jsoncompat.DecodeReader(res.Body, &collection); err != nil {
		return nil, fmt.Errorf("decode collection: %w", err)
	}
	if collection.Items == nil {
		return []types.Product{}, nil
	}
	return collection.Items, nil
}
