package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matst80/slask-facets/pkg/types"
	"go.uber.org/zap"
)

type Store interface {
	Get(ctx context.Context, key string, out any) error
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// Flusher is implemented by stores that can drop keys by prefix.
type Flusher interface {
	Flush(ctx context.Context, prefix string) (int, error)
}

type Fetcher interface {
	FetchProducts(ctx context.Context, scope types.FetchScope) ([]types.Product, error)
}

// CachedFetcher keeps successful collection fetches in a Store. Failed
// fetches are passed through and never cached.
type CachedFetcher struct {
	Fetcher    Fetcher
	Store      Store
	Collection string
	TTL        time.Duration
	Logger     *zap.Logger
}

func (c *CachedFetcher) prefix() string {
	return fmt.Sprintf("collection:%s:", c.Collection)
}

func (c *CachedFetcher) key(scope types.FetchScope) (string, error) {
	query, err := ScopeQuery(scope)
	if err != nil {
		return "", err
	}
	return c.prefix() + query.Encode(), nil
}

func (c *CachedFetcher) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

func (c *CachedFetcher) FetchProducts(ctx context.Context, scope types.FetchScope) ([]types.Product, error) {
	key, err := c.key(scope)
	if err != nil {
		return nil, err
	}
	var cached types.ProductCollection
	err = c.Store.Get(ctx, key, &cached)
	if err == nil {
		if cached.Items == nil {
			return []types.Product{}, nil
		}
		return cached.Items, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		c.logger().Warn("collection cache read failed", zap.String("key", key), zap.Error(err))
	}

	products, err := c.Fetcher.FetchProducts(ctx, scope)
	if err != nil {
		return nil, err
	}
	if err := c.Store.Set(ctx, key, types.ProductCollection{Items: products}, c.TTL); err != nil {
		c.logger().Warn("collection cache write failed", zap.String("key", key), zap.Error(err))
	}
	return products, nil
}

// Invalidate drops all cached fetches of the collection. Stores without
// Flush support are left untouched.
func (c *CachedFetcher) Invalidate(ctx context.Context) error {
	flusher, ok := c.Store.(Flusher)
	if !ok {
		return nil
	}
	removed, err := flusher.Flush(ctx, c.prefix())
	if err != nil {
		return err
	}
	c.logger().Info("collection cache invalidated", zap.String("collection", c.Collection), zap.Int("keys", removed))
	return nil
}
