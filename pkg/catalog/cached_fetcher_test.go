package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/matst80/slask-facets/pkg/common/jsoncompat"
	"github.com/matst80/slask-facets/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	data map[string][]byte
}

func (m *memStore) Get(_ context.Context, key string, out any) error {
	data, ok := m.data[key]
	if !ok {
		return ErrCacheMiss
	}
	return jsoncompat.Unmarshal(data, out)
}

func (m *memStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	data, err := jsoncompat.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = data
	return nil
}

func (m *memStore) Flush(_ context.Context, prefix string) (int, error) {
	removed := 0
	for key := range m.data {
		if strings.HasPrefix(key, prefix) {
			delete(m.data, key)
			removed++
		}
	}
	return removed, nil
}

type countingFetcher struct {
	calls    int
	err      error
	products []types.Product
}

func (c *countingFetcher) FetchProducts(_ context.Context, _ types.FetchScope) ([]types.Product, error) {
	c.calls++
	return c.products, c.err
}

func TestCachedFetcherCachesSuccess(t *testing.T) {
	inner := &countingFetcher{products: []types.Product{{Id: "1", Size: "Small"}}}
	store := &memStore{data: map[string][]byte{}}
	fetcher := &CachedFetcher{Fetcher: inner, Store: store, Collection: "bats", TTL: time.Minute}

	for i := 0; i < 3; i++ {
		products, err := fetcher.FetchProducts(context.Background(), types.FetchScope{LocationId: "nj"})
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "Small", products[0].Size)
	}
	assert.Equal(t, 1, inner.calls)
	assert.Contains(t, store.data, "collection:bats:locationId=nj")

	_, err := fetcher.FetchProducts(context.Background(), types.FetchScope{LocationId: "ga"})
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls, "another scope is another key")
}

func TestCachedFetcherDoesNotCacheFailures(t *testing.T) {
	inner := &countingFetcher{err: errors.New("api error")}
	store := &memStore{data: map[string][]byte{}}
	fetcher := &CachedFetcher{Fetcher: inner, Store: store, Collection: "bats", TTL: time.Minute}

	_, err := fetcher.FetchProducts(context.Background(), types.FetchScope{})
	assert.Error(t, err)
	_, err = fetcher.FetchProducts(context.Background(), types.FetchScope{})
	assert.Error(t, err)
	assert.Equal(t, 2, inner.calls)
	assert.Empty(t, store.data)
}

func TestCachedFetcherInvalidate(t *testing.T) {
	inner := &countingFetcher{products: []types.Product{{Id: "1"}}}
	store := &memStore{data: map[string][]byte{"collection:other:": []byte("{}")}}
	fetcher := &CachedFetcher{Fetcher: inner, Store: store, Collection: "bats", TTL: time.Minute}

	_, err := fetcher.FetchProducts(context.Background(), types.FetchScope{})
	require.NoError(t, err)
	require.NoError(t, fetcher.Invalidate(context.Background()))
	assert.Equal(t, map[string][]byte{"collection:other:": []byte("{}")}, store.data)

	_, err = fetcher.FetchProducts(context.Background(), types.FetchScope{})
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestCacheLocalLayer(t *testing.T) {
	cache := NewCache("127.0.0.1:0", "", 0)
	defer cache.Close()

	data, err := jsoncompat.Marshal(types.ProductCollection{Items: []types.Product{{Id: "1"}}})
	require.NoError(t, err)
	cache.setLocal("k", data, time.Minute)

	var out types.ProductCollection
	require.NoError(t, cache.Get(context.Background(), "k", &out))
	require.Len(t, out.Items, 1)
	assert.Equal(t, types.ProductId("1"), out.Items[0].Id)

	cache.memCache["old"] = LocalEntry{Expires: time.Now().Add(-time.Second), Data: data}
	_, ok := cache.getLocal("old")
	assert.False(t, ok)
	assert.NotContains(t, cache.memCache, "old")
}
