package catalog

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/matst80/slask-facets/pkg/common/jsoncompat"
	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("cache miss")

type LocalEntry struct {
	Expires time.Time
	Data    []byte
}

// Cache is a redis backed json cache with a short lived in-process layer in
// front of it.
type Cache struct {
	client   *redis.Client
	mu       sync.RWMutex
	memCache map[string]LocalEntry
	LocalTTL time.Duration
}

func NewCache(addr, password string, db int) *Cache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Cache{client: rdb, memCache: make(map[string]LocalEntry), LocalTTL: time.Minute}
}

func (c *Cache) getLocal(key string) ([]byte, bool) {
	c.mu.RLock()
	local, found := c.memCache[key]
	c.mu.RUnlock()
	if !found {
		return nil, false
	}
	if local.Expires.Before(time.Now()) {
		c.mu.Lock()
		delete(c.memCache, key)
		c.mu.Unlock()
		return nil, false
	}
	return local.Data, true
}

func (c *Cache) setLocal(key string, data []byte, expiration time.Duration) {
	ttl := c.LocalTTL
	if expiration > 0 {
		ttl = min(expiration, c.LocalTTL)
	}
	c.mu.Lock()
	c.memCache[key] = LocalEntry{Expires: time.Now().Add(ttl), Data: data}
	c.mu.Unlock()
}

func (c *Cache) Get(ctx context.Context, key string, out any) error {
	if data, ok := c.getLocal(key); ok {
		return jsoncompat.Unmarshal(data, out)
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}
	if err = jsoncompat.Unmarshal(data, out); err != nil {
		return err
	}
	c.setLocal(key, data, c.LocalTTL)
	return nil
}

func (c *Cache) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	data, err := jsoncompat.Marshal(value)
	if err != nil {
		return err
	}
	c.setLocal(key, data, expiration)
	return c.client.Set(ctx, key, data, expiration).Err()
}

func (c *Cache) Close() error {
	return c.client.Close()
}

// Flush removes every key starting with prefix from both layers.
func (c *Cache) Flush(ctx context.Context, prefix string) (int, error) {
	c.mu.Lock()
	for key := range c.memCache {
		if strings.HasPrefix(key, prefix) {
			delete(c.memCache, key)
		}
	}
	c.mu.Unlock()

	removed := 0
	iter := c.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	keys := make([]string, 0, 100)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) == 100 {
			n, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				return removed, err
			}
			removed += int(n)
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return removed, err
	}
	if len(keys) > 0 {
		n, err := c.client.Del(ctx, keys...).Result()
		if err != nil {
			return removed, err
		}
		removed += int(n)
	}
	return removed, nil
}
