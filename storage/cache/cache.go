/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package cache

import (
	"context"
	"sync"
	"time"

	libcache "github.com/nabbar/golib/cache"
	liberr "github.com/nabbar/golib/errors"
	"github.com/nabbar/golib/size"
	"golang.org/x/sync/singleflight"

	"github.com/nabbar/lamina/types"
)

// entry is what the cache stores per (bucket, key): the resolved
// record plus the data file mtime it was resolved against.
type entry struct {
	meta  types.ObjectMeta
	mtime time.Time
}

// Cache bounds a golib/cache.Cache by approximate byte size and
// invalidates an entry as soon as the data file's observed mtime no
// longer matches the mtime it was cached under.
type Cache struct {
	inner    libcache.Cache[string, entry]
	maxBytes size.Size

	mu    sync.Mutex
	used  size.Size
	sizes map[string]size.Size

	sf singleflight.Group
}

// New builds a Cache. maxBytes bounds the approximate total size of
// cached entries (0 means unbounded); expiration is an optional
// absolute TTL applied on top of the mtime-based invalidation (0 means
// entries never expire on their own).
func New(ctx context.Context, maxBytes size.Size, expiration time.Duration) *Cache {
	return &Cache{
		inner:    libcache.New[string, entry](ctx, expiration),
		maxBytes: maxBytes,
		sizes:    make(map[string]size.Size),
	}
}

func cacheKey(bucket, key string) string {
	return bucket + "\x00" + key
}

// approxSize estimates rec's footprint in bytes: exact occupancy is
// not worth computing for a cache whose job is to bound memory, not
// account for it precisely.
func approxSize(rec types.ObjectMeta) size.Size {
	n := len(rec.BucketName) + len(rec.Key) + len(rec.ETag) + len(rec.ContentType) + 96
	for k, v := range rec.Metadata {
		n += len(k) + len(v)
	}
	return size.Size(n)
}

// Get returns the cached record for (bucket, key) if present and if
// dataMTime still matches the mtime it was cached under. A mismatch
// evicts the stale entry and reports a miss.
func (c *Cache) Get(bucket, key string, dataMTime time.Time) (types.ObjectMeta, bool) {
	k := cacheKey(bucket, key)
	e, _, ok := c.inner.Load(k)
	if !ok {
		return types.ObjectMeta{}, false
	}
	if !e.mtime.Equal(dataMTime) {
		c.Delete(bucket, key)
		return types.ObjectMeta{}, false
	}
	return e.meta, true
}

// Put stores rec under (bucket, key), tagged with dataMTime, then
// evicts entries (in arbitrary order) until the cache is back under
// its byte bound.
func (c *Cache) Put(bucket, key string, rec types.ObjectMeta, dataMTime time.Time) {
	k := cacheKey(bucket, key)
	sz := approxSize(rec)

	c.mu.Lock()
	if old, ok := c.sizes[k]; ok {
		c.used -= old
	}
	c.sizes[k] = sz
	c.used += sz
	c.mu.Unlock()

	c.inner.Store(k, entry{meta: rec, mtime: dataMTime})
	c.evictUntilUnderBound()
}

// Delete removes the cached entry for (bucket, key), if any.
func (c *Cache) Delete(bucket, key string) {
	k := cacheKey(bucket, key)
	c.inner.Delete(k)

	c.mu.Lock()
	if sz, ok := c.sizes[k]; ok {
		c.used -= sz
		delete(c.sizes, k)
	}
	c.mu.Unlock()
}

func (c *Cache) overBound() bool {
	if c.maxBytes <= 0 {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.used > c.maxBytes
}

func (c *Cache) evictUntilUnderBound() {
	if !c.overBound() {
		return
	}
	c.inner.Walk(func(k string, _ entry, _ time.Duration) bool {
		c.mu.Lock()
		sz, tracked := c.sizes[k]
		if tracked {
			c.used -= sz
			delete(c.sizes, k)
		}
		stillOver := c.used > c.maxBytes
		c.mu.Unlock()

		if tracked {
			c.inner.Delete(k)
		}
		return stillOver
	})
}

// GetOrRecompute returns the cached record for (bucket, key) if it is
// fresh against dataMTime; otherwise it calls recompute, caches the
// result, and returns it. Concurrent callers for the same (bucket,
// key) share one recompute call via singleflight.
func (c *Cache) GetOrRecompute(bucket, key string, dataMTime time.Time, recompute func() (types.ObjectMeta, error)) (types.ObjectMeta, liberr.Error) {
	if rec, ok := c.Get(bucket, key, dataMTime); ok {
		return rec, nil
	}

	k := cacheKey(bucket, key)
	v, err, _ := c.sf.Do(k, func() (interface{}, error) {
		rec, rErr := recompute()
		if rErr != nil {
			return types.ObjectMeta{}, rErr
		}
		c.Put(bucket, key, rec, dataMTime)
		return rec, nil
	})
	if err != nil {
		return types.ObjectMeta{}, errRecomputeFailed(err)
	}
	return v.(types.ObjectMeta), nil
}

// Close releases the underlying golib/cache.Cache's background
// expiration goroutine.
func (c *Cache) Close() error {
	return c.inner.Close()
}
