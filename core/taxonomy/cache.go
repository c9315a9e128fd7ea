package taxonomy

import (
	"strconv"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

type distanceResult struct {
	distance  float64
	connected bool
}

// pairKey is an unordered vertex pair, distances being symmetric
type pairKey struct {
	lo, hi int64
}

func newPairKey(u, v int64) pairKey {
	if u > v {
		u, v = v, u
	}
	return pairKey{lo: u, hi: v}
}

func (k pairKey) String() string {
	return strconv.FormatInt(k.lo, 10) + ":" + strconv.FormatInt(k.hi, 10)
}

// CacheStats reports distance cache usage
type CacheStats struct {
	Hits   uint64
	Misses uint64
	Size   int
}

// distanceCache memoizes pairwise distances. Concurrent misses on one pair
// run a single search; results are only ever inserted if absent.
type distanceCache struct {
	entries *lru.Cache[pairKey, distanceResult]
	group   singleflight.Group
	hits    atomic.Uint64
	misses  atomic.Uint64
}

func newDistanceCache(size int) (*distanceCache, error) {
	entries, err := lru.New[pairKey, distanceResult](size)
	if err != nil {
		return nil, err
	}
	return &distanceCache{entries: entries}, nil
}

func (c *distanceCache) get(u, v int64, compute func() distanceResult) (distanceResult, bool) {
	key := newPairKey(u, v)
	if r, ok := c.entries.Get(key); ok {
		c.hits.Add(1)
		return r, true
	}

	c.misses.Add(1)
	r, _, _ := c.group.Do(key.String(), func() (interface{}, error) {
		if r, ok := c.entries.Peek(key); ok {
			return r, nil
		}
		r := compute()
		c.entries.ContainsOrAdd(key, r)
		return r, nil
	})

	return r.(distanceResult), false
}

func (c *distanceCache) stats() CacheStats {
	return CacheStats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Size:   c.entries.Len(),
	}
}
