package solar

import (
	"math"
	"sync"
	"time"
)

// coordPrecision is the rounding factor applied to coordinates used as
// cache keys. Four decimal places is about 11 m at the equator, far finer
// than the minute-level precision of the computed times.
const coordPrecision = 1e4

type cacheKey struct {
	year  int
	month time.Month
	day   int
	lat   int64
	lon   int64
}

// CacheStats receives cache lookup outcomes for monitoring.
type CacheStats interface {
	RecordSolarCacheHit()
	RecordSolarCacheMiss()
}

// Cache memoizes Times results per (calendar date, rounded coordinate).
// Entries are never evicted: a rolling window of a few weeks for a handful
// of coordinates stays tiny.
type Cache struct {
	mu      sync.RWMutex
	entries map[cacheKey]Day
	stats   CacheStats
}

// NewCache creates an empty solar day cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[cacheKey]Day)}
}

// NewCacheWithStats creates an empty solar day cache that reports lookup
// outcomes to stats.
func NewCacheWithStats(stats CacheStats) *Cache {
	return &Cache{entries: make(map[cacheKey]Day), stats: stats}
}

// Times returns the solar day for the given date and coordinate, computing
// and storing it on first use.
func (c *Cache) Times(date time.Time, coord Coordinate) (Day, error) {
	year, month, dayOfMonth := date.Date()
	key := cacheKey{
		year:  year,
		month: month,
		day:   dayOfMonth,
		lat:   int64(math.Round(coord.Lat * coordPrecision)),
		lon:   int64(math.Round(coord.Lon * coordPrecision)),
	}

	c.mu.RLock()
	day, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		if c.stats != nil {
			c.stats.RecordSolarCacheHit()
		}
		return day, nil
	}
	if c.stats != nil {
		c.stats.RecordSolarCacheMiss()
	}

	day, err := Times(date, coord)
	if err != nil {
		return Day{}, err
	}

	c.mu.Lock()
	c.entries[key] = day
	c.mu.Unlock()
	return day, nil
}

// Len returns the number of cached days.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
