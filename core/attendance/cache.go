package attendance

import (
	"sync"
	"time"
)

// dayCache retains reconciled day records for the lifetime of the service so
// the daily/monthly view toggle does not trigger redundant fetches. Reconciled
// output is never persisted; a mark drops the affected day.
type dayCache struct {
	mu      sync.RWMutex
	entries map[string][]Record
}

func newDayCache() *dayCache {
	return &dayCache{entries: make(map[string][]Record)}
}

func cacheKey(scope string, date time.Time) string {
	return scope + "|" + DateOf(date).Format("2006-01-02")
}

func (c *dayCache) get(scope string, date time.Time) ([]Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	records, ok := c.entries[cacheKey(scope, date)]
	return records, ok
}

func (c *dayCache) put(scope string, date time.Time, records []Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey(scope, date)] = records
}

func (c *dayCache) drop(scope string, date time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, cacheKey(scope, date))
}
