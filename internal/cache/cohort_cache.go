package cache

import (
	"sync"
	"time"

	"github.com/Cheertaboi/billing-cohort-mrr-service/internal/cohort"
)

// CohortCache is a TTL-bounded in-memory cache of assembled cohorts,
// keyed by the requested window. It only serves the HTTP layer; the
// assembler itself always fetches fresh. A zero TTL disables caching.
type CohortCache struct {
	mu    sync.RWMutex
	ttl   time.Duration
	store map[string]entry
}

type entry struct {
	customers *cohort.Customers
	expires   time.Time
}

func New(ttl time.Duration) *CohortCache {
	return &CohortCache{
		ttl:   ttl,
		store: make(map[string]entry),
	}
}

func (c *CohortCache) Get(key string) (*cohort.Customers, bool) {
	if c.ttl <= 0 {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.store[key]
	if !ok || time.Now().After(e.expires) {
		return nil, false
	}
	return e.customers, true
}

func (c *CohortCache) Set(key string, customers *cohort.Customers) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = entry{customers: customers, expires: time.Now().Add(c.ttl)}
}

// Key derives the cache key for a cohort window.
func Key(start, end time.Time) string {
	return start.UTC().Format(time.RFC3339) + "/" + end.UTC().Format(time.RFC3339)
}
