package cache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/appliance-store/internal/ports"
)

type entry struct {
	value     string
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// LocalCache keeps entries in process memory. It backs the store when no
// Redis URL is configured and in single-node deployments.
type LocalCache struct {
	mu         sync.RWMutex
	data       map[string]entry
	maxEntries int
	now        func() time.Time

	log  *zap.Logger
	stop chan struct{}
	once sync.Once
}

// NewLocalCache starts a janitor that drops expired entries every sweep.
// maxEntries <= 0 means unbounded.
func NewLocalCache(sweep time.Duration, maxEntries int, log *zap.Logger) *LocalCache {
	if sweep <= 0 {
		sweep = time.Minute
	}
	c := &LocalCache{
		data:       make(map[string]entry),
		maxEntries: maxEntries,
		now:        time.Now,
		log:        log,
		stop:       make(chan struct{}),
	}
	go c.janitor(sweep)

	log.Info("In-memory cache ready",
		zap.Duration("sweep", sweep),
		zap.Int("max_entries", maxEntries),
	)
	return c
}

func (c *LocalCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.RLock()
	e, ok := c.data[key]
	c.mu.RUnlock()

	if !ok || e.expired(c.now()) {
		return "", ports.ErrCacheMiss
	}
	return e.value, nil
}

func (c *LocalCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	e := entry{value: value}
	if expiration > 0 {
		e.expiresAt = c.now().Add(expiration)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.data[key]; !exists && c.maxEntries > 0 && len(c.data) >= c.maxEntries {
		c.evictLocked()
	}
	c.data[key] = e
	return nil
}

func (c *LocalCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.data, key)
	c.mu.Unlock()
	return nil
}

func (c *LocalCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

func (c *LocalCache) Ping() error { return nil }

func (c *LocalCache) Close() error {
	c.once.Do(func() { close(c.stop) })
	return nil
}

// evictLocked drops expired entries, or failing that the entry closest to
// expiry. Entries without a TTL go last.
func (c *LocalCache) evictLocked() {
	if c.purgeLocked() > 0 {
		return
	}
	var (
		victim  string
		soonest time.Time
	)
	for k, e := range c.data {
		if victim == "" || (!e.expiresAt.IsZero() && (soonest.IsZero() || e.expiresAt.Before(soonest))) {
			victim, soonest = k, e.expiresAt
		}
	}
	delete(c.data, victim)
}

func (c *LocalCache) purgeLocked() int {
	now := c.now()
	n := 0
	for k, e := range c.data {
		if e.expired(now) {
			delete(c.data, k)
			n++
		}
	}
	return n
}

func (c *LocalCache) janitor(sweep time.Duration) {
	ticker := time.NewTicker(sweep)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			n := c.purgeLocked()
			c.mu.Unlock()
			if n > 0 {
				c.log.Debug("Expired cache entries dropped", zap.Int("count", n))
			}
		case <-c.stop:
			return
		}
	}
}
