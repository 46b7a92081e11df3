package catalog

import (
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/coocood/freecache"
)

const (
	seriesKeyPrefix   = "series:"
	episodesKeyPrefix = "episodes:"
)

// listingCache keeps recently parsed detail-page listings for a short TTL so
// repeated lookups of an unsaved or empty listing do not refetch the page.
type listingCache struct {
	store *freecache.Cache
	ttl   time.Duration
	log   *slog.Logger
}

func newListingCache(sizeMB int, ttl time.Duration, log *slog.Logger) *listingCache {
	if sizeMB <= 0 || ttl <= 0 {
		return nil
	}
	return &listingCache{
		store: freecache.NewCache(sizeMB * 1024 * 1024),
		ttl:   ttl,
		log:   log,
	}
}

func (c *listingCache) get(key string, v any) bool {
	if c == nil {
		return false
	}
	data, err := c.store.Get([]byte(key))
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		c.store.Del([]byte(key))
		return false
	}
	return true
}

func (c *listingCache) set(key string, v any) {
	if c == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.store.Set([]byte(key), data, int(c.ttl.Seconds())); err != nil {
		if errors.Is(err, freecache.ErrLargeEntry) {
			c.log.Debug("listing too large to cache", "key", key, "bytes", len(data))
			return
		}
		c.log.Warn("cache listing", "key", key, "error", err)
	}
}

func (c *listingCache) forget(id string) {
	if c == nil {
		return
	}
	c.store.Del([]byte(seriesKeyPrefix + id))
	c.store.Del([]byte(episodesKeyPrefix + id))
}
