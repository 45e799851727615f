package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

const (
	cacheKeyPrefix = "geocode:"
	cacheTTL       = 24 * time.Hour
)

// CachedGeocoder decorates a Geocoder with a Redis read-through cache keyed
// by normalized address. Cache failures fall back to the inner geocoder;
// only ports.ErrGeocodingFailed surfaces to callers. Successful resolutions
// are cached, failures are not.
type CachedGeocoder struct {
	inner ports.Geocoder
	redis *redis.Client
}

// NewCachedGeocoder wraps inner with a Redis cache.
func NewCachedGeocoder(inner ports.Geocoder, client *redis.Client) *CachedGeocoder {
	return &CachedGeocoder{
		inner: inner,
		redis: client,
	}
}

type cachedPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Geocode resolves the address from cache when possible, delegating to the
// inner geocoder on a miss.
func (c *CachedGeocoder) Geocode(ctx context.Context, address string) (kernel.GeoPoint, error) {
	key := cacheKey(address)

	if raw, err := c.redis.Get(ctx, key).Result(); err == nil {
		var cached cachedPoint
		if err = json.Unmarshal([]byte(raw), &cached); err == nil {
			if point, pointErr := kernel.NewGeoPoint(cached.Lat, cached.Lon); pointErr == nil {
				return point, nil
			}
		}
	}

	point, err := c.inner.Geocode(ctx, address)
	if err != nil {
		return kernel.GeoPoint{}, err
	}

	if raw, err := json.Marshal(cachedPoint{Lat: point.Lat(), Lon: point.Lon()}); err == nil {
		// Best effort: a failed SET just means the next lookup misses.
		c.redis.Set(ctx, key, raw, cacheTTL)
	}

	return point, nil
}

func cacheKey(address string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(address)), " ")
	return fmt.Sprintf("%s%s", cacheKeyPrefix, normalized)
}
