// README: Geo index over available delivery partners, backed by Redis GEO.
package assignment

import (
	"context"

	"github.com/redis/go-redis/v9"

	"quickbite/internal/types"
)

const partnerGeoKey = "geo:partners"

// GeoIndex answers "nearest available partners within radius" queries.
// Membership tracks availability: partners are removed on claim and
// re-added on release, so a query never proposes a busy partner except
// during the claim race, which the conditional claim resolves.
type GeoIndex interface {
	// Nearby returns up to limit partner ids within radiusKm of p,
	// sorted ascending by great-circle distance.
	Nearby(ctx context.Context, p types.Point, radiusKm float64, limit int) ([]types.ID, error)
	Add(ctx context.Context, id types.ID, p types.Point) error
	Remove(ctx context.Context, id types.ID) error
}

type RedisGeoIndex struct {
	redis *redis.Client
	key   string
}

func NewRedisGeoIndex(client *redis.Client) *RedisGeoIndex {
	return &RedisGeoIndex{redis: client, key: partnerGeoKey}
}

func (g *RedisGeoIndex) Nearby(ctx context.Context, p types.Point, radiusKm float64, limit int) ([]types.ID, error) {
	// Kilometers end here; Redis handles the unit internally.
	results, err := g.redis.GeoSearch(ctx, g.key, &redis.GeoSearchQuery{
		Longitude:  p.Lng,
		Latitude:   p.Lat,
		Radius:     radiusKm,
		RadiusUnit: "km",
		Sort:       "ASC",
		Count:      limit,
	}).Result()
	if err != nil {
		return nil, err
	}
	ids := make([]types.ID, len(results))
	for i, r := range results {
		ids[i] = types.ID(r)
	}
	return ids, nil
}

func (g *RedisGeoIndex) Add(ctx context.Context, id types.ID, p types.Point) error {
	return g.redis.GeoAdd(ctx, g.key, &redis.GeoLocation{
		Name:      string(id),
		Longitude: p.Lng,
		Latitude:  p.Lat,
	}).Err()
}

func (g *RedisGeoIndex) Remove(ctx context.Context, id types.ID) error {
	return g.redis.ZRem(ctx, g.key, string(id)).Err()
}
