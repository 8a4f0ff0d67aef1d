// README: Street-address geocoding for partner registration.
package partner

import (
	"context"
	"errors"

	"googlemaps.github.io/maps"

	"quickbite/internal/types"
)

// Geocoder resolves a street address to a coordinate pair. Used once at
// registration; live positions come from the partner device afterwards.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (types.Point, error)
}

var ErrAddressNotFound = errors.New("address could not be geocoded")

type MapsGeocoder struct {
	client *maps.Client
}

func NewMapsGeocoder(apiKey string) (*MapsGeocoder, error) {
	c, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &MapsGeocoder{client: c}, nil
}

func (g *MapsGeocoder) Geocode(ctx context.Context, address string) (types.Point, error) {
	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		return types.Point{}, err
	}
	if len(results) == 0 {
		return types.Point{}, ErrAddressNotFound
	}
	loc := results[0].Geometry.Location
	return types.Point{Lat: loc.Lat, Lng: loc.Lng}, nil
}
