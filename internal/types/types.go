// README: Shared identifier and geographic value types used across modules.
package types

// ID is an opaque entity identifier (hex string from the ID generator,
// or an external subject id from the auth token).
type ID string

// Point is a WGS84 coordinate pair in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the point carries a plausible coordinate pair.
// The zero value (0,0) is treated as absent: it is in the Atlantic and
// never a real delivery address.
func (p Point) Valid() bool {
	if p.Lat == 0 && p.Lng == 0 {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}
