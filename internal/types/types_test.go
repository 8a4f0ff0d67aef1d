package types

import "testing"

func TestPointValid(t *testing.T) {
	cases := []struct {
		name string
		p    Point
		want bool
	}{
		{"bengaluru", Point{Lat: 12.9716, Lng: 77.5946}, true},
		{"negative hemisphere", Point{Lat: -33.86, Lng: 151.2}, true},
		{"zero value treated as absent", Point{}, false},
		{"lat out of range", Point{Lat: 91, Lng: 10}, false},
		{"lng out of range", Point{Lat: 10, Lng: -181}, false},
		{"lat boundary", Point{Lat: 90, Lng: 1}, true},
		{"lng boundary", Point{Lat: 1, Lng: 180}, true},
	}
	for _, c := range cases {
		if got := c.p.Valid(); got != c.want {
			t.Errorf("%s: Valid() = %v, want %v", c.name, got, c.want)
		}
	}
}
