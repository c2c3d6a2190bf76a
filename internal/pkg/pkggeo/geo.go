// Package pkggeo resolves free-form addresses to coordinates and measures
// distances between them.
package pkggeo

import (
	"context"
	"math"
)

// EarthRadiusMiles is the radius used to convert distances to radians.
const EarthRadiusMiles = 3963.0

// Result is one candidate location for an address.
type Result struct {
	Latitude         float64
	Longitude        float64
	FormattedAddress string
	Street           string
	City             string
	StateCode        string
	Zipcode          string
	CountryCode      string
}

// Geocoder resolves an address into zero or more candidate locations.
type Geocoder interface {
	Geocode(ctx context.Context, address string) ([]Result, error)
}

// DistanceMiles returns the great-circle distance between two points.
func DistanceMiles(lat1, lng1, lat2, lng2 float64) float64 {
	rad := func(d float64) float64 { return d * math.Pi / 180 }

	dLat := rad(lat2 - lat1)
	dLng := rad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * EarthRadiusMiles * math.Asin(math.Min(1, math.Sqrt(a)))
}
