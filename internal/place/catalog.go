// Package place provides the catalog of manually selectable cities for
// users who do not grant location access.
package place

import (
	"errors"
	"math"
	"strings"
)

// ErrCityNotFound is returned when a lookup does not match any catalog city.
var ErrCityNotFound = errors.New("city not found")

// City is one manually selectable location.
type City struct {
	Name     string
	Lat      float64
	Lon      float64
	Timezone string
}

var catalog = []City{
	{Name: "New York", Lat: 40.7128, Lon: -74.0060, Timezone: "America/New_York"},
	{Name: "London", Lat: 51.5074, Lon: -0.1278, Timezone: "Europe/London"},
	{Name: "Tokyo", Lat: 35.6762, Lon: 139.6503, Timezone: "Asia/Tokyo"},
	{Name: "Sydney", Lat: -33.8688, Lon: 151.2093, Timezone: "Australia/Sydney"},
	{Name: "Paris", Lat: 48.8566, Lon: 2.3522, Timezone: "Europe/Paris"},
	{Name: "San Francisco", Lat: 37.7749, Lon: -122.4194, Timezone: "America/Los_Angeles"},
}

// Cities returns the full catalog.
func Cities() []City {
	out := make([]City, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup finds a city by name, case-insensitively.
func Lookup(name string) (City, error) {
	for _, city := range catalog {
		if strings.EqualFold(city.Name, name) {
			return city, nil
		}
	}
	return City{}, ErrCityNotFound
}

// Nearest returns the catalog city closest to the given coordinate.
func Nearest(lat, lon float64) City {
	best := catalog[0]
	bestDist := haversineDistance(lat, lon, best.Lat, best.Lon)
	for _, city := range catalog[1:] {
		if dist := haversineDistance(lat, lon, city.Lat, city.Lon); dist < bestDist {
			best = city
			bestDist = dist
		}
	}
	return best
}

// haversineDistance calculates the distance between two points in meters
// using the Haversine formula.
func haversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadius = 6371000 // meters

	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c
}
