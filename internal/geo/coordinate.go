// Package geo resolves free-text locations to coordinates and measures
// great-circle distances between them.
package geo

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang/geo/s2"
)

// EarthRadiusKM is the mean Earth radius.
const EarthRadiusKM = 6371.0088

// ErrNoMatch is returned by a Geocoder when the query names no known place.
var ErrNoMatch = errors.New("location not found")

// Coordinate is a point in degrees. The zero value is unresolved.
type Coordinate struct {
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Resolved bool    `json:"resolved"`
}

// Unresolved is the absent coordinate.
var Unresolved = Coordinate{}

// At returns a resolved coordinate.
func At(lat, lon float64) Coordinate {
	return Coordinate{Lat: lat, Lon: lon, Resolved: true}
}

// String implements fmt.Stringer.
func (c Coordinate) String() string {
	if !c.Resolved {
		return "unresolved"
	}
	return fmt.Sprintf("(%.4f, %.4f)", c.Lat, c.Lon)
}

// DistanceKM returns the great-circle distance between a and b. ok is false
// when either coordinate is unresolved.
func DistanceKM(a, b Coordinate) (km float64, ok bool) {
	if !a.Resolved || !b.Resolved {
		return 0, false
	}
	angle := s2.LatLngFromDegrees(a.Lat, a.Lon).Distance(s2.LatLngFromDegrees(b.Lat, b.Lon))
	return angle.Radians() * EarthRadiusKM, true
}

// Geocoder looks up a single location string. Implementations return
// ErrNoMatch for unknown places and other errors for provider failures.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (Coordinate, error)
	Name() string
}

// StatusError is a non-success HTTP status from a geocoding provider.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("geocoder returned status %d: %s", e.Code, e.Body)
}

// Temporary reports whether the request may succeed if retried.
func (e *StatusError) Temporary() bool {
	return e.Code == 429 || e.Code >= 500
}
