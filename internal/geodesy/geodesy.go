// Package geodesy computes bearings, distances and midpoints between WGS84 points.
//
// Every function validates its inputs and reports invalid coordinates as a failed
// domain.Result instead of panicking, so batch callers can keep iterating.
package geodesy

import (
	"fmt"
	"math"

	"geo-route-service/internal/domain"

	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/planar"
)

// EarthRadiusMeters is the mean radius used for great-circle distances and edge lengths.
const EarthRadiusMeters = 6371009.0

func toOrb(p domain.GeoPoint) orb.Point { return orb.Point{p.Lon, p.Lat} }

func validatePair(origin, destination domain.GeoPoint) error {
	if err := origin.Validate(); err != nil {
		return fmt.Errorf("origin: %w", err)
	}
	if err := destination.Validate(); err != nil {
		return fmt.Errorf("destination: %w", err)
	}
	return nil
}

// Bearing returns the initial compass bearing in [0, 360) from origin to destination along a
// great circle. Identical points yield 0.
func Bearing(origin, destination domain.GeoPoint) domain.Result[float64] {
	if err := validatePair(origin, destination); err != nil {
		return domain.Fail[float64](fmt.Errorf("bearing: %w", err))
	}

	b := geo.Bearing(toOrb(origin), toOrb(destination))
	if b < 0 {
		b += 360
	}
	if b >= 360 {
		b -= 360
	}
	return domain.Ok(b)
}

// EuclideanDistance is the planar distance in coordinate units (degrees). It is only a
// meaningful ranking for small spans and is not a length in meters.
func EuclideanDistance(origin, destination domain.GeoPoint) domain.Result[float64] {
	if err := validatePair(origin, destination); err != nil {
		return domain.Fail[float64](fmt.Errorf("euclidean distance: %w", err))
	}
	return domain.Ok(planar.Distance(toOrb(origin), toOrb(destination)))
}

// GreatCircleDistance returns the haversine distance in meters on a sphere of
// EarthRadiusMeters.
func GreatCircleDistance(origin, destination domain.GeoPoint) domain.Result[float64] {
	return GreatCircleDistanceRadius(origin, destination, EarthRadiusMeters)
}

func GreatCircleDistanceRadius(origin, destination domain.GeoPoint, radius float64) domain.Result[float64] {
	if err := validatePair(origin, destination); err != nil {
		return domain.Fail[float64](fmt.Errorf("great circle distance: %w", err))
	}
	if !(radius > 0) || math.IsInf(radius, 0) {
		return domain.Fail[float64](fmt.Errorf("great circle distance: invalid earth radius %v", radius))
	}
	return domain.Ok(greatCircle(origin, destination, radius))
}

func greatCircle(a, b domain.GeoPoint, radius float64) float64 {
	p1 := s2.LatLngFromDegrees(a.Lat, a.Lon)
	p2 := s2.LatLngFromDegrees(b.Lat, b.Lon)
	return p1.Distance(p2).Radians() * radius
}

// SegmentLength is GreatCircleDistance without validation, for points already known to be valid.
func SegmentLength(a, b domain.GeoPoint) float64 {
	return greatCircle(a, b, EarthRadiusMeters)
}

// Distance dispatches on kind. An unrecognised kind is a caller fault and is returned as an
// error wrapping domain.ErrUnknownDistanceKind rather than as a failed result.
func Distance(origin, destination domain.GeoPoint, kind domain.DistanceKind) (domain.Result[float64], error) {
	switch kind {
	case domain.DistanceEuclidean:
		return EuclideanDistance(origin, destination), nil
	case domain.DistanceGreatCircle:
		return GreatCircleDistance(origin, destination), nil
	default:
		return domain.Result[float64]{}, fmt.Errorf("distance: %w: %q", domain.ErrUnknownDistanceKind, kind)
	}
}

// Center is the arithmetic mean of the latitude and longitude components. It is not the
// geodesic midpoint and is wrong across the antimeridian.
func Center(a, b domain.GeoPoint) domain.GeoPoint {
	return domain.GeoPoint{
		Lat: (a.Lat + b.Lat) / 2,
		Lon: (a.Lon + b.Lon) / 2,
	}
}

// Centroid is the arithmetic mean of a point set.
func Centroid(points []domain.GeoPoint) (domain.GeoPoint, error) {
	if len(points) == 0 {
		return domain.GeoPoint{}, fmt.Errorf("centroid: %w", domain.ErrEmptyInput)
	}
	var lat, lon float64
	for _, p := range points {
		lat += p.Lat
		lon += p.Lon
	}
	n := float64(len(points))
	return domain.GeoPoint{Lat: lat / n, Lon: lon / n}, nil
}

// MaxRadius returns the largest great-circle distance in meters from center to any point.
func MaxRadius(center domain.GeoPoint, points []domain.GeoPoint) float64 {
	max := 0.0
	for _, p := range points {
		if d := greatCircle(center, p, EarthRadiusMeters); d > max {
			max = d
		}
	}
	return max
}

// BoundAroundPoint returns the box extending dist meters from center in each direction.
func BoundAroundPoint(center domain.GeoPoint, dist float64) domain.BoundingBox {
	b := geo.NewBoundAroundPoint(toOrb(center), dist)
	return domain.BoundingBox{
		North: b.Top(),
		South: b.Bottom(),
		East:  b.Right(),
		West:  b.Left(),
	}
}
