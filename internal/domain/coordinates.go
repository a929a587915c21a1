package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Immutable WGS84 point in decimal degrees. Identity is by value.
type GeoPoint struct {
	Lat float64
	Lon float64
}

func NewGeoPoint(lat, lon float64) GeoPoint { return GeoPoint{Lat: lat, Lon: lon} }

// Valid reports whether the point has finite coordinates inside the WGS84 ranges.
func (p GeoPoint) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lon, 0) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// Validate is Valid with a descriptive error wrapping ErrInvalidCoordinate.
func (p GeoPoint) Validate() error {
	if p.Valid() {
		return nil
	}
	return fmt.Errorf("%w: lat=%v lon=%v", ErrInvalidCoordinate, p.Lat, p.Lon)
}

// String renders "lat,lon" with the shortest exact representation; it doubles as a cache key.
func (p GeoPoint) String() string {
	return strconv.FormatFloat(p.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(p.Lon, 'f', -1, 64)
}

// ParseGeoPoint parses "lat,lon".
func ParseGeoPoint(s string) (GeoPoint, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 2 {
		return GeoPoint{}, fmt.Errorf("parse point %q: %w: expected \"lat,lon\"", s, ErrInvalidCoordinate)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return GeoPoint{}, fmt.Errorf("parse point %q: latitude: %w", s, ErrInvalidCoordinate)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return GeoPoint{}, fmt.Errorf("parse point %q: longitude: %w", s, ErrInvalidCoordinate)
	}

	p := GeoPoint{Lat: lat, Lon: lon}
	if err := p.Validate(); err != nil {
		return GeoPoint{}, fmt.Errorf("parse point %q: %w", s, err)
	}
	return p, nil
}

// Axis-aligned lat/lon box.
type BoundingBox struct {
	North float64
	South float64
	East  float64
	West  float64
}

// BoundingBoxOf returns the smallest box spanning all points.
func BoundingBoxOf(points []GeoPoint) (BoundingBox, error) {
	if len(points) == 0 {
		return BoundingBox{}, fmt.Errorf("bounding box: no points")
	}

	bb := BoundingBox{
		North: math.Inf(-1),
		South: math.Inf(1),
		East:  math.Inf(-1),
		West:  math.Inf(1),
	}
	for _, p := range points {
		bb.North = math.Max(bb.North, p.Lat)
		bb.South = math.Min(bb.South, p.Lat)
		bb.East = math.Max(bb.East, p.Lon)
		bb.West = math.Min(bb.West, p.Lon)
	}
	return bb, nil
}

// Validate checks the corner ordering and ranges.
func (b BoundingBox) Validate() error {
	corners := []GeoPoint{{Lat: b.North, Lon: b.East}, {Lat: b.South, Lon: b.West}}
	for _, c := range corners {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("bounding box: %w", err)
		}
	}
	if b.North < b.South {
		return fmt.Errorf("bounding box: north %v is south of south %v", b.North, b.South)
	}
	return nil
}

func (b BoundingBox) Contains(p GeoPoint) bool {
	return p.Lat >= b.South && p.Lat <= b.North && p.Lon >= b.West && p.Lon <= b.East
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("n=%v s=%v e=%v w=%v", b.North, b.South, b.East, b.West)
}
