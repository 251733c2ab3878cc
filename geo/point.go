package geo

import (
	"fmt"
	"math"

	"github.com/golang/geo/r1"
)

// DefaultBounds is the operational envelope of the fire service fleet.
var DefaultBounds = Bounds{
	Lat: r1.Interval{Lo: 14.5, Hi: 16.0},
	Lng: r1.Interval{Lo: 73.5, Hi: 74.5},
}

// Bounds is a closed latitude/longitude box.
type Bounds struct {
	Lat r1.Interval
	Lng r1.Interval
}

// NewBounds builds a Bounds and rejects empty or non-finite ranges.
func NewBounds(minLat, maxLat, minLng, maxLng float64) (Bounds, error) {
	for _, v := range []float64{minLat, maxLat, minLng, maxLng} {
		if !finite(v) {
			return Bounds{}, fmt.Errorf("bounds must be finite, got %v", v)
		}
	}
	b := Bounds{
		Lat: r1.Interval{Lo: minLat, Hi: maxLat},
		Lng: r1.Interval{Lo: minLng, Hi: maxLng},
	}
	if b.Lat.IsEmpty() || b.Lng.IsEmpty() {
		return Bounds{}, fmt.Errorf("empty bounds lat=[%g,%g] lng=[%g,%g]", minLat, maxLat, minLng, maxLng)
	}
	if minLat < -90 || maxLat > 90 || minLng < -180 || maxLng > 180 {
		return Bounds{}, fmt.Errorf("bounds outside WGS84 range lat=[%g,%g] lng=[%g,%g]", minLat, maxLat, minLng, maxLng)
	}
	return b, nil
}

// ValidLat reports whether v is a finite latitude inside the box.
func (b Bounds) ValidLat(v float64) bool { return finite(v) && b.Lat.Contains(v) }

// ValidLng reports whether v is a finite longitude inside the box.
func (b Bounds) ValidLng(v float64) bool { return finite(v) && b.Lng.Contains(v) }

// Point validates lat/lng against the box and returns the resulting Point.
func (b Bounds) Point(lat, lng float64) (Point, bool) {
	if !b.ValidLat(lat) || !b.ValidLng(lng) {
		return Point{}, false
	}
	return Point{lat: lat, lng: lng}, true
}

func (b Bounds) String() string {
	return fmt.Sprintf("lat=[%g,%g] lng=[%g,%g]", b.Lat.Lo, b.Lat.Hi, b.Lng.Lo, b.Lng.Hi)
}

// Point is a coordinate pair that passed a Bounds check.
type Point struct {
	lat float64
	lng float64
}

func (p Point) Lat() float64 { return p.lat }
func (p Point) Lng() float64 { return p.lng }

// Coordinates returns the pair in GeoJSON order: [longitude, latitude].
func (p Point) Coordinates() [2]float64 { return [2]float64{p.lng, p.lat} }

func (p Point) String() string { return fmt.Sprintf("(%g, %g)", p.lat, p.lng) }

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
