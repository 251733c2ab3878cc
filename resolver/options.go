package resolver

import (
	"strings"

	"github.com/goafire/firetrack/geo"
)

// FieldPair names the columns read as latitude and longitude.
type FieldPair struct {
	Lat string
	Lng string
}

// Options configures the cascade. Zero-value slices disable the matching
// strategy; use DefaultOptions for the production tables.
type Options struct {
	Bounds geo.Bounds

	// Overrides maps a vehicle id to the columns known to carry its position.
	// Keys are matched after NormalizeVehicleID.
	Overrides map[string]FieldPair

	// KnownPairs are tried in order as (lat, lng).
	KnownPairs []FieldPair

	// WindowFields is scanned pairwise (i, i+1) in both orderings.
	WindowFields []string

	// MisplacedFields score 8 in the confidence scan.
	MisplacedFields []string
}

// DefaultOptions returns the tables observed on the production feed.
func DefaultOptions() Options {
	return Options{
		Bounds: geo.DefaultBounds,
		Overrides: map[string]FieldPair{
			"GA07G0308": {Lat: "Door1", Lng: "Door2"},
		},
		KnownPairs: []FieldPair{
			{Lat: "Latitude", Lng: "Longitude"},
			{Lat: "Lat", Lng: "Long"},
			{Lat: "Door1", Lng: "Door2"},
			{Lat: "IGN", Lng: "Power"},
			{Lat: "Door2", Lng: "IGN"},
		},
		WindowFields:    []string{"Latitude", "Longitude", "Door1", "Door2", "IGN", "Power", "AC", "Speed"},
		MisplacedFields: []string{"Door1", "Door2", "IGN", "Power", "AC"},
	}
}

// NormalizeVehicleID upper-cases an id and drops spaces and hyphens so that
// "ga-07 g 0308" and "GA07G0308" match the same override.
func NormalizeVehicleID(id string) string {
	id = strings.ToUpper(strings.TrimSpace(id))
	return strings.NewReplacer(" ", "", "-", "").Replace(id)
}
