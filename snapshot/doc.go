// Package snapshot writes the current-position feed.
//
// This package is organized into:
//   - writer.go: GeoJSON FeatureCollection build, atomic write and read-back
//   - gtfsrt.go: optional GTFS-Realtime VehiclePositions export of the same records
//
// A snapshot is replaced wholesale every run; it is never merged with the
// previous one.
package snapshot
