// Package geojson defines the GeoJSON documents this module writes.
//
// Two collections are produced:
//
//   - SnapshotCollection: one Point feature per vehicle, replaced every run
//   - TrackCollection: one LineString feature per vehicle per calendar day
//
// Coordinates are always [longitude, latitude]. Both collections carry a
// non-standard "metadata" member that the map front-end reads.
package geojson
