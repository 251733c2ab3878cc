// Package tracking accumulates per-vehicle movement history into daily track
// documents.
//
// This package handles:
//   - loading the day's track collection from a Store, or starting a fresh one
//   - appending each vehicle's latest position to its LineString, skipping a
//     point identical to the previous one
//   - persisting the collection back, touching no other day
//
// A vehicle's track has two states per day: absent, then active from its first
// valid sighting. A new calendar day starts with every vehicle absent.
//
// Two stores are provided. FileStore keeps one GeoJSON file per day and is what
// the map front-end reads; SQLiteStore keeps the same documents in a database.
package tracking
