// Package upstream fetches raw telemetry from the vehicle-tracking vendor.
//
// It supports three sources behind one interface:
//   - CSV: a single GET returning the block-structured CSV export
//   - JSON: an optional token handshake followed by a live-data request
//   - File: a captured payload on disk, for replays and tests
//
// The vendor's auth endpoint has changed its expected body field names over
// time, so Authenticate tries a list of known variants until one returns a
// token. Every request is bounded by the configured timeout.
package upstream
