// Package resolver recovers a plausible position from a telemetry row whose
// coordinate columns cannot be trusted.
//
// The upstream feed sometimes reports latitude and longitude in unrelated
// columns (door sensors, ignition, power). Resolve runs an ordered cascade of
// strategies and returns the first pair that falls inside the configured
// bounding box:
//
//  1. per-vehicle field overrides
//  2. known misplaced field pairs
//  3. a sliding window over candidate columns, both orderings
//  4. a confidence-scored scan of every field
//
// A row that no strategy can place is not an error; callers drop and count it.
package resolver
