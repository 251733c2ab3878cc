// Package telemetry defines the record types that flow through a run.
//
// A RawRecord is one untyped telemetry row exactly as the upstream feed
// produced it: an ordered list of field name/value pairs with no fixed
// schema. A VehicleRecord is the validated form built once coordinates have
// been resolved; it is immutable and lives only for the duration of a run.
package telemetry
