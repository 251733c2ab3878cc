// Package storage is the optional SQLite database behind the track store and
// the run history.
//
// The database uses the pure-Go modernc.org/sqlite driver so the binary stays
// cgo-free. Schema changes are applied as numbered migrations recorded in the
// migrations table.
package storage
