// Package orchestrator runs one fetch cycle end to end.
//
// A run authenticates and fetches through an upstream.Source, normalizes the
// payload, replaces the snapshot and appends to the day's track. Runs are
// sequential and guarded by a lock file; any fatal error aborts the run
// before output is written. Scheduling is left to the caller.
package orchestrator
