// Package utils provides small time helpers shared by the writers.
//
// It contains:
//   - ISO-8601 timestamp formatting
//   - calendar day keys used to name daily track files
package utils
