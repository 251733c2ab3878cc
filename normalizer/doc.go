// Package normalizer turns a raw upstream payload into validated vehicle
// records.
//
// Two payload shapes are supported. The CSV export is a sequence of blocks,
// each a header line starting with "Company," followed by at most one data
// line; a data line reading "No Data Found" ends the payload. The JSON API
// nests the vehicle array in one of a few known places, which are tried in
// order until one holds an array.
//
// Every row goes through the coordinate resolver. Rows that cannot be placed
// or carry no vehicle id are dropped and counted in Stats; they never fail a
// run.
package normalizer
