package telemetry

import (
	"strings"

	"github.com/goafire/firetrack/geo"
)

// Conventional upstream field names, most common spelling first.
var (
	VehicleIDFields = []string{"Vehicle_No", "VehicleNo", "vehicle_no", "VehicleNumber", "vehicleId"}
	NameFields      = []string{"Vehicle_Name", "VehicleName", "vehicle_name", "name"}
	BranchFields    = []string{"Branch", "branch", "BranchName"}
	TimestampFields = []string{"Datetime", "DateTime", "GPSDateTime", "datetime", "timestamp"}
)

// Field is one name/value pair of a RawRecord. Numeric JSON values keep their
// textual form.
type Field struct {
	Name  string
	Value string
}

// RawRecord is an ordered set of fields. Order follows the source payload and
// is significant for tie-breaking in coordinate recovery.
type RawRecord struct {
	fields []Field
}

// NewRawRecord builds a record from fields in order; a repeated name keeps
// its first position and the last value.
func NewRawRecord(fields ...Field) RawRecord {
	var r RawRecord
	for _, f := range fields {
		r.Set(f.Name, f.Value)
	}
	return r
}

// Set assigns value to name, appending the field if it is new.
func (r *RawRecord) Set(name, value string) {
	for i := range r.fields {
		if r.fields[i].Name == name {
			r.fields[i].Value = value
			return
		}
	}
	r.fields = append(r.fields, Field{Name: name, Value: value})
}

// Get returns the value stored under name.
func (r RawRecord) Get(name string) (string, bool) {
	for _, f := range r.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// FirstOf returns the first non-blank value among names, trimmed.
func (r RawRecord) FirstOf(names ...string) string {
	for _, n := range names {
		if v, ok := r.Get(n); ok {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	return ""
}

// Fields returns a copy of the record's fields in source order.
func (r RawRecord) Fields() []Field {
	out := make([]Field, len(r.fields))
	copy(out, r.fields)
	return out
}

func (r RawRecord) Len() int { return len(r.fields) }

// VehicleID returns the record's vehicle identifier, or "" if absent.
func (r RawRecord) VehicleID() string { return r.FirstOf(VehicleIDFields...) }

// CoordinateSource says which heuristic produced a position and from which
// fields it was read.
type CoordinateSource struct {
	Strategy string
	LatField string
	LngField string
}

// VehicleRecord is a telemetry row with a validated position.
type VehicleRecord struct {
	VehicleID string
	Name      string
	Branch    string
	Timestamp string
	Position  geo.Point
	Source    CoordinateSource
	Extra     []Field
}

// NewVehicleRecord assembles a VehicleRecord from a raw row and its resolved
// position. fallbackTime is used when the row carries no timestamp. Identity
// fields and the two coordinate fields are lifted out; everything else is
// kept in Extra in source order.
func NewVehicleRecord(raw RawRecord, pos geo.Point, src CoordinateSource, fallbackTime string) VehicleRecord {
	rec := VehicleRecord{
		VehicleID: raw.VehicleID(),
		Name:      raw.FirstOf(NameFields...),
		Branch:    raw.FirstOf(BranchFields...),
		Timestamp: raw.FirstOf(TimestampFields...),
		Position:  pos,
		Source:    src,
	}
	if rec.Timestamp == "" {
		rec.Timestamp = fallbackTime
	}
	skip := map[string]bool{src.LatField: true, src.LngField: true}
	for _, group := range [][]string{VehicleIDFields, NameFields, BranchFields, TimestampFields} {
		for _, n := range group {
			skip[n] = true
		}
	}
	for _, f := range raw.fields {
		if !skip[f.Name] {
			rec.Extra = append(rec.Extra, f)
		}
	}
	return rec
}

// Properties flattens the record, minus its position, into GeoJSON feature
// properties.
func (v VehicleRecord) Properties() map[string]any {
	props := make(map[string]any, len(v.Extra)+6)
	for _, f := range v.Extra {
		props[f.Name] = f.Value
	}
	props["vehicleId"] = v.VehicleID
	props["name"] = v.Name
	props["branch"] = v.Branch
	props["timestamp"] = v.Timestamp
	props["coordinateSource"] = v.Source.Strategy
	return props
}

// Format identifies the shape of a raw upstream payload.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)
