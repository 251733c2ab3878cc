package normalizer

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/buger/jsonparser"

	"github.com/goafire/firetrack/telemetry"
)

// ErrMalformedPayload means no known vehicle array was found. It is not
// fatal: the run continues with zero records.
var ErrMalformedPayload = errors.New("malformed payload")

type extractor struct {
	name    string
	extract func(payload []byte) ([]telemetry.RawRecord, bool)
}

// jsonExtractors lists the known locations of the vehicle array, most
// specific first.
var jsonExtractors = []extractor{
	{"root.VehicleData", func(p []byte) ([]telemetry.RawRecord, bool) { return recordsAt(p, true, "root", "VehicleData") }},
	{"top-level array", func(p []byte) ([]telemetry.RawRecord, bool) { return recordsAt(p, false) }},
	{"data", func(p []byte) ([]telemetry.RawRecord, bool) { return recordsAt(p, false, "data") }},
}

// ParseJSON returns the records from the first location that holds an array
// of objects, and the location's name. Key order inside each object is
// preserved.
func ParseJSON(payload []byte) ([]telemetry.RawRecord, string, error) {
	payload = bytes.TrimSpace(payload)
	for _, ex := range jsonExtractors {
		if recs, ok := ex.extract(payload); ok {
			return recs, ex.name, nil
		}
	}
	return nil, "", fmt.Errorf("%w: no vehicle array at root.VehicleData, top level or data", ErrMalformedPayload)
}

// recordsAt projects the value at keys onto records. An array yields one
// record per object element. With single set, a lone object is treated as a
// one-element array, which is what the XML-to-JSON gateway emits when only
// one vehicle reports.
func recordsAt(payload []byte, single bool, keys ...string) ([]telemetry.RawRecord, bool) {
	value, dataType, _, err := jsonparser.Get(payload, keys...)
	if err != nil {
		return nil, false
	}
	switch dataType {
	case jsonparser.Array:
		out := []telemetry.RawRecord{}
		_, err := jsonparser.ArrayEach(value, func(elem []byte, t jsonparser.ValueType, _ int, _ error) {
			if t != jsonparser.Object {
				return
			}
			if rec, ok := objectRecord(elem); ok {
				out = append(out, rec)
			}
		})
		if err != nil {
			return nil, false
		}
		return out, true
	case jsonparser.Object:
		if !single {
			return nil, false
		}
		rec, ok := objectRecord(value)
		if !ok {
			return nil, false
		}
		return []telemetry.RawRecord{rec}, true
	}
	return nil, false
}

func objectRecord(obj []byte) (telemetry.RawRecord, bool) {
	var rec telemetry.RawRecord
	err := jsonparser.ObjectEach(obj, func(key, value []byte, t jsonparser.ValueType, _ int) error {
		rec.Set(string(key), scalarString(value, t))
		return nil
	})
	return rec, err == nil
}

func scalarString(value []byte, t jsonparser.ValueType) string {
	switch t {
	case jsonparser.String:
		if s, err := jsonparser.ParseString(value); err == nil {
			return s
		}
		return string(value)
	case jsonparser.Null:
		return ""
	default:
		return string(value)
	}
}
