package resolver

import (
	"testing"

	"github.com/goafire/firetrack/geo"
	"github.com/goafire/firetrack/telemetry"
)

func record(kv ...string) telemetry.RawRecord {
	var r telemetry.RawRecord
	for i := 0; i+1 < len(kv); i += 2 {
		r.Set(kv[i], kv[i+1])
	}
	return r
}

func TestResolve_ConventionalFieldsUnchanged(t *testing.T) {
	r := New(DefaultOptions())
	res, ok := r.Resolve(record("Vehicle_No", "GA01X1234", "Latitude", "15.5", "Longitude", "73.9"))
	if !ok {
		t.Fatal("expected a resolution")
	}
	if res.Point.Lat() != 15.5 || res.Point.Lng() != 73.9 {
		t.Errorf("expected (15.5, 73.9), got %v", res.Point)
	}
	if res.Source.Strategy != StrategyKnownPair || res.Source.LatField != "Latitude" {
		t.Errorf("unexpected source %+v", res.Source)
	}
}

func TestResolve_OverrideVehicle(t *testing.T) {
	r := New(DefaultOptions())
	rec := record("Company", "ABC", "Vehicle_No", "GA07G0308", "Door1", "15.486755", "Door2", "73.817429")
	res, ok := r.Resolve(rec)
	if !ok {
		t.Fatal("expected a resolution")
	}
	if res.Point.Lat() != 15.486755 || res.Point.Lng() != 73.817429 {
		t.Errorf("unexpected point %v", res.Point)
	}
	if res.Source.Strategy != StrategyOverride {
		t.Errorf("expected override strategy, got %q", res.Source.Strategy)
	}
}

func TestResolve_OverrideTakesPrecedenceOverConventionalFields(t *testing.T) {
	r := New(DefaultOptions())
	rec := record("Vehicle_No", "ga-07 g0308", "Latitude", "15.1", "Longitude", "73.6", "Door1", "15.486755", "Door2", "73.817429")
	res, ok := r.Resolve(rec)
	if !ok || res.Source.Strategy != StrategyOverride || res.Point.Lat() != 15.486755 {
		t.Errorf("expected override to win for normalized id, got %+v ok=%v", res, ok)
	}
}

func TestResolve_OverrideOutOfRangeFallsThrough(t *testing.T) {
	r := New(DefaultOptions())
	rec := record("Vehicle_No", "GA07G0308", "Door1", "0", "Door2", "1", "Latitude", "15.2", "Longitude", "74.0")
	res, ok := r.Resolve(rec)
	if !ok {
		t.Fatal("expected later strategy to resolve")
	}
	if res.Source.Strategy != StrategyKnownPair || res.Point.Lat() != 15.2 {
		t.Errorf("unexpected resolution %+v", res)
	}
}

func TestResolve_SlidingWindowSwapped(t *testing.T) {
	r := New(DefaultOptions())
	rec := record("Vehicle_No", "V9", "IGN", "73.8", "Power", "15.4")
	res, ok := r.Resolve(rec)
	if !ok {
		t.Fatal("expected a resolution")
	}
	if res.Source.Strategy != StrategyWindow {
		t.Errorf("expected window strategy, got %q", res.Source.Strategy)
	}
	if res.Source.LatField != "Power" || res.Source.LngField != "IGN" {
		t.Errorf("expected swapped pair Power/IGN, got %+v", res.Source)
	}
	if res.Point.Lat() != 15.4 || res.Point.Lng() != 73.8 {
		t.Errorf("unexpected point %v", res.Point)
	}
}

func TestResolve_ConfidenceScanPicksHighestScore(t *testing.T) {
	r := New(DefaultOptions())
	rec := record(
		"Vehicle_No", "V1",
		"Temp", "15.2",
		"Door1", "15.3",
		"Odometer", "74.1",
		"GPSLat", "15.4",
	)
	res, ok := r.Resolve(rec)
	if !ok {
		t.Fatal("expected confidence scan to resolve")
	}
	if res.Source.Strategy != StrategyConfidence {
		t.Fatalf("expected confidence strategy, got %q", res.Source.Strategy)
	}
	if res.Source.LatField != "GPSLat" || res.Point.Lat() != 15.4 {
		t.Errorf("expected GPSLat (score 10), got %+v", res)
	}
	if res.Source.LngField != "Odometer" || res.Point.Lng() != 74.1 {
		t.Errorf("expected Odometer longitude, got %+v", res)
	}
}

func TestResolve_ConfidenceScanTieKeepsFirst(t *testing.T) {
	r := New(DefaultOptions())
	res, ok := r.Resolve(record("A", "15.1", "B", "15.2", "C", "73.9", "D", "74.0"))
	if !ok {
		t.Fatal("expected a resolution")
	}
	if res.Source.LatField != "A" || res.Source.LngField != "C" {
		t.Errorf("ties should keep the first field seen, got %+v", res.Source)
	}
}

func TestResolve_ConfidenceScanMisplacedBeatsPlain(t *testing.T) {
	r := New(DefaultOptions())
	res, ok := r.Resolve(record("X", "74.2", "Door2", "73.7", "Y", "15.0"))
	if !ok {
		t.Fatal("expected a resolution")
	}
	if res.Source.LngField != "Door2" {
		t.Errorf("misplacement field should outrank plain field, got %+v", res.Source)
	}
}

func TestResolve_CommaDecimal(t *testing.T) {
	r := New(DefaultOptions())
	res, ok := r.Resolve(record("Latitude", "15,486755", "Longitude", "73,817429"))
	if !ok {
		t.Fatal("expected a resolution")
	}
	if res.Point.Lat() != 15.486755 || res.Point.Lng() != 73.817429 {
		t.Errorf("unexpected point %v", res.Point)
	}
}

func TestResolve_Invalid(t *testing.T) {
	r := New(DefaultOptions())
	tests := []struct {
		name string
		rec  telemetry.RawRecord
	}{
		{"empty", record()},
		{"out of region", record("Latitude", "28.6", "Longitude", "77.2")},
		{"latitude only", record("Latitude", "15.5", "Speed", "12")},
		{"not numeric", record("Latitude", "N/A", "Longitude", "N/A")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if res, ok := r.Resolve(tt.rec); ok {
				t.Errorf("expected Invalid, got %+v", res)
			}
		})
	}
}

func TestResolve_CustomBounds(t *testing.T) {
	b, err := geo.NewBounds(28, 29, 76.5, 77.5)
	if err != nil {
		t.Fatal(err)
	}
	opts := DefaultOptions()
	opts.Bounds = b
	r := New(opts)
	if _, ok := r.Resolve(record("Latitude", "28.6", "Longitude", "77.2")); !ok {
		t.Error("expected point inside custom bounds to resolve")
	}
	if _, ok := r.Resolve(record("Latitude", "15.5", "Longitude", "73.9")); ok {
		t.Error("default region should be outside custom bounds")
	}
}

func TestParseCoordinate(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"15.486755", 15.486755, true},
		{"15,486755", 15.486755, true},
		{" 73.9 ", 73.9, true},
		{`"73.9"`, 73.9, true},
		{"-1e2", -100, true},
		{"", 0, false},
		{"1,234.5", 0, false},
		{"1,2,3", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
		{"0x1p4", 0, false},
		{"ON", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseCoordinate(tt.in)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("ParseCoordinate(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
