package resolver

import (
	"strings"

	"github.com/goafire/firetrack/geo"
	"github.com/goafire/firetrack/telemetry"
)

// Strategy names reported in telemetry.CoordinateSource.
const (
	StrategyOverride   = "override"
	StrategyKnownPair  = "known-pair"
	StrategyWindow     = "window"
	StrategyConfidence = "confidence-scan"
)

// Resolution is a validated position and where it came from.
type Resolution struct {
	Point  geo.Point
	Source telemetry.CoordinateSource
}

type strategy struct {
	name    string
	resolve func(telemetry.RawRecord) (Resolution, bool)
}

// Resolver applies the coordinate cascade. It holds no per-record state and
// is safe for concurrent use.
type Resolver struct {
	opts       Options
	overrides  map[string]FieldPair
	misplaced  map[string]bool
	strategies []strategy
}

// New builds a Resolver from opts.
func New(opts Options) *Resolver {
	r := &Resolver{
		opts:      opts,
		overrides: make(map[string]FieldPair, len(opts.Overrides)),
		misplaced: make(map[string]bool, len(opts.MisplacedFields)),
	}
	for id, pair := range opts.Overrides {
		r.overrides[NormalizeVehicleID(id)] = pair
	}
	for _, f := range opts.MisplacedFields {
		r.misplaced[strings.ToLower(f)] = true
	}
	r.strategies = []strategy{
		{StrategyOverride, r.fromOverride},
		{StrategyKnownPair, r.fromKnownPairs},
		{StrategyWindow, r.fromWindow},
		{StrategyConfidence, r.fromConfidenceScan},
	}
	return r
}

// Bounds returns the envelope positions are validated against.
func (r *Resolver) Bounds() geo.Bounds { return r.opts.Bounds }

// Resolve returns the first position any strategy can recover from rec.
func (r *Resolver) Resolve(rec telemetry.RawRecord) (Resolution, bool) {
	for _, s := range r.strategies {
		if res, ok := s.resolve(rec); ok {
			res.Source.Strategy = s.name
			return res, true
		}
	}
	return Resolution{}, false
}

// pair reads latField/lngField from rec and validates them as a position.
func (r *Resolver) pair(rec telemetry.RawRecord, latField, lngField string) (Resolution, bool) {
	latRaw, ok := rec.Get(latField)
	if !ok {
		return Resolution{}, false
	}
	lngRaw, ok := rec.Get(lngField)
	if !ok {
		return Resolution{}, false
	}
	lat, ok := ParseCoordinate(latRaw)
	if !ok {
		return Resolution{}, false
	}
	lng, ok := ParseCoordinate(lngRaw)
	if !ok {
		return Resolution{}, false
	}
	p, ok := r.opts.Bounds.Point(lat, lng)
	if !ok {
		return Resolution{}, false
	}
	return Resolution{Point: p, Source: telemetry.CoordinateSource{LatField: latField, LngField: lngField}}, true
}

func (r *Resolver) fromOverride(rec telemetry.RawRecord) (Resolution, bool) {
	fp, ok := r.overrides[NormalizeVehicleID(rec.VehicleID())]
	if !ok {
		return Resolution{}, false
	}
	return r.pair(rec, fp.Lat, fp.Lng)
}

func (r *Resolver) fromKnownPairs(rec telemetry.RawRecord) (Resolution, bool) {
	for _, fp := range r.opts.KnownPairs {
		if res, ok := r.pair(rec, fp.Lat, fp.Lng); ok {
			return res, true
		}
	}
	return Resolution{}, false
}

func (r *Resolver) fromWindow(rec telemetry.RawRecord) (Resolution, bool) {
	w := r.opts.WindowFields
	for i := 0; i+1 < len(w); i++ {
		if res, ok := r.pair(rec, w[i], w[i+1]); ok {
			return res, true
		}
		if res, ok := r.pair(rec, w[i+1], w[i]); ok {
			return res, true
		}
	}
	return Resolution{}, false
}

type candidate struct {
	field string
	value float64
	score int
}

// fromConfidenceScan picks the best latitude and best longitude candidates
// independently. Only a strictly higher score displaces a candidate, so ties
// go to the field seen first.
func (r *Resolver) fromConfidenceScan(rec telemetry.RawRecord) (Resolution, bool) {
	var lat, lng candidate
	for _, f := range rec.Fields() {
		v, ok := ParseCoordinate(f.Value)
		if !ok {
			continue
		}
		name := strings.ToLower(f.Name)
		if r.opts.Bounds.ValidLat(v) {
			score := 5
			if strings.Contains(name, "lat") {
				score = 10
			} else if r.misplaced[name] {
				score = 8
			}
			if score > lat.score {
				lat = candidate{field: f.Name, value: v, score: score}
			}
		}
		if r.opts.Bounds.ValidLng(v) {
			score := 5
			if strings.Contains(name, "lon") || strings.Contains(name, "lng") {
				score = 10
			} else if r.misplaced[name] {
				score = 8
			}
			if score > lng.score {
				lng = candidate{field: f.Name, value: v, score: score}
			}
		}
	}
	if lat.score == 0 || lng.score == 0 {
		return Resolution{}, false
	}
	p, ok := r.opts.Bounds.Point(lat.value, lng.value)
	if !ok {
		return Resolution{}, false
	}
	return Resolution{Point: p, Source: telemetry.CoordinateSource{LatField: lat.field, LngField: lng.field}}, true
}
