package tracking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/goafire/firetrack/geo"
	"github.com/goafire/firetrack/geojson"
	"github.com/goafire/firetrack/telemetry"
	"github.com/goafire/firetrack/utils"
)

// DefaultDescription is written into new track metadata.
const DefaultDescription = "Daily fire vehicle movement tracks"

// Summary counts what one Accumulate call changed.
type Summary struct {
	Created    int
	Appended   int
	Duplicates int
	// Fresh is set when the day's track was started from scratch, either
	// because none existed or because the stored one was corrupt.
	Fresh   bool
	Corrupt bool
}

// Accumulator merges observed positions into the day's track collection.
type Accumulator struct {
	store       Store
	source      string
	description string
	now         func() time.Time
}

// NewAccumulator creates an accumulator writing to store.
func NewAccumulator(store Store, source string) *Accumulator {
	return &Accumulator{
		store:       store,
		source:      source,
		description: DefaultDescription,
		now:         time.Now,
	}
}

// SetDescription changes the description written into new track metadata.
func (a *Accumulator) SetDescription(d string) {
	if d != "" {
		a.description = d
	}
}

// Accumulate loads date's track, appends records and saves it back.
// Only date's content is replaced.
func (a *Accumulator) Accumulate(ctx context.Context, records []telemetry.VehicleRecord, date string) (*geojson.TrackCollection, Summary, error) {
	var sum Summary
	tc, err := a.store.Load(ctx, date)
	switch {
	case err == nil:
	case errors.Is(err, ErrTrackNotFound):
		tc, sum.Fresh = nil, true
	case errors.Is(err, ErrCorruptTrack):
		log.Printf("tracks %s: %v; starting a fresh track", date, err)
		tc, sum.Fresh, sum.Corrupt = nil, true, true
	default:
		return nil, sum, fmt.Errorf("load track %s: %w", date, err)
	}
	if tc == nil {
		tc = geojson.NewTrackCollection(date, a.source, a.description)
	}

	index := a.prepare(tc, date)
	stamp := utils.Iso8601(a.now())

	for _, r := range records {
		if r.VehicleID == "" {
			continue
		}
		c := r.Position.Coordinates()
		i, ok := index[r.VehicleID]
		if !ok {
			tc.Features = append(tc.Features, geojson.TrackFeature{
				Type: geojson.TypeFeature,
				Geometry: geojson.LineStringGeometry{
					Type:        geojson.TypeLineString,
					Coordinates: [][2]float64{c},
				},
				Properties: geojson.TrackProperties{
					VehicleID:   r.VehicleID,
					Name:        r.Name,
					Branch:      r.Branch,
					Created:     stamp,
					LastUpdated: stamp,
				},
			})
			index[r.VehicleID] = len(tc.Features) - 1
			sum.Created++
			continue
		}
		f := &tc.Features[i]
		f.Properties.LastUpdated = stamp
		if last, ok := f.LastCoordinate(); ok && last == c {
			sum.Duplicates++
			continue
		}
		f.Geometry.Coordinates = append(f.Geometry.Coordinates, c)
		sum.Appended++
	}

	for i := range tc.Features {
		f := &tc.Features[i]
		f.Properties.Points = len(f.Geometry.Coordinates)
		f.Properties.DistanceKM = geo.PathLengthKM(f.Geometry.Coordinates)
	}
	tc.Metadata.LastUpdated = stamp
	tc.Metadata.Count = len(tc.Features)

	if err := a.store.Save(ctx, date, tc); err != nil {
		return tc, sum, fmt.Errorf("save track %s: %w", date, err)
	}
	return tc, sum, nil
}

// prepare repairs a loaded collection so the vehicleId index is unique and
// returns that index. Features repeating an earlier vehicleId are dropped.
func (a *Accumulator) prepare(tc *geojson.TrackCollection, date string) map[string]int {
	tc.Type = geojson.TypeFeatureCollection
	tc.Metadata.Date = date
	if tc.Metadata.Source == "" {
		tc.Metadata.Source = a.source
	}
	if tc.Metadata.Description == "" {
		tc.Metadata.Description = a.description
	}

	index := make(map[string]int, len(tc.Features))
	kept := make([]geojson.TrackFeature, 0, len(tc.Features))
	for _, f := range tc.Features {
		id := f.Properties.VehicleID
		if _, dup := index[id]; dup || id == "" {
			log.Printf("tracks %s: dropping duplicate or unnamed feature %q", date, id)
			continue
		}
		if f.Geometry.Type == "" {
			f.Geometry.Type = geojson.TypeLineString
		}
		index[id] = len(kept)
		kept = append(kept, f)
	}
	tc.Features = kept
	return index
}
