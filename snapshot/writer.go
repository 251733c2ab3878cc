package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/goafire/firetrack/geojson"
	"github.com/goafire/firetrack/internal"
	"github.com/goafire/firetrack/telemetry"
	"github.com/goafire/firetrack/utils"
)

// DefaultSource labels snapshots when no source is configured.
const DefaultSource = "vehicle-tracking-api"

// Writer persists snapshots to Path and, if GTFSRTPath is set, a GTFS-RT
// VehiclePositions feed next to it.
type Writer struct {
	Path       string
	GTFSRTPath string
	Source     string
	// Location interprets feed timestamps without a zone offset.
	Location *time.Location

	now func() time.Time
}

// NewWriter creates a writer for path.
func NewWriter(path, source string) *Writer {
	if source == "" {
		source = DefaultSource
	}
	return &Writer{Path: path, Source: source, Location: time.UTC, now: time.Now}
}

// Build converts records into a snapshot collection. Features keep the
// record order.
func Build(records []telemetry.VehicleRecord, source, runID string, now time.Time) geojson.SnapshotCollection {
	fc := geojson.SnapshotCollection{
		Type: geojson.TypeFeatureCollection,
		Metadata: geojson.SnapshotMetadata{
			Timestamp: utils.Iso8601(now),
			Source:    source,
			Count:     len(records),
			RunID:     runID,
		},
		Features: make([]geojson.PointFeature, 0, len(records)),
	}
	for _, r := range records {
		fc.Features = append(fc.Features, geojson.NewPointFeature(r.Position.Coordinates(), r.Properties()))
	}
	return fc
}

// Write builds and persists the snapshot, replacing any previous file.
func (w *Writer) Write(records []telemetry.VehicleRecord, runID string) (geojson.SnapshotCollection, error) {
	now := w.now()
	fc := Build(records, w.Source, runID, now)
	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return fc, fmt.Errorf("encode snapshot: %w", err)
	}
	if err := internal.WriteFileAtomic(w.Path, data, 0o644); err != nil {
		return fc, fmt.Errorf("write snapshot: %w", err)
	}
	if w.GTFSRTPath != "" {
		feed, err := MarshalVehiclePositions(records, now, w.Location)
		if err != nil {
			return fc, fmt.Errorf("encode gtfs-rt: %w", err)
		}
		if err := internal.WriteFileAtomic(w.GTFSRTPath, feed, 0o644); err != nil {
			return fc, fmt.Errorf("write gtfs-rt: %w", err)
		}
	}
	return fc, nil
}

// Read loads a snapshot file.
func Read(path string) (geojson.SnapshotCollection, error) {
	var fc geojson.SnapshotCollection
	data, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := json.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	return fc, nil
}
