package geojson

const (
	TypeFeatureCollection = "FeatureCollection"
	TypeFeature           = "Feature"
	TypePoint             = "Point"
	TypeLineString        = "LineString"
)

// PointGeometry is a GeoJSON Point
type PointGeometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// LineStringGeometry is a GeoJSON LineString
type LineStringGeometry struct {
	Type        string       `json:"type"`
	Coordinates [][2]float64 `json:"coordinates"`
}

// PointFeature is a snapshot entry for one vehicle
type PointFeature struct {
	Type       string         `json:"type"`
	Geometry   PointGeometry  `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// NewPointFeature builds a Point feature at coords ([lng, lat]).
func NewPointFeature(coords [2]float64, props map[string]any) PointFeature {
	if props == nil {
		props = map[string]any{}
	}
	return PointFeature{
		Type:       TypeFeature,
		Geometry:   PointGeometry{Type: TypePoint, Coordinates: coords},
		Properties: props,
	}
}

// SnapshotMetadata describes a snapshot run
type SnapshotMetadata struct {
	Timestamp string `json:"timestamp"`
	Source    string `json:"source"`
	Count     int    `json:"count"`
	RunID     string `json:"runId,omitempty"`
}

// SnapshotCollection is the current position of every reporting vehicle
type SnapshotCollection struct {
	Type     string           `json:"type"`
	Metadata SnapshotMetadata `json:"metadata"`
	Features []PointFeature   `json:"features"`
}

// TrackProperties are the per-vehicle attributes of a daily track.
// Name and Branch are captured when the track is created.
type TrackProperties struct {
	VehicleID   string  `json:"vehicleId"`
	Name        string  `json:"name"`
	Branch      string  `json:"branch"`
	Created     string  `json:"created"`
	LastUpdated string  `json:"lastUpdated"`
	Points      int     `json:"points"`
	DistanceKM  float64 `json:"distanceKm"`
}

// TrackFeature is one vehicle's path for one day
type TrackFeature struct {
	Type       string             `json:"type"`
	Geometry   LineStringGeometry `json:"geometry"`
	Properties TrackProperties    `json:"properties"`
}

// LastCoordinate returns the most recent point of the track.
func (f *TrackFeature) LastCoordinate() ([2]float64, bool) {
	c := f.Geometry.Coordinates
	if len(c) == 0 {
		return [2]float64{}, false
	}
	return c[len(c)-1], true
}

// TrackMetadata describes a daily track file
type TrackMetadata struct {
	Date        string `json:"date"`
	Source      string `json:"source"`
	Description string `json:"description"`
	LastUpdated string `json:"lastUpdated,omitempty"`
	Count       int    `json:"count"`
}

// TrackCollection is the DailyTrack document
type TrackCollection struct {
	Type     string         `json:"type"`
	Metadata TrackMetadata  `json:"metadata"`
	Features []TrackFeature `json:"features"`
}

// NewTrackCollection returns an empty track document for date.
func NewTrackCollection(date, source, description string) *TrackCollection {
	return &TrackCollection{
		Type: TypeFeatureCollection,
		Metadata: TrackMetadata{
			Date:        date,
			Source:      source,
			Description: description,
		},
		Features: []TrackFeature{},
	}
}
