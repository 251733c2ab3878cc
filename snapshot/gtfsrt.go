package snapshot

import (
	"strings"
	"time"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"

	"github.com/goafire/firetrack/telemetry"
)

// feedTimeLayouts are the timestamp shapes seen in the vendor's Datetime column.
var feedTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"02-01-2006 15:04:05",
	"02/01/2006 15:04:05",
	"02-01-2006 15:04",
}

// BuildFeedMessage converts records into a FULL_DATASET VehiclePositions feed.
func BuildFeedMessage(records []telemetry.VehicleRecord, now time.Time, loc *time.Location) *gtfsrtpb.FeedMessage {
	fm := &gtfsrtpb.FeedMessage{
		Header: &gtfsrtpb.FeedHeader{
			GtfsRealtimeVersion: proto.String("2.0"),
			Incrementality:      gtfsrtpb.FeedHeader_FULL_DATASET.Enum(),
			Timestamp:           proto.Uint64(uint64(now.Unix())),
		},
	}
	for _, r := range records {
		vp := &gtfsrtpb.VehiclePosition{
			Vehicle: &gtfsrtpb.VehicleDescriptor{
				Id: proto.String(r.VehicleID),
			},
			Position: &gtfsrtpb.Position{
				Latitude:  proto.Float32(float32(r.Position.Lat())),
				Longitude: proto.Float32(float32(r.Position.Lng())),
			},
		}
		if r.Name != "" {
			vp.Vehicle.Label = proto.String(r.Name)
		}
		if ts, ok := parseFeedTime(r.Timestamp, loc); ok {
			vp.Timestamp = proto.Uint64(uint64(ts.Unix()))
		}
		fm.Entity = append(fm.Entity, &gtfsrtpb.FeedEntity{
			Id:      proto.String(r.VehicleID),
			Vehicle: vp,
		})
	}
	return fm
}

// MarshalVehiclePositions encodes records as a GTFS-RT protobuf message.
func MarshalVehiclePositions(records []telemetry.VehicleRecord, now time.Time, loc *time.Location) ([]byte, error) {
	return proto.Marshal(BuildFeedMessage(records, now, loc))
}

func parseFeedTime(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range feedTimeLayouts {
		t, err := time.ParseInLocation(layout, raw, loc)
		if err != nil {
			continue
		}
		// POSIX timestamps in the feed are unsigned.
		if t.Unix() <= 0 {
			return time.Time{}, false
		}
		return t, true
	}
	return time.Time{}, false
}
