package normalizer

import (
	"errors"
	"fmt"
	"time"

	"github.com/goafire/firetrack/resolver"
	"github.com/goafire/firetrack/telemetry"
	"github.com/goafire/firetrack/utils"
)

// Stats counts what happened to each row of a payload.
type Stats struct {
	Raw        int
	Valid      int
	MissingID  int
	Unresolved int
	// Strategies counts valid records per resolver strategy.
	Strategies map[string]int
	// Location is the JSON location the records were read from.
	Location string
}

// Result is the output of one Normalize call.
type Result struct {
	Records []telemetry.VehicleRecord
	Stats   Stats
}

// Normalizer parses payloads and resolves each row's position.
type Normalizer struct {
	resolver *resolver.Resolver
	now      func() time.Time
}

// New creates a Normalizer backed by r.
func New(r *resolver.Resolver) *Normalizer {
	return &Normalizer{resolver: r, now: time.Now}
}

// Normalize parses payload according to format. A JSON payload without a
// known vehicle array returns an empty Result together with an error
// wrapping ErrMalformedPayload; callers should log it and carry on.
func (n *Normalizer) Normalize(format telemetry.Format, payload []byte) (Result, error) {
	var (
		raws []telemetry.RawRecord
		res  = Result{Records: []telemetry.VehicleRecord{}, Stats: Stats{Strategies: map[string]int{}}}
	)
	switch format {
	case telemetry.FormatCSV:
		raws = ParseCSV(payload)
	case telemetry.FormatJSON:
		var err error
		raws, res.Stats.Location, err = ParseJSON(payload)
		if err != nil {
			return res, err
		}
	default:
		return res, fmt.Errorf("unsupported payload format %q", format)
	}

	fallback := utils.Iso8601(n.now())
	res.Stats.Raw = len(raws)
	for _, raw := range raws {
		if raw.VehicleID() == "" {
			res.Stats.MissingID++
			continue
		}
		r, ok := n.resolver.Resolve(raw)
		if !ok {
			res.Stats.Unresolved++
			continue
		}
		res.Records = append(res.Records, telemetry.NewVehicleRecord(raw, r.Point, r.Source, fallback))
		res.Stats.Strategies[r.Source.Strategy]++
	}
	res.Stats.Valid = len(res.Records)
	return res, nil
}

// IsMalformed reports whether err is a non-fatal payload shape error.
func IsMalformed(err error) bool { return errors.Is(err, ErrMalformedPayload) }
