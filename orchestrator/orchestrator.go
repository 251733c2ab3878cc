package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/goafire/firetrack/geojson"
	"github.com/goafire/firetrack/internal"
	"github.com/goafire/firetrack/normalizer"
	"github.com/goafire/firetrack/storage"
	"github.com/goafire/firetrack/telemetry"
	"github.com/goafire/firetrack/tracking"
	"github.com/goafire/firetrack/upstream"
	"github.com/goafire/firetrack/utils"
)

// History records finished runs. *storage.DB implements it.
type History interface {
	InsertRun(ctx context.Context, r storage.RunRecord) error
}

// Options wires the components of a run.
type Options struct {
	Source      upstream.Source
	Normalizer  *normalizer.Normalizer
	Snapshot    SnapshotWriter
	Accumulator *tracking.Accumulator
	// Location decides the calendar day a run belongs to.
	Location *time.Location

	// LockDir holds the run lock. An empty LockDir disables locking.
	LockDir    string
	StaleAfter time.Duration

	// History is optional.
	History History
}

// SnapshotWriter persists the per-run snapshot. *snapshot.Writer implements it.
type SnapshotWriter interface {
	Write(records []telemetry.VehicleRecord, runID string) (geojson.SnapshotCollection, error)
}

// Result summarizes a run.
type Result struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Format     telemetry.Format
	// Malformed is set when the payload held no recognizable vehicle list.
	Malformed     bool
	Stats         normalizer.Stats
	SnapshotCount int
	Date          string
	Tracks        tracking.Summary
}

// Orchestrator executes runs.
type Orchestrator struct {
	opts  Options
	now   func() time.Time
	newID func() string
}

// New validates opts and creates an Orchestrator.
func New(opts Options) (*Orchestrator, error) {
	switch {
	case opts.Source == nil:
		return nil, errors.New("orchestrator: source is required")
	case opts.Normalizer == nil:
		return nil, errors.New("orchestrator: normalizer is required")
	case opts.Snapshot == nil:
		return nil, errors.New("orchestrator: snapshot writer is required")
	case opts.Accumulator == nil:
		return nil, errors.New("orchestrator: accumulator is required")
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Orchestrator{opts: opts, now: time.Now, newID: uuid.NewString}, nil
}

// Run performs one cycle: fetch, normalize, snapshot, accumulate.
func (o *Orchestrator) Run(ctx context.Context) (Result, error) {
	res := Result{RunID: o.newID(), StartedAt: o.now()}
	internal.SetRunPrefix(res.RunID)
	defer internal.SetRunPrefix("")
	log.Printf("run %s started", res.RunID)

	err := o.run(ctx, &res)
	res.FinishedAt = o.now()
	o.record(ctx, res, err)
	if err != nil {
		log.Printf("run failed after %v: %v", res.FinishedAt.Sub(res.StartedAt), err)
		return res, err
	}
	log.Printf("run finished in %v: %d raw, %d valid, %d unresolved, %d missing id; track %s +%d new +%d points",
		res.FinishedAt.Sub(res.StartedAt), res.Stats.Raw, res.Stats.Valid, res.Stats.Unresolved,
		res.Stats.MissingID, res.Date, res.Tracks.Created, res.Tracks.Appended)
	return res, nil
}

func (o *Orchestrator) run(ctx context.Context, res *Result) error {
	if o.opts.LockDir != "" {
		lock, err := internal.AcquireLock(o.opts.LockDir, res.RunID, o.opts.StaleAfter)
		if err != nil {
			return err
		}
		defer func() {
			if err := lock.Release(); err != nil {
				log.Printf("release lock: %v", err)
			}
		}()
	}

	format, payload, err := o.opts.Source.FetchRawPayload(ctx)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	res.Format = format
	log.Printf("fetched %d bytes (%s)", len(payload), format)

	norm, err := o.opts.Normalizer.Normalize(format, payload)
	switch {
	case err == nil:
	case normalizer.IsMalformed(err):
		// Zero records still produce a snapshot and an untouched-but-saved track.
		log.Printf("payload: %v", err)
		res.Malformed = true
	default:
		return fmt.Errorf("normalize: %w", err)
	}
	res.Stats = norm.Stats
	for strategy, n := range norm.Stats.Strategies {
		log.Printf("resolved %d records via %s", n, strategy)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	fc, err := o.opts.Snapshot.Write(norm.Records, res.RunID)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	res.SnapshotCount = fc.Metadata.Count

	res.Date = utils.DayKey(res.StartedAt, o.opts.Location)
	_, sum, err := o.opts.Accumulator.Accumulate(ctx, norm.Records, res.Date)
	res.Tracks = sum
	if err != nil {
		return fmt.Errorf("tracks: %w", err)
	}
	return nil
}

func (o *Orchestrator) record(ctx context.Context, res Result, runErr error) {
	if o.opts.History == nil {
		return
	}
	rec := storage.RunRecord{
		ID:         res.RunID,
		StartedAt:  res.StartedAt,
		FinishedAt: res.FinishedAt,
		Status:     storage.RunSucceeded,
		Raw:        res.Stats.Raw,
		Valid:      res.Stats.Valid,
		Unresolved: res.Stats.Unresolved,
		MissingID:  res.Stats.MissingID,
	}
	if runErr != nil {
		rec.Status = storage.RunFailed
		rec.Message = runErr.Error()
	} else if res.Malformed {
		rec.Message = "malformed payload"
	}
	if err := o.opts.History.InsertRun(context.WithoutCancel(ctx), rec); err != nil {
		log.Printf("record run history: %v", err)
	}
}
