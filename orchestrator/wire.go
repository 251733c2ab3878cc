package orchestrator

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/goafire/firetrack/config"
	"github.com/goafire/firetrack/normalizer"
	"github.com/goafire/firetrack/resolver"
	"github.com/goafire/firetrack/snapshot"
	"github.com/goafire/firetrack/storage"
	"github.com/goafire/firetrack/tracking"
	"github.com/goafire/firetrack/upstream"
)

// FromConfig builds an Orchestrator from cfg. The returned close function
// releases the SQLite database when one was opened.
func FromConfig(ctx context.Context, cfg config.AppConfig) (*Orchestrator, func() error, error) {
	noop := func() error { return nil }

	loc, err := cfg.Location()
	if err != nil {
		return nil, noop, fmt.Errorf("load time zone: %w", err)
	}
	ropts, err := cfg.ResolverOptions()
	if err != nil {
		return nil, noop, fmt.Errorf("resolver options: %w", err)
	}
	src, err := upstream.NewSource(cfg.UpstreamOptions())
	if err != nil {
		return nil, noop, fmt.Errorf("upstream: %w", err)
	}

	sw := snapshot.NewWriter(cfg.Output.SnapshotPath, cfg.Snapshot.Source)
	sw.GTFSRTPath = cfg.Snapshot.GTFSRTPath
	sw.Location = loc

	res := resolver.New(ropts)
	log.Printf("coordinate bounds %s", res.Bounds())

	opts := Options{
		Source:     src,
		Normalizer: normalizer.New(res),
		Snapshot:   sw,
		Location:   loc,
		StaleAfter: time.Duration(cfg.Lock.StaleAfterMS) * time.Millisecond,
	}
	if !cfg.Lock.Disabled {
		opts.LockDir = filepath.Dir(cfg.Output.SnapshotPath)
	}

	closeFn := noop
	var store tracking.Store = tracking.NewFileStore(cfg.Output.TracksDir)
	if cfg.UsesSQLite() {
		db, err := storage.Open(ctx, storage.Config{Path: cfg.Storage.SQLitePath})
		if err != nil {
			return nil, noop, fmt.Errorf("open database: %w", err)
		}
		closeFn = db.Close
		if cfg.Tracks.Store == "sqlite" {
			store = tracking.NewSQLiteStore(db)
		}
		if cfg.Storage.RecordRuns {
			opts.History = db
		}
	}

	acc := tracking.NewAccumulator(store, sw.Source)
	acc.SetDescription(cfg.Tracks.Description)
	opts.Accumulator = acc

	o, err := New(opts)
	if err != nil {
		_ = closeFn()
		return nil, noop, err
	}
	return o, closeFn, nil
}
