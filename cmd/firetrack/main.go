package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	_ "time/tzdata"

	"github.com/goafire/firetrack/config"
	"github.com/goafire/firetrack/internal"
	"github.com/goafire/firetrack/orchestrator"
)

// Exit codes
const (
	exitOK     = 0
	exitFatal  = 1
	exitConfig = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("firetrack", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "config file (default: search config.yml, ./config/config.yml, /etc/firetrack/config.yml); optional with -file")
	mode := fs.String("mode", "", "upstream mode csv|json|file (overrides config)")
	file := fs.String("file", "", "read the payload from this file instead of the API (implies -mode=file)")
	snapshotPath := fs.String("snapshot", "", "snapshot GeoJSON path (overrides config)")
	tracksDir := fs.String("tracksDir", "", "daily track directory (overrides config)")
	store := fs.String("store", "", "track store file|sqlite (overrides config)")
	gtfsrtPath := fs.String("gtfsrt", "", "also write a GTFS-RT VehiclePositions feed here (overrides config)")
	logPath := fs.String("log", "", "run log path (overrides config)")
	noLock := fs.Bool("noLock", false, "skip the run lock")
	if err := fs.Parse(args); err != nil {
		return exitConfig
	}

	var paths []string
	if *configPath != "" {
		paths = []string{*configPath}
	}
	var cfg config.AppConfig
	err := config.LoadAppConfig(paths...)
	switch {
	case err == nil:
		cfg = config.Config
	case errors.Is(err, config.ErrNotFound) && *file != "":
		// A replay needs no config file; everything else takes defaults.
	default:
		fmt.Fprintf(stderr, "config: %v\n", err)
		return exitConfig
	}

	if *file != "" {
		cfg.Upstream.FilePath = *file
		if *mode == "" {
			*mode = "file"
		}
	}
	if *mode != "" {
		cfg.Upstream.Mode = strings.ToLower(*mode)
	}
	if *snapshotPath != "" {
		cfg.Output.SnapshotPath = *snapshotPath
	}
	if *tracksDir != "" {
		cfg.Output.TracksDir = *tracksDir
	}
	if *store != "" {
		cfg.Tracks.Store = strings.ToLower(*store)
	}
	if *gtfsrtPath != "" {
		cfg.Snapshot.GTFSRTPath = *gtfsrtPath
	}
	if *logPath != "" {
		cfg.Log.Path = *logPath
	}
	if *noLock {
		cfg.Lock.Disabled = true
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return exitConfig
	}
	cfg.ApplyDefaults()

	closer, err := internal.InitLogging(cfg.Log.Path)
	if err != nil {
		log.Printf("log file disabled: %v", err)
	}
	defer func() {
		_ = closer.Close()
		log.SetOutput(os.Stdout)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	o, closeStore, err := orchestrator.FromConfig(ctx, cfg)
	if err != nil {
		log.Printf("setup: %v", err)
		return exitConfig
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Printf("close database: %v", err)
		}
	}()

	res, err := o.Run(ctx)
	if err != nil {
		if errors.Is(err, internal.ErrLocked) {
			log.Printf("skipping: %v", err)
		}
		return exitFatal
	}
	fmt.Fprintf(stdout, "%s: %d vehicles -> %s, tracks %s\n", res.RunID, res.SnapshotCount, cfg.Output.SnapshotPath, res.Date)
	return exitOK
}
