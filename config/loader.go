package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/goafire/firetrack/geo"
	"github.com/goafire/firetrack/resolver"
	"github.com/goafire/firetrack/telemetry"
	"github.com/goafire/firetrack/upstream"
)

// Defaults applied after loading.
const (
	DefaultTimeoutMS    = 30000
	DefaultSnapshotPath = "output/fire_trucks.geojson"
	DefaultTracksDir    = "output"
	DefaultTimezone     = "Asia/Kolkata"
	DefaultStore        = "file"
	DefaultLogPath      = "output/firetrack.log"
	DefaultStaleAfterMS = 10 * 60 * 1000
	DefaultSQLitePath   = "output/firetrack.db"

	EnvUsername = "FIRETRACK_USERNAME"
	EnvPassword = "FIRETRACK_PASSWORD"
)

// DefaultPaths are searched in order when no path is given.
var DefaultPaths = []string{"config.yml", "./config/config.yml", "/etc/firetrack/config.yml"}

// Config is the global application configuration
var Config AppConfig

// ErrNotFound is returned when none of the candidate paths exists.
var ErrNotFound = errors.New("config file not found")

// LoadAppConfig loads and validates the application configuration from the
// first readable path and stores it in Config.
func LoadAppConfig(paths ...string) error {
	if len(paths) == 0 {
		paths = DefaultPaths
	}
	var data []byte
	var err error
	for _, p := range paths {
		if p == "" {
			continue
		}
		data, err = os.ReadFile(p)
		if err == nil {
			break
		}
	}
	if data == nil {
		if err == nil || errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w (tried %s)", ErrNotFound, strings.Join(paths, ", "))
		}
		return err
	}
	cfg, err := Parse(data)
	if err != nil {
		return err
	}
	Config = cfg
	return nil
}

// Parse decodes, validates and completes a configuration document.
func Parse(data []byte) (AppConfig, error) {
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return AppConfig{}, err
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// Validate checks struct tags and cross-field rules.
func (c AppConfig) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if b := c.Resolver.Bounds; b != nil {
		if _, err := geo.NewBounds(b.MinLat, b.MaxLat, b.MinLng, b.MaxLng); err != nil {
			return fmt.Errorf("invalid config: resolver.bounds: %w", err)
		}
	}
	if c.Tracks.Timezone != "" {
		if _, err := time.LoadLocation(c.Tracks.Timezone); err != nil {
			return fmt.Errorf("invalid config: tracks.timezone: %w", err)
		}
	}
	return nil
}

func (c *AppConfig) applyEnv() {
	if v := os.Getenv(EnvUsername); v != "" {
		c.Upstream.Username = v
	}
	if v := os.Getenv(EnvPassword); v != "" {
		c.Upstream.Password = v
	}
}

// ApplyDefaults fills unset fields. It is safe to call again after overrides.
func (c *AppConfig) ApplyDefaults() {
	if c.Upstream.TimeoutMS == 0 {
		c.Upstream.TimeoutMS = DefaultTimeoutMS
	}
	if c.Output.SnapshotPath == "" {
		c.Output.SnapshotPath = DefaultSnapshotPath
	}
	if c.Output.TracksDir == "" {
		c.Output.TracksDir = filepath.Dir(c.Output.SnapshotPath)
	}
	if c.Tracks.Store == "" {
		c.Tracks.Store = DefaultStore
	}
	if c.Tracks.Timezone == "" {
		c.Tracks.Timezone = DefaultTimezone
	}
	if c.Storage.SQLitePath == "" && (c.Tracks.Store == "sqlite" || c.Storage.RecordRuns) {
		c.Storage.SQLitePath = filepath.Join(c.Output.TracksDir, filepath.Base(DefaultSQLitePath))
	}
	if c.Log.Path == "" {
		c.Log.Path = filepath.Join(filepath.Dir(c.Output.SnapshotPath), filepath.Base(DefaultLogPath))
	}
	if c.Lock.StaleAfterMS == 0 {
		c.Lock.StaleAfterMS = DefaultStaleAfterMS
	}
}

// Location returns the time zone used for day keys.
func (c AppConfig) Location() (*time.Location, error) {
	tz := c.Tracks.Timezone
	if tz == "" {
		tz = DefaultTimezone
	}
	return time.LoadLocation(tz)
}

// UsesSQLite reports whether the SQLite database must be opened.
func (c AppConfig) UsesSQLite() bool {
	return c.Tracks.Store == "sqlite" || c.Storage.RecordRuns
}

// UpstreamOptions maps the upstream section onto transport options.
func (c AppConfig) UpstreamOptions() upstream.Options {
	u := c.Upstream
	return upstream.Options{
		Mode:               u.Mode,
		CSVURL:             u.CSVURL,
		Query:              u.Query,
		CredentialsInQuery: u.CredentialsInQuery,
		AuthURL:            u.AuthURL,
		LiveDataURL:        u.LiveDataURL,
		TokenParam:         u.TokenParam,
		FilePath:           u.FilePath,
		FileFormat:         telemetry.Format(u.FileFormat),
		Username:           u.Username,
		Password:           u.Password,
		Timeout:            time.Duration(u.TimeoutMS) * time.Millisecond,
		UserAgent:          u.UserAgent,
		InsecureSkipVerify: u.InsecureSkipVerify,
		PinnedCertSHA256:   u.PinnedCertSHA256,
	}
}

// ResolverOptions merges the resolver section over resolver.DefaultOptions.
func (c AppConfig) ResolverOptions() (resolver.Options, error) {
	opts := resolver.DefaultOptions()
	r := c.Resolver
	if r.Bounds != nil {
		b, err := geo.NewBounds(r.Bounds.MinLat, r.Bounds.MaxLat, r.Bounds.MinLng, r.Bounds.MaxLng)
		if err != nil {
			return resolver.Options{}, err
		}
		opts.Bounds = b
	}
	for id, p := range r.Overrides {
		opts.Overrides[resolver.NormalizeVehicleID(id)] = resolver.FieldPair{Lat: p.Lat, Lng: p.Lng}
	}
	if len(r.KnownPairs) > 0 {
		opts.KnownPairs = opts.KnownPairs[:0:0]
		for _, p := range r.KnownPairs {
			opts.KnownPairs = append(opts.KnownPairs, resolver.FieldPair{Lat: p.Lat, Lng: p.Lng})
		}
	}
	if len(r.WindowFields) > 0 {
		opts.WindowFields = r.WindowFields
	}
	if len(r.MisplacedFields) > 0 {
		opts.MisplacedFields = r.MisplacedFields
	}
	return opts, nil
}
