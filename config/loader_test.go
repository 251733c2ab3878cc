package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const minimalYAML = `
upstream:
  mode: file
  filePath: testdata/capture.json
`

func TestParse_Defaults(t *testing.T) {
	t.Setenv(EnvUsername, "")
	t.Setenv(EnvPassword, "")

	cfg, err := Parse([]byte(minimalYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Upstream.TimeoutMS != DefaultTimeoutMS {
		t.Errorf("TimeoutMS = %d, want %d", cfg.Upstream.TimeoutMS, DefaultTimeoutMS)
	}
	if cfg.Output.SnapshotPath != DefaultSnapshotPath {
		t.Errorf("SnapshotPath = %q", cfg.Output.SnapshotPath)
	}
	if cfg.Output.TracksDir != "output" {
		t.Errorf("TracksDir = %q, want output", cfg.Output.TracksDir)
	}
	if cfg.Tracks.Store != "file" || cfg.Tracks.Timezone != DefaultTimezone {
		t.Errorf("Tracks = %+v", cfg.Tracks)
	}
	if cfg.Log.Path != filepath.Join("output", "firetrack.log") {
		t.Errorf("Log.Path = %q", cfg.Log.Path)
	}
	if cfg.UsesSQLite() {
		t.Error("file store without run history should not need SQLite")
	}
	t.Logf("✓ defaults applied")
}

func TestParse_EnvCredentials(t *testing.T) {
	t.Setenv(EnvUsername, "env-user")
	t.Setenv(EnvPassword, "env-pass")

	cfg, err := Parse([]byte(minimalYAML + "  username: file-user\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	opts := cfg.UpstreamOptions()
	if opts.Username != "env-user" || opts.Password != "env-pass" {
		t.Errorf("credentials = %q/%q, want env values", opts.Username, opts.Password)
	}
	if opts.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v", opts.Timeout)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing mode", "upstream:\n  filePath: x\n"},
		{"unknown mode", "upstream:\n  mode: ftp\n"},
		{"csv without url", "upstream:\n  mode: csv\n"},
		{"json without live url", "upstream:\n  mode: json\n"},
		{"bad url", "upstream:\n  mode: json\n  liveDataURL: not a url\n"},
		{"negative timeout", minimalYAML + "  timeoutMS: -1\n"},
		{"bad store", minimalYAML + "tracks:\n  store: s3\n"},
		{"bad timezone", minimalYAML + "tracks:\n  timezone: Mars/Olympus\n"},
		{"inverted bounds", minimalYAML + "resolver:\n  bounds: {minLat: 16, maxLat: 14.5, minLng: 73.5, maxLng: 74.5}\n"},
		{"short pin", minimalYAML + "  pinnedCertSHA256: abcd\n"},
		{"not yaml", "upstream: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yaml)); err == nil {
				t.Errorf("Parse succeeded, want error")
			}
		})
	}
}

func TestResolverOptions_MergesOverDefaults(t *testing.T) {
	cfg, err := Parse([]byte(minimalYAML + `
resolver:
  bounds: {minLat: 10, maxLat: 20, minLng: 70, maxLng: 80}
  overrides:
    "ga-01 x 1": {lat: AC, lng: Speed}
  windowFields: [A, B, C]
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	opts, err := cfg.ResolverOptions()
	if err != nil {
		t.Fatalf("ResolverOptions: %v", err)
	}
	if _, ok := opts.Bounds.Point(19.5, 79.5); !ok {
		t.Error("custom bounds not applied")
	}
	if p, ok := opts.Overrides["GA01X1"]; !ok || p.Lat != "AC" || p.Lng != "Speed" {
		t.Errorf("override = %+v, %v", p, ok)
	}
	if _, ok := opts.Overrides["GA07G0308"]; !ok {
		t.Error("default override lost")
	}
	if strings.Join(opts.WindowFields, ",") != "A,B,C" {
		t.Errorf("WindowFields = %v", opts.WindowFields)
	}
	if len(opts.KnownPairs) != 5 {
		t.Errorf("KnownPairs = %v, want defaults", opts.KnownPairs)
	}
}

func TestLoadAppConfig_PathList(t *testing.T) {
	t.Setenv(EnvUsername, "")
	t.Setenv(EnvPassword, "")
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(path, []byte(minimalYAML+"tracks:\n  store: sqlite\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := LoadAppConfig(filepath.Join(dir, "missing.yml"), path); err != nil {
		t.Fatalf("LoadAppConfig: %v", err)
	}
	if Config.Tracks.Store != "sqlite" {
		t.Errorf("Config.Tracks.Store = %q", Config.Tracks.Store)
	}
	if !Config.UsesSQLite() || Config.Storage.SQLitePath != filepath.Join("output", "firetrack.db") {
		t.Errorf("SQLitePath = %q", Config.Storage.SQLitePath)
	}

	err := LoadAppConfig(filepath.Join(dir, "nope.yml"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
