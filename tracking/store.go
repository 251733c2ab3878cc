package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/goafire/firetrack/geojson"
	"github.com/goafire/firetrack/internal"
	"github.com/goafire/firetrack/utils"
)

var (
	// ErrTrackNotFound means no track exists yet for the date.
	ErrTrackNotFound = errors.New("track not found")
	// ErrCorruptTrack means stored content exists but cannot be decoded.
	ErrCorruptTrack = errors.New("corrupt track")
)

// Store persists one track collection per date key (YYYYMMDD).
type Store interface {
	Load(ctx context.Context, date string) (*geojson.TrackCollection, error)
	Save(ctx context.Context, date string, tc *geojson.TrackCollection) error
}

// DefaultFilePrefix names track files tracks_YYYYMMDD.geojson.
const DefaultFilePrefix = "tracks_"

// FileStore keeps each day in its own GeoJSON file under Dir.
type FileStore struct {
	Dir    string
	Prefix string

	now func() time.Time
}

// NewFileStore creates a file store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir, Prefix: DefaultFilePrefix, now: time.Now}
}

// Path returns the file holding date's track.
func (s *FileStore) Path(date string) (string, error) {
	if _, err := utils.ParseDayKey(date); err != nil {
		return "", err
	}
	return filepath.Join(s.Dir, s.Prefix+date+".geojson"), nil
}

// Load reads date's track. An unparseable file is renamed to
// <name>.corrupt-<unix> so its points are not lost when a fresh track is
// written, and ErrCorruptTrack is returned.
func (s *FileStore) Load(_ context.Context, date string) (*geojson.TrackCollection, error) {
	path, err := s.Path(date)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrTrackNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	tc, decodeErr := decodeTrack(data)
	if decodeErr == nil {
		return tc, nil
	}
	aside := fmt.Sprintf("%s.corrupt-%d", path, s.now().Unix())
	if err := os.Rename(path, aside); err != nil {
		log.Printf("tracks: could not preserve corrupt %s: %v", path, err)
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptTrack, path, decodeErr)
	}
	return nil, fmt.Errorf("%w: %s (preserved as %s): %v", ErrCorruptTrack, path, aside, decodeErr)
}

// Save replaces date's file atomically.
func (s *FileStore) Save(_ context.Context, date string, tc *geojson.TrackCollection) error {
	path, err := s.Path(date)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(tc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode track %s: %w", date, err)
	}
	return internal.WriteFileAtomic(path, data, 0o644)
}

func decodeTrack(data []byte) (*geojson.TrackCollection, error) {
	var tc geojson.TrackCollection
	if err := json.Unmarshal(data, &tc); err != nil {
		return nil, err
	}
	if tc.Type != geojson.TypeFeatureCollection {
		return nil, fmt.Errorf("unexpected type %q", tc.Type)
	}
	return &tc, nil
}
