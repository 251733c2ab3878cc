package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/goafire/firetrack/geojson"
	"github.com/goafire/firetrack/storage"
	"github.com/goafire/firetrack/utils"
)

// SQLiteStore keeps track documents in the daily_tracks table.
type SQLiteStore struct {
	db  *storage.DB
	now func() time.Time
}

// NewSQLiteStore wraps an open database.
func NewSQLiteStore(db *storage.DB) *SQLiteStore {
	return &SQLiteStore{db: db, now: time.Now}
}

// Load reads date's document. Undecodable content is copied to
// daily_tracks_corrupt before ErrCorruptTrack is returned.
func (s *SQLiteStore) Load(ctx context.Context, date string) (*geojson.TrackCollection, error) {
	if _, err := utils.ParseDayKey(date); err != nil {
		return nil, err
	}
	doc, err := s.db.GetTrack(ctx, date)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrTrackNotFound
	}
	if err != nil {
		return nil, err
	}
	tc, decodeErr := decodeTrack(doc)
	if decodeErr == nil {
		return tc, nil
	}
	if err := s.db.QuarantineTrack(ctx, date, doc, s.now()); err != nil {
		log.Printf("tracks: could not preserve corrupt %s: %v", date, err)
	}
	return nil, fmt.Errorf("%w: %s: %v", ErrCorruptTrack, date, decodeErr)
}

// Save replaces date's document.
func (s *SQLiteStore) Save(ctx context.Context, date string, tc *geojson.TrackCollection) error {
	if _, err := utils.ParseDayKey(date); err != nil {
		return err
	}
	data, err := json.Marshal(tc)
	if err != nil {
		return fmt.Errorf("encode track %s: %w", date, err)
	}
	return s.db.PutTrack(ctx, date, data, s.now())
}
