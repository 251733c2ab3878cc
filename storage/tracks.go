package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when no row exists for the requested key.
var ErrNotFound = errors.New("storage: not found")

// GetTrack returns the stored track document for date.
func (d *DB) GetTrack(ctx context.Context, date string) ([]byte, error) {
	var doc string
	err := d.db.QueryRowContext(ctx, "SELECT document FROM daily_tracks WHERE date = ?", date).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get track %s: %w", date, err)
	}
	return []byte(doc), nil
}

// PutTrack replaces the track document for date.
func (d *DB) PutTrack(ctx context.Context, date string, doc []byte, now time.Time) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO daily_tracks (date, document, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at`,
		date, string(doc), now.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("put track %s: %w", date, err)
	}
	return nil
}

// QuarantineTrack copies an unparseable document aside before it is replaced.
func (d *DB) QuarantineTrack(ctx context.Context, date string, doc []byte, now time.Time) error {
	_, err := d.db.ExecContext(ctx,
		"INSERT INTO daily_tracks_corrupt (date, document, detected_at) VALUES (?, ?, ?)",
		date, string(doc), now.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("quarantine track %s: %w", date, err)
	}
	return nil
}
