package storage

import (
	"context"
	"fmt"
	"time"
)

// Run status values
const (
	RunSucceeded = "succeeded"
	RunFailed    = "failed"
)

// RunRecord is one row of run history
type RunRecord struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Status     string
	Raw        int
	Valid      int
	Unresolved int
	MissingID  int
	Message    string
}

// InsertRun records a finished run.
func (d *DB) InsertRun(ctx context.Context, r RunRecord) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, finished_at, status, raw, valid, unresolved, missing_id, message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.StartedAt.UTC().Format(time.RFC3339Nano), r.FinishedAt.UTC().Format(time.RFC3339Nano),
		r.Status, r.Raw, r.Valid, r.Unresolved, r.MissingID, r.Message)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", r.ID, err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (d *DB) RecentRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, started_at, finished_at, status, raw, valid, unresolved, missing_id, message
		FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var (
			r                 RunRecord
			started, finished string
		)
		if err := rows.Scan(&r.ID, &started, &finished, &r.Status, &r.Raw, &r.Valid, &r.Unresolved, &r.MissingID, &r.Message); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		r.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished)
		out = append(out, r)
	}
	return out, rows.Err()
}
