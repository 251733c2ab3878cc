package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), Config{Path: filepath.Join(t.TempDir(), "db", "firetrack.db")})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestOpen_MigrationsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "firetrack.db")
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		db, err := Open(ctx, Config{Path: path})
		if err != nil {
			t.Fatalf("open #%d: %v", i+1, err)
		}
		_ = db.Close()
	}
}

func TestOpen_EmptyPath(t *testing.T) {
	if _, err := Open(context.Background(), Config{}); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestTracks_PutGet(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)

	if _, err := db.GetTrack(ctx, "20260301"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := db.PutTrack(ctx, "20260301", []byte(`{"a":1}`), now); err != nil {
		t.Fatal(err)
	}
	if err := db.PutTrack(ctx, "20260301", []byte(`{"a":2}`), now); err != nil {
		t.Fatal(err)
	}
	if err := db.PutTrack(ctx, "20260228", []byte(`{"b":1}`), now); err != nil {
		t.Fatal(err)
	}
	doc, err := db.GetTrack(ctx, "20260301")
	if err != nil {
		t.Fatal(err)
	}
	if string(doc) != `{"a":2}` {
		t.Errorf("expected replaced document, got %s", doc)
	}
	if doc, err := db.GetTrack(ctx, "20260228"); err != nil || string(doc) != `{"b":1}` {
		t.Errorf("other date changed: %s, %v", doc, err)
	}
	if err := db.QuarantineTrack(ctx, "20260301", []byte("garbage"), now); err != nil {
		t.Errorf("quarantine: %v", err)
	}
}

func TestRuns_InsertAndList(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)

	for i, status := range []string{RunSucceeded, RunFailed} {
		r := RunRecord{
			ID:         []string{"a", "b"}[i],
			StartedAt:  base.Add(time.Duration(i) * time.Minute),
			FinishedAt: base.Add(time.Duration(i)*time.Minute + time.Second),
			Status:     status,
			Raw:        10,
			Valid:      8,
		}
		if err := db.InsertRun(ctx, r); err != nil {
			t.Fatal(err)
		}
	}
	runs, err := db.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != "b" || runs[0].Status != RunFailed {
		t.Errorf("expected newest first, got %+v", runs[0])
	}
	if !runs[1].StartedAt.Equal(base) || runs[1].Valid != 8 {
		t.Errorf("unexpected round trip %+v", runs[1])
	}
}
