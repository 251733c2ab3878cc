package internal

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// LockFileName is created in the output directory while a run is active.
const LockFileName = ".firetrack.lock"

// ErrLocked means another run holds the lock.
var ErrLocked = errors.New("another run is in progress")

// Lock is an exclusive lock file.
type Lock struct {
	path string
}

// AcquireLock creates dir/LockFileName exclusively. A lock older than
// staleAfter is assumed to belong to a crashed run and is replaced; a zero
// staleAfter never expires locks.
func AcquireLock(dir, runID string, staleAfter time.Duration) (*Lock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	path := filepath.Join(dir, LockFileName)
	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			_, werr := fmt.Fprintf(f, "%d %s %d\n", os.Getpid(), runID, time.Now().Unix())
			cerr := f.Close()
			if werr != nil || cerr != nil {
				_ = os.Remove(path)
				return nil, fmt.Errorf("write lock file: %w", errors.Join(werr, cerr))
			}
			return &Lock{path: path}, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create lock file: %w", err)
		}
		if attempt > 0 || !stale(path, staleAfter) {
			return nil, fmt.Errorf("%w (lock %s held by %s)", ErrLocked, path, lockOwner(path))
		}
		log.Printf("removing stale lock %s held by %s", path, lockOwner(path))
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("remove stale lock: %w", err)
		}
	}
	return nil, ErrLocked
}

// Release removes the lock file.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func stale(path string, staleAfter time.Duration) bool {
	if staleAfter <= 0 {
		return false
	}
	fi, err := os.Stat(path)
	if err != nil {
		return errors.Is(err, os.ErrNotExist)
	}
	return time.Since(fi.ModTime()) > staleAfter
}

func lockOwner(path string) string {
	b, err := os.ReadFile(path)
	if err != nil {
		return "unknown"
	}
	parts := strings.Fields(string(b))
	if len(parts) < 2 {
		return "unknown"
	}
	if _, err := strconv.Atoi(parts[0]); err != nil {
		return "unknown"
	}
	return "pid " + parts[0] + " run " + parts[1]
}
