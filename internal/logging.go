package internal

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

// InitLogging sends the standard logger to stdout and, when path is set, to
// a log file truncated at the start of each run. Close the returned closer
// when the run ends.
func InitLogging(path string) (io.Closer, error) {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	log.SetPrefix("")
	if path == "" {
		log.SetOutput(os.Stdout)
		return io.NopCloser(nil), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.SetOutput(os.Stdout)
		return io.NopCloser(nil), fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		log.SetOutput(os.Stdout)
		return io.NopCloser(nil), fmt.Errorf("open log file: %w", err)
	}
	log.SetOutput(io.MultiWriter(os.Stdout, f))
	return f, nil
}

// SetRunPrefix tags subsequent log lines with the run id.
func SetRunPrefix(runID string) {
	if runID == "" {
		log.SetPrefix("")
		return
	}
	log.SetPrefix("[" + shortID(runID) + "] ")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
