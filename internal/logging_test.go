package internal

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitLogging_TruncatesAndMirrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "run.log")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("previous run\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	closer, err := InitLogging(path)
	if err != nil {
		t.Fatalf("InitLogging: %v", err)
	}
	SetRunPrefix("0123456789abcdef")
	log.Printf("hello")
	SetRunPrefix("")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	_, _ = InitLogging("")

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	got := string(b)
	if strings.Contains(got, "previous run") {
		t.Error("log file was not truncated")
	}
	if !strings.Contains(got, "[01234567] ") || !strings.Contains(got, "hello") {
		t.Errorf("log content = %q", got)
	}
}
