package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]string{"": "info", "DEBUG": "debug", "warning": "warn", "error": "error"}
	for in, want := range tests {
		got, err := ParseLevel(in)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", in, err)
		}
		if got.String() != want {
			t.Fatalf("ParseLevel(%q) = %s, want %s", in, got, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tuivoc.log")
	logger, err := New(Options{Path: path, Level: "debug"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Debug("session saved", zap.String("session_id", "abc"))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"session_id":"abc"`) {
		t.Fatalf("log missing field: %s", data)
	}
}

func TestNewRequiresPath(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
