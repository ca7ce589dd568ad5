package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesStructuredLines(t *testing.T) {
	logsDir := t.TempDir()
	logger, err := New(logsDir, Options{})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info().Str("scenario", "parking-exit").Msg("run started")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(logsDir, logFileName))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := strings.TrimSpace(string(data))
	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", line, err)
	}
	if entry["scenario"] != "parking-exit" || entry["message"] != "run started" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if _, ok := entry["time"]; !ok {
		t.Fatalf("expected timestamp field, got %v", entry)
	}
}

func TestNewRespectsLevel(t *testing.T) {
	logsDir := t.TempDir()
	logger, err := New(logsDir, Options{Level: "warn"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info().Msg("filtered out")
	logger.Warn().Msg("kept")
	logger.Close()

	data, err := os.ReadFile(filepath.Join(logsDir, logFileName))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	content := string(data)
	if strings.Contains(content, "filtered out") {
		t.Fatalf("info line should have been dropped: %s", content)
	}
	if !strings.Contains(content, "kept") {
		t.Fatalf("warn line missing: %s", content)
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New(t.TempDir(), Options{Level: "shouty"}); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
