package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNewWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "upkeep.log")

	log, cleanup, err := New(Options{Path: path, Level: "debug"})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	log.Info("check finished", zap.Int("upgrades", 2))
	cleanup()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(data))), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v\n%s", err, data)
	}
	if entry["message"] != "check finished" {
		t.Errorf("message = %v", entry["message"])
	}
	if entry["level"] != "info" {
		t.Errorf("level = %v", entry["level"])
	}
	if entry["upgrades"] != float64(2) {
		t.Errorf("upgrades = %v", entry["upgrades"])
	}
	if entry["logger"] != "upkeep" {
		t.Errorf("logger = %v", entry["logger"])
	}
}

func TestNewLevelFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "upkeep.log")

	log, cleanup, err := New(Options{Path: path, Level: "warn"})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	log.Info("dropped")
	log.Warn("kept")
	cleanup()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if strings.Contains(string(data), "dropped") {
		t.Error("info entry should be filtered at warn level")
	}
	if !strings.Contains(string(data), "kept") {
		t.Error("warn entry should be written")
	}
}

func TestNewInvalidLevel(t *testing.T) {
	if _, _, err := New(Options{Level: "loud"}); err == nil {
		t.Error("New() should reject an unknown level")
	}
}

func TestNewWithoutSinks(t *testing.T) {
	log, cleanup, err := New(Options{})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer cleanup()

	if log.Core().Enabled(zap.ErrorLevel) {
		t.Error("a logger without sinks should discard everything")
	}
}
