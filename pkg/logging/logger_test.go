package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestJSONLoggerWritesFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, FormatJSON, true).With("estimator")

	log.Debug("pair skipped", Fields{"w0": 2000.0})

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to decode log line %q: %v", buf.String(), err)
	}
	if entry["level"] != "debug" {
		t.Errorf("Expected level debug, got %v", entry["level"])
	}
	if entry["component"] != "estimator" {
		t.Errorf("Expected component estimator, got %v", entry["component"])
	}
	if entry["w0"] != 2000.0 {
		t.Errorf("Expected w0 2000, got %v", entry["w0"])
	}
	if entry["message"] != "pair skipped" {
		t.Errorf("Expected message 'pair skipped', got %v", entry["message"])
	}
}

func TestDebugSuppressedWhenNotVerbose(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, FormatJSON, false)

	log.Debug("hidden", nil)
	if buf.Len() != 0 {
		t.Errorf("Expected no output for debug entry, got %q", buf.String())
	}

	log.Error("load failed", errors.New("boom"), Fields{"file": "a.csv"})
	if !strings.Contains(buf.String(), "boom") {
		t.Errorf("Expected error text in output, got %q", buf.String())
	}
}

func TestNopLogger(t *testing.T) {
	log := Nop().With("x")
	log.Debug("a", nil)
	log.Info("b", Fields{"k": 1})
	log.Warn("c", nil)
	log.Error("d", errors.New("e"), nil)
}

func TestLevelsAndComponent(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, FormatJSON, false).With("loader")

	log.Info("read", nil)
	log.Warn("skipped", Fields{"points": 3})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 log lines, got %d: %q", len(lines), buf.String())
	}
	for i, want := range []string{"info", "warn"} {
		var entry map[string]interface{}
		if err := json.Unmarshal([]byte(lines[i]), &entry); err != nil {
			t.Fatalf("Failed to decode log line %q: %v", lines[i], err)
		}
		if entry["level"] != want {
			t.Errorf("Expected level %s, got %v", want, entry["level"])
		}
		if entry["component"] != "loader" {
			t.Errorf("Expected component loader, got %v", entry["component"])
		}
	}
}
