package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func testDispatcherLogger() (*DispatcherLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewDispatcherLogger(zerolog.New(&buf)), &buf
}

func parseLogLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}
	return entry
}

func TestNewDispatcherLogger(t *testing.T) {
	dl, _ := testDispatcherLogger()
	if dl == nil {
		t.Fatal("expected non-nil DispatcherLogger")
	}
}

func TestDispatcherLogger_Debug(t *testing.T) {
	dl, buf := testDispatcherLogger()

	dl.Debug("test message", "key1", "value1", "key2", 42)

	entry := parseLogLine(t, buf)
	if entry["level"] != "debug" {
		t.Errorf("expected level 'debug', got %v", entry["level"])
	}
	if entry["message"] != "test message" {
		t.Errorf("expected message 'test message', got %v", entry["message"])
	}
	if entry["key1"] != "value1" {
		t.Errorf("expected key1='value1', got %v", entry["key1"])
	}
	if entry["key2"] != float64(42) { // JSON numbers are float64
		t.Errorf("expected key2=42, got %v", entry["key2"])
	}
}

func TestDispatcherLogger_Info(t *testing.T) {
	dl, buf := testDispatcherLogger()

	dl.Info("info message", "status", "ok")

	entry := parseLogLine(t, buf)
	if entry["level"] != "info" {
		t.Errorf("expected level 'info', got %v", entry["level"])
	}
	if entry["message"] != "info message" {
		t.Errorf("expected message 'info message', got %v", entry["message"])
	}
	if entry["status"] != "ok" {
		t.Errorf("expected status='ok', got %v", entry["status"])
	}
}

func TestDispatcherLogger_Error(t *testing.T) {
	dl, buf := testDispatcherLogger()

	dl.Error("error occurred", "code", 500, "reason", "internal")

	entry := parseLogLine(t, buf)
	if entry["level"] != "error" {
		t.Errorf("expected level 'error', got %v", entry["level"])
	}
	if entry["message"] != "error occurred" {
		t.Errorf("expected message 'error occurred', got %v", entry["message"])
	}
	if entry["code"] != float64(500) {
		t.Errorf("expected code=500, got %v", entry["code"])
	}
	if entry["reason"] != "internal" {
		t.Errorf("expected reason='internal', got %v", entry["reason"])
	}
}

func TestDispatcherLogger_NoKeyValues(t *testing.T) {
	dl, buf := testDispatcherLogger()

	dl.Debug("simple message")

	entry := parseLogLine(t, buf)
	if entry["message"] != "simple message" {
		t.Errorf("expected message 'simple message', got %v", entry["message"])
	}
}

func TestDispatcherLogger_OddKeyValues(t *testing.T) {
	dl, buf := testDispatcherLogger()

	// A trailing key with no value is dropped rather than panicking.
	dl.Info("odd pairs", "key1", "value1", "dangling")

	entry := parseLogLine(t, buf)
	if entry["key1"] != "value1" {
		t.Errorf("expected key1='value1', got %v", entry["key1"])
	}
	if _, ok := entry["dangling"]; ok {
		t.Error("expected dangling key to be dropped")
	}
}

func TestDispatcherLogger_ImplementsInterface(t *testing.T) {
	dl, _ := testDispatcherLogger()

	// Fails to compile if the adapter drifts from the dispatcher's
	// Logger interface.
	var _ interface {
		Debug(msg string, keysAndValues ...any)
		Info(msg string, keysAndValues ...any)
		Error(msg string, keysAndValues ...any)
	} = dl
}
