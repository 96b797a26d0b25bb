package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDebugHiddenWhenNotVerbose(t *testing.T) {
	var buf bytes.Buffer
	l := newWithWriter(false, &buf)

	l.Debug("hidden %d", 1)
	l.Info("shown %d", 2)

	out := buf.String()
	if strings.Contains(out, "hidden 1") {
		t.Errorf("debug message leaked to console: %q", out)
	}
	if !strings.Contains(out, "shown 2") {
		t.Errorf("info message missing from console: %q", out)
	}
}

func TestDebugShownWhenVerbose(t *testing.T) {
	var buf bytes.Buffer
	l := newWithWriter(true, &buf)

	l.Debug("details %s", "here")

	if !strings.Contains(buf.String(), "details here") {
		t.Errorf("expected debug output, got %q", buf.String())
	}
}

func TestFileLogReceivesDebugAsJSON(t *testing.T) {
	var buf bytes.Buffer
	l := newWithWriter(false, &buf)

	path := filepath.Join(t.TempDir(), "bot.log")
	if err := l.SetFileLog(path); err != nil {
		t.Fatalf("SetFileLog() error: %v", err)
	}

	l.With("track", "abc123").Debug("fetching")
	if err := l.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var entry map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(data), &entry); err != nil {
		t.Fatalf("file log line is not JSON: %q", data)
	}
	if entry["message"] != "fetching" {
		t.Errorf("message = %v, want %q", entry["message"], "fetching")
	}
	if entry["track"] != "abc123" {
		t.Errorf("track field = %v, want %q", entry["track"], "abc123")
	}
	if entry["level"] != "debug" {
		t.Errorf("level = %v, want debug", entry["level"])
	}
}

func TestWithDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	l := newWithWriter(true, &buf)

	_ = l.With("user", 42)
	l.Info("plain")

	if strings.Contains(buf.String(), "user=") {
		t.Errorf("parent logger picked up child field: %q", buf.String())
	}
}
