package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readEntries(t *testing.T, data []byte) []map[string]any {
	t.Helper()

	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("failed to parse log line %q: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestNewLogger(t *testing.T) {
	t.Run("creates debug.log in the log directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "state", "gvo")

		logger, err := NewLogger(Options{Dir: dir, Level: LevelDebug})
		if err != nil {
			t.Fatalf("NewLogger failed: %v", err)
		}
		defer logger.Close()

		logPath := filepath.Join(dir, FileName)
		if _, err := os.Stat(logPath); os.IsNotExist(err) {
			t.Errorf("log file was not created at %s", logPath)
		}
	})

	t.Run("writes to stderr when dir is empty", func(t *testing.T) {
		logger, err := NewLogger(Options{Level: LevelInfo})
		if err != nil {
			t.Fatalf("NewLogger failed: %v", err)
		}
		defer logger.Close()

		if logger.file != nil {
			t.Error("expected file to be nil when dir is empty")
		}
	})

	t.Run("appends across invocations", func(t *testing.T) {
		dir := t.TempDir()

		for i := 0; i < 2; i++ {
			logger, err := NewLogger(Options{Dir: dir, Level: LevelInfo})
			if err != nil {
				t.Fatalf("NewLogger failed: %v", err)
			}
			logger.Info("run")
			if err := logger.Close(); err != nil {
				t.Fatalf("Close failed: %v", err)
			}
		}

		content, err := os.ReadFile(filepath.Join(dir, FileName))
		if err != nil {
			t.Fatalf("failed to read log file: %v", err)
		}
		if got := len(readEntries(t, content)); got != 2 {
			t.Errorf("expected 2 entries, got %d", got)
		}
	})
}

func TestNewLogger_Rotation(t *testing.T) {
	t.Run("rotates an oversized log at open", func(t *testing.T) {
		dir := t.TempDir()
		logPath := filepath.Join(dir, FileName)
		big := bytes.Repeat([]byte("x"), 1024*1024+1)
		if err := os.WriteFile(logPath, big, 0644); err != nil {
			t.Fatal(err)
		}

		logger, err := NewLogger(Options{Dir: dir, Level: LevelInfo, MaxSizeMB: 1})
		if err != nil {
			t.Fatalf("NewLogger failed: %v", err)
		}
		logger.Info("fresh")
		logger.Close()

		backup, err := os.Stat(logPath + ".1")
		if err != nil {
			t.Fatalf("expected backup file: %v", err)
		}
		if backup.Size() != int64(len(big)) {
			t.Errorf("backup size = %d, want %d", backup.Size(), len(big))
		}

		content, err := os.ReadFile(logPath)
		if err != nil {
			t.Fatal(err)
		}
		if entries := readEntries(t, content); len(entries) != 1 {
			t.Errorf("expected 1 entry in fresh log, got %d", len(entries))
		}
	})

	t.Run("keeps a small log", func(t *testing.T) {
		dir := t.TempDir()
		logPath := filepath.Join(dir, FileName)
		if err := os.WriteFile(logPath, []byte("{}\n"), 0644); err != nil {
			t.Fatal(err)
		}

		logger, err := NewLogger(Options{Dir: dir, Level: LevelInfo, MaxSizeMB: 1})
		if err != nil {
			t.Fatalf("NewLogger failed: %v", err)
		}
		logger.Close()

		if _, err := os.Stat(logPath + ".1"); !os.IsNotExist(err) {
			t.Errorf("expected no backup file, stat err = %v", err)
		}
	})

	t.Run("zero disables rotation", func(t *testing.T) {
		dir := t.TempDir()
		logPath := filepath.Join(dir, FileName)
		if err := os.WriteFile(logPath, bytes.Repeat([]byte("x"), 2048), 0644); err != nil {
			t.Fatal(err)
		}

		if err := rotateIfLarge(logPath, 0); err != nil {
			t.Fatalf("rotateIfLarge failed: %v", err)
		}
		if _, err := os.Stat(logPath + ".1"); !os.IsNotExist(err) {
			t.Errorf("expected no backup file, stat err = %v", err)
		}
	})
}

func TestLogLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, LevelWarn)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message", "key", "value")
	logger.Error("error message", "key", "value")

	entries := readEntries(t, buf.Bytes())
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries at WARN, got %d", len(entries))
	}
	if entries[0]["level"] != "WARN" || entries[1]["level"] != "ERROR" {
		t.Errorf("unexpected levels: %v, %v", entries[0]["level"], entries[1]["level"])
	}
	if entries[0]["key"] != "value" {
		t.Errorf("key = %v, want value", entries[0]["key"])
	}
}

func TestLogger_PersistentAttrs(t *testing.T) {
	var buf bytes.Buffer
	base := NewWriterLogger(&buf, LevelDebug)

	log := base.WithInvocation(4242).WithPhase("probe").With("server", "GVIM")
	log.Info("server found")
	base.Info("untagged")

	entries := readEntries(t, buf.Bytes())
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	tagged := entries[0]
	if tagged["invocation"] != float64(4242) {
		t.Errorf("invocation = %v, want 4242", tagged["invocation"])
	}
	if tagged["phase"] != "probe" {
		t.Errorf("phase = %v, want probe", tagged["phase"])
	}
	if tagged["server"] != "GVIM" {
		t.Errorf("server = %v, want GVIM", tagged["server"])
	}

	if _, ok := entries[1]["phase"]; ok {
		t.Error("parent logger should not carry child attributes")
	}
}

func TestLogger_WithIgnoresNonStringKeys(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, LevelInfo)

	logger.With(42, "dropped", "kept", true).Info("msg")

	entries := readEntries(t, buf.Bytes())
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0]["kept"] != true {
		t.Errorf("kept = %v, want true", entries[0]["kept"])
	}
	if logger.With() != logger {
		t.Error("With() without args should return the same logger")
	}
}

func TestNopLogger(t *testing.T) {
	logger := NopLogger()
	logger.Error("discarded")
	if err := logger.Close(); err != nil {
		t.Errorf("Close() = %v, want nil", err)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"Warn", LevelWarn},
		{"error", LevelError},
		{"verbose", LevelInfo},
		{"", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
