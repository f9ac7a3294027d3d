// Package testutil provides testing utilities for gvo tests.
package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

// WriteTree creates files below dir. The files map contains relative paths
// to file contents. Returns dir for chaining.
func WriteTree(t *testing.T, dir string, files map[string]string) string {
	t.Helper()

	for path, content := range files {
		fullPath := filepath.Join(dir, path)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			t.Fatalf("failed to create directory for %s: %v", path, err)
		}
		if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write file %s: %v", path, err)
		}
	}
	return dir
}

// WriteScript writes an executable shell script named name into dir and
// returns its path. The body is placed after a /bin/sh shebang.
// Skips the test on Windows.
func WriteScript(t *testing.T, dir, name, body string) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755); err != nil {
		t.Fatalf("failed to write script %s: %v", name, err)
	}
	return path
}

// WaitForFile polls until path exists and is non-empty, then returns its
// contents. Fails the test after timeout.
func WaitForFile(t *testing.T, path string, timeout time.Duration) []byte {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for {
		data, err := os.ReadFile(path)
		if err == nil && len(data) > 0 {
			return data
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", path)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// SkipIfNoGvim skips the test if gvim is not available or cannot reach a
// display.
func SkipIfNoGvim(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath("gvim"); err != nil {
		t.Skip("gvim not available")
	}
	if runtime.GOOS == "linux" && os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
		t.Skip("no display for gvim")
	}
}
