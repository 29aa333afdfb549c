// Package testutil provides shared helpers for tests that exercise agent
// CLI invocation against fake executables.
package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
)

// SetupWorkDir creates a temporary shared working directory pre-populated
// with the given files. Keys are paths relative to the directory root.
func SetupWorkDir(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create directory for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	return dir
}

// WriteAgentScript writes an executable shell script standing in for a
// backend CLI and returns its path. The body runs under sh with the
// invocation's arguments in "$@".
func WriteAgentScript(t *testing.T, name, body string) string {
	t.Helper()

	SkipIfNoSh(t)

	path := filepath.Join(t.TempDir(), name)
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatalf("failed to write agent script: %v", err)
	}
	return path
}

// SkipIfNoSh skips the test when no POSIX shell is available.
func SkipIfNoSh(t *testing.T) {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("skipping: requires a POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("skipping: sh not found in PATH")
	}
}
