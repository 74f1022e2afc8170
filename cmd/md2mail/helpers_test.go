package main

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"
)

var testNow = time.Date(2024, time.March, 5, 9, 30, 0, 0, time.UTC)

const testIssue = `issue: 7
title: Frontiers Fortnightly

Frontiers Fortnightly will be taking a break until next semester.

# Security Tip
Don't leave your cards in your pocket.
![Logo](logo.png)
[Learn more](http://example.com/something)

# Cool 3D Prints!
Coming soon to regular 3D printers.
[Learn more](http://example.com/3d-printing-blah)
`

var testPNG = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\x0dIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

// testEnv returns an Environment with captured output and a fixed clock.
func testEnv(vars map[string]string) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	env := &Environment{
		Now:    func() time.Time { return testNow },
		Stdout: &stdout,
		Stderr: &stderr,
		Getenv: func(key string) string { return vars[key] },
		Environ: func() []string {
			kv := make([]string, 0, len(vars))
			for k, v := range vars {
				kv = append(kv, k+"="+v)
			}
			sort.Strings(kv)
			return kv
		},
	}
	return env, &stdout, &stderr
}

// setupTestDir creates a temp directory with the given files.
func setupTestDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()

	for path, content := range files {
		full := filepath.Join(dir, path)
		if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
			t.Fatalf("failed to create dir for %s: %v", path, err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", path, err)
		}
	}
	return dir
}

// issueDir creates a directory holding issue.md and the logo it references.
func issueDir(t *testing.T) (dir, issuePath string) {
	t.Helper()
	dir = setupTestDir(t, map[string]string{
		"issue.md": testIssue,
		"logo.png": string(testPNG),
	})
	return dir, filepath.Join(dir, "issue.md")
}
