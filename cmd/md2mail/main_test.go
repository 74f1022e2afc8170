package main

// Notes:
// - runMain: we test exit codes and observable output for each command,
//   using a fixed clock and captured stdout/stderr.
// - Signal handling is not exercised; notifyContext is a thin wrapper over
//   signal.NotifyContext.

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestRunMain_Dispatch - Command dispatch and exit codes
// ---------------------------------------------------------------------------

func TestRunMain_Dispatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{name: "no command", args: []string{"md2mail"}, wantCode: ExitUsage, wantStderr: "Usage: md2mail"},
		{name: "unknown command", args: []string{"md2mail", "send"}, wantCode: ExitUsage, wantStderr: "unknown command: send"},
		{name: "version", args: []string{"md2mail", "version"}, wantCode: ExitSuccess, wantStdout: "md2mail dev"},
		{name: "help", args: []string{"md2mail", "help"}, wantCode: ExitSuccess, wantStdout: "Commands:"},
		{name: "help email", args: []string{"md2mail", "help", "email"}, wantCode: ExitSuccess, wantStdout: "md2mail email <issue.md>"},
		{name: "help unknown", args: []string{"md2mail", "help", "nope"}, wantCode: ExitUsage, wantStderr: "unknown command: nope"},
		{name: "command --help", args: []string{"md2mail", "html", "--help"}, wantCode: ExitSuccess, wantStderr: "md2mail html <issue.md>"},
		{name: "unknown flag", args: []string{"md2mail", "html", "--page-size", "a4"}, wantCode: ExitUsage, wantStderr: "error:"},
		{name: "missing input", args: []string{"md2mail", "email"}, wantCode: ExitUsage, wantStderr: "no input file"},
		{name: "two inputs", args: []string{"md2mail", "check", "a.md", "b.md"}, wantCode: ExitUsage, wantStderr: "exactly one input"},
		{name: "wrong extension", args: []string{"md2mail", "html", "issue.txt"}, wantCode: ExitUsage, wantStderr: ".md or .markdown"},
		{name: "missing file", args: []string{"md2mail", "html", "/nonexistent/issue.md"}, wantCode: ExitIO, wantStderr: "failed to read issue file"},
		{name: "unknown style", args: []string{"md2mail", "html", "--style", "neon", "x.md"}, wantCode: ExitUsage, wantStderr: "hint: available: default, plain"},
		{name: "bad completion shell", args: []string{"md2mail", "completion", "tcsh"}, wantCode: ExitUsage, wantStderr: "unsupported shell"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv(nil)
			code := runMain(tt.args, env)

			if code != tt.wantCode {
				t.Errorf("runMain() = %d, want %d\nstderr: %s", code, tt.wantCode, stderr)
			}
			if tt.wantStdout != "" && !strings.Contains(stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want it to contain %q", stdout, tt.wantStdout)
			}
			if tt.wantStderr != "" && !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want it to contain %q", stderr, tt.wantStderr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunMain_HTML - Preview rendering
// ---------------------------------------------------------------------------

func TestRunMain_HTML(t *testing.T) {
	t.Parallel()

	dir, issuePath := issueDir(t)
	env, _, stderr := testEnv(nil)

	if code := runMain([]string{"md2mail", "html", issuePath}, env); code != ExitSuccess {
		t.Fatalf("runMain() = %d, stderr: %s", code, stderr)
	}

	out, err := os.ReadFile(filepath.Join(dir, "issue.html"))
	if err != nil {
		t.Fatalf("expected issue.html next to the input: %v", err)
	}
	html := string(out)
	for _, want := range []string{"Security Tip", `href="http://example.com/something"`, `src="logo.png"`} {
		if !strings.Contains(html, want) {
			t.Errorf("HTML missing %q", want)
		}
	}
	if !strings.Contains(stderr.String(), "created preview") {
		t.Errorf("stderr = %q, want info log", stderr)
	}
}

func TestRunMain_HTML_OutputDirFromEnv(t *testing.T) {
	t.Parallel()

	_, issuePath := issueDir(t)
	outDir := filepath.Join(t.TempDir(), "previews")
	env, _, stderr := testEnv(map[string]string{"MD2MAIL_OUTPUT_DIR": outDir})

	if code := runMain([]string{"md2mail", "html", "-q", issuePath}, env); code != ExitSuccess {
		t.Fatalf("runMain() = %d, stderr: %s", code, stderr)
	}
	if _, err := os.Stat(filepath.Join(outDir, "issue.html")); err != nil {
		t.Errorf("expected output in MD2MAIL_OUTPUT_DIR: %v", err)
	}
	if stderr.Len() != 0 {
		t.Errorf("--quiet should suppress info logs, got %q", stderr)
	}
}

// ---------------------------------------------------------------------------
// TestRunMain_Email - MIME output
// ---------------------------------------------------------------------------

func TestRunMain_Email_Stdout(t *testing.T) {
	t.Parallel()

	_, issuePath := issueDir(t)
	env, stdout, stderr := testEnv(nil)

	args := []string{"md2mail", "email", issuePath, "--from-name", "Frontiers Team", "--from-email", "news@example.com"}
	if code := runMain(args, env); code != ExitSuccess {
		t.Fatalf("runMain() = %d, stderr: %s", code, stderr)
	}

	msg := stdout.String()
	for _, want := range []string{
		"Subject: Frontiers Fortnightly #7",
		"news@example.com",
		"Content-ID: <",
		"multipart/related",
		"text/plain",
		"text/html",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q", want)
		}
	}
	if strings.Count(msg, "Content-ID: <") != 1 {
		t.Errorf("want exactly one inline image part, message:\n%s", msg)
	}
	if !strings.Contains(stderr.String(), "missing-dimensions") {
		t.Errorf("stderr = %q, want image advisory", stderr)
	}
}

func TestRunMain_Email_File(t *testing.T) {
	t.Parallel()

	dir, issuePath := issueDir(t)
	out := filepath.Join(dir, "out", "issue-7.eml")
	env, stdout, stderr := testEnv(nil)

	if code := runMain([]string{"md2mail", "email", "-o", out, "--subject", "Hello", issuePath}, env); code != ExitSuccess {
		t.Fatalf("runMain() = %d, stderr: %s", code, stderr)
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout should be empty when writing a file, got %d bytes", stdout.Len())
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !strings.Contains(string(data), "Subject: Hello") {
		t.Error("--subject should override the derived subject")
	}
}

func TestRunMain_Email_ParseErrorWritesNothing(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{
		"broken.md": "issue: 7\n\nIntro.\n\n# Tip\nNo link here.\n",
	})
	out := filepath.Join(dir, "broken.eml")
	env, stdout, stderr := testEnv(nil)

	code := runMain([]string{"md2mail", "email", "-o", out, filepath.Join(dir, "broken.md")}, env)
	if code != ExitDocument {
		t.Errorf("runMain() = %d, want %d", code, ExitDocument)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("no output file should be written on a parse error")
	}
	if stdout.Len() != 0 {
		t.Error("nothing should be written to stdout on a parse error")
	}
	if !strings.Contains(stderr.String(), `end story "Tip"`) {
		t.Errorf("stderr = %q, want missing-link hint", stderr)
	}
}

// ---------------------------------------------------------------------------
// TestRunMain_Check - Dry run report
// ---------------------------------------------------------------------------

func TestRunMain_Check_JSON(t *testing.T) {
	t.Parallel()

	_, issuePath := issueDir(t)
	env, stdout, stderr := testEnv(nil)

	if code := runMain([]string{"md2mail", "check", "--json", issuePath}, env); code != ExitSuccess {
		t.Fatalf("runMain() = %d, stderr: %s", code, stderr)
	}

	var report checkReport
	if err := json.Unmarshal(stdout.Bytes(), &report); err != nil {
		t.Fatalf("invalid JSON report: %v\n%s", err, stdout)
	}
	if report.Issue != 7 || len(report.Stories) != 2 || len(report.Images) != 1 {
		t.Errorf("report = %+v", report)
	}
	if report.Status != statusWarnings {
		t.Errorf("Status = %q, want %q", report.Status, statusWarnings)
	}
}

func TestRunMain_Check_ParseError(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{"bad.md": "issue: zero\n\nIntro.\n"})
	env, stdout, _ := testEnv(nil)

	code := runMain([]string{"md2mail", "check", filepath.Join(dir, "bad.md")}, env)
	if code != ExitDocument {
		t.Errorf("runMain() = %d, want %d", code, ExitDocument)
	}
	if !strings.Contains(stdout.String(), "[ERROR]") {
		t.Errorf("stdout = %q, want error report", stdout)
	}
}

// ---------------------------------------------------------------------------
// TestRunMain_Config - Config file and environment
// ---------------------------------------------------------------------------

func TestRunMain_ConfigFile(t *testing.T) {
	t.Parallel()

	dir, issuePath := issueDir(t)
	cfgPath := filepath.Join(dir, "news.yaml")
	cfg := "sender:\n  name: Config Sender\n  email: config@example.com\nemail:\n  domain: news.example.com\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	env, stdout, stderr := testEnv(map[string]string{"MD2MAIL_FROM_EMAIL": "env@example.com"})
	if code := runMain([]string{"md2mail", "email", "-c", cfgPath, issuePath}, env); code != ExitSuccess {
		t.Fatalf("runMain() = %d, stderr: %s", code, stderr)
	}

	msg := stdout.String()
	if !strings.Contains(msg, "config@example.com") || strings.Contains(msg, "env@example.com") {
		t.Error("config file sender should win over MD2MAIL_FROM_EMAIL")
	}
	if !strings.Contains(msg, "@news.example.com>") {
		t.Error("Content-IDs should use the configured domain")
	}
}

func TestRunMain_ConfigNotFound(t *testing.T) {
	t.Parallel()

	env, _, stderr := testEnv(nil)
	code := runMain([]string{"md2mail", "html", "-c", "/nonexistent/news.yaml", "issue.md"}, env)
	if code != ExitUsage {
		t.Errorf("runMain() = %d, want %d", code, ExitUsage)
	}
	if !strings.Contains(stderr.String(), "config file not found") {
		t.Errorf("stderr = %q", stderr)
	}
}
